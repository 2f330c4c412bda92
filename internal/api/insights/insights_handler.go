package insights

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/FACorreiaa/go-user-insights/internal/api"
	"github.com/FACorreiaa/go-user-insights/internal/api/users"
	"github.com/FACorreiaa/go-user-insights/internal/render"
	"github.com/FACorreiaa/go-user-insights/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	IncomeAndCar(w http.ResponseWriter, r *http.Request)
	GenderAndPhonePrice(w http.ResponseWriter, r *http.Request)
	NameQuoteEmail(w http.ResponseWriter, r *http.Request)
	CarAndDigitFreeEmail(w http.ResponseWriter, r *http.Request)
	TopCities(w http.ResponseWriter, r *http.Request)
	Report(w http.ResponseWriter, r *http.Request)
	EvaluateReport(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	service  Service
	defaults types.QueryDefaults
	logger   *slog.Logger
}

// NewHandlerImpl creates a new insights HandlerImpl. defaults fill in every
// parameter a request leaves out.
func NewHandlerImpl(service Service, defaults types.QueryDefaults, logger *slog.Logger) *HandlerImpl {
	if logger == nil {
		panic("insights: NewHandlerImpl called with nil logger")
	}
	return &HandlerImpl{
		service:  service,
		defaults: defaults,
		logger:   logger,
	}
}

// Routes mounts the insight endpoints on a fresh router.
func (h *HandlerImpl) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/income-car", h.IncomeAndCar)
	r.Get("/gender-phone", h.GenderAndPhonePrice)
	r.Get("/name-quote-email", h.NameQuoteEmail)
	r.Get("/car-digit-free-email", h.CarAndDigitFreeEmail)
	r.Get("/top-cities", h.TopCities)
	r.Get("/report", h.Report)
	r.Post("/report", h.EvaluateReport)
	return r
}

type usersResponse struct {
	Count int                `json:"count"`
	Users []types.UserRecord `json:"users"`
}

type citiesResponse struct {
	Count  int                   `json:"count"`
	Cities []types.CityAggregate `json:"cities"`
}

type reportTables struct {
	ID                   string       `json:"id"`
	Source               string       `json:"source"`
	TotalUsers           int          `json:"total_users"`
	IncomeAndCar         render.Table `json:"income_car"`
	GenderAndPhonePrice  render.Table `json:"gender_phone"`
	NameQuoteEmail       render.Table `json:"name_quote_email"`
	CarAndDigitFreeEmail render.Table `json:"car_digit_free_email"`
	TopCities            render.Table `json:"top_cities"`
}

// evaluateRequest keeps the records raw so they go through the same
// adapter and validation as every record source.
type evaluateRequest struct {
	Users json.RawMessage `json:"users" swaggertype:"array,object"`
}

// IncomeAndCar godoc
// @Summary      Users below an income threshold driving selected cars
// @Tags         Insights
// @Produce      json,html
// @Param        cars       query string false "Comma separated car brands"
// @Param        max_income query number false "Exclusive income ceiling"
// @Param        format     query string false "json, table or html"
// @Success      200 {object} usersResponse
// @Failure      400 {object} types.Response "Invalid parameters"
// @Failure      500 {object} types.Response "Internal Server Error"
// @Router       /insights/income-car [get]
func (h *HandlerImpl) IncomeAndCar(w http.ResponseWriter, r *http.Request) {
	p := newParamParser(r.URL.Query())
	out := p.outputFormat()
	params := types.IncomeAndCarParams{
		Cars:      p.list("cars", h.defaults.IncomeAndCar.Cars),
		MaxIncome: p.number("max_income", h.defaults.IncomeAndCar.MaxIncome),
	}
	if !h.validParams(w, r, p, params) {
		return
	}

	result, err := h.service.IncomeAndCar(r.Context(), params)
	if err != nil {
		h.queryError(w, r, types.QueryIncomeAndCar, err)
		return
	}
	h.writeUsers(w, r, out, "Users with income below threshold and selected cars", result)
}

// GenderAndPhonePrice godoc
// @Summary      Users of a gender with a phone above a price
// @Tags         Insights
// @Produce      json,html
// @Param        gender          query string false "male, female or other"
// @Param        min_phone_price query number false "Exclusive phone price floor"
// @Param        format          query string false "json, table or html"
// @Success      200 {object} usersResponse
// @Failure      400 {object} types.Response "Invalid parameters"
// @Failure      500 {object} types.Response "Internal Server Error"
// @Router       /insights/gender-phone [get]
func (h *HandlerImpl) GenderAndPhonePrice(w http.ResponseWriter, r *http.Request) {
	p := newParamParser(r.URL.Query())
	out := p.outputFormat()
	params := types.GenderAndPhonePriceParams{
		Gender:        types.Gender(strings.ToLower(p.text("gender", string(h.defaults.GenderAndPhonePrice.Gender)))),
		MinPhonePrice: p.number("min_phone_price", h.defaults.GenderAndPhonePrice.MinPhonePrice),
	}
	if !h.validParams(w, r, p, params) {
		return
	}

	result, err := h.service.GenderAndPhonePrice(r.Context(), params)
	if err != nil {
		h.queryError(w, r, types.QueryGenderAndPhonePrice, err)
		return
	}
	h.writeUsers(w, r, out, "Users by gender and phone price", result)
}

// NameQuoteEmail godoc
// @Summary      Users by last name prefix, quote length and email
// @Tags         Insights
// @Produce      json,html
// @Param        prefix           query string  false "Case sensitive last name prefix"
// @Param        min_quote_length query integer false "Exclusive quote length floor"
// @Param        format           query string  false "json, table or html"
// @Success      200 {object} usersResponse
// @Failure      400 {object} types.Response "Invalid parameters"
// @Failure      500 {object} types.Response "Internal Server Error"
// @Router       /insights/name-quote-email [get]
func (h *HandlerImpl) NameQuoteEmail(w http.ResponseWriter, r *http.Request) {
	p := newParamParser(r.URL.Query())
	out := p.outputFormat()
	params := types.NameQuoteEmailParams{
		Prefix:         p.text("prefix", h.defaults.NameQuoteEmail.Prefix),
		MinQuoteLength: p.integer("min_quote_length", h.defaults.NameQuoteEmail.MinQuoteLength),
	}
	if !h.validParams(w, r, p, params) {
		return
	}

	result, err := h.service.NameQuoteEmail(r.Context(), params)
	if err != nil {
		h.queryError(w, r, types.QueryNameQuoteEmail, err)
		return
	}
	h.writeUsers(w, r, out, "Users by last name, quote and email", result)
}

// CarAndDigitFreeEmail godoc
// @Summary      Users driving selected cars whose email has no digit
// @Tags         Insights
// @Produce      json,html
// @Param        cars   query string false "Comma separated car brands"
// @Param        format query string false "json, table or html"
// @Success      200 {object} usersResponse
// @Failure      400 {object} types.Response "Invalid parameters"
// @Failure      500 {object} types.Response "Internal Server Error"
// @Router       /insights/car-digit-free-email [get]
func (h *HandlerImpl) CarAndDigitFreeEmail(w http.ResponseWriter, r *http.Request) {
	p := newParamParser(r.URL.Query())
	out := p.outputFormat()
	params := types.CarAndDigitFreeEmailParams{
		Cars: p.list("cars", h.defaults.CarAndDigitFreeEmail.Cars),
	}
	if !h.validParams(w, r, p, params) {
		return
	}

	result, err := h.service.CarAndDigitFreeEmail(r.Context(), params)
	if err != nil {
		h.queryError(w, r, types.QueryCarAndDigitFreeEmail, err)
		return
	}
	h.writeUsers(w, r, out, "Users with selected cars and digit-free email", result)
}

// TopCities godoc
// @Summary      Cities with the most users
// @Tags         Insights
// @Produce      json,html
// @Param        limit  query integer false "Number of cities"
// @Param        scope  query string  false "Aggregate over one filter query's result"
// @Param        format query string  false "json, table or html"
// @Success      200 {object} citiesResponse
// @Failure      400 {object} types.Response "Invalid parameters"
// @Failure      500 {object} types.Response "Internal Server Error"
// @Router       /insights/top-cities [get]
func (h *HandlerImpl) TopCities(w http.ResponseWriter, r *http.Request) {
	p := newParamParser(r.URL.Query())
	out := p.outputFormat()
	params := types.TopCitiesParams{
		Limit: p.integer("limit", h.defaults.TopCities.Limit),
		Scope: types.QueryName(p.text("scope", string(h.defaults.TopCities.Scope))),
	}
	if !h.validParams(w, r, p, params) {
		return
	}

	cities, err := h.service.TopCities(r.Context(), params)
	if err != nil {
		h.queryError(w, r, types.QueryTopCities, err)
		return
	}

	switch out {
	case formatTable:
		api.WriteJSONResponse(w, r, http.StatusOK, render.CitiesTable(cities))
	case formatHTML:
		h.writeHTML(w, r, func(buf *bytes.Buffer) error {
			return render.HTML(buf, "Top cities by user count", render.CitiesTable(cities))
		})
	default:
		api.WriteJSONResponse(w, r, http.StatusOK, citiesResponse{Count: len(cities), Cities: cities})
	}
}

// Report godoc
// @Summary      Every insight over one snapshot of the source
// @Tags         Insights
// @Produce      json,html
// @Param        format query string false "json, table or html"
// @Success      200 {object} types.Report
// @Failure      500 {object} types.Response "Internal Server Error"
// @Router       /insights/report [get]
func (h *HandlerImpl) Report(w http.ResponseWriter, r *http.Request) {
	p := newParamParser(r.URL.Query())
	out := p.outputFormat()
	if !h.validParams(w, r, p, nil) {
		return
	}

	report, err := h.service.Report(r.Context(), h.defaults)
	if err != nil {
		h.queryError(w, r, types.QueryReport, err)
		return
	}
	h.writeReport(w, r, out, report)
}

// EvaluateReport godoc
// @Summary      Every insight over the records in the request body
// @Tags         Insights
// @Accept       json
// @Produce      json,html
// @Param        body   body  evaluateRequest true "Records to evaluate"
// @Param        format query string false "json, table or html"
// @Success      200 {object} types.Report
// @Failure      400 {object} types.Response "Invalid body"
// @Router       /insights/report [post]
func (h *HandlerImpl) EvaluateReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("HandlerImpl", "EvaluateReport"))

	p := newParamParser(r.URL.Query())
	out := p.outputFormat()
	if !h.validParams(w, r, p, nil) {
		return
	}

	var req evaluateRequest
	if err := api.DecodeJSONBody(w, r, &req, users.MaxPayloadBytes); err != nil {
		l.WarnContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Users) == 0 {
		api.ErrorResponse(w, r, http.StatusBadRequest, (&types.InputError{Index: -1, Reason: `body must contain a "users" array`}).Error())
		return
	}
	records, err := users.DecodeRecords(bytes.NewReader(req.Users))
	if err != nil {
		l.WarnContext(ctx, "Rejected supplied user records", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	report, err := h.service.EvaluateReport(ctx, records, h.defaults)
	if err != nil {
		if errors.Is(err, types.ErrInvalidInput) {
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
			return
		}
		h.queryError(w, r, types.QueryReport, err)
		return
	}
	h.writeReport(w, r, out, report)
}

func (h *HandlerImpl) validParams(w http.ResponseWriter, r *http.Request, p *paramParser, params any) bool {
	err := p.validateParams(params)
	if err == nil {
		return true
	}
	var perr *types.ParamsError
	if errors.As(err, &perr) {
		h.logger.DebugContext(r.Context(), "Rejected query parameters", slog.Any("details", perr.Details))
		api.ValidationErrorResponse(w, r, perr)
		return false
	}
	h.logger.ErrorContext(r.Context(), "Parameter validation failed", slog.Any("error", err))
	api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to validate parameters")
	return false
}

func (h *HandlerImpl) queryError(w http.ResponseWriter, r *http.Request, name types.QueryName, err error) {
	l := h.logger.With(slog.String("HandlerImpl", string(name)))
	l.ErrorContext(r.Context(), "Insight query failed", slog.Any("error", err))

	var perr *types.ParamsError
	switch {
	case errors.As(err, &perr):
		api.ValidationErrorResponse(w, r, perr)
	case errors.Is(err, types.ErrInvalidInput):
		api.ErrorResponse(w, r, http.StatusInternalServerError, "User records are invalid")
	case errors.Is(err, types.ErrSourceUnavailable):
		api.ErrorResponse(w, r, http.StatusInternalServerError, "User records are unavailable")
	default:
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to run insight query")
	}
}

func (h *HandlerImpl) writeUsers(w http.ResponseWriter, r *http.Request, out format, title string, result []types.UserRecord) {
	switch out {
	case formatTable:
		api.WriteJSONResponse(w, r, http.StatusOK, render.UsersTable(result))
	case formatHTML:
		h.writeHTML(w, r, func(buf *bytes.Buffer) error {
			return render.HTML(buf, title, render.UsersTable(result))
		})
	default:
		api.WriteJSONResponse(w, r, http.StatusOK, usersResponse{Count: len(result), Users: result})
	}
}

func (h *HandlerImpl) writeReport(w http.ResponseWriter, r *http.Request, out format, report *types.Report) {
	switch out {
	case formatTable:
		api.WriteJSONResponse(w, r, http.StatusOK, reportTables{
			ID:                   report.ID.String(),
			Source:               report.Source,
			TotalUsers:           report.TotalUsers,
			IncomeAndCar:         render.UsersTable(report.IncomeAndCar),
			GenderAndPhonePrice:  render.UsersTable(report.GenderAndPhonePrice),
			NameQuoteEmail:       render.UsersTable(report.NameQuoteEmail),
			CarAndDigitFreeEmail: render.UsersTable(report.CarAndDigitFreeEmail),
			TopCities:            render.CitiesTable(report.TopCities),
		})
	case formatHTML:
		h.writeHTML(w, r, func(buf *bytes.Buffer) error {
			return render.ReportHTML(buf, report)
		})
	default:
		api.WriteJSONResponse(w, r, http.StatusOK, report)
	}
}

// writeHTML renders into a buffer first so a template failure still yields
// a clean 500.
func (h *HandlerImpl) writeHTML(w http.ResponseWriter, r *http.Request, renderFn func(*bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := renderFn(&buf); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to render HTML", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to render page")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
