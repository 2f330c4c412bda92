package container

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-user-insights/config"
	"github.com/FACorreiaa/go-user-insights/internal/api/users"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.InitConfig()
	require.NoError(t, err)
	return &cfg
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewContainerFileSource(t *testing.T) {
	cfg := testConfig(t)
	cfg.Source.Driver = "file"
	cfg.Cache.Driver = "memory"

	c, err := NewContainer(context.Background(), cfg, nil, discardLogger())
	require.NoError(t, err)
	defer c.Close()

	assert.IsType(t, &users.CachedSource{}, c.Source)
	assert.Equal(t, "file:embedded", c.Source.Name())
	assert.Nil(t, c.Pool)
	assert.True(t, c.WaitForDB(context.Background()))
	assert.NoError(t, c.RunMigrations())
	assert.NoError(t, c.Seed(context.Background()))

	rr := httptest.NewRecorder()
	c.Router().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/insights/top-cities?limit=3", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"cities"`)
}

func TestNewContainerWithoutCache(t *testing.T) {
	cfg := testConfig(t)
	cfg.Cache.Driver = "none"

	c, err := NewContainer(context.Background(), cfg, nil, discardLogger())
	require.NoError(t, err)
	assert.IsType(t, &users.FileSource{}, c.Source)
}

func TestNewContainerRejectsBadConfig(t *testing.T) {
	cases := map[string]func(cfg *config.Config){
		"UnknownSource":   func(cfg *config.Config) { cfg.Source.Driver = "mongo" },
		"HTTPWithoutURL":  func(cfg *config.Config) { cfg.Source.Driver = "http"; cfg.Source.URL = "" },
		"UnknownCache":    func(cfg *config.Config) { cfg.Cache.Driver = "memcached" },
		"InvalidDefaults": func(cfg *config.Config) { cfg.Queries.GenderAndPhonePrice.Gender = "robot" },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := testConfig(t)
			mutate(cfg)
			_, err := NewContainer(context.Background(), cfg, nil, discardLogger())
			assert.Error(t, err)
		})
	}
}

func TestContainerSeed(t *testing.T) {
	ctx := context.Background()
	columns := []string{
		"first_name", "last_name", "email", "gender", "income",
		"car_brand", "phone_price", "quote", "city",
	}

	newSeedContainer := func(t *testing.T) (pgxmock.PgxPoolIface, *Container) {
		t.Helper()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		t.Cleanup(mock.Close)

		cfg := testConfig(t)
		cfg.Source.File = ""
		return mock, &Container{
			Config:   cfg,
			Logger:   discardLogger(),
			Postgres: users.NewPostgresSource(mock, nil, discardLogger()),
		}
	}

	t.Run("SkipsPopulatedTable", func(t *testing.T) {
		mock, c := newSeedContainer(t)
		mock.ExpectQuery("SELECT (.+) FROM user_records").WillReturnRows(
			pgxmock.NewRows(columns).
				AddRow("Ann", "Miller", "ann@mail.com", "female", 3.0, "BMW", 12000.0, "q", "Lisbon"),
		)

		require.NoError(t, c.Seed(ctx))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ImportsSampleIntoEmptyTable", func(t *testing.T) {
		mock, c := newSeedContainer(t)
		sample, err := users.NewFileSource("", discardLogger()).Load(ctx)
		require.NoError(t, err)

		mock.ExpectQuery("SELECT (.+) FROM user_records").WillReturnRows(pgxmock.NewRows(columns))
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM user_records")).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))
		mock.ExpectCopyFrom(pgx.Identifier{"user_records"}, []string{
			"id", "position", "first_name", "last_name", "email", "gender",
			"income", "car_brand", "phone_price", "quote", "city",
		}).WillReturnResult(int64(len(sample)))
		mock.ExpectCommit()

		require.NoError(t, c.Seed(ctx))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("LoadFailure", func(t *testing.T) {
		mock, c := newSeedContainer(t)
		mock.ExpectQuery("SELECT (.+) FROM user_records").WillReturnError(errors.New("connection reset"))

		err := c.Seed(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "checking existing user records")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
