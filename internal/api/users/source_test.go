package users

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-user-insights/internal/types"
)

const twoUsersJSON = `[
  {"firstName":"Ann","lastName":"Miller","email":"ann.miller@mail.com","gender":"female","income":3,"carBrand":"BMW","phonePrice":12000,"quote":"Stay hungry, stay foolish.","city":"Lisbon"},
  {"name":"Bob Moore","email":"bob7@mail.com","gender":"Male","income":4.5,"car":{"brand":"Mercedes"},"phone":{"price":15000},"quote":"Short one","address":{"city":"Porto"}}
]`

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

func TestFileSource(t *testing.T) {
	ctx := context.Background()

	t.Run("ReadsFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "users.json")
		require.NoError(t, os.WriteFile(path, []byte(twoUsersJSON), 0o600))

		src := NewFileSource(path, testLogger())
		records, err := src.Load(ctx)
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "Mercedes", records[1].CarBrand)
		assert.Equal(t, types.GenderMale, records[1].Gender)
		assert.Equal(t, "file:"+path, src.Name())
	})

	t.Run("EmbeddedSample", func(t *testing.T) {
		src := NewFileSource("", testLogger())
		records, err := src.Load(ctx)
		require.NoError(t, err)
		assert.NotEmpty(t, records)
		assert.Equal(t, "file:embedded", src.Name())
	})

	t.Run("MissingFile", func(t *testing.T) {
		src := NewFileSource(filepath.Join(t.TempDir(), "nope.json"), testLogger())
		_, err := src.Load(ctx)
		require.Error(t, err)
		assert.True(t, errors.Is(err, types.ErrSourceUnavailable))
	})

	t.Run("InvalidRecords", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "users.json")
		require.NoError(t, os.WriteFile(path, []byte(`[{"lastName":"Ng"}]`), 0o600))

		_, err := NewFileSource(path, testLogger()).Load(ctx)
		require.Error(t, err)
		assert.True(t, errors.Is(err, types.ErrInvalidInput))
	})
}

func TestHTTPSource(t *testing.T) {
	ctx := context.Background()

	t.Run("FetchesUsers", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Accept"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(twoUsersJSON))
		}))
		defer srv.Close()

		src := NewHTTPSource(srv.URL+"/api/users", time.Second, testLogger())
		records, err := src.Load(ctx)
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "Porto", records[1].City)
		assert.Equal(t, "http:"+srv.URL+"/api/users", src.Name())
	})

	t.Run("NonSuccessStatus", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "down", http.StatusBadGateway)
		}))
		defer srv.Close()

		_, err := NewHTTPSource(srv.URL, time.Second, testLogger()).Load(ctx)
		require.Error(t, err)
		assert.True(t, errors.Is(err, types.ErrSourceUnavailable))
	})

	t.Run("MalformedBody", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"not":"a list"}`))
		}))
		defer srv.Close()

		_, err := NewHTTPSource(srv.URL, time.Second, testLogger()).Load(ctx)
		require.Error(t, err)
		assert.True(t, errors.Is(err, types.ErrInvalidInput))
	})

	t.Run("OversizedBody", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("[" + strings.Repeat(" ", MaxPayloadBytes) + "]"))
		}))
		defer srv.Close()

		_, err := NewHTTPSource(srv.URL, time.Second, testLogger()).Load(ctx)
		require.Error(t, err)
		assert.True(t, errors.Is(err, types.ErrSourceUnavailable))
		assert.Contains(t, err.Error(), "more than")
	})

	t.Run("Unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		_, err := NewHTTPSource(url, 200*time.Millisecond, testLogger()).Load(ctx)
		require.Error(t, err)
		assert.True(t, errors.Is(err, types.ErrSourceUnavailable))
	})
}
