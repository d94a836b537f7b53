package waitlist

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/superblogger/waitlist/internal/log"
	"github.com/superblogger/waitlist/internal/models"
	apperrors "github.com/superblogger/waitlist/pkg/errors"
	"github.com/superblogger/waitlist/pkg/notion"
)

func newNotionRepository(t *testing.T, handler http.HandlerFunc) WaitlistRepository {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := notion.NewClient(notion.Config{
		APIKey:     "secret_test",
		BaseURL:    server.URL,
		HTTPClient: server.Client(),
	})
	require.NoError(t, err)

	return NewNotionWaitlistRepository(client, "db-123", log.NewLoggerWithJSONOutput())
}

func TestNotionRepository_ExistsByEmail(t *testing.T) {
	cases := []struct {
		name    string
		results string
		want    bool
	}{
		{name: "no match", results: `[]`, want: false},
		{name: "match", results: `[{"object":"page","id":"page-1"}]`, want: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newNotionRepository(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/databases/db-123/query", r.URL.Path)

				var body map[string]any
				require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				assert.Equal(t, map[string]any{
					"property": "Email",
					"email":    map[string]any{"equals": "ada@example.com"},
				}, body["filter"])
				assert.Equal(t, float64(1), body["page_size"])

				_, _ = io.WriteString(w, `{"object":"list","results":`+tc.results+`}`)
			})

			exists, err := repo.ExistsByEmail(context.Background(), "ada@example.com")
			require.NoError(t, err)
			assert.Equal(t, tc.want, exists)
		})
	}
}

func TestNotionRepository_ExistsByEmailFailuresAreQueryErrors(t *testing.T) {
	handlers := map[string]http.HandlerFunc{
		"non-success status": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		},
		"undecodable body": func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `<html>`)
		},
	}

	for name, handler := range handlers {
		t.Run(name, func(t *testing.T) {
			repo := newNotionRepository(t, handler)

			_, err := repo.ExistsByEmail(context.Background(), "ada@example.com")
			assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUpstreamQuery))
		})
	}
}

func TestNotionRepository_CreateEntry(t *testing.T) {
	var received map[string]any

	repo := newNotionRepository(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pages", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		_, _ = io.WriteString(w, `{"object":"page","id":"page-42"}`)
	})

	entry := &models.WaitlistEntry{
		Name:       "Ada Lovelace",
		Email:      "ada@example.com",
		SignedUpAt: time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC),
	}

	require.NoError(t, repo.CreateEntry(context.Background(), entry))
	assert.Equal(t, "page-42", entry.ID)

	props := received["properties"].(map[string]any)
	assert.Equal(t, map[string]any{"date": map[string]any{"start": "2026-10-17T09:30:00.000Z"}}, props["Signed Up"])
	assert.Equal(t, map[string]any{"email": "ada@example.com"}, props["Email"])
}

func TestNotionRepository_CreateEntryAPIErrorIsWriteError(t *testing.T) {
	repo := newNotionRepository(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"object":"error","status":500,"code":"internal_server_error","message":"boom"}`)
	})

	err := repo.CreateEntry(context.Background(), &models.WaitlistEntry{Name: "Ada", Email: "ada@example.com"})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUpstreamWrite))
	assert.Equal(t, apperrors.MessageSaveFailed, apperrors.GetHumanReadableMessage(err))
}

func TestNotionRepository_CreateEntryTransportErrorIsUnexpected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := server.URL
	server.Close()

	client, err := notion.NewClient(notion.Config{APIKey: "k", BaseURL: baseURL})
	require.NoError(t, err)
	repo := NewNotionWaitlistRepository(client, "db-123", log.NewLoggerWithJSONOutput())

	err = repo.CreateEntry(context.Background(), &models.WaitlistEntry{Name: "Ada", Email: "ada@example.com"})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInternalServerError))
}

func TestNotionRepository_Ping(t *testing.T) {
	repo := newNotionRepository(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/databases/db-123", r.URL.Path)
		_, _ = io.WriteString(w, `{"object":"database","id":"db-123"}`)
	})

	assert.NoError(t, repo.Ping(context.Background()))
}
