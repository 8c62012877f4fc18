package stats

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCore struct {
	users int64
	creds int64
	flows int64
	err   error
}

func (s *stubCore) CountUsers(context.Context) (int64, error)             { return s.users, s.err }
func (s *stubCore) CountActiveCredentials(context.Context) (int64, error) { return s.creds, s.err }
func (s *stubCore) CountFlowStates(context.Context) (int64, error)        { return s.flows, s.err }

func TestGet(t *testing.T) {
	log := slog.New(slog.NewTextHandler(httptest.NewRecorder(), nil))

	handler := Get(log, &stubCore{users: 7, creds: 3, flows: 1})

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var got Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, int64(7), got.Users)
	assert.Equal(t, int64(3), got.ActiveCredentials)
	assert.Equal(t, int64(1), got.ActiveFlows)
}

func TestGetStorageError(t *testing.T) {
	log := slog.New(slog.NewTextHandler(httptest.NewRecorder(), nil))

	handler := Get(log, &stubCore{err: errors.New("db closed")})

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
