package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/smartgrocer/grocer-backend/pkg/errors"
)

type memoryIdempotencyStore struct {
	records map[string]string
}

func newMemoryIdempotencyStore() *memoryIdempotencyStore {
	return &memoryIdempotencyStore{records: map[string]string{}}
}

func (s *memoryIdempotencyStore) Get(ctx context.Context, key string) (string, error) {
	return s.records[key], nil
}

func (s *memoryIdempotencyStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if _, ok := s.records[key]; ok {
		return false, nil
	}
	s.records[key] = value.(string)
	return true, nil
}

func (s *memoryIdempotencyStore) IdempotencyKey(scope, id string) string {
	return "sg:idempotency:" + scope + ":" + id
}

func (s *memoryIdempotencyStore) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(s.records, key)
	}
	return nil
}

// newIdempotencyRouter nests the middleware behind an /api/v1 subrouter the
// same way the production router mounts it.
func newIdempotencyRouter(store *memoryIdempotencyStore, handlerCalls *int) http.Handler {
	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(Idempotency(store, nil))
		r.Post("/order-items", func(w http.ResponseWriter, req *http.Request) {
			*handlerCalls++
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"data":{"ok":true}}`))
		})
		r.Get("/order-items", func(w http.ResponseWriter, req *http.Request) {
			*handlerCalls++
			w.WriteHeader(http.StatusOK)
		})
	})
	return r
}

func decodeErrorCode(t *testing.T, body string) string {
	t.Helper()
	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &payload))
	return payload.Error.Code
}

func TestIdempotencyRequiresKeyThroughRouter(t *testing.T) {
	store := newMemoryIdempotencyStore()
	calls := 0
	router := newIdempotencyRouter(store, &calls)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/order-items", strings.NewReader(`{"quantity":1}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, string(pkgerrors.CodeValidation), decodeErrorCode(t, rec.Body.String()))
	assert.Zero(t, calls, "handler must not run without an idempotency key")
	assert.Empty(t, store.records)
}

func TestIdempotencyReplaysStoredResponse(t *testing.T) {
	store := newMemoryIdempotencyStore()
	calls := 0
	router := newIdempotencyRouter(store, &calls)
	body := `{"quantity":2}`

	first := httptest.NewRequest(http.MethodPost, "/api/v1/order-items", strings.NewReader(body))
	first.Header.Set("Idempotency-Key", "key-1")
	firstRec := httptest.NewRecorder()
	router.ServeHTTP(firstRec, first)

	require.Equal(t, http.StatusCreated, firstRec.Code)
	require.Equal(t, 1, calls)
	require.Len(t, store.records, 1)

	replay := httptest.NewRequest(http.MethodPost, "/api/v1/order-items", strings.NewReader(body))
	replay.Header.Set("Idempotency-Key", "key-1")
	replayRec := httptest.NewRecorder()
	router.ServeHTTP(replayRec, replay)

	assert.Equal(t, http.StatusCreated, replayRec.Code)
	assert.JSONEq(t, firstRec.Body.String(), replayRec.Body.String())
	assert.Equal(t, 1, calls, "replay must serve the stored response, not re-run the handler")
}

func TestIdempotencyRejectsKeyReuseWithDifferentBody(t *testing.T) {
	store := newMemoryIdempotencyStore()
	calls := 0
	router := newIdempotencyRouter(store, &calls)

	first := httptest.NewRequest(http.MethodPost, "/api/v1/order-items", strings.NewReader(`{"quantity":2}`))
	first.Header.Set("Idempotency-Key", "key-1")
	router.ServeHTTP(httptest.NewRecorder(), first)
	require.Equal(t, 1, calls)

	reuse := httptest.NewRequest(http.MethodPost, "/api/v1/order-items", strings.NewReader(`{"quantity":99}`))
	reuse.Header.Set("Idempotency-Key", "key-1")
	reuseRec := httptest.NewRecorder()
	router.ServeHTTP(reuseRec, reuse)

	assert.Equal(t, http.StatusConflict, reuseRec.Code)
	assert.Equal(t, string(pkgerrors.CodeIdempotency), decodeErrorCode(t, reuseRec.Body.String()))
	assert.Equal(t, 1, calls, "a reused key with a new body must not reach the handler")
}

func TestIdempotencyIgnoresUnlistedRoutes(t *testing.T) {
	store := newMemoryIdempotencyStore()
	calls := 0
	router := newIdempotencyRouter(store, &calls)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/order-items", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, calls)
	assert.Empty(t, store.records, "reads are never recorded")
}
