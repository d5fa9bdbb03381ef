package statusapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbraga/temu-price-bot/internal/bot"
	"github.com/mbraga/temu-price-bot/internal/orders"
	"github.com/mbraga/temu-price-bot/internal/scheduler"
)

func newTestServer(t *testing.T) (*Server, *orders.Store) {
	t.Helper()
	dir := t.TempDir()

	store, err := orders.NewStore(filepath.Join(dir, "orders.json"))
	require.NoError(t, err)

	sched := scheduler.New(filepath.Join(dir, "sched.json"))
	stats := func() bot.Stats {
		return bot.Stats{TotalOrders: 7, Success: 2}
	}

	return NewServer(0, stats, store, sched), store
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s, store := newTestServer(t)
	require.NoError(t, store.Upsert(orders.NewRecord(orders.Summary{ID: "PO-1"})))

	rec := get(t, s, "/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.EqualValues(t, 1, body["orders"])
}

func TestStats(t *testing.T) {
	s, _ := newTestServer(t)

	rec := get(t, s, "/api/v1/stats")
	require.Equal(t, http.StatusOK, rec.Code)

	var stats bot.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 7, stats.TotalOrders)
	assert.Equal(t, 2, stats.Success)
}

func TestOrders(t *testing.T) {
	s, store := newTestServer(t)

	rec := orders.NewRecord(orders.Summary{ID: "PO-2"})
	rec.MarkSuccess("R$ 10,00")
	require.NoError(t, store.Upsert(rec))

	resp := get(t, s, "/api/v1/orders")
	require.Equal(t, http.StatusOK, resp.Code)

	var records []orders.Record
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "PO-2", records[0].ID)
	assert.Equal(t, orders.StatusSuccess, records[0].AdjustmentStatus)
}

func TestSchedule(t *testing.T) {
	s, _ := newTestServer(t)

	rec := get(t, s, "/api/v1/schedule")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	next, err := time.Parse(time.RFC3339, body["next_run"])
	require.NoError(t, err)
	assert.True(t, next.After(time.Now()))
}
