package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"swiftjobs/src/jobs"
)

type mockTrigger struct {
	kinds []jobs.Kind
}

func (m *mockTrigger) Trigger(kind jobs.Kind) {
	m.kinds = append(m.kinds, kind)
}

func TestTriggerHandler(t *testing.T) {
	trigger := &mockTrigger{}
	handler := TriggerHandler(trigger, jobs.KindCompact, "Update Stock Prices started!")

	req := httptest.NewRequest(http.MethodGet, "/startUpdateStockPrices", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Update Stock Prices started!", rr.Body.String())
	assert.Equal(t, []jobs.Kind{jobs.KindCompact}, trigger.kinds)
}

func TestRootHandler(t *testing.T) {
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	handler := RootHandler(func() time.Time { return now })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Server is running with Time: Thu, 15 Oct 2026 12:00:00 UTC", rr.Body.String())
}
