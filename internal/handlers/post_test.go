package handlers

import (
	"net/http"
	"testing"
)

func TestTrendingRejectsAllTimeframe(t *testing.T) {
	r := setupTestRouter(t)
	seedVoteFixtures(t)

	// 趋势榜必须限定时间窗
	w := doJSON(t, r, "GET", "/communities/general/trending?timeframe=all", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for timeframe=all, got %d", w.Code)
	}

	w = doJSON(t, r, "GET", "/communities/general/trending?timeframe=week", "")
	if w.Code != http.StatusOK {
		t.Errorf("Expected 200 for timeframe=week, got %d: %s", w.Code, w.Body.String())
	}

	// 不带参数默认 day
	w = doJSON(t, r, "GET", "/communities/general/trending", "")
	if w.Code != http.StatusOK {
		t.Errorf("Expected 200 for default timeframe, got %d", w.Code)
	}
}
