package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"StrategyScout/internal/model"
)

type staticSource struct{ rep *model.RunReport }

func (s staticSource) Latest() *model.RunReport { return s.rep }

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestRoutes_BeforeFirstRun(t *testing.T) {
	h := New(":0", staticSource{}).Handler()

	tests := []struct {
		path string
		want int
	}{
		{"/healthz", http.StatusOK},
		{"/metrics", http.StatusOK},
		{"/api/reports/latest", http.StatusNotFound},
		{"/api/reports/latest/AAA", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if rec := get(t, h, tt.path); rec.Code != tt.want {
				t.Errorf("GET %s = %d, want %d", tt.path, rec.Code, tt.want)
			}
		})
	}
}

func TestRoutes_LatestReport(t *testing.T) {
	best := model.KindBB
	rep := &model.RunReport{
		RunID: "run-1",
		Order: []string{"AAA"},
		Symbols: map[string]model.SymbolReport{
			"AAA": {Symbol: "AAA", Status: model.StatusEvaluated, Best: &best,
				Results: map[model.StrategyKind]model.StrategyResult{model.KindBB: {Kind: model.KindBB}}},
		},
	}
	h := New(":0", staticSource{rep: rep}).Handler()

	rec := get(t, h, "/api/reports/latest")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got model.RunReport
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.RunID != "run-1" || len(got.Symbols) != 1 {
		t.Errorf("unexpected report %+v", got)
	}

	rec = get(t, h, "/api/reports/latest/aaa")
	if rec.Code != http.StatusOK {
		t.Fatalf("symbol status = %d", rec.Code)
	}
	var sr model.SymbolReport
	if err := json.Unmarshal(rec.Body.Bytes(), &sr); err != nil {
		t.Fatalf("decode symbol: %v", err)
	}
	if sr.Best == nil || *sr.Best != model.KindBB {
		t.Errorf("unexpected symbol report %+v", sr)
	}

	if rec := get(t, h, "/api/reports/latest/ZZZ"); rec.Code != http.StatusNotFound {
		t.Errorf("unknown symbol status = %d, want 404", rec.Code)
	}
}
