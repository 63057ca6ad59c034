package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ppiankov/debateshield/internal/debate"
	"github.com/ppiankov/debateshield/internal/memory"
	"github.com/ppiankov/debateshield/internal/model"
	"github.com/ppiankov/debateshield/internal/pipeline"
)

type stubMemory struct {
	lookup memory.LookupResult
}

func (s *stubMemory) Lookup(ctx context.Context, claim model.Claim) memory.LookupResult {
	return s.lookup
}

func (s *stubMemory) Store(ctx context.Context, record model.VerdictRecord) error {
	return nil
}

func (s *stubMemory) Stats(ctx context.Context) (*memory.Stats, error) {
	return &memory.Stats{TotalClaims: 7, VerdictBreakdown: map[string]int{"false": 4, "uncertain": 3}}, nil
}

type stubRetriever struct{}

func (s *stubRetriever) Retrieve(ctx context.Context, claimText string) model.EvidenceBundle {
	return model.EvidenceBundle{}
}

type stubDebater struct{}

func (s *stubDebater) Run(ctx context.Context, claim model.Claim, bundle model.EvidenceBundle) *debate.Outcome {
	return &debate.Outcome{
		Moderator: model.ModeratorOutput{
			Verdict:       model.VerdictFalse,
			Confidence:    88,
			RiskLevel:     model.RiskHigh,
			Topic:         model.TopicHealth,
			WhyBullets:    []string{"refuted by reputable sources"},
			Uncertainties: []string{},
		},
		VerifierStance: model.StanceUnclear,
		SkepticStance:  model.StanceRefute,
	}
}

func newTestServer(t *testing.T, mem pipeline.ClaimMemory) *Server {
	t.Helper()

	analyzer := pipeline.NewAnalyzer(mem, &stubRetriever{}, &stubDebater{}, nil,
		pipeline.Health{LLMConfigured: true, SearchConfigured: false}, nil)
	return New(analyzer, model.ServerConfig{Host: "127.0.0.1", Port: 0}, nil)
}

func postAnalyze(t *testing.T, server *Server, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	return rec
}

func TestServer_Analyze(t *testing.T) {
	server := newTestServer(t, &stubMemory{})

	rec := postAnalyze(t, server, `{"claim": "Vaccines cause autism"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if resp["claim"] != "Vaccines cause autism" {
		t.Errorf("Unexpected claim: %v", resp["claim"])
	}
	if resp["verdict"] != "false" || resp["confidence"] != float64(88) {
		t.Errorf("Unexpected adjudication: %v/%v", resp["verdict"], resp["confidence"])
	}
	if resp["skeptic_stance"] != "refute" {
		t.Errorf("Unexpected skeptic stance: %v", resp["skeptic_stance"])
	}

	reqCtx, ok := resp["context"].(map[string]interface{})
	if !ok || reqCtx["source"] != "user" || reqCtx["audience"] != "public" {
		t.Errorf("Expected context defaults echoed, got %v", resp["context"])
	}

	expl, ok := resp["explainability"].(map[string]interface{})
	if !ok {
		t.Fatalf("Expected explainability block, got %v", resp["explainability"])
	}
	if _, ok := expl["why_bullets"]; !ok {
		t.Error("Expected why_bullets in explainability")
	}

	mem, ok := resp["memory"].(map[string]interface{})
	if !ok || mem["hit"] != false {
		t.Errorf("Expected memory miss metadata, got %v", resp["memory"])
	}
}

func TestServer_Analyze_CustomContext(t *testing.T) {
	server := newTestServer(t, &stubMemory{})

	rec := postAnalyze(t, server, `{"claim": "Some claim", "context": {"source": "report-queue", "urgency_hint": "high"}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	reqCtx := resp["context"].(map[string]interface{})
	if reqCtx["source"] != "report-queue" || reqCtx["urgency_hint"] != "high" || reqCtx["audience"] != "public" {
		t.Errorf("Expected caller context merged with defaults, got %v", reqCtx)
	}
}

func TestServer_Analyze_MemoryHit(t *testing.T) {
	cached := model.VerdictRecord{
		ClaimText:   "The Earth is flat",
		Fingerprint: "cached-fp",
		Verdict:     model.VerdictFalse,
		Confidence:  95,
	}
	server := newTestServer(t, &stubMemory{
		lookup: memory.LookupResult{Hit: true, Record: &cached, MatchScore: 92},
	})

	rec := postAnalyze(t, server, `{"claim": "the earth is flat!!"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	mem := resp["memory"].(map[string]interface{})
	if mem["hit"] != true || mem["matched_fingerprint"] != "cached-fp" || mem["match_score"] != float64(92) {
		t.Errorf("Expected memory hit metadata, got %v", mem)
	}
}

func TestServer_Analyze_InvalidInput(t *testing.T) {
	server := newTestServer(t, &stubMemory{})

	cases := []struct {
		name string
		body string
	}{
		{"too short", `{"claim": "ab"}`},
		{"whitespace only", `{"claim": "   "}`},
		{"missing claim", `{}`},
		{"malformed json", `{claim}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := postAnalyze(t, server, tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestServer_Health(t *testing.T) {
	server := newTestServer(t, &stubMemory{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var health pipeline.Health
	if err := json.Unmarshal(rec.Body.Bytes(), &health); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !health.LLMConfigured || health.SearchConfigured {
		t.Errorf("Unexpected health: %+v", health)
	}
}

func TestServer_Stats(t *testing.T) {
	server := newTestServer(t, &stubMemory{})

	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var stats memory.Stats
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if stats.TotalClaims != 7 || stats.VerdictBreakdown["false"] != 4 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
}
