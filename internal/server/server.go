package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ppiankov/debateshield/internal/model"
	"github.com/ppiankov/debateshield/internal/pipeline"
	"go.uber.org/zap"
)

// Server exposes the analyzer over HTTP
type Server struct {
	analyzer *pipeline.Analyzer
	engine   *gin.Engine
	logger   *zap.Logger
	addr     string
}

// analyzeRequest is the POST /analyze body
type analyzeRequest struct {
	Claim   string                   `json:"claim" binding:"required"`
	Context *pipeline.RequestContext `json:"context"`
}

// analyzeResponse mirrors the verdict record with cache and timing metadata
type analyzeResponse struct {
	Claim           string                        `json:"claim"`
	Context         pipeline.RequestContext       `json:"context"`
	Verdict         model.Verdict                 `json:"verdict"`
	Confidence      model.Confidence              `json:"confidence"`
	RiskLevel       model.RiskLevel               `json:"risk_level"`
	Topic           model.Topic                   `json:"topic"`
	VerifierStance  model.Stance                  `json:"verifier_stance"`
	SkepticStance   model.Stance                  `json:"skeptic_stance"`
	EvidenceFor     []model.SupportingEvidence    `json:"evidence_for"`
	EvidenceAgainst []model.RefutingEvidence      `json:"evidence_against"`
	Explainability  explainability                `json:"explainability"`
	ReplyTemplates  model.ReplyTemplates          `json:"reply_templates"`
	Actions         map[string]model.ActionResult `json:"actions"`
	Memory          memoryMeta                    `json:"memory"`
	Meta            responseMeta                  `json:"meta"`
}

type explainability struct {
	WhyBullets       []string                `json:"why_bullets"`
	Uncertainties    []string                `json:"uncertainties"`
	DebateTranscript []model.TranscriptEntry `json:"debate_transcript"`
}

type memoryMeta struct {
	Hit                bool   `json:"hit"`
	MatchedFingerprint string `json:"matched_fingerprint,omitempty"`
	MatchScore         int    `json:"match_score,omitempty"`
}

type responseMeta struct {
	LatencyMS int64 `json:"latency_ms"`
}

// New creates the HTTP server over an analyzer.
func New(analyzer *pipeline.Analyzer, cfg model.ServerConfig, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		analyzer: analyzer,
		engine:   engine,
		logger:   logger,
		addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
	}

	engine.POST("/analyze", s.handleAnalyze)
	engine.GET("/health", s.handleHealth)
	engine.GET("/stats", s.handleStats)

	return s
}

// Handler exposes the router, used by tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until the context is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", s.addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleAnalyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := s.analyzer.Analyze(c.Request.Context(), req.Claim, req.Context)
	if err != nil {
		if errors.Is(err, model.ErrInvalidClaim) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		// Should not happen: the pipeline absorbs every non-input failure.
		s.logger.Error("analyze returned unexpected error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, toResponse(result))
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, s.analyzer.Health())
}

func (s *Server) handleStats(c *gin.Context) {
	stats, err := s.analyzer.Stats(c.Request.Context())
	if err != nil {
		s.logger.Error("stats query failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "stats unavailable"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func toResponse(result *pipeline.Result) analyzeResponse {
	record := result.Record

	memMeta := memoryMeta{Hit: result.MemoryHit}
	if result.MemoryHit {
		memMeta.MatchedFingerprint = record.Fingerprint
		memMeta.MatchScore = result.MatchScore
	}

	return analyzeResponse{
		Claim:           record.ClaimText,
		Context:         result.Context,
		Verdict:         record.Verdict,
		Confidence:      record.Confidence,
		RiskLevel:       record.RiskLevel,
		Topic:           record.Topic,
		VerifierStance:  record.VerifierStance,
		SkepticStance:   record.SkepticStance,
		EvidenceFor:     record.EvidenceFor,
		EvidenceAgainst: record.EvidenceAgainst,
		Explainability: explainability{
			WhyBullets:       record.WhyBullets,
			Uncertainties:    record.Uncertainties,
			DebateTranscript: record.DebateTranscript,
		},
		ReplyTemplates: record.ReplyTemplates,
		Actions:        record.ActionsTaken,
		Memory:         memMeta,
		Meta:           responseMeta{LatencyMS: result.LatencyMS},
	}
}
