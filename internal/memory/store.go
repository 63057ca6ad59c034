package memory

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/ppiankov/debateshield/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS claims (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	fingerprint TEXT UNIQUE NOT NULL,
	claim_text TEXT NOT NULL,
	normalized_text TEXT NOT NULL,
	verdict TEXT NOT NULL,
	confidence INTEGER NOT NULL,
	risk_level TEXT NOT NULL,
	topic TEXT NOT NULL,
	verifier_stance TEXT NOT NULL DEFAULT '',
	skeptic_stance TEXT NOT NULL DEFAULT '',
	evidence_for TEXT NOT NULL,
	evidence_against TEXT NOT NULL,
	why_bullets TEXT NOT NULL,
	uncertainties TEXT NOT NULL,
	debate_transcript TEXT NOT NULL,
	reply_templates TEXT NOT NULL,
	actions_taken TEXT NOT NULL,
	timestamp TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_claims_timestamp ON claims(timestamp DESC);
`

// timestampLayout is RFC3339 with a fixed-width nanosecond fraction. The
// timestamp column is TEXT and the recency scan orders on it, so the format
// must sort lexicographically in chronological order; time.RFC3339Nano trims
// trailing zeros and breaks that whenever one fraction is a prefix of another.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store persists verdict records in sqlite, one row per distinct
// fingerprint. Evidence, transcript, and action sub-objects are stored as
// JSON blobs that round-trip losslessly.
type Store struct {
	db *sqlx.DB
}

// claimRow mirrors the claims table
type claimRow struct {
	ID               int64  `db:"id"`
	Fingerprint      string `db:"fingerprint"`
	ClaimText        string `db:"claim_text"`
	NormalizedText   string `db:"normalized_text"`
	Verdict          string `db:"verdict"`
	Confidence       int    `db:"confidence"`
	RiskLevel        string `db:"risk_level"`
	Topic            string `db:"topic"`
	VerifierStance   string `db:"verifier_stance"`
	SkepticStance    string `db:"skeptic_stance"`
	EvidenceFor      string `db:"evidence_for"`
	EvidenceAgainst  string `db:"evidence_against"`
	WhyBullets       string `db:"why_bullets"`
	Uncertainties    string `db:"uncertainties"`
	DebateTranscript string `db:"debate_transcript"`
	ReplyTemplates   string `db:"reply_templates"`
	ActionsTaken     string `db:"actions_taken"`
	Timestamp        string `db:"timestamp"`
}

// OpenStore opens (and if needed creates) the sqlite database at path.
// WAL mode keeps concurrent lookups from observing half-written rows while
// a store is in flight.
func OpenStore(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000", path)
	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Upsert stores a verdict record, replacing any existing row with the same
// fingerprint. Last write wins; concurrent upserts for the same fingerprint
// cannot corrupt the row.
func (s *Store) Upsert(ctx context.Context, record model.VerdictRecord) error {
	row, err := rowFromRecord(record)
	if err != nil {
		return err
	}

	_, err = s.db.NamedExecContext(ctx, `
		INSERT INTO claims (
			fingerprint, claim_text, normalized_text, verdict, confidence,
			risk_level, topic, verifier_stance, skeptic_stance,
			evidence_for, evidence_against, why_bullets, uncertainties,
			debate_transcript, reply_templates, actions_taken, timestamp
		) VALUES (
			:fingerprint, :claim_text, :normalized_text, :verdict, :confidence,
			:risk_level, :topic, :verifier_stance, :skeptic_stance,
			:evidence_for, :evidence_against, :why_bullets, :uncertainties,
			:debate_transcript, :reply_templates, :actions_taken, :timestamp
		)
		ON CONFLICT(fingerprint) DO UPDATE SET
			claim_text = excluded.claim_text,
			normalized_text = excluded.normalized_text,
			verdict = excluded.verdict,
			confidence = excluded.confidence,
			risk_level = excluded.risk_level,
			topic = excluded.topic,
			verifier_stance = excluded.verifier_stance,
			skeptic_stance = excluded.skeptic_stance,
			evidence_for = excluded.evidence_for,
			evidence_against = excluded.evidence_against,
			why_bullets = excluded.why_bullets,
			uncertainties = excluded.uncertainties,
			debate_transcript = excluded.debate_transcript,
			reply_templates = excluded.reply_templates,
			actions_taken = excluded.actions_taken,
			timestamp = excluded.timestamp
	`, row)
	if err != nil {
		return fmt.Errorf("upsert claim: %w", err)
	}
	return nil
}

// FindSimilar scans the most recent window rows for the best fuzzy match
// against the normalized text. It returns the matched record and its score,
// or (nil, 0) when no candidate reaches the threshold. The strictly-greater
// comparison means the first candidate found at the best score wins, and
// the scan order makes that the most recent one.
func (s *Store) FindSimilar(ctx context.Context, normalized string, threshold, window int) (*model.VerdictRecord, int, error) {
	if window <= 0 {
		window = 100
	}

	var rows []claimRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT * FROM claims ORDER BY timestamp DESC, id DESC LIMIT ?`, window)
	if err != nil {
		return nil, 0, fmt.Errorf("scan recent claims: %w", err)
	}

	var best *claimRow
	bestScore := 0
	for i := range rows {
		score := Ratio(normalized, rows[i].NormalizedText)
		if score >= threshold && score > bestScore {
			bestScore = score
			best = &rows[i]
		}
	}

	if best == nil {
		return nil, 0, nil
	}

	record, err := best.toRecord()
	if err != nil {
		return nil, 0, err
	}
	return record, bestScore, nil
}

// Get returns the record stored under a fingerprint, or nil when absent.
func (s *Store) Get(ctx context.Context, fingerprint string) (*model.VerdictRecord, error) {
	var row claimRow
	err := s.db.GetContext(ctx, &row, `SELECT * FROM claims WHERE fingerprint = ?`, fingerprint)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get claim: %w", err)
	}
	return row.toRecord()
}

// Stats summarizes the stored corpus
type Stats struct {
	TotalClaims      int            `json:"total_claims"`
	VerdictBreakdown map[string]int `json:"verdict_breakdown"`
}

// Stats returns the total row count and the per-verdict breakdown.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{VerdictBreakdown: map[string]int{}}

	if err := s.db.GetContext(ctx, &stats.TotalClaims, `SELECT COUNT(*) FROM claims`); err != nil {
		return nil, fmt.Errorf("count claims: %w", err)
	}

	rows, err := s.db.QueryxContext(ctx, `SELECT verdict, COUNT(*) FROM claims GROUP BY verdict`)
	if err != nil {
		return nil, fmt.Errorf("verdict breakdown: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var verdict string
		var count int
		if err := rows.Scan(&verdict, &count); err != nil {
			return nil, fmt.Errorf("scan breakdown row: %w", err)
		}
		stats.VerdictBreakdown[verdict] = count
	}
	return stats, rows.Err()
}

func rowFromRecord(record model.VerdictRecord) (*claimRow, error) {
	encode := func(name string, v interface{}) (string, error) {
		data, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("encode %s: %w", name, err)
		}
		return string(data), nil
	}

	evidenceFor, err := encode("evidence_for", record.EvidenceFor)
	if err != nil {
		return nil, err
	}
	evidenceAgainst, err := encode("evidence_against", record.EvidenceAgainst)
	if err != nil {
		return nil, err
	}
	whyBullets, err := encode("why_bullets", record.WhyBullets)
	if err != nil {
		return nil, err
	}
	uncertainties, err := encode("uncertainties", record.Uncertainties)
	if err != nil {
		return nil, err
	}
	transcript, err := encode("debate_transcript", record.DebateTranscript)
	if err != nil {
		return nil, err
	}
	replyTemplates, err := encode("reply_templates", record.ReplyTemplates)
	if err != nil {
		return nil, err
	}
	actionsTaken, err := encode("actions_taken", record.ActionsTaken)
	if err != nil {
		return nil, err
	}

	return &claimRow{
		Fingerprint:      record.Fingerprint,
		ClaimText:        record.ClaimText,
		NormalizedText:   record.NormalizedText,
		Verdict:          string(record.Verdict),
		Confidence:       int(record.Confidence),
		RiskLevel:        string(record.RiskLevel),
		Topic:            string(record.Topic),
		VerifierStance:   string(record.VerifierStance),
		SkepticStance:    string(record.SkepticStance),
		EvidenceFor:      evidenceFor,
		EvidenceAgainst:  evidenceAgainst,
		WhyBullets:       whyBullets,
		Uncertainties:    uncertainties,
		DebateTranscript: transcript,
		ReplyTemplates:   replyTemplates,
		ActionsTaken:     actionsTaken,
		Timestamp:        record.Timestamp.UTC().Format(timestampLayout),
	}, nil
}

func (r *claimRow) toRecord() (*model.VerdictRecord, error) {
	record := &model.VerdictRecord{
		ClaimText:      r.ClaimText,
		NormalizedText: r.NormalizedText,
		Fingerprint:    r.Fingerprint,
		Verdict:        model.Verdict(r.Verdict),
		Confidence:     model.ClampConfidence(r.Confidence),
		RiskLevel:      model.RiskLevel(r.RiskLevel),
		Topic:          model.Topic(r.Topic),
		VerifierStance: model.Stance(r.VerifierStance),
		SkepticStance:  model.Stance(r.SkepticStance),
	}

	decode := func(name, data string, v interface{}) error {
		if data == "" {
			return nil
		}
		if err := json.Unmarshal([]byte(data), v); err != nil {
			return fmt.Errorf("decode %s: %w", name, err)
		}
		return nil
	}

	if err := decode("evidence_for", r.EvidenceFor, &record.EvidenceFor); err != nil {
		return nil, err
	}
	if err := decode("evidence_against", r.EvidenceAgainst, &record.EvidenceAgainst); err != nil {
		return nil, err
	}
	if err := decode("why_bullets", r.WhyBullets, &record.WhyBullets); err != nil {
		return nil, err
	}
	if err := decode("uncertainties", r.Uncertainties, &record.Uncertainties); err != nil {
		return nil, err
	}
	if err := decode("debate_transcript", r.DebateTranscript, &record.DebateTranscript); err != nil {
		return nil, err
	}
	if err := decode("reply_templates", r.ReplyTemplates, &record.ReplyTemplates); err != nil {
		return nil, err
	}
	if err := decode("actions_taken", r.ActionsTaken, &record.ActionsTaken); err != nil {
		return nil, err
	}

	ts, err := time.Parse(time.RFC3339Nano, r.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("decode timestamp: %w", err)
	}
	record.Timestamp = ts

	return record, nil
}
