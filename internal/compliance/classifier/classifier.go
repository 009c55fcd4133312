package classifier

import (
	"context"
	"sort"
	"strings"

	"github.com/agroflow/agroflow-backend/internal/compliance/domain"
	"github.com/agroflow/agroflow-backend/internal/compliance/patterns"
	"github.com/agroflow/agroflow-backend/pkg/logger"
)

// negativeKeywordPenalty halves the accumulated score per negative keyword
// found. A penalty, not a disqualification: strong positive signal can
// still win.
const negativeKeywordPenalty = 0.5

// Candidate is one scored document type.
type Candidate struct {
	Type       domain.DocumentType `json:"type"`
	Confidence float64             `json:"confidence"`
}

// Result is the outcome of classifying one document's raw text.
type Result struct {
	Best        domain.DocumentType `json:"best"`
	Confidence  float64             `json:"confidence"`
	Candidates  []Candidate         `json:"candidates"`
	NeedsReview bool                `json:"needs_review"`
	Source      string              `json:"source"` // "keyword" or "ai"
}

// AIClient is the optional external classification collaborator.
type AIClient interface {
	Classify(ctx context.Context, rawText string) (domain.DocumentType, float64, error)
	Name() string
}

// Classifier scores candidate document types by weighted keyword matching
// and falls back to an external AI collaborator for ambiguous cases.
type Classifier struct {
	threshold float64
	margin    float64
	ai        AIClient
	cache     *Cache
	log       *logger.Logger
}

// New creates a classifier. ai and cache may be nil, which disables the
// fallback and caching respectively.
func New(threshold, margin float64, ai AIClient, cache *Cache, log *logger.Logger) *Classifier {
	return &Classifier{
		threshold: threshold,
		margin:    margin,
		ai:        ai,
		cache:     cache,
		log:       log,
	}
}

// Score runs the pure keyword pass: every candidate type with at least one
// positive keyword match, sorted descending by confidence. Ties keep
// registration order (stable sort).
func (c *Classifier) Score(rawText string) []Candidate {
	lower := strings.ToLower(rawText)

	var candidates []Candidate
	for _, profile := range patterns.KeywordProfiles {
		score := 0.0
		matched := 0
		for _, kw := range profile.Positive {
			if strings.Contains(lower, kw.Keyword) {
				score += kw.Weight
				matched++
			}
		}
		if matched == 0 {
			continue
		}
		for _, neg := range profile.Negative {
			if strings.Contains(lower, neg) {
				score *= negativeKeywordPenalty
			}
		}

		confidence := score / float64(len(profile.Positive))
		if confidence > 1.0 {
			confidence = 1.0
		}
		candidates = append(candidates, Candidate{Type: profile.Type, Confidence: confidence})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Confidence > candidates[j].Confidence
	})
	return candidates
}

// Classify scores the text and, when the result is low-confidence or
// ambiguous, consults the AI collaborator. An unavailable collaborator
// never fails classification: the keyword result is returned flagged
// needs_review.
func (c *Classifier) Classify(ctx context.Context, rawText string) Result {
	candidates := c.Score(rawText)

	if len(candidates) == 0 {
		return Result{
			Best:        domain.DocumentTypeOther,
			Confidence:  0,
			NeedsReview: true,
			Source:      "keyword",
		}
	}

	top := candidates[0]
	// Inclusive: a gap of exactly the margin still counts as ambiguous
	ambiguous := len(candidates) > 1 && top.Confidence-candidates[1].Confidence <= c.margin
	lowConfidence := top.Confidence < c.threshold

	if !lowConfidence && !ambiguous {
		return Result{
			Best:       top.Type,
			Confidence: top.Confidence,
			Candidates: candidates,
			Source:     "keyword",
		}
	}

	if c.ai != nil {
		if docType, confidence, ok := c.classifyAI(ctx, rawText); ok {
			return Result{
				Best:       docType,
				Confidence: confidence,
				Candidates: candidates,
				Source:     "ai",
			}
		}
	}

	// Degrade to the keyword top candidate, flagged for human review
	return Result{
		Best:        top.Type,
		Confidence:  top.Confidence,
		Candidates:  candidates,
		NeedsReview: true,
		Source:      "keyword",
	}
}

func (c *Classifier) classifyAI(ctx context.Context, rawText string) (domain.DocumentType, float64, bool) {
	if c.cache != nil {
		if docType, confidence, ok := c.cache.Get(rawText); ok {
			return docType, confidence, true
		}
	}

	docType, confidence, err := c.ai.Classify(ctx, rawText)
	if err != nil {
		c.log.Warn().Err(err).
			Str("classifier", c.ai.Name()).
			Msg("AI classification failed, using keyword candidate")
		return "", 0, false
	}

	if !domain.ValidDocumentType(docType) {
		c.log.Warn().
			Str("classifier", c.ai.Name()).
			Str("doc_type", string(docType)).
			Msg("AI returned unknown document type, using keyword candidate")
		return "", 0, false
	}

	if c.cache != nil {
		c.cache.Set(rawText, docType, confidence)
	}
	return docType, confidence, true
}
