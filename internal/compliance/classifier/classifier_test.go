package classifier_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/agroflow/agroflow-backend/internal/compliance/classifier"
	"github.com/agroflow/agroflow-backend/internal/compliance/domain"
	"github.com/agroflow/agroflow-backend/pkg/logger"
)

const bolText = `BILL OF LADING
B/L No: HLCUHAM250812345
Shipper: Hanseatic Cocoa Trading GmbH
Consignee: Amsterdam Cacao BV
Ocean Vessel: MSC AMBITION
Port of Loading: Abidjan
Port of Discharge: Hamburg
Shipped on Board: 2026-07-14`

// weakText matches a single low-weight bill-of-lading keyword, keeping
// the keyword confidence below the default threshold.
const weakText = "Consignee: Amsterdam Cacao BV"

func testLogger() *logger.Logger {
	return logger.New("classifier-test", "development")
}

func TestClassifier_Score_BillOfLading(t *testing.T) {
	c := classifier.New(0.5, 0.1, nil, nil, testLogger())

	candidates := c.Score(bolText)
	if len(candidates) == 0 {
		t.Fatal("expected at least one candidate")
	}
	if candidates[0].Type != domain.DocumentTypeBillOfLading {
		t.Errorf("top candidate = %s, want bill_of_lading", candidates[0].Type)
	}
	for _, cand := range candidates {
		if cand.Confidence < 0 || cand.Confidence > 1 {
			t.Errorf("confidence %f for %s out of [0,1]", cand.Confidence, cand.Type)
		}
	}
}

func TestClassifier_Score_ExcludesZeroMatchTypes(t *testing.T) {
	c := classifier.New(0.5, 0.1, nil, nil, testLogger())

	candidates := c.Score("completely unrelated text about the weather")
	if len(candidates) != 0 {
		t.Errorf("expected no candidates, got %d", len(candidates))
	}
}

func TestClassifier_Score_NegativeKeywordPenalty(t *testing.T) {
	c := classifier.New(0.5, 0.1, nil, nil, testLogger())

	clean := c.Score("packing list\nnumber of packages: 40\ngross weight: 24800 kg")
	tainted := c.Score("packing list\nnumber of packages: 40\ngross weight: 24800 kg\nsee bill of lading")

	var cleanConf, taintedConf float64
	for _, cand := range clean {
		if cand.Type == domain.DocumentTypePackingList {
			cleanConf = cand.Confidence
		}
	}
	for _, cand := range tainted {
		if cand.Type == domain.DocumentTypePackingList {
			taintedConf = cand.Confidence
		}
	}

	if taintedConf >= cleanConf {
		t.Errorf("negative keyword should halve the score: clean=%f tainted=%f", cleanConf, taintedConf)
	}
	if taintedConf == 0 {
		t.Error("negative keyword is a penalty, not a disqualification")
	}
}

func TestClassifier_Classify_NoMatchFallsBackToOther(t *testing.T) {
	c := classifier.New(0.5, 0.1, nil, nil, testLogger())

	result := c.Classify(context.Background(), "nothing recognizable here")
	if result.Best != domain.DocumentTypeOther {
		t.Errorf("Best = %s, want other", result.Best)
	}
	if !result.NeedsReview {
		t.Error("unclassifiable text must be flagged needs_review")
	}
}

type stubAI struct {
	docType domain.DocumentType
	conf    float64
	err     error
	calls   int
}

func (s *stubAI) Classify(ctx context.Context, rawText string) (domain.DocumentType, float64, error) {
	s.calls++
	return s.docType, s.conf, s.err
}

func (s *stubAI) Name() string { return "stub" }

func TestClassifier_Classify_AIFallbackResolvesAmbiguity(t *testing.T) {
	ai := &stubAI{docType: domain.DocumentTypeVeterinaryHealth, conf: 0.93}
	c := classifier.New(0.5, 0.1, ai, nil, testLogger())

	result := c.Classify(context.Background(), weakText)
	if result.Best != domain.DocumentTypeVeterinaryHealth {
		t.Errorf("Best = %s, want AI answer", result.Best)
	}
	if result.Source != "ai" {
		t.Errorf("Source = %s, want ai", result.Source)
	}
	if result.NeedsReview {
		t.Error("AI-resolved classification should not need review")
	}
	if ai.calls != 1 {
		t.Errorf("AI called %d times, want 1", ai.calls)
	}
}

func TestClassifier_Classify_GapEqualToMarginIsAmbiguous(t *testing.T) {
	// Matches two export-declaration keywords (confidence 2.0/5 = 0.4) and
	// one EU TRACES keyword (1.0/5 = 0.2). With margin 0.2 the gap sits
	// exactly on the boundary, which must still count as ambiguous and
	// consult the fallback.
	const boundaryText = "MRN 26DE520100123456 EORI DE1234567 border control post Hamburg"

	ai := &stubAI{docType: domain.DocumentTypeExportDeclaration, conf: 0.95}
	c := classifier.New(0.3, 0.2, ai, nil, testLogger())

	result := c.Classify(context.Background(), boundaryText)
	if ai.calls != 1 {
		t.Fatalf("AI called %d times, want 1 (boundary gap is ambiguous)", ai.calls)
	}
	if result.Source != "ai" {
		t.Errorf("Source = %s, want ai", result.Source)
	}
}

func TestClassifier_Classify_AIUnavailableDegradesGracefully(t *testing.T) {
	ai := &stubAI{err: errors.New("connection refused")}
	c := classifier.New(0.5, 0.1, ai, nil, testLogger())

	result := c.Classify(context.Background(), weakText)
	if result.Best != domain.DocumentTypeBillOfLading {
		t.Errorf("Best = %s, want keyword top candidate", result.Best)
	}
	if !result.NeedsReview {
		t.Error("degraded classification must be flagged needs_review")
	}
	if result.Source != "keyword" {
		t.Errorf("Source = %s, want keyword", result.Source)
	}
}

func TestClassifier_Classify_AIUnknownTypeRejected(t *testing.T) {
	ai := &stubAI{docType: "hologram_certificate", conf: 0.99}
	c := classifier.New(0.5, 0.1, ai, nil, testLogger())

	result := c.Classify(context.Background(), weakText)
	if result.Best != domain.DocumentTypeBillOfLading {
		t.Errorf("Best = %s, want keyword top candidate", result.Best)
	}
	if !result.NeedsReview {
		t.Error("expected needs_review after rejecting unknown AI type")
	}
}

func TestClassifier_Classify_CacheSkipsRepeatAICalls(t *testing.T) {
	ai := &stubAI{docType: domain.DocumentTypeQuality, conf: 0.9}
	cache := classifier.NewCache(time.Minute)
	c := classifier.New(0.5, 0.1, ai, cache, testLogger())

	first := c.Classify(context.Background(), weakText)
	second := c.Classify(context.Background(), weakText)

	if ai.calls != 1 {
		t.Errorf("AI called %d times, want 1 (second hit should come from cache)", ai.calls)
	}
	if first.Best != second.Best || first.Confidence != second.Confidence {
		t.Error("cached result should match the original AI result")
	}
}

func TestCache_Expiry(t *testing.T) {
	cache := classifier.NewCache(time.Nanosecond)
	cache.Set("some text", domain.DocumentTypeQuality, 0.9)

	time.Sleep(time.Millisecond)
	if _, _, ok := cache.Get("some text"); ok {
		t.Error("expired entry should not be returned")
	}
}

func TestCache_GetSet(t *testing.T) {
	cache := classifier.NewCache(time.Minute)
	cache.Set("some text", domain.DocumentTypePackingList, 0.72)

	docType, conf, ok := cache.Get("some text")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if docType != domain.DocumentTypePackingList || conf != 0.72 {
		t.Errorf("got (%s, %f), want (packing_list, 0.72)", docType, conf)
	}

	if _, _, ok := cache.Get("different text"); ok {
		t.Error("unexpected cache hit for different text")
	}
}
