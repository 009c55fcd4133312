package rules

import (
	"sync"
	"time"

	"github.com/agroflow/agroflow-backend/internal/compliance/domain"
	"github.com/agroflow/agroflow-backend/pkg/logger"
)

// Engine evaluates the rule catalogue against one shipment's documents.
// Rules run concurrently; the summary is deterministic because results
// are sorted by rule ID before aggregation.
type Engine struct {
	rules []Rule
	log   *logger.Logger
	now   func() time.Time
}

// NewEngine creates an engine over the static catalogue.
func NewEngine(log *logger.Logger) *Engine {
	return &Engine{
		rules: Catalogue(),
		log:   log,
		now:   time.Now,
	}
}

// Validate runs every rule and aggregates the results into a decision.
// A faulting rule never sinks the run: its results are replaced by a
// passing informational entry and the fault is logged.
func (e *Engine) Validate(input *Context) *domain.ValidationSummary {
	resultsCh := make(chan []domain.RuleResult, len(e.rules))

	var wg sync.WaitGroup
	for _, rule := range e.rules {
		wg.Add(1)
		go func(r Rule) {
			defer wg.Done()
			defer func() {
				if rec := recover(); rec != nil {
					e.log.Error().
						Str("rule_id", r.ID).
						Str("shipment_id", input.Shipment.ID).
						Interface("panic", rec).
						Msg("rule evaluation fault")
					resultsCh <- []domain.RuleResult{{
						RuleID:   r.ID,
						Passed:   true,
						Severity: domain.SeverityInfo,
						Message:  "rule evaluation fault, result skipped",
					}}
				}
			}()
			resultsCh <- r.Evaluate(input)
		}(rule)
	}
	wg.Wait()
	close(resultsCh)

	var all []domain.RuleResult
	for results := range resultsCh {
		all = append(all, results...)
	}

	summary := domain.Summarize(input.Shipment.ID, all, e.now())

	e.log.Info().
		Str("shipment_id", input.Shipment.ID).
		Str("decision", string(summary.Decision)).
		Int("critical", summary.CriticalErrors).
		Int("errors", summary.Errors).
		Int("warnings", summary.Warnings).
		Int("passed", summary.Passed).
		Msg("validation completed")

	return summary
}
