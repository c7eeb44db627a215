package service

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/vireohq/prepview/config"
	"github.com/vireohq/prepview/internal/model"
)

// shortAnswerLen is the threshold under which sub-scores are capped: a
// response this short cannot demonstrate depth no matter what the
// collaborator reports.
const shortAnswerLen = 20

// Caps applied to sub-scores of short answers, in dimension order.
const (
	capRelevance    = 40
	capCompleteness = 30
	capTechnical    = 25
	capComm         = 35
)

// ConsistencyEnforcer wraps the text-evaluation collaborator, bounds it with
// a timeout, validates what comes back, and normalizes scores so the stored
// evaluation never depends on the collaborator behaving well. On any
// upstream failure it returns a fixed conservative evaluation: scoring
// degrades, it does not abort.
type ConsistencyEnforcer interface {
	Evaluate(ctx context.Context, req EvaluationRequest) model.Evaluation
}

type consistencyEnforcer struct {
	evaluator Evaluator
	timeout   time.Duration
}

func NewConsistencyEnforcer(evaluator Evaluator, cfg *config.Config) ConsistencyEnforcer {
	return &consistencyEnforcer{evaluator: evaluator, timeout: cfg.LLM.Timeout}
}

func (c *consistencyEnforcer) Evaluate(ctx context.Context, req EvaluationRequest) model.Evaluation {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	raw, err := c.evaluator.EvaluateAnswer(callCtx, req)
	if err != nil {
		log.Warn().Err(err).Msg("Evaluator collaborator failed, using fallback evaluation")
		return fallbackEvaluation()
	}

	eval, ok := c.normalize(raw, req.AnswerText)
	if !ok {
		log.Warn().
			Float64("relevance", raw.Relevance).
			Float64("completeness", raw.Completeness).
			Float64("technicalAccuracy", raw.TechnicalAccuracy).
			Float64("communication", raw.Communication).
			Msg("Evaluator returned out-of-range scores, using fallback evaluation")
		return fallbackEvaluation()
	}
	return eval
}

// normalize validates the four sub-scores and recomputes the overall. The
// collaborator's self-reported overall is never trusted.
func (c *consistencyEnforcer) normalize(raw *RawEvaluation, answerText string) (model.Evaluation, bool) {
	scores := []float64{raw.Relevance, raw.Completeness, raw.TechnicalAccuracy, raw.Communication}
	for _, s := range scores {
		if math.IsNaN(s) || math.IsInf(s, 0) || s < 0 || s > 100 {
			return model.Evaluation{}, false
		}
	}

	eval := model.Evaluation{
		Relevance:         int(math.Round(raw.Relevance)),
		Completeness:      int(math.Round(raw.Completeness)),
		TechnicalAccuracy: int(math.Round(raw.TechnicalAccuracy)),
		Communication:     int(math.Round(raw.Communication)),
		Feedback:          raw.Feedback,
		Suggestions:       raw.Suggestions,
	}

	if len(answerText) < shortAnswerLen {
		eval.Relevance = minInt(eval.Relevance, capRelevance)
		eval.Completeness = minInt(eval.Completeness, capCompleteness)
		eval.TechnicalAccuracy = minInt(eval.TechnicalAccuracy, capTechnical)
		eval.Communication = minInt(eval.Communication, capComm)
	}

	eval.Overall = roundedMean(eval.Relevance, eval.Completeness, eval.TechnicalAccuracy, eval.Communication)
	return eval, true
}

// fallbackEvaluation is the fixed conservative score used whenever the
// collaborator times out, is unreachable, or breaks its contract.
func fallbackEvaluation() model.Evaluation {
	eval := model.Evaluation{
		Relevance:         30,
		Completeness:      28,
		TechnicalAccuracy: 22,
		Communication:     32,
		Feedback:          "Automated scoring was unavailable for this answer, so a conservative provisional score was assigned. Consider reviewing this answer manually.",
		Suggestions: []string{
			"Re-submit the answer to get a full evaluation",
			"Structure the answer with a clear introduction and concrete examples",
		},
	}
	eval.Overall = roundedMean(eval.Relevance, eval.Completeness, eval.TechnicalAccuracy, eval.Communication)
	return eval
}

func roundedMean(vals ...int) int {
	if len(vals) == 0 {
		return 0
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return int(math.Round(float64(sum) / float64(len(vals))))
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
