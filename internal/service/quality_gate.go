package service

import (
	"regexp"
	"strings"

	"github.com/vireohq/prepview/internal/model"
)

// GateVerdict is the outcome of the local answer quality checks. When
// Rejected is true the evaluator collaborator is never called and the
// band-derived evaluation is stored instead.
type GateVerdict struct {
	Rejected   bool
	Reason     string
	Evaluation model.Evaluation
}

// QualityGate runs cheap local heuristics that reject degenerate answers
// before any external scoring call.
type QualityGate interface {
	Check(questionText, answerText string) GateVerdict
}

type qualityGate struct{}

func NewQualityGate() QualityGate {
	return &qualityGate{}
}

var nonAnswers = map[string]bool{
	"test": true, "testing": true, "hi": true, "hello": true,
	"idk": true, "i don't know": true, "i dont know": true, "dunno": true,
	"n/a": true, "na": true, "none": true, "nothing": true,
	"asdf": true, "abc": true, "ok": true, "yes": true, "no": true,
}

var (
	shortTokenRunRe = regexp.MustCompile(`(?:\b[a-zA-Z]{1,3}\b[\s,]*){5,}`)
	repeatedCharRe  = regexp.MustCompile(`(.)\1{4,}`)
	alphaRe         = regexp.MustCompile(`[a-zA-Z]`)
)

func (g *qualityGate) Check(questionText, answerText string) GateVerdict {
	trimmed := strings.TrimSpace(answerText)

	if len(trimmed) < 10 {
		return rejected("too short", 5)
	}
	if g.looksGibberish(trimmed) {
		return rejected("gibberish/non-meaningful", 8)
	}
	if g.unrelatedToQuestion(questionText, trimmed) {
		return rejected("unrelated to question", 12)
	}
	return GateVerdict{}
}

func (g *qualityGate) looksGibberish(text string) bool {
	lower := strings.ToLower(text)
	if nonAnswers[lower] {
		return true
	}
	if !alphaRe.MatchString(text) {
		return true
	}
	if repeatedCharRe.MatchString(text) {
		return true
	}
	// A run of tiny tokens covering the whole text reads as keyboard noise.
	if loc := shortTokenRunRe.FindString(lower); loc != "" && len(strings.TrimSpace(loc)) >= len(strings.TrimSpace(lower)) {
		return true
	}
	return false
}

// unrelatedToQuestion fires only for short answers sharing no lexical
// overlap with the question (substring containment either direction).
func (g *qualityGate) unrelatedToQuestion(questionText, answerText string) bool {
	if len(answerText) >= 50 {
		return false
	}
	questionWords := tokenizeWords(questionText, 4)
	answerWords := tokenizeWords(answerText, 4)
	if len(questionWords) == 0 || len(answerWords) == 0 {
		return false
	}
	for _, qw := range questionWords {
		for _, aw := range answerWords {
			if strings.Contains(aw, qw) || strings.Contains(qw, aw) {
				return false
			}
		}
	}
	return true
}

func tokenizeWords(text string, minLen int) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})
	var words []string
	for _, f := range fields {
		if len(f) >= minLen {
			words = append(words, f)
		}
	}
	return words
}

// rejected derives the full evaluation record from the score band, mirroring
// how a very weak answer would score on each dimension.
func rejected(reason string, band int) GateVerdict {
	return GateVerdict{
		Rejected: true,
		Reason:   reason,
		Evaluation: model.Evaluation{
			Relevance:         band,
			Completeness:      maxInt(0, band-5),
			TechnicalAccuracy: maxInt(0, band-8),
			Communication:     band + 5,
			Overall:           band,
			Feedback:          "Answer rejected by quality checks: " + reason + ". Provide a substantive answer that addresses the question.",
			Suggestions: []string{
				"Write a complete answer of at least a few sentences",
				"Address the specific question that was asked",
			},
		},
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
