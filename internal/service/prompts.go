package service

import (
	"fmt"
	"strings"
)

func buildEvaluationPrompt(req EvaluationRequest) string {
	var b strings.Builder
	b.WriteString("You are a senior interviewer scoring one candidate answer to one interview question.\n\n")
	b.WriteString("Question:\n---\n")
	b.WriteString(req.QuestionText)
	b.WriteString("\n---\n\nCandidate's answer:\n---\n")
	b.WriteString(req.AnswerText)
	b.WriteString("\n---\n")
	if req.ExpectedHint != "" {
		b.WriteString("\nAn ideal answer would cover:\n")
		b.WriteString(req.ExpectedHint)
		b.WriteString("\n")
	}
	if len(req.SubjectAreas) > 0 {
		b.WriteString(fmt.Sprintf("\nSubject areas: %s.\n", strings.Join(req.SubjectAreas, ", ")))
	}
	if req.ExperienceLevel != "" {
		b.WriteString(fmt.Sprintf("Candidate experience level: %s.\n", req.ExperienceLevel))
	}
	b.WriteString(`
Score the answer on four dimensions, each an integer from 0 to 100:
- relevance: how directly the answer addresses the question
- completeness: how thoroughly the answer covers what the question asks for
- technicalAccuracy: correctness of facts, terms and reasoning
- communication: clarity, structure and fluency of the answer

Respond with ONLY a JSON object in exactly this shape, no other text:
{"relevance": 0, "completeness": 0, "technicalAccuracy": 0, "communication": 0, "overall": 0, "feedback": "two or three sentences of concrete feedback", "suggestions": ["short improvement suggestion", "another one"]}
`)
	return b.String()
}

func buildNarrativePrompt(req NarrativeRequest) string {
	var b strings.Builder
	b.WriteString("You are a senior interviewer writing the closing assessment of a completed interview.\n")
	if req.Position != "" {
		b.WriteString(fmt.Sprintf("Position: %s.", req.Position))
	}
	if req.ExperienceLevel != "" {
		b.WriteString(fmt.Sprintf(" Experience level: %s.", req.ExperienceLevel))
	}
	b.WriteString("\n\nTranscript with per-answer scores:\n")
	for _, e := range req.Transcript {
		b.WriteString(fmt.Sprintf("\nQ%d: %s\nAnswer: %s\nScore: %d/100\n", e.QuestionNumber, e.QuestionText, e.AnswerText, e.OverallScore))
	}
	if req.BehavioralSummary != nil {
		s := req.BehavioralSummary
		b.WriteString(fmt.Sprintf(
			"\nBehavioral summary (from video): confidence %.0f, eye contact %.0f, speech clarity %.0f, overall %.0f, dominant emotion %s.\n",
			s.AverageConfidence, s.AverageEyeContact, s.AverageSpeechClarity, s.AverageOverallScore, s.DominantEmotion))
	}
	b.WriteString(`
Write the narrative assessment. Do NOT assign any numeric score; scoring is handled elsewhere.

Respond with ONLY a JSON object in exactly this shape, no other text:
{"strengths": ["..."], "weaknesses": ["..."], "recommendations": ["..."], "narrativeFeedback": "one short paragraph addressed to the candidate"}
`)
	return b.String()
}

func buildQuestionPrompt(req QuestionGenRequest) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Generate %d interview questions for a %s candidate", req.Count, req.Position))
	if req.ExperienceLevel != "" {
		b.WriteString(fmt.Sprintf(" at %s level", req.ExperienceLevel))
	}
	b.WriteString(".\n")
	if len(req.SubjectAreas) > 0 {
		b.WriteString(fmt.Sprintf("Focus on: %s.\n", strings.Join(req.SubjectAreas, ", ")))
	}
	b.WriteString(`
Mix three categories: "technical", "behavioral" and "problem_solving".

Respond with ONLY a JSON array in exactly this shape, no other text:
[{"text": "the question", "category": "technical", "expectedHint": "what a strong answer covers"}]
`)
	return b.String()
}
