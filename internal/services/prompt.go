package services

import (
	"fmt"
	"strings"
)

const contextDelimiter = "\n\n---\n\n"

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildCVEvaluationPrompt returns the system/user pair for the CV stage.
func (pb *PromptBuilder) BuildCVEvaluationPrompt(jobTitle, ragContext, cvText string) (string, string) {
	system := `You are an expert technical recruiter evaluating a CV against the Job Description and CV scoring rubric.
Instructions: give JSON with fields: cv_match_rate (0.0-1.0), cv_feedback (string).
Use only the contextual information provided below where relevant.`

	user := fmt.Sprintf(`Job Title: %s

Job Description / Rubric context:
%s

Candidate CV:
%s`, jobTitle, ragContext, cvText)

	return system, user
}

// BuildProjectEvaluationPrompt returns the system/user pair for the project stage.
func (pb *PromptBuilder) BuildProjectEvaluationPrompt(ragContext, projectText string) (string, string) {
	system := `You are an expert evaluating a candidate's project report against the case study brief and project rubric.
Return JSON with: project_score (1.0-5.0), project_feedback (string).`

	user := fmt.Sprintf(`Case Study / Rubric:
%s

Project Report:
%s`, ragContext, projectText)

	return system, user
}

// BuildSummaryPrompt returns the system/user pair for the final synthesis.
func (pb *PromptBuilder) BuildSummaryPrompt(cvMatchRate float64, cvFeedback string, projectScore float64, projectFeedback string) (string, string) {
	system := "You are an expert synthesizer. Create a 2-3 sentence overall_summary based on CV and Project results. Output plain text."

	user := fmt.Sprintf(`CV result: match_rate=%.2f, feedback=%s

Project result: score=%.2f, feedback=%s`, cvMatchRate, cvFeedback, projectScore, projectFeedback)

	return system, user
}

// FormatRAGContext joins retrieved chunk texts in rank order.
func FormatRAGContext(results []RetrievedChunk) string {
	if len(results) == 0 {
		return "No relevant context found."
	}

	parts := make([]string, 0, len(results))
	for _, result := range results {
		parts = append(parts, strings.TrimSpace(result.Chunk.Text))
	}

	return strings.Join(parts, contextDelimiter)
}
