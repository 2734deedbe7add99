package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
)

// EvaluatorService runs the three-stage scoring pipeline. Evaluate never
// returns an error: provider failures inside any stage collapse into a
// degraded outcome so the caller can always finalize the job.
type EvaluatorService interface {
	Evaluate(ctx context.Context, jobTitle, cvText, projectText string) *EvaluationOutcome
}

type EvaluationOutcome struct {
	CVMatchRate     float64
	CVFeedback      string
	ProjectScore    float64
	ProjectFeedback string
	OverallSummary  string
}

type evaluatorService struct {
	rag           RAGService
	gemini        GeminiService
	promptBuilder *PromptBuilder
	maxRetries    int
}

func NewEvaluatorService(
	rag RAGService,
	gemini GeminiService,
	maxRetries int,
) EvaluatorService {
	return &evaluatorService{
		rag:           rag,
		gemini:        gemini,
		promptBuilder: NewPromptBuilder(),
		maxRetries:    maxRetries,
	}
}

type cvStageResult struct {
	CVMatchRate float64 `json:"cv_match_rate"`
	CVFeedback  string  `json:"cv_feedback"`
}

type projectStageResult struct {
	ProjectScore    float64 `json:"project_score"`
	ProjectFeedback string  `json:"project_feedback"`
}

// Evaluate implements EvaluatorService. Stage order is fixed: CV, then
// project, then summary (which consumes both prior outputs).
func (e *evaluatorService) Evaluate(ctx context.Context, jobTitle, cvText, projectText string) *EvaluationOutcome {
	log.Printf("🚀 Starting evaluation pipeline for %q", jobTitle)

	cvResult, err := e.evaluateCV(ctx, jobTitle, cvText)
	if err != nil {
		log.Printf("❌ Evaluation pipeline failed: %v", err)
		return degradedOutcome(err)
	}
	log.Printf("✅ CV stage complete: match_rate=%.2f", cvResult.CVMatchRate)

	projectResult, err := e.evaluateProject(ctx, jobTitle, projectText)
	if err != nil {
		log.Printf("❌ Evaluation pipeline failed: %v", err)
		return degradedOutcome(err)
	}
	log.Printf("✅ Project stage complete: score=%.2f", projectResult.ProjectScore)

	summary, err := e.summarize(ctx, cvResult, projectResult)
	if err != nil {
		log.Printf("❌ Evaluation pipeline failed: %v", err)
		return degradedOutcome(err)
	}
	log.Println("✅ Overall summary generated")

	return &EvaluationOutcome{
		CVMatchRate:     cvResult.CVMatchRate,
		CVFeedback:      cvResult.CVFeedback,
		ProjectScore:    projectResult.ProjectScore,
		ProjectFeedback: projectResult.ProjectFeedback,
		OverallSummary:  summary,
	}
}

func (e *evaluatorService) evaluateCV(ctx context.Context, jobTitle, cvText string) (*cvStageResult, error) {
	retrieved, err := e.rag.Retrieve(ctx, jobTitle, []string{"job_description", "cv_rubric"}, 3)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve CV context: %w", err)
	}

	system, user := e.promptBuilder.BuildCVEvaluationPrompt(jobTitle, FormatRAGContext(retrieved), cvText)

	response, err := e.gemini.GenerateTextWithRetry(ctx, system, user, 0.2, 800, e.maxRetries)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CV evaluation: %w", err)
	}

	var result cvStageResult
	if err := parseJSONPayload(response, &result); err != nil {
		return nil, fmt.Errorf("failed to parse CV evaluation response: %w", err)
	}
	return &result, nil
}

func (e *evaluatorService) evaluateProject(ctx context.Context, jobTitle, projectText string) (*projectStageResult, error) {
	retrieved, err := e.rag.Retrieve(ctx, jobTitle, []string{"case_study", "project_rubric"}, 3)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve project context: %w", err)
	}

	system, user := e.promptBuilder.BuildProjectEvaluationPrompt(FormatRAGContext(retrieved), projectText)

	response, err := e.gemini.GenerateTextWithRetry(ctx, system, user, 0.2, 800, e.maxRetries)
	if err != nil {
		return nil, fmt.Errorf("failed to generate project evaluation: %w", err)
	}

	var result projectStageResult
	if err := parseJSONPayload(response, &result); err != nil {
		return nil, fmt.Errorf("failed to parse project evaluation response: %w", err)
	}
	return &result, nil
}

func (e *evaluatorService) summarize(ctx context.Context, cv *cvStageResult, project *projectStageResult) (string, error) {
	system, user := e.promptBuilder.BuildSummaryPrompt(
		cv.CVMatchRate,
		cv.CVFeedback,
		project.ProjectScore,
		project.ProjectFeedback,
	)

	summary, err := e.gemini.GenerateTextWithRetry(ctx, system, user, 0.1, 300, e.maxRetries)
	if err != nil {
		return "", fmt.Errorf("failed to generate summary: %w", err)
	}

	return strings.TrimSpace(summary), nil
}

func degradedOutcome(err error) *EvaluationOutcome {
	return &EvaluationOutcome{
		CVMatchRate:     0,
		CVFeedback:      fmt.Sprintf("AI evaluation failed: %v", err),
		ProjectScore:    1,
		ProjectFeedback: "Evaluation failed.",
		OverallSummary:  "Evaluation pipeline failed before completion.",
	}
}

func parseJSONPayload(response string, target interface{}) error {
	payload := extractJSONPayload(response)
	if err := json.Unmarshal([]byte(payload), target); err != nil {
		return fmt.Errorf("failed to unmarshal JSON: %w", err)
	}
	return nil
}

// extractJSONPayload pulls the structured payload out of free-form model
// output: markdown fences are stripped, then everything between the first
// '{' and the last '}' is taken as the payload. Anything else is returned
// as-is and left to the JSON parser to reject.
func extractJSONPayload(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end > start {
		return text[start : end+1]
	}

	return text
}
