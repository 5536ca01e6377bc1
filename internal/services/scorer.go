package services

import (
	"context"
	"fmt"
	"strings"
)

// ScoringService produces natural-language evaluation output via
// prompted model calls. The CV and project operations pull reference
// passages from the retriever before prompting; their output follows the
// labeled templates consumed by the result parser.
type ScoringService interface {
	EvaluateCV(ctx context.Context, cvText string, retriever Retriever) (string, error)
	EvaluateProject(ctx context.Context, projectText string, retriever Retriever) (string, error)
	GenerateSummary(ctx context.Context, cvEvaluation, projectEvaluation string) (string, error)
}

type scoringService struct {
	gemini        GeminiService
	promptBuilder *PromptBuilder
	maxRetries    int
}

func NewScoringService(gemini GeminiService, maxRetries int) ScoringService {
	return &scoringService{
		gemini:        gemini,
		promptBuilder: NewPromptBuilder(),
		maxRetries:    maxRetries,
	}
}

// EvaluateCV implements ScoringService.
func (s *scoringService) EvaluateCV(ctx context.Context, cvText string, retriever Retriever) (string, error) {
	jobDescription, err := s.retrieve(ctx, retriever, QueryJobDescription)
	if err != nil {
		return "", err
	}

	cvRubric, err := s.retrieve(ctx, retriever, QueryCVRubric)
	if err != nil {
		return "", err
	}

	prompt := s.promptBuilder.BuildCVEvaluationPrompt(jobDescription, cvRubric, cvText)

	response, err := s.gemini.GenerateTextWithRetry(ctx, prompt, 0.3, s.maxRetries)
	if err != nil {
		return "", fmt.Errorf("failed to generate CV evaluation: %w", err)
	}

	return response, nil
}

// EvaluateProject implements ScoringService.
func (s *scoringService) EvaluateProject(ctx context.Context, projectText string, retriever Retriever) (string, error) {
	caseStudyBrief, err := s.retrieve(ctx, retriever, QueryCaseStudyBrief)
	if err != nil {
		return "", err
	}

	projectRubric, err := s.retrieve(ctx, retriever, QueryProjectRubric)
	if err != nil {
		return "", err
	}

	prompt := s.promptBuilder.BuildProjectEvaluationPrompt(caseStudyBrief, projectRubric, projectText)

	response, err := s.gemini.GenerateTextWithRetry(ctx, prompt, 0.3, s.maxRetries)
	if err != nil {
		return "", fmt.Errorf("failed to generate project evaluation: %w", err)
	}

	return response, nil
}

// GenerateSummary implements ScoringService.
func (s *scoringService) GenerateSummary(ctx context.Context, cvEvaluation, projectEvaluation string) (string, error) {
	prompt := s.promptBuilder.BuildSummaryPrompt(cvEvaluation, projectEvaluation)

	summary, err := s.gemini.GenerateTextWithRetry(ctx, prompt, 0.5, s.maxRetries)
	if err != nil {
		return "", fmt.Errorf("failed to generate summary: %w", err)
	}

	return strings.TrimSpace(summary), nil
}

// retrieve runs one retriever lookup and joins the passages with spaces,
// in the order the retriever returned them.
func (s *scoringService) retrieve(ctx context.Context, retriever Retriever, query string) (string, error) {
	passages, err := retriever.Query(ctx, query)
	if err != nil {
		return "", fmt.Errorf("failed to retrieve context for %q: %w", query, err)
	}

	return strings.Join(passages, " "), nil
}
