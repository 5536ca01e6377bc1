package services

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"cv-screening/internal/models"
	"cv-screening/internal/repositories"
)

// EvaluatorService drives one evaluation job from processing to a
// terminal state.
type EvaluatorService interface {
	EvaluateCandidate(ctx context.Context, evalID uuid.UUID) error
}

type evaluatorService struct {
	evalRepo    repositories.EvaluationRepository
	docRepo     repositories.DocumentRepository
	parser      DocumentParser
	scorer      ScoringService
	vectorStore VectorStore
}

func NewEvaluatorService(
	evalRepo repositories.EvaluationRepository,
	docRepo repositories.DocumentRepository,
	parser DocumentParser,
	scorer ScoringService,
	vectorStore VectorStore,
) EvaluatorService {
	return &evaluatorService{
		evalRepo:    evalRepo,
		docRepo:     docRepo,
		parser:      parser,
		scorer:      scorer,
		vectorStore: vectorStore,
	}
}

// EvaluateCandidate implements EvaluatorService.
//
// The job is marked processing and persisted before any external call,
// so a crash mid-pipeline shows up as stuck-in-processing rather than a
// silently lost job. Any pipeline error is recovered into a terminal
// failed state with the error text in the overall summary. Errors from
// the repository itself are returned to the caller; there is nowhere
// else to record them. Not idempotent: re-running a completed job
// overwrites its results, so callers only dispatch queued jobs.
func (e *evaluatorService) EvaluateCandidate(ctx context.Context, evalID uuid.UUID) error {
	evaluation, err := e.evalRepo.FindByID(evalID)
	if err != nil {
		return fmt.Errorf("failed to get evaluation: %w", err)
	}

	if err := e.evalRepo.UpdateStatus(evalID, models.StatusProcessing); err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	log.Printf("🔄 Starting evaluation for job ID: %s\n", evalID)

	result, err := e.runPipeline(ctx, evaluation)
	if err != nil {
		log.Printf("❌ Evaluation failed for job ID %s: %v\n", evalID, err)

		errMsg := fmt.Sprintf("An error occurred: %v", err)
		if updateErr := e.evalRepo.UpdateError(evalID, errMsg); updateErr != nil {
			return fmt.Errorf("failed to record evaluation failure: %w", updateErr)
		}

		return nil
	}

	if err := e.evalRepo.UpdateResult(evalID, result); err != nil {
		return fmt.Errorf("failed to save results: %w", err)
	}

	log.Printf("✅ Evaluation completed successfully for job ID: %s\n", evalID)
	return nil
}

// runPipeline executes steps 2-7: acquire the retriever, extract text
// from both documents, run the three scoring calls, and parse the
// labeled outputs into typed result fields.
func (e *evaluatorService) runPipeline(ctx context.Context, evaluation *models.Evaluation) (*repositories.EvaluationUpdateData, error) {
	retriever, err := e.vectorStore.GetRetriever()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire retriever: %w", err)
	}

	cvDoc, err := e.docRepo.FindByID(evaluation.CVDocumentID)
	if err != nil {
		return nil, fmt.Errorf("CV document not found: %w", err)
	}

	projectDoc, err := e.docRepo.FindByID(evaluation.ProjectDocumentID)
	if err != nil {
		return nil, fmt.Errorf("project document not found: %w", err)
	}

	log.Println("📄 Parsing CV...")
	cvText, err := e.parser.Parse(cvDoc.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse CV: %w", err)
	}

	log.Println("📄 Parsing project report...")
	projectText, err := e.parser.Parse(projectDoc.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse project report: %w", err)
	}

	log.Println("🤖 Evaluating CV with LLM...")
	cvResult, err := e.scorer.EvaluateCV(ctx, cvText, retriever)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate CV: %w", err)
	}

	log.Println("🤖 Evaluating Project Report with LLM...")
	projectResult, err := e.scorer.EvaluateProject(ctx, projectText, retriever)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate project: %w", err)
	}

	log.Println("🤖 Generating overall summary...")
	summary, err := e.scorer.GenerateSummary(ctx, cvResult, projectResult)
	if err != nil {
		return nil, fmt.Errorf("failed to generate summary: %w", err)
	}

	cvMatchRate, cvFeedback, err := ParseCVEvaluation(cvResult)
	if err != nil {
		return nil, fmt.Errorf("failed to parse CV evaluation output: %w", err)
	}

	projectScore, projectFeedback, err := ParseProjectEvaluation(projectResult)
	if err != nil {
		return nil, fmt.Errorf("failed to parse project evaluation output: %w", err)
	}

	return &repositories.EvaluationUpdateData{
		CVMatchRate:     cvMatchRate,
		CVFeedback:      cvFeedback,
		ProjectScore:    projectScore,
		ProjectFeedback: projectFeedback,
		OverallSummary:  summary,
	}, nil
}
