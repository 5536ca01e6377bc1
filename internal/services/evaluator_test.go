package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"cv-screening/internal/models"
	"cv-screening/internal/repositories"
)

type stubEvalRepo struct {
	events *[]string

	job       *models.Evaluation
	findErr   error
	statusErr error
	resultErr error
	errorErr  error

	status   models.EvaluationStatus
	result   *repositories.EvaluationUpdateData
	errorMsg string
}

func (s *stubEvalRepo) record(event string) {
	if s.events != nil {
		*s.events = append(*s.events, event)
	}
}

func (s *stubEvalRepo) Create(eval *models.Evaluation) error { return nil }

func (s *stubEvalRepo) FindByID(id uuid.UUID) (*models.Evaluation, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.job, nil
}

func (s *stubEvalRepo) UpdateStatus(id uuid.UUID, status models.EvaluationStatus) error {
	s.record("update-status:" + string(status))
	if s.statusErr != nil {
		return s.statusErr
	}
	s.status = status
	return nil
}

func (s *stubEvalRepo) UpdateResult(id uuid.UUID, data *repositories.EvaluationUpdateData) error {
	s.record("update-result")
	if s.resultErr != nil {
		return s.resultErr
	}
	s.status = models.StatusCompleted
	s.result = data
	return nil
}

func (s *stubEvalRepo) UpdateError(id uuid.UUID, errorMsg string) error {
	s.record("update-error")
	if s.errorErr != nil {
		return s.errorErr
	}
	s.status = models.StatusFailed
	s.errorMsg = errorMsg
	return nil
}

func (s *stubEvalRepo) FindPendingJobs(limit int) ([]models.Evaluation, error) {
	return nil, nil
}

type stubDocRepo struct {
	docs map[uuid.UUID]*models.Document
	err  error
}

func (s *stubDocRepo) Create(doc *models.Document) error { return nil }

func (s *stubDocRepo) FindByID(id uuid.UUID) (*models.Document, error) {
	if s.err != nil {
		return nil, s.err
	}
	doc, ok := s.docs[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return doc, nil
}

func (s *stubDocRepo) FindByIDs(ids []uuid.UUID) ([]models.Document, error) {
	return nil, nil
}

type stubParser struct {
	parseFn func(filePath string) (string, error)
}

func (s *stubParser) Parse(filePath string) (string, error) {
	return s.parseFn(filePath)
}

type stubRetriever struct {
	queryFn func(ctx context.Context, text string) ([]string, error)
}

func (s *stubRetriever) Query(ctx context.Context, text string) ([]string, error) {
	if s.queryFn != nil {
		return s.queryFn(ctx, text)
	}
	return []string{"reference passage"}, nil
}

type stubVectorStore struct {
	events    *[]string
	retriever Retriever
	err       error
}

func (s *stubVectorStore) InitCollection() error { return nil }

func (s *stubVectorStore) GetRetriever() (Retriever, error) {
	if s.events != nil {
		*s.events = append(*s.events, "get-retriever")
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.retriever, nil
}

func (s *stubVectorStore) UpsertDocument(ctx context.Context, docID string, docType string, text string, embedding []float32) error {
	return nil
}

func (s *stubVectorStore) DeleteDocument(ctx context.Context, docID string) error {
	return nil
}

type stubScorer struct {
	cvFn      func(ctx context.Context, cvText string, retriever Retriever) (string, error)
	projectFn func(ctx context.Context, projectText string, retriever Retriever) (string, error)
	summaryFn func(ctx context.Context, cvEval, projectEval string) (string, error)
}

func (s *stubScorer) EvaluateCV(ctx context.Context, cvText string, retriever Retriever) (string, error) {
	return s.cvFn(ctx, cvText, retriever)
}

func (s *stubScorer) EvaluateProject(ctx context.Context, projectText string, retriever Retriever) (string, error) {
	return s.projectFn(ctx, projectText, retriever)
}

func (s *stubScorer) GenerateSummary(ctx context.Context, cvEval, projectEval string) (string, error) {
	return s.summaryFn(ctx, cvEval, projectEval)
}

type fixture struct {
	evalID   uuid.UUID
	evalRepo *stubEvalRepo
	docRepo  *stubDocRepo
	parser   *stubParser
	scorer   *stubScorer
	store    *stubVectorStore
}

// newFixture wires stubs for the happy path: fixed parsed text, fixed
// passages, and scoring output in the expected labeled format.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	evalID := uuid.New()
	cvDocID := uuid.New()
	projectDocID := uuid.New()

	job := &models.Evaluation{
		ID:                evalID,
		JobTitle:          "Backend Engineer",
		CVDocumentID:      cvDocID,
		ProjectDocumentID: projectDocID,
		Status:            models.StatusQueued,
	}

	return &fixture{
		evalID:   evalID,
		evalRepo: &stubEvalRepo{job: job, status: job.Status},
		docRepo: &stubDocRepo{docs: map[uuid.UUID]*models.Document{
			cvDocID:      {ID: cvDocID, FilePath: "/tmp/cv.pdf"},
			projectDocID: {ID: projectDocID, FilePath: "/tmp/project.pdf"},
		}},
		parser: &stubParser{parseFn: func(string) (string, error) {
			return "document text", nil
		}},
		scorer: &stubScorer{
			cvFn: func(context.Context, string, Retriever) (string, error) {
				return "Match Rate: 0.8\nFeedback: Strong", nil
			},
			projectFn: func(context.Context, string, Retriever) (string, error) {
				return "Score: 4.0\nFeedback: Solid", nil
			},
			summaryFn: func(context.Context, string, string) (string, error) {
				return "Great candidate.", nil
			},
		},
		store: &stubVectorStore{retriever: &stubRetriever{}},
	}
}

func (f *fixture) evaluator() EvaluatorService {
	return NewEvaluatorService(f.evalRepo, f.docRepo, f.parser, f.scorer, f.store)
}

func TestEvaluateCandidateCompletes(t *testing.T) {
	f := newFixture(t)

	if err := f.evaluator().EvaluateCandidate(context.Background(), f.evalID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if f.evalRepo.status != models.StatusCompleted {
		t.Fatalf("expected status completed, got %s", f.evalRepo.status)
	}

	result := f.evalRepo.result
	if result == nil {
		t.Fatal("expected results to be persisted")
	}

	if result.CVMatchRate != 0.8 {
		t.Fatalf("expected cv match rate 0.8, got %v", result.CVMatchRate)
	}
	if result.CVFeedback != "Strong" {
		t.Fatalf("expected cv feedback %q, got %q", "Strong", result.CVFeedback)
	}
	if result.ProjectScore != 4.0 {
		t.Fatalf("expected project score 4.0, got %v", result.ProjectScore)
	}
	if result.ProjectFeedback != "Solid" {
		t.Fatalf("expected project feedback %q, got %q", "Solid", result.ProjectFeedback)
	}
	if result.OverallSummary != "Great candidate." {
		t.Fatalf("expected summary %q, got %q", "Great candidate.", result.OverallSummary)
	}
}

func TestEvaluateCandidateMarksProcessingBeforeExternalCalls(t *testing.T) {
	f := newFixture(t)

	var events []string
	f.evalRepo.events = &events
	f.store.events = &events

	if err := f.evaluator().EvaluateCandidate(context.Background(), f.evalID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(events) < 2 {
		t.Fatalf("expected at least two recorded events, got %v", events)
	}

	if events[0] != "update-status:processing" {
		t.Fatalf("expected processing update first, got %v", events)
	}

	if events[1] != "get-retriever" {
		t.Fatalf("expected retriever acquisition after processing update, got %v", events)
	}
}

func TestEvaluateCandidateNotFound(t *testing.T) {
	f := newFixture(t)
	f.evalRepo.findErr = repositories.ErrNotFound

	err := f.evaluator().EvaluateCandidate(context.Background(), f.evalID)
	if !errors.Is(err, repositories.ErrNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}

	if f.evalRepo.result != nil || f.evalRepo.errorMsg != "" {
		t.Fatal("expected no updates for unknown job")
	}
}

func TestEvaluateCandidateStageFailures(t *testing.T) {
	injected := errors.New("stage blew up")

	cases := []struct {
		name  string
		setup func(f *fixture)
	}{
		{"retriever acquisition", func(f *fixture) {
			f.store.err = injected
		}},
		{"document lookup", func(f *fixture) {
			f.docRepo.err = injected
		}},
		{"document parse", func(f *fixture) {
			f.parser.parseFn = func(string) (string, error) { return "", injected }
		}},
		{"cv scoring", func(f *fixture) {
			f.scorer.cvFn = func(context.Context, string, Retriever) (string, error) { return "", injected }
		}},
		{"project scoring", func(f *fixture) {
			f.scorer.projectFn = func(context.Context, string, Retriever) (string, error) { return "", injected }
		}},
		{"summary generation", func(f *fixture) {
			f.scorer.summaryFn = func(context.Context, string, string) (string, error) { return "", injected }
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			tc.setup(f)

			if err := f.evaluator().EvaluateCandidate(context.Background(), f.evalID); err != nil {
				t.Fatalf("pipeline failure should be recovered, got %v", err)
			}

			if f.evalRepo.status != models.StatusFailed {
				t.Fatalf("expected status failed, got %s", f.evalRepo.status)
			}

			if f.evalRepo.result != nil {
				t.Fatal("expected no result fields on failure")
			}

			if !strings.Contains(f.evalRepo.errorMsg, injected.Error()) {
				t.Fatalf("expected error message to contain %q, got %q", injected.Error(), f.evalRepo.errorMsg)
			}

			if !strings.HasPrefix(f.evalRepo.errorMsg, "An error occurred:") {
				t.Fatalf("unexpected error message format: %q", f.evalRepo.errorMsg)
			}
		})
	}
}

func TestEvaluateCandidateMalformedScoringOutput(t *testing.T) {
	f := newFixture(t)
	f.scorer.cvFn = func(context.Context, string, Retriever) (string, error) {
		return "Match Rate: 0.8 with no feedback marker", nil
	}

	if err := f.evaluator().EvaluateCandidate(context.Background(), f.evalID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if f.evalRepo.status != models.StatusFailed {
		t.Fatalf("expected status failed, got %s", f.evalRepo.status)
	}

	if f.evalRepo.result != nil {
		t.Fatal("job must never complete with unparsed output")
	}
}

func TestEvaluateCandidateRepositoryFailures(t *testing.T) {
	repoErr := errors.New("database unavailable")

	t.Run("status update", func(t *testing.T) {
		f := newFixture(t)
		f.evalRepo.statusErr = repoErr

		if err := f.evaluator().EvaluateCandidate(context.Background(), f.evalID); !errors.Is(err, repoErr) {
			t.Fatalf("expected repository error to surface, got %v", err)
		}
	})

	t.Run("result write", func(t *testing.T) {
		f := newFixture(t)
		f.evalRepo.resultErr = repoErr

		if err := f.evaluator().EvaluateCandidate(context.Background(), f.evalID); !errors.Is(err, repoErr) {
			t.Fatalf("expected repository error to surface, got %v", err)
		}
	})

	t.Run("failure write", func(t *testing.T) {
		f := newFixture(t)
		f.store.err = errors.New("retriever down")
		f.evalRepo.errorErr = repoErr

		if err := f.evaluator().EvaluateCandidate(context.Background(), f.evalID); !errors.Is(err, repoErr) {
			t.Fatalf("expected repository error to surface, got %v", err)
		}
	})
}

// Re-running a completed job is not guarded inside the orchestrator; it
// overwrites the previous results. The poller only re-dispatches queued
// jobs, so this pins the current behavior rather than endorsing it.
func TestEvaluateCandidateOverwritesCompletedJob(t *testing.T) {
	f := newFixture(t)

	oldRate := 0.1
	f.evalRepo.job.Status = models.StatusCompleted
	f.evalRepo.job.CVMatchRate = &oldRate
	f.evalRepo.status = models.StatusCompleted

	if err := f.evaluator().EvaluateCandidate(context.Background(), f.evalID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if f.evalRepo.result == nil || f.evalRepo.result.CVMatchRate != 0.8 {
		t.Fatalf("expected completed job to be overwritten, got %+v", f.evalRepo.result)
	}
}
