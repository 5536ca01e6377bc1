package services

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type stubGemini struct {
	response string
	err      error
	prompts  []string
}

func (s *stubGemini) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	return nil, errors.New("not used")
}

func (s *stubGemini) GenerateText(ctx context.Context, prompt string, temperature float32) (string, error) {
	return s.GenerateTextWithRetry(ctx, prompt, temperature, 1)
}

func (s *stubGemini) GenerateTextWithRetry(ctx context.Context, prompt string, temperature float32, maxRetries int) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

type recordingRetriever struct {
	queries  []string
	passages []string
	err      error
}

func (r *recordingRetriever) Query(ctx context.Context, text string) ([]string, error) {
	r.queries = append(r.queries, text)
	if r.err != nil {
		return nil, r.err
	}
	return r.passages, nil
}

func TestEvaluateCVQueriesBothReferences(t *testing.T) {
	gemini := &stubGemini{response: "Match Rate: 0.7\nFeedback: ok"}
	retriever := &recordingRetriever{passages: []string{"first passage", "second passage"}}

	scorer := NewScoringService(gemini, 1)

	output, err := scorer.EvaluateCV(context.Background(), "cv text", retriever)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if output != "Match Rate: 0.7\nFeedback: ok" {
		t.Fatalf("unexpected output: %q", output)
	}

	if len(retriever.queries) != 2 {
		t.Fatalf("expected 2 retrieval lookups, got %d", len(retriever.queries))
	}

	if retriever.queries[0] != QueryJobDescription || retriever.queries[1] != QueryCVRubric {
		t.Fatalf("unexpected retrieval queries: %v", retriever.queries)
	}

	if len(gemini.prompts) != 1 {
		t.Fatalf("expected one model call, got %d", len(gemini.prompts))
	}

	// Passages are space-joined in retriever order.
	if !strings.Contains(gemini.prompts[0], "first passage second passage") {
		t.Fatalf("expected joined passages in prompt, got:\n%s", gemini.prompts[0])
	}

	if !strings.Contains(gemini.prompts[0], "cv text") {
		t.Fatal("expected CV text in prompt")
	}
}

func TestEvaluateProjectQueriesBothReferences(t *testing.T) {
	gemini := &stubGemini{response: "Score: 3.5\nFeedback: ok"}
	retriever := &recordingRetriever{passages: []string{"brief"}}

	scorer := NewScoringService(gemini, 1)

	if _, err := scorer.EvaluateProject(context.Background(), "report text", retriever); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(retriever.queries) != 2 {
		t.Fatalf("expected 2 retrieval lookups, got %d", len(retriever.queries))
	}

	if retriever.queries[0] != QueryCaseStudyBrief || retriever.queries[1] != QueryProjectRubric {
		t.Fatalf("unexpected retrieval queries: %v", retriever.queries)
	}
}

func TestEvaluateCVRetrievalFailure(t *testing.T) {
	gemini := &stubGemini{response: "unused"}
	retriever := &recordingRetriever{err: errors.New("index unavailable")}

	scorer := NewScoringService(gemini, 1)

	if _, err := scorer.EvaluateCV(context.Background(), "cv text", retriever); err == nil {
		t.Fatal("expected retrieval failure to propagate")
	}

	if len(gemini.prompts) != 0 {
		t.Fatal("model must not be called when retrieval fails")
	}
}

func TestGenerateSummaryTrimsOutput(t *testing.T) {
	gemini := &stubGemini{response: "  A solid hire.  \n"}

	scorer := NewScoringService(gemini, 1)

	summary, err := scorer.GenerateSummary(context.Background(), "cv eval", "project eval")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary != "A solid hire." {
		t.Fatalf("expected trimmed summary, got %q", summary)
	}

	if !strings.Contains(gemini.prompts[0], "cv eval") || !strings.Contains(gemini.prompts[0], "project eval") {
		t.Fatal("expected both evaluations in the summary prompt")
	}
}
