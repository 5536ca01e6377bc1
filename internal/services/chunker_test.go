package services

import (
	"strings"
	"testing"
)

func TestChunkTextShortInput(t *testing.T) {
	chunker := NewTextChunker()

	chunks := chunker.ChunkText("a short paragraph", 1000, 200)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}

	if chunks[0] != "a short paragraph" {
		t.Fatalf("unexpected chunk content: %q", chunks[0])
	}
}

func TestChunkTextEmptyInput(t *testing.T) {
	chunker := NewTextChunker()

	if chunks := chunker.ChunkText("", 1000, 200); len(chunks) != 0 {
		t.Fatalf("expected no chunks, got %d", len(chunks))
	}
}

func TestChunkTextSplitsLongInput(t *testing.T) {
	chunker := NewTextChunker()

	paragraphs := make([]string, 20)
	for i := range paragraphs {
		paragraphs[i] = strings.Repeat("word ", 60)
	}
	text := strings.Join(paragraphs, "\n\n")

	maxSize := 1000
	overlap := 200
	chunks := chunker.ChunkText(text, maxSize, overlap)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	for i, chunk := range chunks {
		if len(chunk) > maxSize+overlap+2 {
			t.Fatalf("chunk %d exceeds size bound: %d", i, len(chunk))
		}
	}
}

func TestChunkTextOverlap(t *testing.T) {
	chunker := NewTextChunker()

	paragraphs := make([]string, 10)
	for i := range paragraphs {
		paragraphs[i] = strings.Repeat("word ", 60)
	}
	text := strings.Join(paragraphs, "\n\n")

	overlap := 100
	chunks := chunker.ChunkText(text, 500, overlap)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	for i := 1; i < len(chunks); i++ {
		tail := lastNRunes(chunks[i-1], overlap)
		if !strings.HasPrefix(chunks[i], tail) {
			t.Fatalf("chunk %d does not start with the tail of chunk %d", i, i-1)
		}
	}
}
