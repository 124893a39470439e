package translate

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplitChunksShortText(t *testing.T) {
	chunks := SplitChunks("bonjour le monde", 3000)
	if len(chunks) != 1 || chunks[0] != "bonjour le monde" {
		t.Fatalf("unexpected chunks: %q", chunks)
	}
}

func TestSplitChunksEmpty(t *testing.T) {
	if chunks := SplitChunks("", 3000); chunks != nil {
		t.Fatalf("expected nil for empty text, got %q", chunks)
	}
}

func TestSplitChunksPreservesOrderAndContent(t *testing.T) {
	words := make([]string, 200)
	for i := range words {
		words[i] = "mot"
	}
	text := strings.Join(words, " ")

	chunks := SplitChunks(text, 50)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	for i, chunk := range chunks {
		if utf8.RuneCountInString(chunk) > 50 {
			t.Errorf("chunk %d exceeds size: %d runes", i, utf8.RuneCountInString(chunk))
		}
	}

	rejoined := strings.Join(chunks, "")
	if rejoined != text {
		t.Error("concatenated chunks differ from input")
	}
}

func TestSplitChunksBreaksAtWhitespace(t *testing.T) {
	text := strings.Repeat("alpha beta ", 20)
	chunks := SplitChunks(text, 30)

	for i, chunk := range chunks[:len(chunks)-1] {
		if !strings.HasSuffix(chunk, " ") {
			t.Errorf("chunk %d does not end at a word boundary: %q", i, chunk)
		}
	}
}

func TestSplitChunksHandlesUnbrokenText(t *testing.T) {
	text := strings.Repeat("x", 100)
	chunks := SplitChunks(text, 40)

	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	if strings.Join(chunks, "") != text {
		t.Error("concatenated chunks differ from input")
	}
}
