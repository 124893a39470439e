package pdf

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRenderWritesPDF(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.pdf")

	text := "Hello world.\n\nSecond paragraph with\nan internal line break."
	if err := Render(text, out, "Translated: test.pdf"); err != nil {
		t.Fatalf("Render returned error: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	if len(data) == 0 || !strings.HasPrefix(string(data[:8]), "%PDF") {
		t.Fatalf("output is not a PDF (starts with %q)", data[:min(8, len(data))])
	}
}

func TestRenderCreatesOutputDirectory(t *testing.T) {
	out := filepath.Join(t.TempDir(), "nested", "dir", "out.pdf")

	if err := Render("some text", out, "title"); err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("output not written: %v", err)
	}
}

func TestRenderExtractRoundTrip(t *testing.T) {
	out := filepath.Join(t.TempDir(), "round.pdf")

	if err := Render("Hello world from the renderer.", out, "Translated: round.pdf"); err != nil {
		t.Fatalf("Render returned error: %v", err)
	}

	pages, err := ExtractPages(out)
	if err != nil {
		t.Fatalf("ExtractPages returned error: %v", err)
	}
	if len(pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(pages))
	}
	if pages[0].Number != 1 {
		t.Errorf("page number = %d", pages[0].Number)
	}
	if !strings.Contains(pages[0].Text, "Hello world") {
		t.Errorf("extracted text missing body: %q", pages[0].Text)
	}
}

func TestValidatePath(t *testing.T) {
	dir := t.TempDir()

	if err := ValidatePath(""); err == nil {
		t.Error("empty path accepted")
	}
	if err := ValidatePath(filepath.Join(dir, "missing.pdf")); err == nil {
		t.Error("missing file accepted")
	}
	if err := ValidatePath(dir); err == nil {
		t.Error("directory accepted")
	}

	notPDF := filepath.Join(dir, "file.txt")
	if err := os.WriteFile(notPDF, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := ValidatePath(notPDF); err == nil {
		t.Error("non-PDF extension accepted")
	}
}
