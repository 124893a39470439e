package translate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pdfbabel/internal/pdf"
)

func makeInputPDF(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bonjour.pdf")
	if err := pdf.Render(text, path, "bonjour.pdf"); err != nil {
		t.Fatalf("failed to build input PDF: %v", err)
	}
	return path
}

func TestTranslateFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleResponse))
	}))
	defer srv.Close()

	input := makeInputPDF(t, "Bonjour le monde.")
	outDir := t.TempDir()

	translator := NewTranslator(newTestClient(srv.URL), outDir, 3000, 0)

	var progress []int
	outputPath, err := translator.TranslateFile(context.Background(), input, "fr", func(p int) {
		progress = append(progress, p)
	})
	if err != nil {
		t.Fatalf("TranslateFile returned error: %v", err)
	}

	if filepath.Base(outputPath) != "bonjour_translated_en.pdf" {
		t.Errorf("output path = %s", outputPath)
	}
	if _, err := os.Stat(outputPath); err != nil {
		t.Fatalf("output not written: %v", err)
	}

	pages, err := pdf.ExtractPages(outputPath)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if !strings.Contains(pages[0].Text, "Hello world") {
		t.Errorf("output text = %q, want the translation", pages[0].Text)
	}

	if len(progress) == 0 || progress[len(progress)-1] != 100 {
		t.Fatalf("progress reports = %v", progress)
	}
	for i := 1; i < len(progress); i++ {
		if progress[i] < progress[i-1] {
			t.Fatalf("progress decreased: %v", progress)
		}
	}
}

func TestTranslateFileDetectsLanguage(t *testing.T) {
	var sawAuto bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		if r.Form.Get("sl") == LangAuto {
			sawAuto = true
		}
		w.Write([]byte(sampleResponse))
	}))
	defer srv.Close()

	input := makeInputPDF(t, "Bonjour le monde.")
	translator := NewTranslator(newTestClient(srv.URL), t.TempDir(), 3000, 0)

	if _, err := translator.TranslateFile(context.Background(), input, LangAuto, nil); err != nil {
		t.Fatalf("TranslateFile returned error: %v", err)
	}
	if !sawAuto {
		t.Error("no detection request sent for auto source language")
	}
}

func TestTranslateFileProviderFailureAbortsJob(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	input := makeInputPDF(t, "Bonjour le monde.")
	outDir := t.TempDir()
	translator := NewTranslator(newTestClient(srv.URL), outDir, 3000, 0)

	if _, err := translator.TranslateFile(context.Background(), input, "fr", nil); err == nil {
		t.Fatal("expected error when the provider fails")
	}

	// No partial output may exist
	entries, err := os.ReadDir(outDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("partial output written: %v", entries)
	}
}

func TestTranslateFileMissingInput(t *testing.T) {
	translator := NewTranslator(newTestClient("http://unused.invalid"), t.TempDir(), 3000, 0)

	if _, err := translator.TranslateFile(context.Background(), "/nope/missing.pdf", "fr", nil); err == nil {
		t.Fatal("expected error for missing input")
	}
}
