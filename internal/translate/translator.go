package translate

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"pdfbabel/internal/pdf"
)

// ProgressFunc reports forward progress as a 0-100 percentage.
type ProgressFunc func(progress int)

// Translator runs one PDF end-to-end: extract text per page, translate each
// chunk in document order, render the translated text into a new PDF.
type Translator struct {
	client    *Client
	outputDir string
	chunkSize int
	delay     time.Duration
}

// NewTranslator creates a Translator writing output PDFs into outputDir.
func NewTranslator(client *Client, outputDir string, chunkSize int, delay time.Duration) *Translator {
	if chunkSize <= 0 {
		chunkSize = 3000
	}
	return &Translator{
		client:    client,
		outputDir: outputDir,
		chunkSize: chunkSize,
		delay:     delay,
	}
}

// TranslateFile translates a single PDF into English and returns the output
// path. Any phase error aborts the file; no partial output is written.
func (t *Translator) TranslateFile(ctx context.Context, inputPath, sourceLang string, onProgress ProgressFunc) (string, error) {
	report := func(p int) {
		if onProgress != nil {
			onProgress(p)
		}
	}

	report(5)

	pages, err := pdf.ExtractPages(inputPath)
	if err != nil {
		return "", fmt.Errorf("failed to extract text: %w", err)
	}

	// Partition pages into translation chunks, preserving document order
	type partition struct {
		page   int
		chunks []string
	}
	var partitions []partition
	total := 0
	for _, page := range pages {
		if strings.TrimSpace(page.Text) == "" {
			continue
		}
		chunks := SplitChunks(page.Text, t.chunkSize)
		partitions = append(partitions, partition{page: page.Number, chunks: chunks})
		total += len(chunks)
	}
	if total == 0 {
		return "", fmt.Errorf("no text found in PDF")
	}

	report(10)

	if sourceLang == "" || sourceLang == LangAuto {
		detected, err := t.client.Detect(ctx, partitions[0].chunks[0])
		if err != nil {
			return "", fmt.Errorf("language detection failed: %w", err)
		}
		sourceLang = detected
		log.Printf("Detected source language: %s (%s)", LanguageName(sourceLang), sourceLang)
	}

	// Translate chunk by chunk; translating spans 10-90% of the job
	done := 0
	var translatedPages []string
	for _, part := range partitions {
		var translatedChunks []string
		for _, chunk := range part.chunks {
			if done > 0 && t.delay > 0 {
				select {
				case <-ctx.Done():
					return "", ctx.Err()
				case <-time.After(t.delay):
				}
			}

			translated, _, err := t.client.Translate(ctx, chunk, sourceLang, TargetLang)
			if err != nil {
				return "", fmt.Errorf("failed to translate page %d: %w", part.page, err)
			}
			translatedChunks = append(translatedChunks, translated)

			done++
			report(10 + 80*done/total)
		}
		translatedPages = append(translatedPages, strings.Join(translatedChunks, " "))
	}

	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	outputPath := filepath.Join(t.outputDir, base+"_translated_en.pdf")
	title := "Translated: " + filepath.Base(inputPath)

	if err := pdf.Render(strings.Join(translatedPages, "\n\n"), outputPath, title); err != nil {
		return "", fmt.Errorf("failed to render PDF: %w", err)
	}

	report(100)
	return outputPath, nil
}
