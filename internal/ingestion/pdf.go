package ingestion

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"pdfbabel/internal/models"
	"pdfbabel/internal/storage"
	"pdfbabel/internal/translate"
)

// PDFIngester accepts uploaded PDFs and processes their translation jobs.
type PDFIngester struct {
	jobRepo    *storage.JobRepository
	translator *translate.Translator
	uploadDir  string
}

// NewPDFIngester creates a new PDFIngester.
func NewPDFIngester(jobRepo *storage.JobRepository, translator *translate.Translator, uploadDir string) *PDFIngester {
	return &PDFIngester{
		jobRepo:    jobRepo,
		translator: translator,
		uploadDir:  uploadDir,
	}
}

// UploadFile is one uploaded PDF.
type UploadFile struct {
	Filename string
	Reader   io.Reader
}

// IngestOptions contains options for PDF ingestion.
type IngestOptions struct {
	Files      []UploadFile
	SourceLang string // language code or "auto"
}

// IngestResult is the created job handle for one uploaded file.
type IngestResult struct {
	JobID    string
	Filename string
}

// ProgressCallback reports job progress while processing.
type ProgressCallback func(progress int)

// Ingest saves the uploaded files and creates one queued job per file. The
// saved name is prefixed with the job id so concurrent uploads of the same
// filename never collide.
func (i *PDFIngester) Ingest(ctx context.Context, opts IngestOptions) ([]IngestResult, error) {
	if len(opts.Files) == 0 {
		return nil, fmt.Errorf("no files provided")
	}
	sourceLang := opts.SourceLang
	if sourceLang == "" {
		sourceLang = translate.LangAuto
	}
	if !translate.IsSupportedSource(sourceLang) {
		return nil, fmt.Errorf("unsupported source language: %s", sourceLang)
	}

	if err := os.MkdirAll(i.uploadDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	var results []IngestResult
	for _, file := range opts.Files {
		name := SanitizeFilename(file.Filename)
		if name == "" || strings.ToLower(filepath.Ext(name)) != ".pdf" {
			return nil, fmt.Errorf("not a PDF file: %s", file.Filename)
		}

		job := &models.TranslationJob{
			Filename:   name,
			SourceLang: sourceLang,
			Type:       models.JobTypeTranslate,
		}

		// Assign the id up front so the stored file can carry it
		job.ID = uuid.New().String()
		uploadPath := filepath.Join(i.uploadDir, job.ID+"_"+name)

		dest, err := os.Create(uploadPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create file: %w", err)
		}
		_, err = io.Copy(dest, file.Reader)
		dest.Close()
		if err != nil {
			os.Remove(uploadPath)
			return nil, fmt.Errorf("failed to save file: %w", err)
		}

		job.UploadPath = uploadPath
		if err := i.jobRepo.Create(ctx, job); err != nil {
			os.Remove(uploadPath)
			return nil, fmt.Errorf("failed to create job: %w", err)
		}

		results = append(results, IngestResult{JobID: job.ID, Filename: name})
	}

	return results, nil
}

// ProcessTranslation runs the translation for a claimed job. Called by the
// worker; the worker owns the job's state transitions around this call.
func (i *PDFIngester) ProcessTranslation(ctx context.Context, job *models.TranslationJob, onProgress ProgressCallback) (string, error) {
	outputPath, err := i.translator.TranslateFile(ctx, job.UploadPath, job.SourceLang, translate.ProgressFunc(onProgress))
	if err != nil {
		return "", err
	}

	// The upload is no longer needed once the result exists
	if err := os.Remove(job.UploadPath); err != nil && !os.IsNotExist(err) {
		log.Printf("Failed to remove upload for job %s: %v", job.ID, err)
	}

	return filepath.Base(outputPath), nil
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SanitizeFilename reduces a client-supplied filename to a safe basename.
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = unsafeFilenameChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	if name == "" {
		return ""
	}
	return name
}
