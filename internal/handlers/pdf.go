package handlers

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"

	"pdfbabel/internal/ingestion"
	"pdfbabel/internal/translate"
)

// PDFHandler handles PDF upload requests.
type PDFHandler struct {
	ingester  *ingestion.PDFIngester
	maxUpload int64
}

// NewPDFHandler creates a new PDFHandler.
func NewPDFHandler(ingester *ingestion.PDFIngester, maxUploadBytes int64) *PDFHandler {
	return &PDFHandler{ingester: ingester, maxUpload: maxUploadBytes}
}

// Upload accepts one or more PDF files and creates a translation job per
// file. Validation happens before any job is created.
// POST /upload
func (h *PDFHandler) Upload(c echo.Context) error {
	ctx := c.Request().Context()

	form, err := c.MultipartForm()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "failed to parse form"})
	}

	files := form.File["files"]
	if len(files) == 0 {
		files = form.File["files[]"]
	}
	if len(files) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "no files uploaded"})
	}

	sourceLang := c.FormValue("source_lang")
	if sourceLang == "" {
		sourceLang = translate.LangAuto
	}
	if !translate.IsSupportedSource(sourceLang) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "unsupported source language: " + sourceLang})
	}

	// Reject everything before any job exists
	for _, fh := range files {
		if err := h.validate(fh); err != nil {
			status := http.StatusBadRequest
			if strings.Contains(err.Error(), "too large") {
				status = http.StatusRequestEntityTooLarge
			}
			return c.JSON(status, map[string]string{"error": err.Error()})
		}
	}

	var uploads []ingestion.UploadFile
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to open file"})
		}
		defer f.Close()

		uploads = append(uploads, ingestion.UploadFile{
			Filename: fh.Filename,
			Reader:   f,
		})
	}

	results, err := h.ingester.Ingest(ctx, ingestion.IngestOptions{
		Files:      uploads,
		SourceLang: sourceLang,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	taskIDs := make([]string, 0, len(results))
	for _, r := range results {
		taskIDs = append(taskIDs, r.JobID)
	}

	return c.JSON(http.StatusAccepted, map[string]interface{}{
		"task_ids": taskIDs,
		"message":  fmt.Sprintf("Started processing %d file(s)", len(taskIDs)),
	})
}

func (h *PDFHandler) validate(fh *multipart.FileHeader) error {
	if fh.Filename == "" {
		return fmt.Errorf("no selected file")
	}
	if ext := strings.ToLower(filepath.Ext(fh.Filename)); ext != ".pdf" {
		return fmt.Errorf("only PDF files are allowed: %s", fh.Filename)
	}
	if fh.Size > h.maxUpload {
		return fmt.Errorf("file too large: %s (maximum size is %d MB)", fh.Filename, h.maxUpload/(1024*1024))
	}
	return nil
}
