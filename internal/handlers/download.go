package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
)

// DownloadHandler streams finished PDFs from the download directory.
type DownloadHandler struct {
	downloadDir string
}

// NewDownloadHandler creates a new DownloadHandler.
func NewDownloadHandler(downloadDir string) *DownloadHandler {
	return &DownloadHandler{downloadDir: downloadDir}
}

// Get streams a translated PDF as an attachment. Results only exist once a
// job completed, so a missing file covers every not-ready case.
// GET /download/:filename
func (h *DownloadHandler) Get(c echo.Context) error {
	name := c.Param("filename")

	// Reject any path traversal attempt
	if name == "" || name != filepath.Base(name) || strings.Contains(name, "..") {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid filename"})
	}

	path := filepath.Join(h.downloadDir, name)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "file not found"})
	}

	return c.Attachment(path, name)
}
