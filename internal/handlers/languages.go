package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"pdfbabel/internal/translate"
)

// Languages returns the supported source language name -> code map.
// GET /api/languages
func Languages(c echo.Context) error {
	return c.JSON(http.StatusOK, translate.SupportedLanguages)
}
