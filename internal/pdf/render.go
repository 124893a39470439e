package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-pdf/fpdf"
)

// Render writes text into a new A4 PDF at outputPath. Paragraphs are split on
// blank lines and laid out justified under a title line. The output language
// is English, so the core fonts' cp1252 range is sufficient.
func Render(text, outputPath, title string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetTitle(title, true)
	doc.SetMargins(25, 25, 25)
	doc.SetAutoPageBreak(true, 20)
	doc.AddPage()

	tr := doc.UnicodeTranslatorFromDescriptor("")

	doc.SetFont("Helvetica", "B", 16)
	doc.MultiCell(0, 8, tr(title), "", "L", false)
	doc.Ln(6)

	doc.SetFont("Helvetica", "", 11)
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		// Collapse internal line breaks into flowing text
		para = strings.Join(strings.Fields(para), " ")
		doc.MultiCell(0, 6, tr(para), "", "J", false)
		doc.Ln(3)
	}

	if err := doc.OutputFileAndClose(outputPath); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	return nil
}
