// Package fpdf renders change reports as PDF documents.
package fpdf

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fwojciec/pagewatch"
	"github.com/go-pdf/fpdf"
)

// Ensure Renderer implements pagewatch.ReportRenderer at compile time.
var _ pagewatch.ReportRenderer = (*Renderer)(nil)

// FileLayout is the time layout of report file names.
const FileLayout = "2006-01-02_150405Z"

// Page geometry in points (US Letter, one-inch margins).
const (
	marginLeft = 72.0
	marginTop  = 72.0
	lineGap    = 14.0
)

// Renderer writes change reports into a directory.
type Renderer struct {
	dir string
}

// NewRenderer creates a Renderer writing into dir. The directory is created
// on first render.
func NewRenderer(dir string) *Renderer {
	return &Renderer{dir: dir}
}

// FileName returns the report file name for a change detected at t.
func FileName(t time.Time) string {
	return fmt.Sprintf("change_%s.pdf", t.UTC().Format(FileLayout))
}

// RenderReport writes a one-page report for a change notification and
// returns the path of the written file.
func (r *Renderer) RenderReport(n *pagewatch.Notification) (string, error) {
	if n.Kind != pagewatch.ChangeAlert {
		return "", pagewatch.Errorf(pagewatch.EINVALID, "cannot render report for %s notification", n.Kind)
	}

	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(r.dir, FileName(n.Time))

	pdf := fpdf.New("P", "pt", "Letter", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Monitor Change Report", true)
	pdf.AddPage()

	y := marginTop
	line := func(style string, size float64, text string) {
		pdf.SetFont("Helvetica", style, size)
		pdf.Text(marginLeft, y, tr(text))
		y += lineGap
	}

	line("B", 14, "Monitor Change Detected")
	line("", 10, "Detected at (UTC): "+n.Time.UTC().Format(time.RFC3339))
	line("", 10, "URL: "+n.Target)
	y += lineGap

	line("B", 12, "Old Value:")
	line("", 11, n.OldValueText())
	y += lineGap

	line("B", 12, "New Value:")
	line("", 11, n.NewValue)

	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}
