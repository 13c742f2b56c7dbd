// Package pdflog renders request/response snapshots as PDF files. Payment
// traffic is archived this way so support staff can pull a readable record
// without database access.
package pdflog

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-pdf/fpdf"
)

const (
	marginX   = 50.0
	marginY   = 50.0
	lineStep  = 14.0
	titleGap  = 20.0
	maxRunes  = 110
	titleFont = 14.0
	rowFont   = 10.0
)

// Row is one "key: value" line in a snapshot.
type Row struct {
	Key   string
	Value string
}

// Writer writes snapshots into a fixed directory.
type Writer struct {
	dir string
}

// NewWriter creates the log directory if needed and returns a writer for it.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	return &Writer{dir: dir}, nil
}

// Dir returns the directory snapshots are written to.
func (w *Writer) Dir() string {
	return w.dir
}

// Save renders the rows under a bold title and writes
// <prefix>_<timestamp>.pdf. Returns the path of the file written.
func (w *Writer) Save(title, prefix string, rows []Row) (string, error) {
	filename := fmt.Sprintf("%s_%s.pdf", prefix, time.Now().Format("20060102_150405"))
	path := filepath.Join(w.dir, filename)

	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.AddPage()
	_, pageH := pdf.GetPageSize()

	y := marginY
	pdf.SetFont("Helvetica", "B", titleFont)
	pdf.Text(marginX, y, title)
	y += titleGap

	pdf.SetFont("Helvetica", "", rowFont)
	for _, row := range rows {
		line := row.Key + ": " + row.Value
		if r := []rune(line); len(r) > maxRunes {
			line = string(r[:maxRunes])
		}
		pdf.Text(marginX, y, line)
		y += lineStep
		if y > pageH-marginY {
			pdf.AddPage()
			y = marginY
			pdf.SetFont("Helvetica", "", rowFont)
		}
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("write pdf: %w", err)
	}
	return path, nil
}
