// Package workbook is the content store boundary: it loads and saves
// workbook files as opaque handles. The engine only ever touches the
// metadata it owns; cell schemas belong to downstream collaborators.
package workbook

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Handle is a loaded workbook's content. Exactly one of file or rows
// is populated depending on the underlying format.
type Handle struct {
	URL  string
	kind string

	file *excelize.File
	rows [][]string
}

// Kind reports the content format, "xlsx" or "csv".
func (h *Handle) Kind() string { return h.kind }

// File exposes the spreadsheet for xlsx content; nil for csv.
func (h *Handle) File() *excelize.File { return h.file }

// Rows returns the cell grid of the first sheet (or the csv body).
func (h *Handle) Rows() ([][]string, error) {
	if h.file == nil {
		return h.rows, nil
	}
	sheet := h.file.GetSheetName(0)
	rows, err := h.file.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return rows, nil
}

// ContentStore loads and saves opaque workbook content by URL.
type ContentStore interface {
	Load(ctx context.Context, url string) (*Handle, error)
	Save(ctx context.Context, h *Handle, url string) error
}

// FileStore reads and writes workbook files on the local filesystem.
type FileStore struct{}

// NewFileStore returns a filesystem-backed content store.
func NewFileStore() *FileStore { return &FileStore{} }

// Load opens the workbook at url. Spreadsheets are parsed with
// excelize; csv files are read whole.
func (s *FileStore) Load(ctx context.Context, url string) (*Handle, error) {
	switch ext := strings.ToLower(filepath.Ext(url)); ext {
	case ".xlsx", ".xlsm":
		f, err := excelize.OpenFile(url)
		if err != nil {
			return nil, fmt.Errorf("open workbook %s: %w", url, err)
		}
		return &Handle{URL: url, kind: "xlsx", file: f}, nil
	case ".csv":
		f, err := os.Open(url)
		if err != nil {
			return nil, fmt.Errorf("open workbook %s: %w", url, err)
		}
		defer f.Close()
		r := csv.NewReader(f)
		r.FieldsPerRecord = -1
		rows, err := r.ReadAll()
		if err != nil {
			return nil, fmt.Errorf("read workbook %s: %w", url, err)
		}
		return &Handle{URL: url, kind: "csv", rows: rows}, nil
	default:
		return nil, fmt.Errorf("unsupported workbook type %q", filepath.Ext(url))
	}
}

// Save writes the handle's content to url.
func (s *FileStore) Save(ctx context.Context, h *Handle, url string) error {
	if err := os.MkdirAll(filepath.Dir(url), 0o755); err != nil {
		return fmt.Errorf("mkdir workbook dir: %w", err)
	}
	if h.file != nil {
		if err := h.file.SaveAs(url); err != nil {
			return fmt.Errorf("save workbook %s: %w", url, err)
		}
		return nil
	}
	f, err := os.Create(url)
	if err != nil {
		return fmt.Errorf("save workbook %s: %w", url, err)
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.WriteAll(h.rows); err != nil {
		return fmt.Errorf("write workbook %s: %w", url, err)
	}
	return nil
}
