package service

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/xuri/excelize/v2"

	"bookman/internal/categorize"
	"bookman/internal/model"
	"bookman/internal/workbook"
)

// RunResult summarizes one categorization pass over a workbook.
type RunResult struct {
	Rows       int
	Matched    int
	Fallback   int
	OutputURL  string
	Categories map[string]int
}

// Runner executes a categorization workflow over a resolved input
// workbook: read each row's description, assign the first matching
// category, write the result alongside the source data.
type Runner struct {
	Content workbook.ContentStore
	Matcher *categorize.Matcher
	Log     *log.Logger
}

// Categorize loads wb, assigns a category per data row and saves the
// result to outURL (the working-purpose copy). descCol is the
// zero-based description column; the category lands in the column
// after the widest row. The first row is treated as a header.
func (r *Runner) Categorize(ctx context.Context, wb model.Workbook, descCol int, outURL string) (*RunResult, error) {
	h, err := r.Content.Load(ctx, wb.URL)
	if err != nil {
		return nil, err
	}
	rows, err := h.Rows()
	if err != nil {
		return nil, err
	}
	res := &RunResult{OutputURL: outURL, Categories: map[string]int{}}

	catCol := 0
	for _, row := range rows {
		if len(row) > catCol {
			catCol = len(row)
		}
	}

	for i, row := range rows {
		if i == 0 {
			if err := r.writeCell(h, i, catCol, "category"); err != nil {
				return nil, err
			}
			continue
		}
		if len(row) <= descCol {
			continue
		}
		res.Rows++
		cat := r.Matcher.Match(row[descCol])
		if cat == r.Matcher.Fallback() {
			res.Fallback++
		} else {
			res.Matched++
		}
		res.Categories[cat]++
		if err := r.writeCell(h, i, catCol, cat); err != nil {
			return nil, err
		}
	}

	if err := r.Content.Save(ctx, h, outURL); err != nil {
		return nil, err
	}
	r.Log.Info("workflow run complete", "workbook", wb.Name, "rows", res.Rows, "matched", res.Matched, "fallback", res.Fallback, "out", outURL)
	return res, nil
}

// writeCell sets a value at (row, col), both zero-based, on whichever
// representation the handle carries.
func (r *Runner) writeCell(h *workbook.Handle, row, col int, value string) error {
	if f := h.File(); f != nil {
		cell, err := excelize.CoordinatesToCellName(col+1, row+1)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		return f.SetCellValue(f.GetSheetName(0), cell, value)
	}
	rows, _ := h.Rows()
	if row >= len(rows) {
		return fmt.Errorf("row %d out of range", row)
	}
	for len(rows[row]) <= col {
		rows[row] = append(rows[row], "")
	}
	rows[row][col] = value
	return nil
}
