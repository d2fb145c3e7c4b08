// Package service holds the catalog engine: folder discovery, catalog
// reconciliation, the initialization orchestrator and the workflow
// runner.
package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"bookman/internal/model"
)

// workbookExts maps recognized file extensions to the catalog file
// type. Anything else in a purpose folder is ignored.
var workbookExts = map[string]string{
	".xlsx": "xlsx",
	".xlsm": "xlsx",
	".csv":  "csv",
}

// FileDescriptor is one discovered workbook file before it becomes a
// catalog entry.
type FileDescriptor struct {
	Name string // filename with extension
	Stem string // filename without extension
	Ext  string // lowercased extension, with dot
	URL  string // absolute path
}

// Discovery scans purpose folders for workbook files.
type Discovery struct {
	Log *log.Logger
}

// Scan lists the workbook files directly under dir, sorted by name.
// An unreadable folder is logged and yields no descriptors; the caller
// decides whether that is fatal. A cancelled context yields nothing.
func (d *Discovery) Scan(ctx context.Context, dir string) []FileDescriptor {
	if err := ctx.Err(); err != nil {
		d.Log.Warn("folder scan aborted", "dir", dir, "err", err)
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		d.Log.Warn("folder scan failed", "dir", dir, "err", err)
		return nil
	}
	descs := make([]FileDescriptor, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if _, ok := workbookExts[ext]; !ok {
			continue
		}
		descs = append(descs, FileDescriptor{
			Name: name,
			Stem: strings.TrimSuffix(name, filepath.Ext(name)),
			Ext:  ext,
			URL:  filepath.Join(dir, name),
		})
	}
	d.Log.Debug("folder scanned", "dir", dir, "workbooks", len(descs))
	return descs
}

// Candidates turns scan results into catalog candidates for one
// (institution, workflow, purpose) triple. A folder role with a prefix
// only admits files carrying it. Output order follows the scan, and
// ids are deterministic, so identical folders always produce identical
// candidates.
func (d *Discovery) Candidates(fi model.FinancialInstitution, wf model.Workflow, purpose model.Purpose, role model.FolderRole, descs []FileDescriptor) []model.Workbook {
	out := make([]model.Workbook, 0, len(descs))
	for _, desc := range descs {
		if role.Prefix != "" && !strings.HasPrefix(desc.Name, role.Prefix) {
			continue
		}
		out = append(out, model.Workbook{
			ID:           model.WorkbookID(fi.Key, wf.Key, purpose, role.ID, desc.Name),
			Name:         desc.Stem,
			FileType:     workbookExts[desc.Ext],
			URL:          desc.URL,
			FIKey:        fi.Key,
			WFKey:        wf.Key,
			Purpose:      purpose,
			FolderRoleID: role.ID,
		})
	}
	return out
}
