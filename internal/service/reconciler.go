package service

import (
	"os"

	"github.com/charmbracelet/log"

	"bookman/internal/model"
)

// Reconciler merges discovered workbooks into a collection. Merging
// is additive and idempotent; removal of stale entries is a separate,
// explicit operation so a transiently unmounted folder never empties
// the catalog.
type Reconciler struct {
	Log *log.Logger
}

// Reconcile inserts each discovered candidate whose id is absent from
// the collection. Existing entries are left untouched, preserving
// their loaded state and any user reclassification. Returns the ids
// that were added, in input order.
func (r *Reconciler) Reconcile(col *model.WorkbookCollection, discovered []model.Workbook) []string {
	var added []string
	for _, wb := range discovered {
		if col.Has(wb.ID) {
			continue
		}
		col.Put(wb)
		added = append(added, wb.ID)
		r.Log.Debug("cataloged workbook", "id", wb.ID, "name", wb.Name, "fi", wb.FIKey, "wf", wb.WFKey, "purpose", wb.Purpose)
	}
	return added
}

// StaleEntry identifies a cataloged workbook whose backing file is no
// longer present on disk.
type StaleEntry struct {
	ID   string
	Name string
	URL  string
}

// Stale reports entries whose file has disappeared. It only reports;
// whether to warn, soft-delete or hard-delete is the caller's call.
func (r *Reconciler) Stale(col *model.WorkbookCollection) []StaleEntry {
	var out []StaleEntry
	for _, wb := range col.Sorted() {
		if _, err := os.Stat(wb.URL); os.IsNotExist(err) {
			out = append(out, StaleEntry{ID: wb.ID, Name: wb.Name, URL: wb.URL})
		}
	}
	return out
}

// Prune removes the given ids from the collection and returns how
// many were actually present.
func (r *Reconciler) Prune(col *model.WorkbookCollection, ids []string) int {
	removed := 0
	for _, id := range ids {
		if col.Remove(id) {
			removed++
			r.Log.Info("pruned workbook", "id", id)
		}
	}
	return removed
}
