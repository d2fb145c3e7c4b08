// Package model holds the budget domain model: financial
// institutions, workflows, purposes and the workbook catalog built
// from configuration plus filesystem discovery.
package model

import (
	"sort"
	"strings"

	"github.com/google/uuid"
)

// All is the sentinel key accepted by bulk operations. Concrete-key
// accessors reject it; it is never treated as a normal key.
const All = "all"

// Purpose is the role a workbook plays relative to a workflow.
type Purpose string

const (
	PurposeInput   Purpose = "input"
	PurposeWorking Purpose = "working"
	PurposeOutput  Purpose = "output"
)

// Purposes lists the valid purposes in canonical order.
func Purposes() []Purpose {
	return []Purpose{PurposeInput, PurposeWorking, PurposeOutput}
}

// ParsePurpose converts a purpose name to its enum value.
func ParsePurpose(s string) (Purpose, bool) {
	switch Purpose(strings.ToLower(strings.TrimSpace(s))) {
	case PurposeInput:
		return PurposeInput, true
	case PurposeWorking:
		return PurposeWorking, true
	case PurposeOutput:
		return PurposeOutput, true
	}
	return "", false
}

// FinancialInstitution is a configured source of workbooks.
type FinancialInstitution struct {
	Key    string
	Name   string
	Type   string
	Folder string
}

// FolderRole binds one purpose of a workflow to a relative folder and
// an optional filename prefix used to narrow discovery.
type FolderRole struct {
	ID     string
	Folder string
	Prefix string
}

// Workflow is a named processing stage with per-purpose folder roles.
type Workflow struct {
	Key     string
	Name    string
	Folders map[Purpose]FolderRole
}

// Workbook is one catalog entry: a spreadsheet file plus its role
// metadata. ID is deterministic over the owning context and filename,
// so rescans of the same file always produce the same id.
type Workbook struct {
	ID           string
	Name         string
	FileType     string
	URL          string
	FIKey        string
	WFKey        string
	Purpose      Purpose
	FolderRoleID string
	Loaded       bool
}

// WorkbookID derives the stable catalog key for a workbook.
func WorkbookID(fiKey, wfKey string, purpose Purpose, folderRoleID, filename string) string {
	parts := strings.Join([]string{fiKey, wfKey, string(purpose), folderRoleID, filename}, "|")
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("workbook:"+parts)).String()
}

// WorkbookCollection maps workbook id to entry. Display order is
// derived by sorting on id so indexes stay stable for a given set.
type WorkbookCollection struct {
	items map[string]Workbook
}

// NewWorkbookCollection returns an empty collection.
func NewWorkbookCollection() *WorkbookCollection {
	return &WorkbookCollection{items: map[string]Workbook{}}
}

// Len reports the number of entries.
func (c *WorkbookCollection) Len() int { return len(c.items) }

// Has reports whether id is cataloged.
func (c *WorkbookCollection) Has(id string) bool {
	_, ok := c.items[id]
	return ok
}

// Get returns the entry for id.
func (c *WorkbookCollection) Get(id string) (Workbook, bool) {
	wb, ok := c.items[id]
	return wb, ok
}

// Put inserts or replaces the entry keyed by wb.ID.
func (c *WorkbookCollection) Put(wb Workbook) {
	c.items[wb.ID] = wb
}

// Remove deletes the entry for id, reporting whether it existed.
// Removal is always an explicit operation, never a scan side effect.
func (c *WorkbookCollection) Remove(id string) bool {
	_, ok := c.items[id]
	delete(c.items, id)
	return ok
}

// IDs returns all ids sorted.
func (c *WorkbookCollection) IDs() []string {
	ids := make([]string, 0, len(c.items))
	for id := range c.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Sorted returns entries in id order.
func (c *WorkbookCollection) Sorted() []Workbook {
	ids := c.IDs()
	out := make([]Workbook, 0, len(ids))
	for _, id := range ids {
		out = append(out, c.items[id])
	}
	return out
}

// At returns the entry at position i in id-sorted order.
func (c *WorkbookCollection) At(i int) (Workbook, bool) {
	if i < 0 || i >= len(c.items) {
		return Workbook{}, false
	}
	return c.items[c.IDs()[i]], true
}

// IndexOf returns the position of id in id-sorted order, or -1.
func (c *WorkbookCollection) IndexOf(id string) int {
	for i, candidate := range c.IDs() {
		if candidate == id {
			return i
		}
	}
	return -1
}
