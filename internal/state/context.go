// Package state is the data context: it tracks the current selection
// (institution, workflow, purpose, workbook) and mediates lazy load
// and save of workbook content over the domain model.
package state

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"bookman/internal/model"
	"bookman/internal/store"
	"bookman/internal/workbook"
)

// ErrNothingToSave is returned by Save when no content has been
// loaded for the workbook.
var ErrNothingToSave = errors.New("nothing to save: workbook content not loaded")

// ErrNoSelection is returned when an operation needs a current
// selection that has not been made.
var ErrNoSelection = errors.New("no current selection")

// Status is the context lifecycle phase.
type Status int

const (
	// Uninitialized means no selectors have been applied yet.
	Uninitialized Status = iota
	// Initializing means selectors sit at configuration defaults but
	// the catalog has not been confirmed populated.
	Initializing
	// Ready means the catalog is populated and selectors are valid.
	Ready
)

// Context is the working state for one process session. It is not
// safe for concurrent use; the engine is single-writer by design.
type Context struct {
	model   *model.BDM
	content workbook.ContentStore
	log     *log.Logger

	status  Status
	fiKey   string
	wfKey   string
	purpose model.Purpose

	// Current workbook reference. The three fields are only ever
	// written together so a reader never observes a torn triple.
	curIndex int
	curID    string
	curName  string

	// pendingID holds a configured default workbook that could not be
	// resolved yet because the catalog was still empty. Refresh retries
	// it once the catalog is populated.
	pendingID string

	cache map[string]*workbook.Handle
}

// NewContext returns an uninitialized context over the given model
// and content store.
func NewContext(m *model.BDM, content workbook.ContentStore, logger *log.Logger) *Context {
	return &Context{
		model:    m,
		content:  content,
		log:      logger,
		status:   Uninitialized,
		curIndex: -1,
		cache:    map[string]*workbook.Handle{},
	}
}

// Status reports the lifecycle phase.
func (c *Context) Status() Status { return c.status }

// ApplyDefaults seeds the selectors from the configuration defaults
// and moves the context to Initializing. Empty defaults fall back to
// the first configured institution and workflow and the input
// purpose.
func (c *Context) ApplyDefaults(d store.Defaults) error {
	fiKey := d.FI
	if fiKey == "" {
		if fis := c.model.FIs(); len(fis) > 0 {
			fiKey = fis[0].Key
		}
	}
	if fiKey != "" {
		if _, err := c.model.FI(fiKey); err != nil {
			return fmt.Errorf("default fi: %w", err)
		}
	}
	wfKey := d.Workflow
	if wfKey == "" {
		if wfs := c.model.Workflows(); len(wfs) > 0 {
			wfKey = wfs[0].Key
		}
	}
	if wfKey != "" {
		if _, err := c.model.Workflow(wfKey); err != nil {
			return fmt.Errorf("default workflow: %w", err)
		}
	}
	purpose := model.PurposeInput
	if d.Purpose != "" {
		p, ok := model.ParsePurpose(d.Purpose)
		if !ok {
			return fmt.Errorf("%w: default purpose %q", model.ErrConfiguration, d.Purpose)
		}
		purpose = p
	}

	c.fiKey, c.wfKey, c.purpose = fiKey, wfKey, purpose
	c.clearCurrent()
	c.status = Initializing

	if d.Workbook != "" {
		if res := c.ResolveRef(ByID(d.Workbook)); res.Workbook != nil {
			c.setCurrent(*res.Workbook, res.Index)
		} else {
			// Defaults are applied before the catalog is built, so the
			// id is usually not resolvable yet. Keep it for Refresh.
			c.pendingID = d.Workbook
		}
	}
	return nil
}

// MarkReady records that the catalog has been populated.
func (c *Context) MarkReady() { c.status = Ready }

// Selection returns the current FI key, workflow key and purpose.
func (c *Context) Selection() (string, string, model.Purpose) {
	return c.fiKey, c.wfKey, c.purpose
}

// Defaults snapshots the selection for round-tripping through the
// configuration record. A default workbook that has not been restored
// yet is carried through unchanged so saving other selectors never
// wipes it.
func (c *Context) Defaults() store.Defaults {
	wbID := c.curID
	if wbID == "" {
		wbID = c.pendingID
	}
	return store.Defaults{FI: c.fiKey, Workflow: c.wfKey, Purpose: string(c.purpose), Workbook: wbID}
}

// UseFI switches the current institution. The workbook reference is
// cleared because the active collection changes with it.
func (c *Context) UseFI(key string) error {
	if _, err := c.model.FI(key); err != nil {
		return err
	}
	c.fiKey = key
	c.clearCurrent()
	c.status = Ready
	return nil
}

// UseWorkflow switches the current workflow.
func (c *Context) UseWorkflow(key string) error {
	if _, err := c.model.Workflow(key); err != nil {
		return err
	}
	c.wfKey = key
	c.clearCurrent()
	c.status = Ready
	return nil
}

// UsePurpose switches the current purpose. The current workflow must
// bind a folder to it.
func (c *Context) UsePurpose(p model.Purpose) error {
	if _, err := c.model.PurposeFolder(c.wfKey, p); err != nil {
		return err
	}
	c.purpose = p
	c.clearCurrent()
	c.status = Ready
	return nil
}

// Collection returns the active workbook collection for the current
// selection.
func (c *Context) Collection() *model.WorkbookCollection {
	return c.model.Collection(c.fiKey, c.wfKey, c.purpose)
}

// ResolveRef resolves a tagged reference against the active
// collection. Resolution order for untyped queries is id, then name,
// then URL. An unmatched reference yields a not-found value so
// callers can report it without error plumbing.
func (c *Context) ResolveRef(ref Ref) Resolution {
	col := c.Collection()
	switch ref.Kind {
	case AllRef:
		return Resolution{IsAll: true, Index: -1}
	case IndexRef:
		wb, ok := col.At(ref.Index)
		if !ok {
			return notFound()
		}
		return Resolution{Index: ref.Index, Workbook: &wb}
	case IDRef:
		return c.resolveBy(col, func(wb model.Workbook) bool { return wb.ID == ref.Value })
	case NameRef:
		return c.resolveBy(col, func(wb model.Workbook) bool { return wb.Name == ref.Value })
	case URLRef:
		return c.resolveBy(col, func(wb model.Workbook) bool { return wb.URL == ref.Value })
	case QueryRef:
		for _, kind := range []RefKind{IDRef, NameRef, URLRef} {
			if res := c.ResolveRef(Ref{Kind: kind, Value: ref.Value}); res.Found() {
				return res
			}
		}
		return notFound()
	default:
		return notFound()
	}
}

// Resolve parses and resolves a raw user reference in one step.
func (c *Context) Resolve(raw string) Resolution {
	return c.ResolveRef(ParseRef(raw))
}

func (c *Context) resolveBy(col *model.WorkbookCollection, match func(model.Workbook) bool) Resolution {
	for i, wb := range col.Sorted() {
		if match(wb) {
			wb := wb
			return Resolution{Index: i, Workbook: &wb}
		}
	}
	return notFound()
}

// SetCurrent makes wb the current workbook. It must be a member of
// the active collection; index, id and name are updated as one
// atomic triple.
func (c *Context) SetCurrent(wb model.Workbook) error {
	col := c.Collection()
	if !col.Has(wb.ID) {
		return fmt.Errorf("workbook %s: %w", wb.ID, model.ErrNotFound)
	}
	c.setCurrent(wb, col.IndexOf(wb.ID))
	return nil
}

func (c *Context) setCurrent(wb model.Workbook, index int) {
	c.curIndex, c.curID, c.curName = index, wb.ID, wb.Name
	c.pendingID = ""
}

func (c *Context) clearCurrent() {
	c.curIndex, c.curID, c.curName = -1, "", ""
	c.pendingID = ""
}

// Current returns the current workbook, if one is selected and still
// cataloged.
func (c *Context) Current() (model.Workbook, bool) {
	if c.curID == "" {
		return model.Workbook{}, false
	}
	wb, ok := c.Collection().Get(c.curID)
	return wb, ok
}

// Refresh revalidates the current reference after the catalog changed
// underneath it: a pending default workbook is restored once its id
// appears, the index is recomputed from the id, and a reference whose
// workbook is gone is cleared. The triple stays consistent either way.
func (c *Context) Refresh() {
	if c.curID == "" {
		if c.pendingID == "" {
			return
		}
		if res := c.ResolveRef(ByID(c.pendingID)); res.Workbook != nil {
			c.setCurrent(*res.Workbook, res.Index)
		}
		return
	}
	col := c.Collection()
	wb, ok := col.Get(c.curID)
	if !ok {
		c.log.Warn("current workbook left the catalog, clearing selection", "id", c.curID, "name", c.curName)
		c.clearCurrent()
		return
	}
	c.setCurrent(wb, col.IndexOf(wb.ID))
}

// Load returns the content handle for wb, reading it at most once per
// session. A workbook outside the active collection is refused.
func (c *Context) Load(ctx context.Context, wb model.Workbook) (*workbook.Handle, error) {
	col := c.Collection()
	if !col.Has(wb.ID) {
		return nil, fmt.Errorf("workbook %s: %w", wb.ID, model.ErrNotFound)
	}
	if h, ok := c.cache[wb.ID]; ok {
		return h, nil
	}
	h, err := c.content.Load(ctx, wb.URL)
	if err != nil {
		return nil, err
	}
	c.cache[wb.ID] = h
	// Mark the catalog's own entry, not the caller's snapshot, so a
	// stale copy never clobbers state recorded since it was taken.
	cur, _ := col.Get(wb.ID)
	cur.Loaded = true
	col.Put(cur)
	c.log.Debug("workbook loaded", "id", wb.ID, "url", wb.URL)
	return h, nil
}

// Save persists previously loaded content back to the workbook's URL.
// Saving without a loaded handle is an error: there is nothing to
// persist.
func (c *Context) Save(ctx context.Context, wb model.Workbook) error {
	h, ok := c.cache[wb.ID]
	if !ok {
		return fmt.Errorf("workbook %s: %w", wb.ID, ErrNothingToSave)
	}
	if err := c.content.Save(ctx, h, wb.URL); err != nil {
		return err
	}
	c.log.Debug("workbook saved", "id", wb.ID, "url", wb.URL)
	return nil
}
