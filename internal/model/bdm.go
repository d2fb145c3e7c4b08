package model

import (
	"fmt"
	"strings"

	"bookman/internal/store"
)

// BDM is the budget domain model: the in-memory catalog of
// institutions, workflows and workbooks. It is constructed explicitly
// from a configuration record and passed by reference; there is no
// hidden global instance.
type BDM struct {
	fis     map[string]FinancialInstitution
	fiOrder []string

	workflows map[string]Workflow
	wfOrder   []string

	options store.Options

	// collections are keyed per (FI, workflow, purpose) triple and
	// created lazily; reconciliation merges discovered workbooks into
	// them without ever crossing triple boundaries.
	collections map[string]*WorkbookCollection
}

// New builds and validates a domain model from the configuration
// record. FI keys must be unique, no key may shadow the "all"
// sentinel, and every workflow purpose must name a valid purpose with
// a declared folder role. Any violation aborts construction.
func New(rec store.Record) (*BDM, error) {
	m := &BDM{
		fis:         map[string]FinancialInstitution{},
		workflows:   map[string]Workflow{},
		options:     rec.Options,
		collections: map[string]*WorkbookCollection{},
	}

	for _, fi := range rec.FIs {
		key := strings.TrimSpace(fi.Key)
		if key == "" {
			return nil, fmt.Errorf("%w: institution with empty key", ErrConfiguration)
		}
		if key == All {
			return nil, fmt.Errorf("%w: institution key %q shadows the bulk sentinel", ErrConfiguration, All)
		}
		if _, dup := m.fis[key]; dup {
			return nil, fmt.Errorf("%w: duplicate institution key %q", ErrConfiguration, key)
		}
		if strings.TrimSpace(fi.Folder) == "" {
			return nil, fmt.Errorf("%w: institution %q has no folder", ErrConfiguration, key)
		}
		m.fis[key] = FinancialInstitution{Key: key, Name: fi.Name, Type: fi.Type, Folder: fi.Folder}
		m.fiOrder = append(m.fiOrder, key)
	}

	for _, wf := range rec.Workflows {
		key := strings.TrimSpace(wf.Key)
		if key == "" {
			return nil, fmt.Errorf("%w: workflow with empty key", ErrConfiguration)
		}
		if key == All {
			return nil, fmt.Errorf("%w: workflow key %q shadows the bulk sentinel", ErrConfiguration, All)
		}
		if _, dup := m.workflows[key]; dup {
			return nil, fmt.Errorf("%w: duplicate workflow key %q", ErrConfiguration, key)
		}
		folders := map[Purpose]FolderRole{}
		for name, fr := range wf.Folders {
			purpose, ok := ParsePurpose(name)
			if !ok {
				return nil, fmt.Errorf("%w: workflow %q references unknown purpose %q", ErrConfiguration, key, name)
			}
			if strings.TrimSpace(fr.Folder) == "" {
				return nil, fmt.Errorf("%w: workflow %q purpose %q has no folder", ErrConfiguration, key, name)
			}
			roleID := fr.ID
			if roleID == "" {
				roleID = string(purpose)
			}
			folders[purpose] = FolderRole{ID: roleID, Folder: fr.Folder, Prefix: fr.Prefix}
		}
		if len(folders) == 0 {
			return nil, fmt.Errorf("%w: workflow %q declares no purpose folders", ErrConfiguration, key)
		}
		m.workflows[key] = Workflow{Key: key, Name: wf.Name, Folders: folders}
		m.wfOrder = append(m.wfOrder, key)
	}

	return m, nil
}

// Options returns the global options the model was built with.
func (m *BDM) Options() store.Options { return m.options }

// FI looks up one institution by concrete key.
func (m *BDM) FI(key string) (FinancialInstitution, error) {
	if key == All {
		return FinancialInstitution{}, &KeyNotFoundError{Kind: "fi", Key: key}
	}
	fi, ok := m.fis[key]
	if !ok {
		return FinancialInstitution{}, &KeyNotFoundError{Kind: "fi", Key: key, Suggestion: suggest(key, m.fiOrder)}
	}
	return fi, nil
}

// FIs returns institutions in configuration order.
func (m *BDM) FIs() []FinancialInstitution {
	out := make([]FinancialInstitution, 0, len(m.fiOrder))
	for _, key := range m.fiOrder {
		out = append(out, m.fis[key])
	}
	return out
}

// Workflow looks up one workflow by concrete key.
func (m *BDM) Workflow(key string) (Workflow, error) {
	if key == All {
		return Workflow{}, &KeyNotFoundError{Kind: "workflow", Key: key}
	}
	wf, ok := m.workflows[key]
	if !ok {
		return Workflow{}, &KeyNotFoundError{Kind: "workflow", Key: key, Suggestion: suggest(key, m.wfOrder)}
	}
	return wf, nil
}

// Workflows returns workflows in configuration order.
func (m *BDM) Workflows() []Workflow {
	out := make([]Workflow, 0, len(m.wfOrder))
	for _, key := range m.wfOrder {
		out = append(out, m.workflows[key])
	}
	return out
}

// PurposeFolder returns the folder role a workflow binds to purpose.
func (m *BDM) PurposeFolder(wfKey string, purpose Purpose) (FolderRole, error) {
	wf, err := m.Workflow(wfKey)
	if err != nil {
		return FolderRole{}, err
	}
	role, ok := wf.Folders[purpose]
	if !ok {
		return FolderRole{}, &KeyNotFoundError{Kind: "purpose", Key: string(purpose)}
	}
	return role, nil
}

// Collection returns the workbook collection for one (FI, workflow,
// purpose) triple, creating it on first use.
func (m *BDM) Collection(fiKey, wfKey string, purpose Purpose) *WorkbookCollection {
	key := fiKey + "\x00" + wfKey + "\x00" + string(purpose)
	col, ok := m.collections[key]
	if !ok {
		col = NewWorkbookCollection()
		m.collections[key] = col
	}
	return col
}

// WorkbookCount totals cataloged workbooks across all collections.
func (m *BDM) WorkbookCount() int {
	n := 0
	for _, col := range m.collections {
		n += col.Len()
	}
	return n
}
