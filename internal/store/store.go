// Package store is the persistence gateway for the configuration
// record (the BDM store). The record describes the institutions,
// workflows, global options and working-state defaults; the domain
// model is built from it and selection changes round-trip back
// through Put.
package store

import (
	"context"
	"fmt"
)

// FIRecord describes one financial institution.
type FIRecord struct {
	Key    string `yaml:"key"`
	Name   string `yaml:"name"`
	Type   string `yaml:"type"`
	Folder string `yaml:"folder"`
}

// FolderRecord maps one purpose of a workflow to a folder role.
type FolderRecord struct {
	ID     string `yaml:"id"`
	Folder string `yaml:"folder"`
	Prefix string `yaml:"prefix,omitempty"`
}

// WorkflowRecord describes one workflow and its purpose folders.
// Folders is keyed by purpose name (input, working, output).
type WorkflowRecord struct {
	Key     string                  `yaml:"key"`
	Name    string                  `yaml:"name"`
	Folders map[string]FolderRecord `yaml:"folders"`
}

// Options holds global settings carried by the record.
type Options struct {
	RootFolder           string `yaml:"root_folder"`
	CreateMissingFolders bool   `yaml:"create_missing_folders"`
}

// Defaults is the working-state defaults sub-record. The data context
// starts from these selectors and writes them back when the user
// changes selection.
type Defaults struct {
	FI       string `yaml:"fi"`
	Workflow string `yaml:"workflow"`
	Purpose  string `yaml:"purpose"`
	Workbook string `yaml:"workbook,omitempty"`
}

// Record is the whole configuration document.
type Record struct {
	FIs       []FIRecord       `yaml:"fis"`
	Workflows []WorkflowRecord `yaml:"workflows"`
	Options   Options          `yaml:"options"`
	Defaults  Defaults         `yaml:"defaults"`
}

// Store loads and saves the configuration record. Implementations own
// the file format; callers treat the record as the unit of exchange.
type Store interface {
	Get(ctx context.Context) (Record, error)
	Put(ctx context.Context, rec Record) error
}

// Open returns a store for the given driver. Supported drivers are
// "yaml" and "sqlite".
func Open(driver, path string) (Store, error) {
	switch driver {
	case "yaml", "":
		return NewYAMLStore(path), nil
	case "sqlite":
		return OpenSQLiteStore(path)
	default:
		return nil, fmt.Errorf("store: unknown driver %q", driver)
	}
}
