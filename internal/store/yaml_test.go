package store

import (
	"context"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func sampleRecord() Record {
	return Record{
		FIs: []FIRecord{
			{Key: "boa", Name: "Bank of America", Type: "bank", Folder: "boa"},
		},
		Workflows: []WorkflowRecord{
			{
				Key:  "categorization",
				Name: "Categorization",
				Folders: map[string]FolderRecord{
					"input":  {ID: "new", Folder: "data/new", Prefix: "in_"},
					"output": {ID: "done", Folder: "data/done"},
				},
			},
		},
		Options:  Options{RootFolder: "~/budget", CreateMissingFolders: true},
		Defaults: Defaults{FI: "boa", Workflow: "categorization", Purpose: "input"},
	}
}

func TestYAMLStoreRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewYAMLStore(filepath.Join(t.TempDir(), "nested", "record.yaml"))

	rec := sampleRecord()
	require.NoError(t, s.Put(ctx, rec))

	got, err := s.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, rec, got)
}

func TestYAMLStoreMissingFile(t *testing.T) {
	t.Parallel()

	s := NewYAMLStore(filepath.Join(t.TempDir(), "absent.yaml"))
	_, err := s.Get(context.Background())
	require.ErrorIs(t, err, fs.ErrNotExist)
}

func TestOpenSelectsDriver(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	s, err := Open("yaml", filepath.Join(dir, "rec.yaml"))
	require.NoError(t, err)
	require.IsType(t, &YAMLStore{}, s)

	s, err = Open("", filepath.Join(dir, "rec2.yaml"))
	require.NoError(t, err)
	require.IsType(t, &YAMLStore{}, s)

	_, err = Open("parquet", "x")
	require.Error(t, err)
}
