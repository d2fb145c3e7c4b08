package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"bookman/internal/model"
	"bookman/internal/state"
	"bookman/internal/store"
	"bookman/internal/workbook"
)

func testModel(t *testing.T, root string) *model.BDM {
	t.Helper()
	m, err := model.New(store.Record{
		FIs: []store.FIRecord{
			{Key: "boa", Name: "Bank of America", Type: "bank", Folder: "boa"},
		},
		Workflows: []store.WorkflowRecord{
			{
				Key:  "categorization",
				Name: "Categorization",
				Folders: map[string]store.FolderRecord{
					"input":   {ID: "new", Folder: "data/new"},
					"working": {ID: "working", Folder: "data/working"},
				},
			},
		},
		Options: store.Options{RootFolder: root},
	})
	require.NoError(t, err)
	return m
}

func newInitializer(m *model.BDM) *Initializer {
	logger := testLogger()
	return &Initializer{
		Model:      m,
		Discovery:  &Discovery{Log: logger},
		Reconciler: &Reconciler{Log: logger},
		Log:        logger,
	}
}

func TestInitializeCatalogsDiscoveredWorkbooks(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	inputDir := filepath.Join(root, "boa", "data", "new")
	require.NoError(t, os.MkdirAll(inputDir, 0o755))
	touch(t, inputDir, "A.xlsx")
	touch(t, inputDir, "B.xlsx")

	m := testModel(t, root)
	init := newInitializer(m)

	rep, err := init.Initialize(context.Background(), InitializeOptions{CreateMissingFolders: true})
	require.NoError(t, err)
	require.Equal(t, 1, rep.FIs)
	require.Equal(t, 1, rep.Workflows)
	require.Equal(t, 2, rep.Workbooks)
	require.Equal(t, 2, rep.Added)
	require.Empty(t, rep.Skipped)
	require.NotEmpty(t, rep.RunID)

	col := m.Collection("boa", "categorization", model.PurposeInput)
	require.Equal(t, 2, col.Len())
	wantA := model.WorkbookID("boa", "categorization", model.PurposeInput, "new", "A.xlsx")
	wantB := model.WorkbookID("boa", "categorization", model.PurposeInput, "new", "B.xlsx")
	require.True(t, col.Has(wantA))
	require.True(t, col.Has(wantB))

	// The working folder was created on request.
	info, err := os.Stat(filepath.Join(root, "boa", "data", "working"))
	require.NoError(t, err)
	require.True(t, info.IsDir())

	// Re-initializing an unchanged tree adds nothing and keeps the
	// collection identical.
	before := col.Sorted()
	rep, err = init.Initialize(context.Background(), InitializeOptions{CreateMissingFolders: true})
	require.NoError(t, err)
	require.Equal(t, 0, rep.Added)
	require.Equal(t, before, col.Sorted())
}

func TestInitializeThenResolveReferences(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	inputDir := filepath.Join(root, "boa", "data", "new")
	require.NoError(t, os.MkdirAll(inputDir, 0o755))
	touch(t, inputDir, "A.xlsx")
	touch(t, inputDir, "B.xlsx")

	m := testModel(t, root)
	_, err := newInitializer(m).Initialize(context.Background(), InitializeOptions{CreateMissingFolders: true})
	require.NoError(t, err)

	dc := state.NewContext(m, workbook.NewFileStore(), testLogger())
	require.NoError(t, dc.ApplyDefaults(store.Defaults{FI: "boa", Workflow: "categorization", Purpose: "input"}))
	dc.MarkReady()

	// Index references walk the id-sorted collection the initializer
	// just populated.
	sorted := m.Collection("boa", "categorization", model.PurposeInput).Sorted()
	require.Len(t, sorted, 2)
	for i, want := range sorted {
		res := dc.ResolveRef(state.ByIndex(i))
		require.NotNil(t, res.Workbook)
		require.Equal(t, want.ID, res.Workbook.ID)
	}

	res := dc.Resolve("0")
	require.NotNil(t, res.Workbook)
	require.Equal(t, sorted[0].ID, res.Workbook.ID)

	require.True(t, dc.Resolve("all").IsAll)
	require.False(t, dc.Resolve("2").Found())
}

func TestInitializeSkipsMissingFoldersWhenLenient(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	// FI folder exists, but neither purpose folder does.
	require.NoError(t, os.MkdirAll(filepath.Join(root, "boa"), 0o755))

	m := testModel(t, root)
	rep, err := newInitializer(m).Initialize(context.Background(), InitializeOptions{})
	require.NoError(t, err)
	require.Equal(t, 1, rep.FIs)
	require.Equal(t, 0, rep.Workflows)
	require.Len(t, rep.Skipped, 2)
	for _, skip := range rep.Skipped {
		require.Equal(t, "boa", skip.FIKey)
		require.Equal(t, "categorization", skip.WFKey)
		require.NotEmpty(t, skip.Reason)
	}
}

func TestInitializeAbortsWhenStrict(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "boa"), 0o755))

	m := testModel(t, root)
	_, err := newInitializer(m).Initialize(context.Background(), InitializeOptions{RaiseOnErrors: true})
	require.Error(t, err)
	require.ErrorContains(t, err, "boa")
}

func TestInitializeSkipsWholeFI(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	m, err := model.New(store.Record{
		FIs: []store.FIRecord{
			{Key: "missing", Name: "Missing", Folder: "missing"},
			{Key: "boa", Name: "Bank of America", Folder: "boa"},
		},
		Workflows: []store.WorkflowRecord{
			{
				Key:     "categorization",
				Folders: map[string]store.FolderRecord{"input": {ID: "new", Folder: "data/new"}},
			},
		},
		Options: store.Options{RootFolder: root},
	})
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "boa", "data", "new"), 0o755))

	rep, err := newInitializer(m).Initialize(context.Background(), InitializeOptions{})
	require.NoError(t, err)

	// The broken institution is skipped with a reason; its sibling is
	// still processed.
	require.Equal(t, 1, rep.FIs)
	require.Len(t, rep.Skipped, 1)
	require.Equal(t, "missing", rep.Skipped[0].FIKey)
	require.Empty(t, rep.Skipped[0].WFKey)
}

func TestInitializeMissingRootFails(t *testing.T) {
	t.Parallel()

	m := testModel(t, filepath.Join(t.TempDir(), "absent"))
	_, err := newInitializer(m).Initialize(context.Background(), InitializeOptions{})
	require.Error(t, err)
}

func TestInitializeHonorsCancellation(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "boa", "data", "new"), 0o755))
	m := testModel(t, root)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newInitializer(m).Initialize(ctx, InitializeOptions{CreateMissingFolders: true})
	require.ErrorIs(t, err, context.Canceled)
}
