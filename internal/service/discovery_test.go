package service

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"

	"bookman/internal/model"
)

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

func touch(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("stub"), 0o644))
}

func TestScanFiltersAndSorts(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	touch(t, dir, "b.xlsx")
	touch(t, dir, "a.XLSX")
	touch(t, dir, "tx.csv")
	touch(t, dir, "notes.txt")
	touch(t, dir, "macro.xlsm")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.xlsx"), 0o755))

	d := &Discovery{Log: testLogger()}
	descs := d.Scan(context.Background(), dir)

	names := make([]string, 0, len(descs))
	for _, desc := range descs {
		names = append(names, desc.Name)
	}
	require.Equal(t, []string{"a.XLSX", "b.xlsx", "macro.xlsm", "tx.csv"}, names)

	first := descs[0]
	require.Equal(t, "a", first.Stem)
	require.Equal(t, ".xlsx", first.Ext)
	require.Equal(t, filepath.Join(dir, "a.XLSX"), first.URL)
}

func TestScanHonorsCancellation(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	touch(t, dir, "a.xlsx")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := &Discovery{Log: testLogger()}
	require.Empty(t, d.Scan(ctx, dir))
}

func TestScanToleratesMissingFolder(t *testing.T) {
	t.Parallel()

	d := &Discovery{Log: testLogger()}
	descs := d.Scan(context.Background(), filepath.Join(t.TempDir(), "absent"))
	require.Empty(t, descs)
}

func TestScanEmptyFolderIsNotAnError(t *testing.T) {
	t.Parallel()

	d := &Discovery{Log: testLogger()}
	require.Empty(t, d.Scan(context.Background(), t.TempDir()))
}

func TestCandidatesAreDeterministic(t *testing.T) {
	t.Parallel()

	fi := model.FinancialInstitution{Key: "boa", Folder: "boa"}
	wf := model.Workflow{Key: "categorization"}
	role := model.FolderRole{ID: "new", Folder: "data/new"}
	descs := []FileDescriptor{
		{Name: "A.xlsx", Stem: "A", Ext: ".xlsx", URL: "/root/boa/data/new/A.xlsx"},
		{Name: "B.xlsx", Stem: "B", Ext: ".xlsx", URL: "/root/boa/data/new/B.xlsx"},
	}

	d := &Discovery{Log: testLogger()}
	first := d.Candidates(fi, wf, model.PurposeInput, role, descs)
	second := d.Candidates(fi, wf, model.PurposeInput, role, descs)
	require.Equal(t, first, second)
	require.Len(t, first, 2)
	require.NotEqual(t, first[0].ID, first[1].ID)
	require.Equal(t, model.WorkbookID("boa", "categorization", model.PurposeInput, "new", "A.xlsx"), first[0].ID)
	require.Equal(t, "xlsx", first[0].FileType)
	require.Equal(t, "boa", first[0].FIKey)
	require.False(t, first[0].Loaded)
}

func TestCandidatesHonorPrefix(t *testing.T) {
	t.Parallel()

	fi := model.FinancialInstitution{Key: "boa"}
	wf := model.Workflow{Key: "categorization"}
	role := model.FolderRole{ID: "done", Folder: "data/done", Prefix: "out_"}
	descs := []FileDescriptor{
		{Name: "out_jan.xlsx", Stem: "out_jan", Ext: ".xlsx"},
		{Name: "scratch.xlsx", Stem: "scratch", Ext: ".xlsx"},
	}

	d := &Discovery{Log: testLogger()}
	got := d.Candidates(fi, wf, model.PurposeOutput, role, descs)
	require.Len(t, got, 1)
	require.Equal(t, "out_jan", got[0].Name)
}
