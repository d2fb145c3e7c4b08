package service

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"bookman/internal/model"
	"bookman/internal/paths"
)

// InitializeOptions controls folder creation and the partial-failure
// policy of a catalog initialization run.
type InitializeOptions struct {
	// CreateMissingFolders creates any absent FI or purpose folder
	// instead of skipping it.
	CreateMissingFolders bool
	// RaiseOnErrors aborts on the first failure instead of logging,
	// skipping and continuing with the remaining institutions.
	RaiseOnErrors bool
}

// Skip records one skipped scope and why. WFKey and Purpose are empty
// when a whole institution was skipped.
type Skip struct {
	FIKey   string
	WFKey   string
	Purpose model.Purpose
	Reason  string
}

// Report summarizes an initialization run. Failures are never
// silently absorbed: every skipped scope appears here with a reason.
type Report struct {
	RunID     string
	Root      string
	FIs       int
	Workflows int
	Workbooks int
	Added     int
	Skipped   []Skip
	Started   time.Time
	Finished  time.Time
}

// Initializer wires resolution, discovery and reconciliation into the
// full catalog build.
type Initializer struct {
	Model      *model.BDM
	Discovery  *Discovery
	Reconciler *Reconciler
	Log        *log.Logger
}

// Initialize resolves the root folder, then for every institution
// resolves and verifies its folder, and for every (workflow, purpose)
// pair verifies the purpose folder, scans it and reconciles the
// results into the catalog. Cancellation is honored between
// institutions so an interrupted run never leaves a collection
// half-written. Reconciliation is idempotent, so a failed or
// cancelled run is safe to repeat from scratch.
func (s *Initializer) Initialize(ctx context.Context, opts InitializeOptions) (*Report, error) {
	rep := &Report{RunID: uuid.NewString(), Started: time.Now().UTC()}
	defer func() { rep.Finished = time.Now().UTC() }()

	root, err := paths.Resolve(s.Model.Options().RootFolder)
	if err != nil {
		return rep, fmt.Errorf("%w: root folder: %v", model.ErrConfiguration, err)
	}
	if _, err := paths.Verify(root, paths.VerifyOptions{CreateIfMissing: opts.CreateMissingFolders, RaiseOnMissing: true}); err != nil {
		return rep, fmt.Errorf("root folder: %w", err)
	}
	rep.Root = root

	for _, fi := range s.Model.FIs() {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		if err := s.initializeFI(ctx, root, fi, opts, rep); err != nil {
			if opts.RaiseOnErrors {
				return rep, fmt.Errorf("institution %s: %w", fi.Key, err)
			}
			s.Log.Warn("institution skipped", "fi", fi.Key, "err", err)
			rep.Skipped = append(rep.Skipped, Skip{FIKey: fi.Key, Reason: err.Error()})
			continue
		}
		rep.FIs++
	}
	rep.Workbooks = s.Model.WorkbookCount()
	s.Log.Info("catalog initialized",
		"run", rep.RunID, "fis", rep.FIs, "workflows", rep.Workflows,
		"workbooks", rep.Workbooks, "added", rep.Added, "skipped", len(rep.Skipped))
	return rep, nil
}

func (s *Initializer) initializeFI(ctx context.Context, root string, fi model.FinancialInstitution, opts InitializeOptions, rep *Report) error {
	fiDir, err := paths.Resolve(root, fi.Folder)
	if err != nil {
		return err
	}
	if _, err := paths.Verify(fiDir, paths.VerifyOptions{CreateIfMissing: opts.CreateMissingFolders, RaiseOnMissing: true}); err != nil {
		return err
	}

	for _, wf := range s.Model.Workflows() {
		scanned := false
		for _, purpose := range model.Purposes() {
			role, ok := wf.Folders[purpose]
			if !ok {
				continue
			}
			if err := s.initializeTriple(ctx, root, fi, wf, purpose, role, opts, rep); err != nil {
				if opts.RaiseOnErrors {
					return fmt.Errorf("workflow %s purpose %s: %w", wf.Key, purpose, err)
				}
				s.Log.Warn("triple skipped", "fi", fi.Key, "wf", wf.Key, "purpose", purpose, "err", err)
				rep.Skipped = append(rep.Skipped, Skip{FIKey: fi.Key, WFKey: wf.Key, Purpose: purpose, Reason: err.Error()})
				continue
			}
			scanned = true
		}
		if scanned {
			rep.Workflows++
		}
	}
	return nil
}

func (s *Initializer) initializeTriple(ctx context.Context, root string, fi model.FinancialInstitution, wf model.Workflow, purpose model.Purpose, role model.FolderRole, opts InitializeOptions, rep *Report) error {
	dir, err := paths.Resolve(root, fi.Folder, role.Folder)
	if err != nil {
		return err
	}
	ok, err := paths.Verify(dir, paths.VerifyOptions{CreateIfMissing: opts.CreateMissingFolders, RaiseOnMissing: opts.RaiseOnErrors})
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s: %w", dir, paths.ErrNotFound)
	}
	// Workbooks are cataloged only after their folder verified above.
	descs := s.Discovery.Scan(ctx, dir)
	candidates := s.Discovery.Candidates(fi, wf, purpose, role, descs)
	col := s.Model.Collection(fi.Key, wf.Key, purpose)
	added := s.Reconciler.Reconcile(col, candidates)
	rep.Added += len(added)
	return nil
}
