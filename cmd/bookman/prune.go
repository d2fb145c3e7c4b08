package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"bookman/internal/service"
)

var pruneApply bool

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Report catalog entries whose file is gone; remove with --apply",
	Long: `Scanning never removes catalog entries: a folder that is merely
unmounted should not empty the catalog. Prune is the explicit
counterpart — it lists entries in the active collection whose backing
file no longer exists and, with --apply, removes them.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := app.initialize(cmd.Context(), service.InitializeOptions{}); err != nil {
			return err
		}
		col := app.State.Collection()
		stale := app.Reconciler.Stale(col)
		if len(stale) == 0 {
			printMuted("no stale entries")
			return nil
		}
		rows := make([][]string, 0, len(stale))
		ids := make([]string, 0, len(stale))
		for _, s := range stale {
			rows = append(rows, []string{s.Name, s.URL, s.ID})
			ids = append(ids, s.ID)
		}
		fmt.Print(renderTable([]string{"NAME", "URL", "ID"}, rows))
		if !pruneApply {
			printMuted("%d stale entries; re-run with --apply to remove them", len(stale))
			return nil
		}
		removed := app.Reconciler.Prune(col, ids)
		app.State.Refresh()
		printTitle("removed %d entries", removed)
		return app.saveDefaults(cmd.Context())
	},
}

func init() {
	pruneCmd.Flags().BoolVar(&pruneApply, "apply", false, "actually remove stale entries")
}
