package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"bookman/internal/service"
)

var (
	initCreate bool
	initStrict bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Resolve folders, discover workbooks and build the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		rep, err := app.initialize(cmd.Context(), service.InitializeOptions{
			CreateMissingFolders: initCreate,
			RaiseOnErrors:        initStrict,
		})
		if err != nil {
			return err
		}
		printTitle("Catalog initialized (run %s)", rep.RunID)
		fmt.Printf("  root:       %s\n", rep.Root)
		fmt.Printf("  fis:        %d\n", rep.FIs)
		fmt.Printf("  workflows:  %d\n", rep.Workflows)
		fmt.Printf("  workbooks:  %d (%d new)\n", rep.Workbooks, rep.Added)
		if len(rep.Skipped) > 0 {
			printMuted("  skipped:")
			for _, s := range rep.Skipped {
				scope := s.FIKey
				if s.WFKey != "" {
					scope = fmt.Sprintf("%s/%s/%s", s.FIKey, s.WFKey, s.Purpose)
				}
				printMuted("    %-32s %s", scope, s.Reason)
			}
		}
		return app.saveDefaults(cmd.Context())
	},
}

func init() {
	initCmd.Flags().BoolVar(&initCreate, "create", false, "create missing folders instead of skipping them")
	initCmd.Flags().BoolVar(&initStrict, "strict", false, "abort on the first failure instead of skipping")
}
