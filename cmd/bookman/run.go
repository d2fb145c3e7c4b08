package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"bookman/internal/categorize"
	"bookman/internal/model"
	"bookman/internal/paths"
	"bookman/internal/service"
)

var (
	runDescCol int
	runRules   string
)

var runCmd = &cobra.Command{
	Use:   "run <ref>",
	Short: "Categorize an input workbook into the working folder",
	Long: `Run loads the referenced input workbook, assigns a category to each
row's description using the configured rule file, and writes the
result to the current workflow's working folder.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := app.initialize(cmd.Context(), service.InitializeOptions{}); err != nil {
			return err
		}
		rulesPath := runRules
		if rulesPath == "" {
			rulesPath = app.Config.Rules.Path
		}
		matcher, err := categorize.LoadRules(rulesPath)
		if err != nil {
			return err
		}

		wbs, err := resolveWorkbooks(args[0])
		if err != nil {
			return err
		}

		fiKey, wfKey, _ := app.State.Selection()
		fi, err := app.Model.FI(fiKey)
		if err != nil {
			return err
		}
		role, err := app.Model.PurposeFolder(wfKey, model.PurposeWorking)
		if err != nil {
			return err
		}
		workingDir, err := paths.Resolve(app.Model.Options().RootFolder, fi.Folder, role.Folder)
		if err != nil {
			return err
		}
		if _, err := paths.Verify(workingDir, paths.VerifyOptions{CreateIfMissing: true}); err != nil {
			return err
		}

		runner := &service.Runner{Content: app.Content, Matcher: matcher, Log: app.Log}
		for _, wb := range wbs {
			outURL := filepath.Join(workingDir, filepath.Base(wb.URL))
			res, err := runner.Categorize(cmd.Context(), wb, runDescCol, outURL)
			if err != nil {
				return err
			}
			printTitle("%s: %d rows categorized", wb.Name, res.Rows)
			fmt.Printf("  matched:  %d\n", res.Matched)
			fmt.Printf("  fallback: %d\n", res.Fallback)
			fmt.Printf("  output:   %s\n", res.OutputURL)
		}
		return nil
	},
}

func init() {
	runCmd.Flags().IntVar(&runDescCol, "desc-col", 2, "zero-based description column")
	runCmd.Flags().StringVar(&runRules, "rules", "", "categorization rule file (defaults to configured path)")
}
