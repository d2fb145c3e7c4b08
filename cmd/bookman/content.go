package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"bookman/internal/model"
	"bookman/internal/service"
)

// resolveWorkbooks resolves a user reference to concrete workbooks,
// expanding the "all" sentinel over the active collection.
func resolveWorkbooks(raw string) ([]model.Workbook, error) {
	res := app.State.Resolve(raw)
	if res.IsAll {
		return app.State.Collection().Sorted(), nil
	}
	if res.Workbook == nil {
		return nil, fmt.Errorf("no workbook matches %q", raw)
	}
	return []model.Workbook{*res.Workbook}, nil
}

var loadCmd = &cobra.Command{
	Use:   "load <ref>",
	Short: "Load workbook content into the session cache",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := app.initialize(cmd.Context(), service.InitializeOptions{}); err != nil {
			return err
		}
		wbs, err := resolveWorkbooks(args[0])
		if err != nil {
			return err
		}
		for _, wb := range wbs {
			h, err := app.State.Load(cmd.Context(), wb)
			if err != nil {
				return err
			}
			rows, err := h.Rows()
			if err != nil {
				return err
			}
			fmt.Printf("%s: %d rows (%s)\n", wb.Name, len(rows), h.Kind())
		}
		return nil
	},
}

var saveCmd = &cobra.Command{
	Use:   "save <ref>",
	Short: "Persist previously loaded workbook content",
	Long: `Save writes a workbook's cached content back to its file. Content
must have been loaded in the same invocation (for example by a
workflow run); saving an unloaded workbook is an error.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := app.initialize(cmd.Context(), service.InitializeOptions{}); err != nil {
			return err
		}
		wbs, err := resolveWorkbooks(args[0])
		if err != nil {
			return err
		}
		for _, wb := range wbs {
			if err := app.State.Save(cmd.Context(), wb); err != nil {
				return err
			}
			fmt.Printf("%s: saved\n", wb.Name)
		}
		return nil
	},
}
