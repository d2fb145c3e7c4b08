package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"bookman/internal/model"
	"bookman/internal/service"
)

var useCmd = &cobra.Command{
	Use:   "use",
	Short: "Change the current selection",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var useFICmd = &cobra.Command{
	Use:   "fi <key>",
	Short: "Select the current financial institution",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.State.UseFI(args[0]); err != nil {
			return err
		}
		return app.saveDefaults(cmd.Context())
	},
}

var useWFCmd = &cobra.Command{
	Use:   "workflow <key>",
	Short: "Select the current workflow",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.State.UseWorkflow(args[0]); err != nil {
			return err
		}
		return app.saveDefaults(cmd.Context())
	},
}

var usePurposeCmd = &cobra.Command{
	Use:   "purpose <input|working|output>",
	Short: "Select the current purpose",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, ok := model.ParsePurpose(args[0])
		if !ok {
			return fmt.Errorf("unknown purpose %q", args[0])
		}
		if err := app.State.UsePurpose(p); err != nil {
			return err
		}
		return app.saveDefaults(cmd.Context())
	},
}

var useWorkbookCmd = &cobra.Command{
	Use:   "workbook <ref>",
	Short: "Select the current workbook by index, id, name or url",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := app.initialize(cmd.Context(), service.InitializeOptions{}); err != nil {
			return err
		}
		res := app.State.Resolve(args[0])
		if res.IsAll {
			return fmt.Errorf("%q selects every workbook; pick a concrete one", args[0])
		}
		if res.Workbook == nil {
			return fmt.Errorf("no workbook matches %q", args[0])
		}
		if err := app.State.SetCurrent(*res.Workbook); err != nil {
			return err
		}
		printMuted("current workbook: %s (#%d)", res.Workbook.Name, res.Index)
		return app.saveDefaults(cmd.Context())
	},
}

func init() {
	useCmd.AddCommand(useFICmd, useWFCmd, usePurposeCmd, useWorkbookCmd)
}
