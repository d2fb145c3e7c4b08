package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"bookman/internal/model"
	"bookman/internal/service"
)

var fisCmd = &cobra.Command{
	Use:   "fis",
	Short: "List configured financial institutions",
	RunE: func(cmd *cobra.Command, args []string) error {
		rows := make([][]string, 0, len(app.Model.FIs()))
		for _, fi := range app.Model.FIs() {
			rows = append(rows, []string{fi.Key, fi.Name, fi.Type, fi.Folder})
		}
		fmt.Print(renderTable([]string{"KEY", "NAME", "TYPE", "FOLDER"}, rows))
		return nil
	},
}

var workflowsCmd = &cobra.Command{
	Use:   "workflows",
	Short: "List configured workflows and their purpose folders",
	RunE: func(cmd *cobra.Command, args []string) error {
		var rows [][]string
		for _, wf := range app.Model.Workflows() {
			for _, purpose := range model.Purposes() {
				role, ok := wf.Folders[purpose]
				if !ok {
					continue
				}
				rows = append(rows, []string{wf.Key, wf.Name, string(purpose), role.Folder, role.Prefix})
			}
		}
		fmt.Print(renderTable([]string{"KEY", "NAME", "PURPOSE", "FOLDER", "PREFIX"}, rows))
		return nil
	},
}

var workbooksCmd = &cobra.Command{
	Use:   "workbooks",
	Short: "List the active workbook collection",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := app.initialize(cmd.Context(), service.InitializeOptions{}); err != nil {
			return err
		}
		fiKey, wfKey, purpose := app.State.Selection()
		printTitle("Workbooks for %s / %s / %s", fiKey, wfKey, purpose)

		cur, hasCur := app.State.Current()
		var rows [][]string
		for i, wb := range app.State.Collection().Sorted() {
			mark := ""
			if hasCur && wb.ID == cur.ID {
				mark = "*"
			}
			loaded := ""
			if wb.Loaded {
				loaded = "loaded"
			}
			rows = append(rows, []string{strconv.Itoa(i), mark, wb.Name, wb.FileType, loaded, wb.ID})
		}
		fmt.Print(renderTable([]string{"#", "", "NAME", "TYPE", "STATE", "ID"}, rows))
		return nil
	},
}
