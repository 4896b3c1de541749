package main

import (
	"errors"
	"os"

	"github.com/RezaEskandarii/recordgrid/app"
	"github.com/RezaEskandarii/recordgrid/internal/address"
	"github.com/RezaEskandarii/recordgrid/internal/grid"
	"github.com/RezaEskandarii/recordgrid/internal/tui"
	"github.com/RezaEskandarii/recordgrid/internal/users"
	"github.com/RezaEskandarii/recordgrid/types"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print one page of users",
	RunE:  runList,
}

func init() {
	addClientFlags(listCmd)
	addSelectionFlags(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg, logger, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}

	container, err := app.NewContainer(ctx, cfg, app.WithLogger(logger))
	if err != nil {
		return err
	}
	defer container.Close()

	sess := container.NewSession(address.NewStore("/users", selectionValues()))
	snap := sess.Refresh(ctx)
	st := sess.State()

	in := grid.Input[types.User]{Err: snap.Err, SortField: st.SortField, SortDir: st.SortDir}
	total := 0
	if snap.Data != nil {
		in.Items = snap.Data.Items
		total = snap.Data.TotalCount
	}
	view := users.NewGrid(users.Handlers{}).Render(in)
	if err := tui.PrintPage(os.Stdout, view, total, st.Page, st.PageSize); err != nil {
		return err
	}
	if snap.Err != "" {
		return errors.New(snap.Err)
	}
	return nil
}
