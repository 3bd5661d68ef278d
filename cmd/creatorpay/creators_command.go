package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"creatorpay/internal/directory"
)

type creatorsOutput struct {
	Count      int                   `json:"count"`
	Creators   []directory.Creator   `json:"creators"`
	Collisions []directory.Collision `json:"collisions,omitempty"`
}

func newCreatorsCommand(ctx *commandContext) *cobra.Command {
	var (
		collisions bool
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "creators",
		Short: "List the creator directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := ctx.ensureDirectory()
			if err != nil {
				return err
			}
			out := creatorsOutput{Count: dir.Len(), Creators: dir.Creators()}
			if collisions {
				out.Collisions = dir.Collisions()
			}
			if asJSON {
				return writeJSON(cmd, out)
			}
			w := cmd.OutOrStdout()
			if collisions {
				fmt.Fprintln(w, renderCollisions(out.Collisions))
				return nil
			}
			rows := make([][]string, 0, len(out.Creators))
			for _, c := range out.Creators {
				rows = append(rows, []string{c.Name, strconv.Itoa(len(c.Accounts)), strings.Join(c.Handles(), ", ")})
			}
			fmt.Fprintln(w, renderTable(tableView{
				title:   fmt.Sprintf("%d creators", out.Count),
				headers: []string{"Creator", "Accounts", "Handles"},
				rows:    rows,
				aligns:  []columnAlignment{alignLeft, alignRight, alignLeft},
			}))
			return nil
		},
	}

	cmd.Flags().BoolVar(&collisions, "collisions", false, "List index keys claimed by more than one creator")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}

func renderCollisions(collisions []directory.Collision) string {
	if len(collisions) == 0 {
		return "No index collisions"
	}
	rows := make([][]string, 0, len(collisions))
	for _, c := range collisions {
		rows = append(rows, []string{string(c.Index), c.Key, c.Previous, c.Winner})
	}
	return renderTable(tableView{
		title:   "Index collisions (later roster entries win)",
		headers: []string{"Index", "Key", "Previous", "Winner"},
		rows:    rows,
	})
}
