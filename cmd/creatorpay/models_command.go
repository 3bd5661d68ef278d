package main

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"creatorpay/internal/compensation"
)

func newModelsCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "models [name]",
		Short: "List compensation models or show one in detail",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := ctx.catalog()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				m, err := catalog.Lookup(args[0])
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, m.Definition())
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderModel(m.Definition()))
				return nil
			}

			models := catalog.Models()
			if asJSON {
				defs := make([]compensation.Definition, 0, len(models))
				for _, m := range models {
					defs = append(defs, m.Definition())
				}
				return writeJSON(cmd, defs)
			}
			cfg, _ := ctx.ensureConfig()
			rows := make([][]string, 0, len(models))
			for _, m := range models {
				def := m.Definition()
				name := def.Name
				if strings.EqualFold(name, cfg.Report.Model) {
					name += " *"
				}
				rows = append(rows, []string{name, def.Kind, def.Source, def.Label})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(tableView{
				headers: []string{"Model", "Kind", "Source", "Description"},
				rows:    rows,
			}))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}

func renderModel(def compensation.Definition) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Model:  %s\n", def.Name)
	if def.Label != "" {
		fmt.Fprintf(&b, "Label:  %s\n", def.Label)
	}
	fmt.Fprintf(&b, "Kind:   %s\n", def.Kind)
	fmt.Fprintf(&b, "Source: %s\n", def.Source)
	if def.BaseRate > 0 {
		fmt.Fprintf(&b, "Base:   %s per video\n", formatMoney(def.BaseRate))
	}
	for _, creator := range slices.Sorted(maps.Keys(def.RateOverrides)) {
		fmt.Fprintf(&b, "        %s for %s\n", formatMoney(def.RateOverrides[creator]), creator)
	}
	if def.Floor > 0 {
		fmt.Fprintf(&b, "Floor:  %s views\n", formatCount(def.Floor))
	}
	if def.RatePer1K > 0 {
		fmt.Fprintf(&b, "CPM:    %s per 1K views", formatMoney(def.RatePer1K))
		if def.Cap > 0 {
			fmt.Fprintf(&b, ", capped at %s", formatMoney(def.Cap))
		}
		b.WriteString("\n")
	}
	if def.BonusScope != "" {
		fmt.Fprintf(&b, "Bonus:  per %s\n", def.BonusScope)
	}
	if len(def.Tiers) > 0 {
		rows := make([][]string, 0, len(def.Tiers))
		for _, t := range def.Tiers.Sorted() {
			rows = append(rows, []string{t.Name, formatCount(t.MinViews), formatMoney(t.Bonus)})
		}
		b.WriteString(renderTable(tableView{
			headers: []string{"Tier", "Min views", "Bonus"},
			rows:    rows,
			aligns:  []columnAlignment{alignLeft, alignRight, alignRight},
		}))
	}
	return strings.TrimRight(b.String(), "\n")
}
