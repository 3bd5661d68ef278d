package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"creatorpay/internal/compensation"
	"creatorpay/internal/simulate"
)

type simulateOutput struct {
	Seed       int64                 `json:"seed"`
	Creators   int                   `json:"creators"`
	Videos     int                   `json:"videos"`
	Views      int64                 `json:"views"`
	Reports    []compensation.Report `json:"reports"`
	Projection *simulate.Projection  `json:"projection,omitempty"`
	Projected  []compensation.Report `json:"projected,omitempty"`
}

func newSimulateCommand(ctx *commandContext) *cobra.Command {
	var (
		opts       simulate.Options
		models     []string
		viralShare float64
		format     string
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Compare models on seeded synthetic creators",
		Long: "Generate synthetic creators with heavy-tailed view distributions and\n" +
			"price them with each model. Defaults compare hybrid and summed.\n" +
			"--viral projects a month in which that share of videos passes 100K views.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			catalog, err := ctx.catalog()
			if err != nil {
				return err
			}
			selected, err := selectModels(catalog, models, false, "hybrid")
			if err != nil {
				return err
			}
			outFormat, err := resolveFormat(format, cfg.Report.Format, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			creators := simulate.Generate(opts)
			out := simulateOutput{Seed: opts.Seed, Creators: len(creators), Reports: simulate.Compare(creators, selected)}
			for _, c := range creators {
				out.Videos += len(c.Videos)
				out.Views += c.TotalViews()
			}
			if viralShare > 0 {
				proj := simulate.NewGenerator(opts.Seed).Project(creators, viralShare)
				out.Projection = &proj
				out.Projected = simulate.Compare(proj.Creators, selected)
			}

			if outFormat == formatJSON {
				return writeJSON(cmd, out)
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Seed %d: %d creators, %s videos, %s views\n\n",
				out.Seed, out.Creators, formatCount(int64(out.Videos)), formatCount(out.Views))
			fmt.Fprintln(w, renderComparison("Baseline", out.Reports))
			if out.Projection != nil {
				p := out.Projection
				fmt.Fprintf(w, "\nProjection: %d of %d videos past 100K before, target %d, %d after (%d boosted)\n\n",
					p.ViralBefore, p.Videos, p.Target, p.ViralAfter, p.Boosted)
				fmt.Fprintln(w, renderComparison("Projected", out.Projected))
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&opts.Seed, "seed", simulate.DefaultSeed, "Random seed")
	cmd.Flags().IntVar(&opts.Creators, "creators", 10, "Number of synthetic creators")
	cmd.Flags().IntVar(&opts.Videos, "videos", 12, "Mean videos per creator")
	cmd.Flags().StringArrayVarP(&models, "model", "m", []string{"hybrid", "summed"}, "Model to compare (repeatable)")
	cmd.Flags().Float64Var(&viralShare, "viral", 0, "Project a month where this share of videos exceeds 100K views (e.g. 0.012)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: auto, table or json")
	return cmd
}

func renderComparison(title string, reports []compensation.Report) string {
	rows := make([][]string, 0, len(reports))
	for _, r := range reports {
		t := r.Totals
		rows = append(rows, []string{
			r.Model,
			formatCount(t.Views),
			formatMoney(t.BaseCost),
			formatMoney(t.Bonus),
			formatMoney(t.TotalCost),
			formatRate(t.CostPerView),
		})
	}
	return renderTable(tableView{
		title:   title,
		headers: []string{"Model", "Views", "Base", "Bonus", "Total", "Cost/View"},
		rows:    rows,
		aligns:  []columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight},
	})
}
