package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"creatorpay/internal/compensation"
	"creatorpay/internal/export"
	"creatorpay/internal/logging"
	"creatorpay/internal/pipeline"
)

type reportOptions struct {
	models    []string
	all       bool
	format    string
	out       string
	save      bool
	unmatched bool
}

type reportOutput struct {
	RunID         string                `json:"run_id"`
	Source        string                `json:"source"`
	Rows          int                   `json:"rows"`
	Matched       int                   `json:"matched"`
	UnmatchedRows int                   `json:"unmatched_rows"`
	Reports       []compensation.Report `json:"reports"`
	Unmatched     []pipeline.Unmatched  `json:"unmatched,omitempty"`
	Export        *export.Paths         `json:"export,omitempty"`
}

func newReportCommand(ctx *commandContext) *cobra.Command {
	var opts reportOptions

	cmd := &cobra.Command{
		Use:   "report <export.csv>",
		Short: "Price a video export with one or more compensation models",
		Long: "Attribute every row of an analytics export to a creator, deduplicate\n" +
			"cross-platform reposts and print a payout report per model.\n\n" +
			"Use - to read the export from stdin.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, ctx, args[0], opts)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.models, "model", "m", nil, "Model to apply (repeatable, default report.model)")
	cmd.Flags().BoolVar(&opts.all, "all", false, "Apply every configured model")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "Output format: auto, table or json")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "Write report files to this directory")
	cmd.Flags().BoolVar(&opts.save, "save", false, "Write report files to report.output_dir")
	cmd.Flags().BoolVar(&opts.unmatched, "unmatched", false, "List accounts that matched no creator")
	return cmd
}

func runReport(cmd *cobra.Command, ctx *commandContext, source string, opts reportOptions) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return err
	}
	catalog, err := ctx.catalog()
	if err != nil {
		return err
	}
	models, err := selectModels(catalog, opts.models, opts.all, cfg.Report.Model)
	if err != nil {
		return err
	}
	format, err := resolveFormat(opts.format, cfg.Report.Format, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	p, err := ctx.pipeline()
	if err != nil {
		return err
	}
	rows, err := readRows(cmd, source)
	if err != nil {
		return err
	}

	runID := export.NewRunID()
	runCtx := logging.WithRunID(cmd.Context(), runID)
	res := p.Run(runCtx, rows)
	if err := res.Err(); err != nil {
		return err
	}

	out := reportOutput{
		RunID:         runID,
		Source:        source,
		Rows:          res.Rows,
		Matched:       res.Matched,
		UnmatchedRows: res.UnmatchedRows(),
	}
	generated := time.Now().UTC()
	for _, m := range models {
		report := res.Report(m)
		report.RunID = runID
		report.GeneratedAt = generated
		out.Reports = append(out.Reports, report)
	}
	if opts.unmatched {
		out.Unmatched = res.Unmatched
	}

	dir := strings.TrimSpace(opts.out)
	if dir == "" && opts.save {
		dir = cfg.Report.OutputDir
	}
	if dir != "" {
		paths, err := export.NewWriter(dir, logger).Write(runCtx, export.Run{
			ID:          runID,
			GeneratedAt: generated,
			Source:      source,
			Result:      res,
			Reports:     out.Reports,
		})
		if err != nil {
			return fmt.Errorf("export report: %w", err)
		}
		out.Export = &paths
	}

	if format == formatJSON {
		return writeJSON(cmd, out)
	}
	printReportTables(cmd.OutOrStdout(), out)
	return nil
}

func selectModels(catalog *compensation.Catalog, names []string, all bool, fallback string) ([]compensation.Model, error) {
	if all {
		return catalog.Models(), nil
	}
	var requested []string
	for _, raw := range names {
		for _, name := range strings.Split(raw, ",") {
			if name = strings.TrimSpace(name); name != "" {
				requested = append(requested, name)
			}
		}
	}
	if len(requested) == 0 {
		requested = []string{fallback}
	}
	models := make([]compensation.Model, 0, len(requested))
	seen := make(map[string]bool)
	for _, name := range requested {
		m, err := catalog.Lookup(name)
		if err != nil {
			return nil, err
		}
		if seen[m.Name()] {
			continue
		}
		seen[m.Name()] = true
		models = append(models, m)
	}
	return models, nil
}

func printReportTables(w io.Writer, out reportOutput) {
	fmt.Fprintf(w, "Run %s: %s rows, %s matched, %s unmatched\n\n",
		out.RunID, formatCount(int64(out.Rows)), formatCount(int64(out.Matched)), formatCount(int64(out.UnmatchedRows)))
	for _, report := range out.Reports {
		fmt.Fprintln(w, renderReport(report))
		fmt.Fprintln(w)
	}
	if len(out.Unmatched) > 0 {
		rows := make([][]string, 0, len(out.Unmatched))
		for _, u := range out.Unmatched {
			rows = append(rows, []string{u.Key, u.Platform.Label(), strconv.Itoa(u.Rows), formatCount(u.Views), u.Example})
		}
		fmt.Fprintln(w, renderTable(tableView{
			title:   "Unmatched accounts",
			headers: []string{"Account", "Platform", "Rows", "Views", "Example"},
			rows:    rows,
			aligns:  []columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft},
		}))
		fmt.Fprintln(w)
	}
	if out.Export != nil {
		fmt.Fprintf(w, "Wrote %d report(s) to %s\n", len(out.Export.Reports), out.Export.Dir)
		if out.Export.Videos != "" {
			fmt.Fprintf(w, "Unique videos: %s\n", filepath.Base(out.Export.Videos))
		}
	}
}

func renderReport(report compensation.Report) string {
	title := report.Model
	if report.Label != "" {
		title = fmt.Sprintf("%s (%s)", report.Label, report.Model)
	}
	rows := make([][]string, 0, len(report.Lines))
	for _, l := range report.Lines {
		rows = append(rows, []string{
			l.Creator,
			strconv.Itoa(l.Videos),
			strconv.Itoa(l.QualifyingVideos),
			formatCount(l.TotalViews),
			formatMoney(l.BaseCost),
			formatMoney(l.Bonus),
			formatMoney(l.TotalCost),
			formatRate(l.CostPerView),
		})
	}
	t := report.Totals
	return renderTable(tableView{
		title:   title,
		headers: []string{"Creator", "Videos", "Qualifying", "Views", "Base", "Bonus", "Total", "Cost/View"},
		rows:    rows,
		aligns:  []columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight},
		footer: []string{
			fmt.Sprintf("%d creators", t.Creators),
			strconv.Itoa(t.Videos),
			strconv.Itoa(t.QualifyingVideos),
			formatCount(t.Views),
			formatMoney(t.BaseCost),
			formatMoney(t.Bonus),
			formatMoney(t.TotalCost),
			formatRate(t.CostPerView),
		},
	})
}
