package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"creatorpay/internal/dedupe"
	"creatorpay/internal/pipeline"
)

type dedupeCreator struct {
	Creator   string               `json:"creator"`
	RawVideos int                  `json:"raw_videos"`
	Unique    int                  `json:"unique_videos"`
	Views     int64                `json:"views"`
	Videos    []dedupe.UniqueVideo `json:"videos"`
}

type dedupeOutput struct {
	Policy   dedupe.Policy   `json:"policy"`
	Creators []dedupeCreator `json:"creators"`
}

func newDedupeCommand(ctx *commandContext) *cobra.Command {
	var (
		policy  string
		creator string
		format  string
	)

	cmd := &cobra.Command{
		Use:   "dedupe <export.csv>",
		Short: "Show how each creator's videos collapse under a deduplication policy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := dedupe.Policy(strings.ToLower(strings.TrimSpace(policy)))
			if _, ok := dedupe.Apply(p, nil); !ok {
				return fmt.Errorf("unknown policy %q (available: %s)", policy, policyNames())
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			outFormat, err := resolveFormat(format, cfg.Report.Format, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			pl, err := ctx.pipeline()
			if err != nil {
				return err
			}
			rows, err := readRows(cmd, args[0])
			if err != nil {
				return err
			}
			res := pl.Run(cmd.Context(), rows)
			if err := res.Err(); err != nil {
				return err
			}
			out, err := dedupeResult(res, p, creator)
			if err != nil {
				return err
			}
			if outFormat == formatJSON {
				return writeJSON(cmd, out)
			}
			printDedupe(cmd, out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&policy, "policy", "p", string(dedupe.PolicyFuzzy), "Policy: "+policyNames())
	cmd.Flags().StringVar(&creator, "creator", "", "Only show this creator")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: auto, table or json")
	return cmd
}

func policyNames() string {
	names := make([]string, 0, len(dedupe.Policies()))
	for _, p := range dedupe.Policies() {
		names = append(names, string(p))
	}
	return strings.Join(names, ", ")
}

func dedupeResult(res *pipeline.Result, p dedupe.Policy, only string) (dedupeOutput, error) {
	out := dedupeOutput{Policy: p}
	only = strings.TrimSpace(only)
	for _, name := range res.Creators {
		if only != "" && !strings.EqualFold(name, only) {
			continue
		}
		videos := res.Videos[name]
		unique, _ := dedupe.Apply(p, videos)
		out.Creators = append(out.Creators, dedupeCreator{
			Creator:   name,
			RawVideos: len(videos),
			Unique:    len(unique),
			Views:     dedupe.TotalViews(unique),
			Videos:    unique,
		})
	}
	if only != "" && len(out.Creators) == 0 {
		return out, fmt.Errorf("creator %q has no videos in this export", only)
	}
	return out, nil
}

func printDedupe(cmd *cobra.Command, out dedupeOutput) {
	w := cmd.OutOrStdout()
	rows := make([][]string, 0, len(out.Creators))
	for _, c := range out.Creators {
		rows = append(rows, []string{c.Creator, strconv.Itoa(c.RawVideos), strconv.Itoa(c.Unique), formatCount(c.Views)})
	}
	fmt.Fprintln(w, renderTable(tableView{
		title:   "Policy " + string(out.Policy),
		headers: []string{"Creator", "Raw", "Unique", "Views"},
		rows:    rows,
		aligns:  []columnAlignment{alignLeft, alignRight, alignRight, alignRight},
	}))
	if len(out.Creators) != 1 {
		return
	}
	c := out.Creators[0]
	detail := make([][]string, 0, len(c.Videos))
	for _, v := range c.Videos {
		platforms := make([]string, 0, len(v.Platforms))
		for _, p := range v.Platforms {
			platforms = append(platforms, p.Label())
		}
		detail = append(detail, []string{
			truncate(v.Caption, 48),
			dedupe.DayKey(v.PublishedDate),
			strings.Join(platforms, ", "),
			strconv.Itoa(v.MemberCount()),
			formatCount(v.Views),
		})
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, renderTable(tableView{
		title:   c.Creator,
		headers: []string{"Caption", "Date", "Platforms", "Posts", "Views"},
		rows:    detail,
		aligns:  []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight},
	}))
}

func truncate(value string, limit int) string {
	value = strings.Join(strings.Fields(value), " ")
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit-1]) + "…"
}
