package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"creatorpay/internal/resolver"
)

type resolveOutput struct {
	Matched bool          `json:"matched"`
	Creator string        `json:"creator,omitempty"`
	Step    resolver.Step `json:"step,omitempty"`
	Key     string        `json:"key,omitempty"`
}

func newResolveCommand(ctx *commandContext) *cobra.Command {
	var (
		q      resolver.Query
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Show which creator a URL, handle or display name resolves to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(q.URL+q.Handle+q.DisplayName) == "" {
				return errors.New("provide at least one of --url, --handle or --name")
			}
			r, err := ctx.resolver()
			if err != nil {
				return err
			}
			match, ok := r.Resolve(q)
			result := resolveOutput{Matched: ok}
			if ok {
				result.Creator = match.Creator.Name
				result.Step = match.Step
				result.Key = match.Key
			}
			if asJSON {
				return writeJSON(cmd, result)
			}
			out := cmd.OutOrStdout()
			if !ok {
				fmt.Fprintln(out, "No creator matched")
				return nil
			}
			fmt.Fprintf(out, "Creator: %s\n", result.Creator)
			fmt.Fprintf(out, "Step:    %s\n", result.Step)
			fmt.Fprintf(out, "Key:     %s\n", result.Key)
			return nil
		},
	}

	cmd.Flags().StringVar(&q.URL, "url", "", "Video or profile URL")
	cmd.Flags().StringVar(&q.Handle, "handle", "", "Account username")
	cmd.Flags().StringVar(&q.DisplayName, "name", "", "Account display name")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")
	return cmd
}
