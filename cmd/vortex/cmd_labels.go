package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/couchcryptid/vortex/internal/domain"
	"github.com/spf13/cobra"
)

var labelsCmd = &cobra.Command{
	Use:   "labels [field...]",
	Short: "List the OCR label patterns tried for each field",
	Long: `Labels prints, in the order they are tried, the label patterns the
extractor searches for. With no arguments every parameter field is listed.`,
	RunE: runLabels,
}

func init() {
	rootCmd.AddCommand(labelsCmd)
}

func runLabels(cmd *cobra.Command, args []string) error {
	fields := domain.ParameterFields
	if len(args) > 0 {
		fields = make([]domain.Field, 0, len(args))
		for _, name := range args {
			f, ok := domain.ParseField(name)
			if !ok {
				return fmt.Errorf("unknown field %q", name)
			}
			fields = append(fields, f)
		}
	}

	if jsonOutput {
		out := make(map[domain.Field][]string, len(fields))
		for _, f := range fields {
			rule, ok := domain.Rule(f)
			if !ok {
				return fmt.Errorf("field %q has no label rule", f)
			}
			out[f] = rule.Labels
		}
		return writeJSON(cmd.OutOrStdout(), out)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FIELD\tLABELS")
	for _, f := range fields {
		rule, ok := domain.Rule(f)
		if !ok {
			return fmt.Errorf("field %q has no label rule", f)
		}
		fmt.Fprintf(tw, "%s\t%s\n", f, strings.Join(rule.Labels, "  "))
	}
	return tw.Flush()
}
