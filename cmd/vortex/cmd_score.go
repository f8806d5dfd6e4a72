package main

import (
	"fmt"

	"github.com/couchcryptid/vortex/internal/domain"
	"github.com/spf13/cobra"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score hand-entered sounding values",
	Long: `Score runs the intensity model on values given as flags, for example
  vortex score --cape 2000 --srh 300 --lapse 9 --stp 3
Unset fields count as 0; values are read leniently, so "1,5" means 1.5.`,
	Args: cobra.NoArgs,
	RunE: runScore,
}

// scoreFields are the fields accepted as flags, in extraction order.
var scoreFields = append(append([]domain.Field{}, domain.ParameterFields...), domain.FieldSpeed)

func init() {
	rootCmd.AddCommand(scoreCmd)
	for _, f := range scoreFields {
		scoreCmd.Flags().String(string(f), "", fmt.Sprintf("%s value", f))
	}
}

func runScore(cmd *cobra.Command, _ []string) error {
	fields := domain.NewExtractedFields()
	for _, f := range scoreFields {
		v, err := cmd.Flags().GetString(string(f))
		if err != nil {
			return err
		}
		fields[f] = v
	}

	in := domain.CoerceInputs(fields)
	result := domain.Score(in)
	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), map[string]any{
			"inputs":       in,
			"result":       result,
			"distribution": result.Distribution(),
		})
	}
	return renderResult(cmd.OutOrStdout(), result)
}
