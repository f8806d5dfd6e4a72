package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"

	"github.com/couchcryptid/vortex/internal/domain"
)

const barWidth = 30

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// renderFields prints the parameter fields in extraction order, "-" when a
// field was not found.
func renderFields(w io.Writer, fields domain.ExtractedFields) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FIELD\tVALUE")
	for _, f := range domain.ParameterFields {
		v := fields.Get(f)
		if v == "" {
			v = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\n", f, v)
	}
	return tw.Flush()
}

// renderResult prints the intensity, the shape mix largest first and the two
// auxiliary likelihoods, each with a percentage bar.
func renderResult(w io.Writer, r domain.ScoreResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "INTENSITY\t%s\t(power %.2f)\n", r.Intensity, r.Power)
	fmt.Fprintln(tw)
	for _, share := range r.Distribution() {
		fmt.Fprintf(tw, "%s\t%5.1f%%\t%s\n", strings.ToUpper(share.Shape.String()), share.Percent, bar(share.Percent))
	}
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "CONDITIONS")
	fmt.Fprintf(tw, "MULTI-VORTEX\t%5.1f%%\t%s\n", r.MultiVortex, bar(r.MultiVortex))
	fmt.Fprintf(tw, "RAIN WRAPPED\t%5.1f%%\t%s\n", r.RainWrapped, bar(r.RainWrapped))
	return tw.Flush()
}

// bar draws pct (0-100) as a fixed-width gauge.
func bar(pct float64) string {
	n := int(math.Round(math.Max(0, math.Min(100, pct)) / 100 * barWidth))
	return strings.Repeat("#", n) + strings.Repeat(".", barWidth-n)
}
