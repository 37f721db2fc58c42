// Package report renders analysis results as an aligned summary table,
// one row per input file.
package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"ivsweep/pkg/analysis"
	"ivsweep/pkg/util"
)

// Row pairs one input file with its analysis outcome. Exactly one of
// Res and Err is set.
type Row struct {
	File string
	Res  *analysis.Result
	Err  error
}

// Write renders the rows as a tab-aligned table. Columns that do not
// apply to a curve type print as "/"; failed files print the error in
// place of the numbers.
func Write(w io.Writer, rows []Row) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tTYPE\tIC+(uA)\tIC-(uA)\tR+(Ohm)\tR-(Ohm)\tICRN(mV)\tRSG+(Ohm)\tN\tVG(mV)")

	for _, row := range rows {
		if row.Err != nil {
			fmt.Fprintf(tw, "%s\terror: %v\t\t\t\t\t\t\t\t\n", row.File, row.Err)
			continue
		}
		res := row.Res

		icPos, icNeg, icrn := "/", "/", "/"
		if res.Type != analysis.Resistor {
			icPos = fmt.Sprintf("%.1f", res.Fit.IcPos*1e6)
			icNeg = fmt.Sprintf("%.1f", res.Fit.IcNeg*1e6)
		}
		if res.Type == analysis.HystereticJunction {
			icrn = fmt.Sprintf("%.2f", res.Fit.IcPos*res.Fit.RPos*1e3)
		}

		rsg := "/"
		if res.Subgap != nil {
			rsg = fmt.Sprintf("%.1f", res.Subgap.RsgPos)
		}

		junctions, vg := "/", "/"
		if res.Spread != nil {
			junctions = fmt.Sprintf("%d", res.Spread.JunctionCount)
			vg = fmt.Sprintf("%.3f", res.Spread.GapVoltage*1e3)
		}

		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.2f\t%.2f\t%s\t%s\t%s\t%s\n",
			row.File, res.Type, icPos, icNeg,
			res.Fit.RPos, res.Fit.RNeg, icrn, rsg, junctions, vg)
	}
	return tw.Flush()
}

// WriteDetail renders everything one analysis produced, one labelled
// line per quantity.
func WriteDetail(w io.Writer, row Row) {
	fmt.Fprintf(w, "\n%s:\n", row.File)
	if row.Err != nil {
		fmt.Fprintf(w, "  error: %v\n", row.Err)
		return
	}
	res := row.Res

	fmt.Fprintf(w, "  curve type     %s\n", res.Type)
	fmt.Fprintf(w, "  voltage offset %s\n", util.FormatValueFactor(res.VOffset, "V"))
	fmt.Fprintf(w, "  noise band     %s\n", util.FormatValueFactor(res.VNoise, "V"))
	if res.Type != analysis.Resistor {
		fmt.Fprintf(w, "  Ic+            %s\n", util.FormatValueFactor(res.Fit.IcPos, "A"))
		fmt.Fprintf(w, "  Ic-            %s\n", util.FormatValueFactor(res.Fit.IcNeg, "A"))
	}
	fmt.Fprintf(w, "  R+             %s\n", util.FormatValueFactor(res.Fit.RPos, "Ohm"))
	fmt.Fprintf(w, "  R-             %s\n", util.FormatValueFactor(res.Fit.RNeg, "Ohm"))
	fmt.Fprintf(w, "  V_intcp+       %s\n", util.FormatValueFactor(res.Fit.VPos, "V"))
	fmt.Fprintf(w, "  V_intcp-       %s\n", util.FormatValueFactor(res.Fit.VNeg, "V"))

	if res.Subgap != nil {
		fmt.Fprintf(w, "  Rsg+           %s (between %s and %s)\n",
			util.FormatValueFactor(res.Subgap.RsgPos, "Ohm"),
			util.FormatValueFactor(res.Subgap.V1Pos, "V"),
			util.FormatValueFactor(res.Subgap.V2Pos, "V"))
		fmt.Fprintf(w, "  Rsg-           %s (between %s and %s)\n",
			util.FormatValueFactor(res.Subgap.RsgNeg, "Ohm"),
			util.FormatValueFactor(res.Subgap.V1Neg, "V"),
			util.FormatValueFactor(res.Subgap.V2Neg, "V"))
	}
	if res.SubgapErr != nil {
		fmt.Fprintf(w, "  Rsg            unavailable: %v\n", res.SubgapErr)
	}

	if res.Spread != nil {
		fmt.Fprintf(w, "  junctions      %d (per-junction gap %s)\n",
			res.Spread.JunctionCount,
			util.FormatValueFactor(res.Spread.GapVoltage, "V"))
		for n, ic := range res.Spread.CriticalCurrents {
			if res.Spread.Counts[n] == 0 {
				continue
			}
			fmt.Fprintf(w, "    %2d switched at %s\n",
				res.Spread.Counts[n], util.FormatValueFactor(ic, "A"))
		}
	}
}
