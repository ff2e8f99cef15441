// Package results turns a ranked prediction into display bars.
// Widths are relative to the highest probability in the set, so the top
// entry always fills the bar.
package results

import (
	"strconv"
	"strings"

	"github.com/JaimeStill/topk/internal/predict"
)

// Epsilon replaces a zero maximum to keep widths finite.
const Epsilon = 0.0001

// Bar is one rendered row of the chart.
type Bar struct {
	Rank    int     `json:"rank"`
	Label   string  `json:"label"`
	Percent string  `json:"percent"`
	Width   float64 `json:"width"`
}

// WidthStyle formats Width for an inline CSS width.
func (b Bar) WidthStyle() string {
	return strconv.FormatFloat(b.Width, 'f', 2, 64) + "%"
}

// Bars computes rows in input order. Nil or empty input yields nil.
func Bars(entries []predict.Entry) []Bar {
	if len(entries) == 0 {
		return nil
	}

	max := Epsilon
	for _, e := range entries {
		if e.Prob > max {
			max = e.Prob
		}
	}

	bars := make([]Bar, len(entries))
	for i, e := range entries {
		bars[i] = Bar{
			Rank:    i + 1,
			Label:   DisplayLabel(e.Label),
			Percent: FormatPercent(e.Prob),
			Width:   e.Prob / max * 100,
		}
	}
	return bars
}

// DisplayLabel renders underscores as spaces.
func DisplayLabel(label string) string {
	return strings.ReplaceAll(label, "_", " ")
}

// FormatPercent renders a probability as a percentage with one decimal.
func FormatPercent(prob float64) string {
	return strconv.FormatFloat(prob*100, 'f', 1, 64) + "%"
}
