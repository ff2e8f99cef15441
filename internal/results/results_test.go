package results_test

import (
	"math"
	"strings"
	"testing"

	"github.com/JaimeStill/topk/internal/predict"
	"github.com/JaimeStill/topk/internal/results"
)

func TestBarsRankAndScale(t *testing.T) {
	bars := results.Bars([]predict.Entry{
		{Label: "golden_retriever", Prob: 0.82},
		{Label: "labrador", Prob: 0.15},
	})

	if len(bars) != 2 {
		t.Fatalf("rows: got %d, want 2", len(bars))
	}

	first, second := bars[0], bars[1]

	if first.Rank != 1 || second.Rank != 2 {
		t.Errorf("ranks: got %d, %d", first.Rank, second.Rank)
	}
	if first.Label != "golden retriever" {
		t.Errorf("label: got %q, want %q", first.Label, "golden retriever")
	}
	if first.Width != 100 {
		t.Errorf("first width: got %v, want 100", first.Width)
	}
	if first.Percent != "82.0%" {
		t.Errorf("first percent: got %q", first.Percent)
	}
	if math.Abs(second.Width-18.29) > 0.01 {
		t.Errorf("second width: got %v, want ~18.3", second.Width)
	}
	if second.Percent != "15.0%" {
		t.Errorf("second percent: got %q", second.Percent)
	}
}

func TestBarsKeepInputOrder(t *testing.T) {
	bars := results.Bars([]predict.Entry{
		{Label: "low", Prob: 0.1},
		{Label: "high", Prob: 0.9},
	})

	if bars[0].Label != "low" || bars[1].Label != "high" {
		t.Errorf("order changed: %+v", bars)
	}
	if bars[1].Width != 100 {
		t.Errorf("max entry width: got %v, want 100", bars[1].Width)
	}
}

func TestBarsEmpty(t *testing.T) {
	if bars := results.Bars(nil); bars != nil {
		t.Errorf("nil input: got %v", bars)
	}
	if bars := results.Bars([]predict.Entry{}); bars != nil {
		t.Errorf("empty input: got %v", bars)
	}
}

func TestBarsZeroMaximum(t *testing.T) {
	bars := results.Bars([]predict.Entry{{Label: "a", Prob: 0}, {Label: "b", Prob: 0}})

	for _, b := range bars {
		if math.IsNaN(b.Width) || math.IsInf(b.Width, 0) {
			t.Fatalf("width not finite: %v", b.Width)
		}
		if b.Width != 0 {
			t.Errorf("width: got %v, want 0", b.Width)
		}
		if b.Percent != "0.0%" {
			t.Errorf("percent: got %q", b.Percent)
		}
	}
}

func TestWidthStyle(t *testing.T) {
	b := results.Bar{Width: 18.29268}
	if got := b.WidthStyle(); got != "18.29%" {
		t.Errorf("style: got %q", got)
	}
}

func TestChart(t *testing.T) {
	if got := results.Chart(nil, 20); got != "" {
		t.Errorf("empty chart: got %q", got)
	}

	bars := results.Bars([]predict.Entry{
		{Label: "golden_retriever", Prob: 0.82},
		{Label: "labrador", Prob: 0.15},
	})
	out := results.Chart(bars, 20)

	for _, want := range []string{"1. golden retriever", "82.0%", "2. labrador", "15.0%"} {
		if !strings.Contains(out, want) {
			t.Errorf("chart missing %q:\n%s", want, out)
		}
	}
	if strings.Count(out, "\n") != 4 {
		t.Errorf("lines: got %d, want 4", strings.Count(out, "\n"))
	}
}

func TestCells(t *testing.T) {
	tests := []struct {
		width float64
		total int
		want  int
	}{
		{100, 20, 20},
		{18.29, 20, 4},
		{0, 20, 0},
		{150, 10, 10},
		{-5, 10, 0},
	}

	for _, tt := range tests {
		if got := results.Cells(tt.width, tt.total); got != tt.want {
			t.Errorf("Cells(%v, %d): got %d, want %d", tt.width, tt.total, got, tt.want)
		}
	}
}
