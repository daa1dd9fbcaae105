package report

import (
	"fmt"
	"math"
	"strings"
)

// Series is one architecture's BER curve prepared for charting.
type Series struct {
	Name   string
	Cycles []int
	BERs   []float64
}

// seriesColors is the palette curves cycle through.
var seriesColors = []string{
	"#FF6B35", "#2563EB", "#10B981", "#8B5CF6", "#EF4444", "#F59E0B",
}

const (
	chartWidth   = 920
	chartHeight  = 560
	marginLeft   = 80
	marginRight  = 30
	marginTop    = 40
	marginBottom = 70

	// berFloor is the smallest BER the log axis can show. Zero-BER
	// checkpoints are clamped to the floor so the curve still starts at
	// the axis instead of being dropped.
	berFloor = 1e-6
)

// RenderSVG draws all series on one comparison chart: linear cycle-count X
// axis, log-scaled BER Y axis, decade gridlines and a legend. The result is
// a complete standalone SVG document.
func RenderSVG(series []Series) string {
	plotW := float64(chartWidth - marginLeft - marginRight)
	plotH := float64(chartHeight - marginTop - marginBottom)

	maxCycle := 1
	for _, s := range series {
		for _, c := range s.Cycles {
			if c > maxCycle {
				maxCycle = c
			}
		}
	}

	logFloor := math.Log10(berFloor)
	xAt := func(c int) float64 {
		return marginLeft + plotW*float64(c)/float64(maxCycle)
	}
	yAt := func(ber float64) float64 {
		if ber < berFloor {
			ber = berFloor
		}
		// log10 maps [berFloor, 1] onto [plot bottom, plot top].
		frac := (math.Log10(ber) - logFloor) / -logFloor
		return marginTop + plotH*(1-frac)
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		chartWidth, chartHeight, chartWidth, chartHeight)
	fmt.Fprintf(&b, `<rect width="%d" height="%d" fill="white"/>`+"\n", chartWidth, chartHeight)

	// Title and axis labels.
	fmt.Fprintf(&b, `<text x="%d" y="24" font-size="18" font-weight="bold" text-anchor="middle" fill="#2c3e50">NAND Flash Endurance Comparison</text>`+"\n", chartWidth/2)
	fmt.Fprintf(&b, `<text x="%d" y="%d" font-size="13" text-anchor="middle" fill="#333">Program/Erase (P/E) Cycles</text>`+"\n",
		chartWidth/2, chartHeight-14)
	fmt.Fprintf(&b, `<text x="20" y="%d" font-size="13" text-anchor="middle" fill="#333" transform="rotate(-90 20 %d)">Bit Error Rate (BER) - Log Scale</text>`+"\n",
		chartHeight/2, chartHeight/2)

	// Decade gridlines on the Y axis, from the floor up to 1.
	for exp := 0; exp >= int(logFloor); exp-- {
		ber := math.Pow(10, float64(exp))
		y := yAt(ber)
		fmt.Fprintf(&b, `<line x1="%d" y1="%.1f" x2="%d" y2="%.1f" stroke="#ddd" stroke-dasharray="4 3"/>`+"\n",
			marginLeft, y, chartWidth-marginRight, y)
		fmt.Fprintf(&b, `<text x="%d" y="%.1f" font-size="11" text-anchor="end" fill="#666">1e%d</text>`+"\n",
			marginLeft-8, y+4, exp)
	}

	// X axis ticks.
	for i := 0; i <= 5; i++ {
		c := maxCycle * i / 5
		x := xAt(c)
		fmt.Fprintf(&b, `<line x1="%.1f" y1="%d" x2="%.1f" y2="%d" stroke="#ddd" stroke-dasharray="4 3"/>`+"\n",
			x, marginTop, x, chartHeight-marginBottom)
		fmt.Fprintf(&b, `<text x="%.1f" y="%d" font-size="11" text-anchor="middle" fill="#666">%d</text>`+"\n",
			x, chartHeight-marginBottom+18, c)
	}

	// Plot frame.
	fmt.Fprintf(&b, `<rect x="%d" y="%d" width="%.0f" height="%.0f" fill="none" stroke="#999"/>`+"\n",
		marginLeft, marginTop, plotW, plotH)

	// Curves.
	for i, s := range series {
		color := seriesColors[i%len(seriesColors)]
		var pts strings.Builder
		for j := range s.Cycles {
			if j > 0 {
				pts.WriteByte(' ')
			}
			fmt.Fprintf(&pts, "%.1f,%.1f", xAt(s.Cycles[j]), yAt(s.BERs[j]))
		}
		fmt.Fprintf(&b, `<polyline points="%s" fill="none" stroke="%s" stroke-width="2"/>`+"\n",
			pts.String(), color)
	}

	// Legend.
	for i, s := range series {
		color := seriesColors[i%len(seriesColors)]
		y := marginTop + 16 + i*20
		fmt.Fprintf(&b, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="%s" stroke-width="3"/>`+"\n",
			marginLeft+14, y, marginLeft+42, y, color)
		fmt.Fprintf(&b, `<text x="%d" y="%d" font-size="12" fill="#333">%s</text>`+"\n",
			marginLeft+50, y+4, escapeXML(s.Name))
	}

	b.WriteString("</svg>\n")
	return b.String()
}

const (
	histHeight       = 300
	histMarginTop    = 36
	histMarginBottom = 50
)

// RenderHistogramSVG draws the endurance threshold distribution of one
// population, recovered from its cumulative BER curve: each bar is the
// fraction of cells whose endurance falls inside one checkpoint interval.
func RenderHistogramSVG(s Series) string {
	plotW := float64(chartWidth - marginLeft - marginRight)
	plotH := float64(histHeight - histMarginTop - histMarginBottom)

	maxCycle := 1
	for _, c := range s.Cycles {
		if c > maxCycle {
			maxCycle = c
		}
	}

	// Per-interval failure fractions; the curve is non-decreasing, so the
	// increments are the bin weights.
	fracs := make([]float64, 0, len(s.BERs))
	maxFrac := 0.0
	for i := 1; i < len(s.BERs); i++ {
		f := s.BERs[i] - s.BERs[i-1]
		if f < 0 {
			f = 0
		}
		fracs = append(fracs, f)
		if f > maxFrac {
			maxFrac = f
		}
	}

	xAt := func(c int) float64 {
		return marginLeft + plotW*float64(c)/float64(maxCycle)
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		chartWidth, histHeight, chartWidth, histHeight)
	fmt.Fprintf(&b, `<rect width="%d" height="%d" fill="white"/>`+"\n", chartWidth, histHeight)

	fmt.Fprintf(&b, `<text x="%d" y="22" font-size="15" font-weight="bold" text-anchor="middle" fill="#2c3e50">Endurance Threshold Distribution - %s</text>`+"\n",
		chartWidth/2, escapeXML(s.Name))
	fmt.Fprintf(&b, `<text x="%d" y="%d" font-size="12" text-anchor="middle" fill="#333">Program/Erase (P/E) Cycles Until Failure</text>`+"\n",
		chartWidth/2, histHeight-10)

	if maxFrac > 0 {
		for i, f := range fracs {
			h := plotH * f / maxFrac
			x0 := xAt(s.Cycles[i])
			x1 := xAt(s.Cycles[i+1])
			if x1-x0 < 1 {
				x1 = x0 + 1
			}
			fmt.Fprintf(&b, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="#FF6B35" fill-opacity="0.7" stroke="#c94f20" stroke-width="0.5"/>`+"\n",
				x0, histMarginTop+plotH-h, x1-x0, h)
		}
	}

	// X axis ticks.
	for i := 0; i <= 5; i++ {
		c := maxCycle * i / 5
		fmt.Fprintf(&b, `<text x="%.1f" y="%d" font-size="11" text-anchor="middle" fill="#666">%d</text>`+"\n",
			xAt(c), histHeight-histMarginBottom+18, c)
	}

	// Plot frame baseline.
	fmt.Fprintf(&b, `<line x1="%d" y1="%.1f" x2="%d" y2="%.1f" stroke="#999"/>`+"\n",
		marginLeft, histMarginTop+plotH, chartWidth-marginRight, histMarginTop+plotH)

	b.WriteString("</svg>\n")
	return b.String()
}

// escapeXML escapes the characters that matter inside SVG text nodes.
func escapeXML(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}
