package web

import (
	"fmt"
	"html"
	"math"
	"strconv"
	"strings"

	"github.com/goliatone/go-lessons/pkg/interfaces"
)

const (
	figureWidth  = 480.0
	figureHeight = 300.0
	figureMargin = 40.0
)

var seriesColors = []string{"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd"}

type bounds struct {
	minX, maxX, minY, maxY float64
}

func figureBounds(fig interfaces.Figure) bounds {
	b := bounds{minX: math.Inf(1), maxX: math.Inf(-1), minY: 0, maxY: math.Inf(-1)}
	empty := true
	for _, s := range fig.Series {
		for i := range s.X {
			empty = false
			b.minX = math.Min(b.minX, s.X[i])
			b.maxX = math.Max(b.maxX, s.X[i])
			if i < len(s.Y) {
				b.minY = math.Min(b.minY, s.Y[i])
				b.maxY = math.Max(b.maxY, s.Y[i])
			}
		}
	}
	if empty {
		return bounds{0, 1, 0, 1}
	}
	if fig.Kind == interfaces.FigureBar || fig.Kind == interfaces.FigureHist {
		pad := barWidth(fig) / 2
		b.minX -= pad
		b.maxX += pad
	}
	if b.maxX == b.minX {
		b.minX, b.maxX = b.minX-1, b.maxX+1
	}
	if b.maxY <= b.minY {
		b.maxY = b.minY + 1
	}
	return b
}

// barWidth is the smallest gap between neighbouring x values of the first
// series, or 1 for a single bar.
func barWidth(fig interfaces.Figure) float64 {
	if len(fig.Series) == 0 || len(fig.Series[0].X) < 2 {
		return 1
	}
	xs := fig.Series[0].X
	width := math.Inf(1)
	for i := 1; i < len(xs); i++ {
		if gap := math.Abs(xs[i] - xs[i-1]); gap > 0 {
			width = math.Min(width, gap)
		}
	}
	if math.IsInf(width, 1) {
		return 1
	}
	return width
}

func (b bounds) px(x float64) float64 {
	return figureMargin + (x-b.minX)/(b.maxX-b.minX)*(figureWidth-2*figureMargin)
}

func (b bounds) py(y float64) float64 {
	return figureHeight - figureMargin - (y-b.minY)/(b.maxY-b.minY)*(figureHeight-2*figureMargin)
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func label(v float64) string {
	return strconv.FormatFloat(v, 'g', 4, 64)
}

// renderFigureSVG draws fig as a standalone SVG element.
func renderFigureSVG(fig interfaces.Figure) string {
	b := figureBounds(fig)
	var sb strings.Builder

	fmt.Fprintf(&sb, `<svg class="figure figure-%s" xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" role="img"`,
		fig.Kind, num(figureWidth), num(figureHeight))
	if fig.Title != "" {
		fmt.Fprintf(&sb, ` aria-label="%s"`, html.EscapeString(fig.Title))
	}
	sb.WriteString(">")

	left, right := figureMargin, figureWidth-figureMargin
	top, bottom := figureMargin, figureHeight-figureMargin
	fmt.Fprintf(&sb, `<line class="axis" x1="%s" y1="%s" x2="%s" y2="%s" stroke="#333"/>`, num(left), num(bottom), num(right), num(bottom))
	fmt.Fprintf(&sb, `<line class="axis" x1="%s" y1="%s" x2="%s" y2="%s" stroke="#333"/>`, num(left), num(top), num(left), num(bottom))

	fmt.Fprintf(&sb, `<text class="tick" x="%s" y="%s" font-size="10">%s</text>`, num(left), num(bottom+14), label(b.minX))
	fmt.Fprintf(&sb, `<text class="tick" x="%s" y="%s" font-size="10" text-anchor="end">%s</text>`, num(right), num(bottom+14), label(b.maxX))
	fmt.Fprintf(&sb, `<text class="tick" x="%s" y="%s" font-size="10" text-anchor="end">%s</text>`, num(left-4), num(bottom), label(b.minY))
	fmt.Fprintf(&sb, `<text class="tick" x="%s" y="%s" font-size="10" text-anchor="end">%s</text>`, num(left-4), num(top+4), label(b.maxY))

	for i, s := range fig.Series {
		color := seriesColors[i%len(seriesColors)]
		writeSeries(&sb, fig, b, s, color)
	}

	if fig.Title != "" {
		fmt.Fprintf(&sb, `<text class="title" x="%s" y="%s" font-size="14" text-anchor="middle">%s</text>`,
			num(figureWidth/2), num(top/2+5), html.EscapeString(fig.Title))
	}
	if fig.XLabel != "" {
		fmt.Fprintf(&sb, `<text class="x-label" x="%s" y="%s" font-size="11" text-anchor="middle">%s</text>`,
			num(figureWidth/2), num(figureHeight-8), html.EscapeString(fig.XLabel))
	}
	if fig.YLabel != "" {
		fmt.Fprintf(&sb, `<text class="y-label" x="12" y="%s" font-size="11" text-anchor="middle" transform="rotate(-90 12 %s)">%s</text>`,
			num(figureHeight/2), num(figureHeight/2), html.EscapeString(fig.YLabel))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func writeSeries(sb *strings.Builder, fig interfaces.Figure, b bounds, s interfaces.Series, color string) {
	n := min(len(s.X), len(s.Y))
	switch fig.Kind {
	case interfaces.FigureBar, interfaces.FigureHist:
		width := barWidth(fig) / (b.maxX - b.minX) * (figureWidth - 2*figureMargin)
		if fig.Kind == interfaces.FigureBar {
			width *= 0.8
		}
		for i := 0; i < n; i++ {
			x := b.px(s.X[i]) - width/2
			y0, y1 := b.py(0), b.py(s.Y[i])
			top, height := math.Min(y0, y1), math.Abs(y1-y0)
			fmt.Fprintf(sb, `<rect class="bar" x="%s" y="%s" width="%s" height="%s" fill="%s"/>`,
				num(x), num(top), num(width), num(height), color)
		}
	case interfaces.FigureScatter:
		for i := 0; i < n; i++ {
			fmt.Fprintf(sb, `<circle class="point" cx="%s" cy="%s" r="3" fill="%s"/>`,
				num(b.px(s.X[i])), num(b.py(s.Y[i])), color)
		}
	default:
		points := make([]string, 0, n)
		for i := 0; i < n; i++ {
			points = append(points, num(b.px(s.X[i]))+","+num(b.py(s.Y[i])))
		}
		fmt.Fprintf(sb, `<polyline class="line" points="%s" fill="none" stroke="%s" stroke-width="2"/>`,
			strings.Join(points, " "), color)
	}
	if s.Label != "" {
		fmt.Fprintf(sb, `<title>%s</title>`, html.EscapeString(s.Label))
	}
}
