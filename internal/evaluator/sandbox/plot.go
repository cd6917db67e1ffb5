package sandbox

import (
	"fmt"
	"math"

	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"

	"github.com/goliatone/go-lessons/pkg/interfaces"
)

const defaultHistBins = 10

var plotModule = &starlarkstruct.Module{
	Name: "plot",
	Members: starlark.StringDict{
		"line":    starlark.NewBuiltin("line", xyPlot(interfaces.FigureLine)),
		"bar":     starlark.NewBuiltin("bar", xyPlot(interfaces.FigureBar)),
		"scatter": starlark.NewBuiltin("scatter", xyPlot(interfaces.FigureScatter)),
		"hist":    starlark.NewBuiltin("hist", histPlot),
	},
}

func init() {
	plotModule.Freeze()
}

type labels struct {
	series string
	title  string
	xLabel string
	yLabel string
}

// xyPlot builds line, bar and scatter. A single sequence argument is drawn
// against its indices.
func xyPlot(kind interfaces.FigureKind) func(*starlark.Thread, *starlark.Builtin, starlark.Tuple, []starlark.Tuple) (starlark.Value, error) {
	return func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var (
			xs, ys starlark.Value
			l      labels
		)
		if err := starlark.UnpackArgs(b.Name(), args, kwargs,
			"x", &xs, "y?", &ys,
			"label?", &l.series, "title?", &l.title, "xlabel?", &l.xLabel, "ylabel?", &l.yLabel,
		); err != nil {
			return nil, err
		}

		x, err := floats(b.Name(), "x", xs)
		if err != nil {
			return nil, err
		}
		var y []float64
		if ys == nil || ys == starlark.None {
			x, y = indices(len(x)), x
		} else if y, err = floats(b.Name(), "y", ys); err != nil {
			return nil, err
		}
		if len(x) != len(y) {
			return nil, fmt.Errorf("%s: x and y must have the same length, got %d and %d", b.Name(), len(x), len(y))
		}

		return draw(thread, b.Name(), interfaces.Figure{
			Kind:   kind,
			Title:  l.title,
			XLabel: l.xLabel,
			YLabel: l.yLabel,
			Series: []interfaces.Series{{Label: l.series, X: x, Y: y}},
		})
	}
}

// histPlot buckets values into equal-width bins. X holds the bin centres and
// Y the counts.
func histPlot(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		values starlark.Value
		bins   = defaultHistBins
		l      labels
	)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs,
		"values", &values, "bins?", &bins,
		"label?", &l.series, "title?", &l.title, "xlabel?", &l.xLabel, "ylabel?", &l.yLabel,
	); err != nil {
		return nil, err
	}
	if bins <= 0 {
		return nil, fmt.Errorf("%s: bins must be positive, got %d", b.Name(), bins)
	}
	data, err := floats(b.Name(), "values", values)
	if err != nil {
		return nil, err
	}

	centres, counts := histogram(data, bins)
	return draw(thread, b.Name(), interfaces.Figure{
		Kind:   interfaces.FigureHist,
		Title:  l.title,
		XLabel: l.xLabel,
		YLabel: l.yLabel,
		Series: []interfaces.Series{{Label: l.series, X: centres, Y: counts}},
	})
}

func histogram(data []float64, bins int) ([]float64, []float64) {
	if len(data) == 0 {
		return []float64{}, []float64{}
	}
	lo, hi := data[0], data[0]
	for _, v := range data[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi == lo {
		return []float64{lo}, []float64{float64(len(data))}
	}

	width := (hi - lo) / float64(bins)
	centres := make([]float64, bins)
	counts := make([]float64, bins)
	for i := range centres {
		centres[i] = lo + width*(float64(i)+0.5)
	}
	for _, v := range data {
		idx := int((v - lo) / width)
		if idx >= bins {
			idx = bins - 1
		}
		counts[idx]++
	}
	return centres, counts
}

func draw(thread *starlark.Thread, name string, fig interfaces.Figure) (starlark.Value, error) {
	ns := namespaceOf(thread)
	if ns == nil {
		return nil, fmt.Errorf("%s: no figure buffer available", name)
	}
	ns.AddFigure(fig)
	return starlark.None, nil
}

func floats(fn, param string, v starlark.Value) ([]float64, error) {
	iterable, ok := v.(starlark.Iterable)
	if !ok {
		return nil, fmt.Errorf("%s: %s must be a sequence of numbers, got %s", fn, param, v.Type())
	}
	iter := iterable.Iterate()
	defer iter.Done()

	var (
		out  []float64
		elem starlark.Value
	)
	for iter.Next(&elem) {
		f, ok := starlark.AsFloat(elem)
		if !ok {
			return nil, fmt.Errorf("%s: %s must contain numbers, got %s", fn, param, elem.Type())
		}
		out = append(out, f)
	}
	return out, nil
}

func indices(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i)
	}
	return out
}
