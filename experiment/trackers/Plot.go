package trackers

import (
	"fmt"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	ts "github.com/samuelfneumann/parkrl/timestep"
)

// Plot tracks the episodic return in an experiment and saves a line
// plot of the returns as a PNG image
type Plot struct {
	returns  *Return
	title    string
	filename string
}

// NewPlot returns a new Plot Tracker which saves its plot, titled
// title, at filename
func NewPlot(filename, title string) *Plot {
	return &Plot{
		returns:  NewReturn(""),
		title:    title,
		filename: filename,
	}
}

// Track tracks the rewards seen on a timestep
func (p *Plot) Track(t ts.TimeStep) error {
	return p.returns.Track(t)
}

// Save plots the returns of all finished episodes
func (p *Plot) Save() error {
	return PlotReturns(p.filename, p.title,
		map[string][]float64{"return": p.returns.Returns()})
}

// PlotReturns saves a line plot of each series of episodic returns,
// keyed by legend name, as a PNG image at filename
func PlotReturns(filename, title string, series map[string][]float64) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Episode"
	p.Y.Label.Text = "Return"

	names := make([]string, 0, len(series))
	for name := range series {
		names = append(names, name)
	}
	sort.Strings(names)

	for i, name := range names {
		returns := series[name]
		if len(returns) == 0 {
			continue
		}

		points := make(plotter.XYs, len(returns))
		for j, v := range returns {
			points[j] = plotter.XY{
				X: float64(j),
				Y: v,
			}
		}
		line, err := plotter.NewLine(points)
		if err != nil {
			return fmt.Errorf("plotReturns: %w", err)
		}
		line.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(name, line)
	}

	if err := p.Save(8*vg.Inch, 5*vg.Inch, filename); err != nil {
		return fmt.Errorf("plotReturns: %w", err)
	}
	return nil
}
