/*
 * plot.go, part of trajan.
 *
 * Copyright 2026 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package chemplot

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/rmera/trajan/report"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

//Bar plots with more candidates than this only get a tick label every few bars.
const maxLabels = 40

func basicPlot(title, ylabel string) *plot.Plot {
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = title
	p.Y.Label.Text = ylabel
	p.Add(plotter.NewGrid())
	return p
}

//shortLabel joins the atom labels of a row, dropping the chain when it repeats.
func shortLabel(row report.Row) string {
	if len(row.Labels) == 0 {
		parts := make([]string, len(row.Atoms))
		for i, a := range row.Atoms {
			parts[i] = fmt.Sprint(a)
		}
		return strings.Join(parts, "-")
	}
	return strings.Join(row.Labels, "-")
}

//BarPlot draws a bar for each valid row of T, with the value in column c, and saves the plot
//as an image in plotname. The format is taken from the extension of plotname (png, svg, pdf...).
func BarPlot(T *report.Table, c int, title, plotname string) error {
	if c < 0 || c >= len(T.Columns) {
		return fmt.Errorf("chemplot.BarPlot: column %d out of range for a table with %d columns", c, len(T.Columns))
	}
	var vals plotter.Values
	var names []string
	for _, r := range T.Rows {
		if !r.Valid || len(r.Values) <= c {
			continue
		}
		vals = append(vals, r.Values[c])
		names = append(names, shortLabel(r))
	}
	if len(vals) == 0 {
		return fmt.Errorf("chemplot.BarPlot: no valid rows to plot")
	}
	if title == "" {
		title = fmt.Sprintf("%s %s", T.Tool, T.Stat)
	}
	p := basicPlot(title, T.Columns[c])
	bars, err := plotter.NewBarChart(vals, vg.Points(8))
	if err != nil {
		return err
	}
	bars.LineStyle.Width = vg.Length(0)
	bars.Color = color.RGBA{R: 30, G: 90, B: 200, A: 255}
	p.Add(bars)
	if len(names) > maxLabels {
		step := (len(names) + maxLabels - 1) / maxLabels
		for i := range names {
			if i%step != 0 {
				names[i] = ""
			}
		}
	}
	p.NominalX(names...)
	p.X.Tick.Label.Rotation = 1.2
	p.X.Tick.Label.XAlign = -1
	width := vg.Length(len(vals)) * 12
	if width < 4*vg.Inch {
		width = 4 * vg.Inch
	}
	return p.Save(width, 4*vg.Inch, plotname)
}

//HistoPlot draws a histogram of values with the given number of bins and saves the plot
//in plotname.
func HistoPlot(values []float64, bins int, title, xlabel, plotname string) error {
	if len(values) == 0 {
		return fmt.Errorf("chemplot.HistoPlot: no values to plot")
	}
	p := basicPlot(title, "count")
	p.X.Label.Text = xlabel
	h, err := plotter.NewHist(plotter.Values(values), bins)
	if err != nil {
		return err
	}
	h.FillColor = color.RGBA{R: 255, A: 255}
	p.Add(h)
	return p.Save(5*vg.Inch, 4*vg.Inch, plotname)
}
