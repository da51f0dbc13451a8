/*
 * corrplot.go, part of frameorder
 *
 * Copyright 2024 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU Lesser General Public License as published by
    the Free Software Foundation, either version 2.1 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU Lesser General Public License
    along with this program.  If not, see <http://www.gnu.org/licenses/>.
 *
*/
/***Dedicated to the long life of the Ven. Khenpo Phuntzok Tenzin Rinpoche***/

//Package corrplot draws the correlation between the measured and the back-calculated
//RDCs and PCSs of a frame order fit, and the histograms of Monte Carlo parameter
//distributions.
package corrplot

import (
	"fmt"
	"math"
	"path/filepath"

	fo "github.com/rmera/frameorder"
	"github.com/rmera/frameorder/histo"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

//Size of the saved plots
var Size = 4 * vg.Inch

func basicPlot(title, xlabel, ylabel string) *plot.Plot {
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = ylabel
	p.Add(plotter.NewGrid())
	return p
}

//Correlation plots back-calculated against measured values, one series per medium,
//skipping the missing data, with the diagonal for reference. measured, calc and missing
//are indexed [medium][datum].
func Correlation(title, unit string, media []string, measured, calc [][]float64, missing [][]bool, filename string) error {
	p := basicPlot(title, "measured ("+unit+")", "back-calculated ("+unit+")")
	lo, hi := math.Inf(1), math.Inf(-1)
	var n int
	for k := range measured {
		pts := make(plotter.XYs, 0, len(measured[k]))
		for j, v := range measured[k] {
			if missing[k][j] {
				continue
			}
			pts = append(pts, plotter.XY{X: v, Y: calc[k][j]})
			lo = math.Min(lo, math.Min(v, calc[k][j]))
			hi = math.Max(hi, math.Max(v, calc[k][j]))
		}
		if len(pts) == 0 {
			continue
		}
		s, err := plotter.NewScatter(pts)
		if err != nil {
			return fo.NewError(fo.InvalidData, "corrplot.Correlation", "%s", err.Error())
		}
		s.GlyphStyle.Color = plotutil.Color(k)
		s.GlyphStyle.Shape = plotutil.Shape(k)
		p.Add(s)
		p.Legend.Add(media[k], s)
		n += len(pts)
	}
	if n == 0 {
		return fo.NewError(fo.MissingRequiredData, "corrplot.Correlation", "nothing to plot for %s", title)
	}
	diag := plotter.NewFunction(func(x float64) float64 { return x })
	diag.Color = plotutil.Color(len(measured))
	diag.Dashes = plotutil.Dashes(1)
	p.Add(diag)
	p.X.Min, p.X.Max = lo, hi
	p.Y.Min, p.Y.Max = lo, hi
	p.Legend.Top = true
	p.Legend.Left = true
	return p.Save(Size, Size, filename)
}

//Fit writes rdc.png and pcs.png in dir, prefixed with prefix, for the data types present
//in D. rdc and pcs are the back-calculated values, with the PCSs in ppm.
func Fit(dir, prefix string, D *fo.Data, rdc, pcs [][]float64) error {
	if D.HasRDC() && rdc != nil {
		name := filepath.Join(dir, prefix+"rdc.png")
		if err := Correlation(prefix+"RDC", "Hz", D.MediaNames, D.RDC, rdc, D.RDCMissing, name); err != nil {
			return err
		}
	}
	if D.HasPCS() && pcs != nil {
		meas := make([][]float64, len(D.PCS))
		for k, row := range D.PCS {
			meas[k] = make([]float64, len(row))
			for s, v := range row {
				meas[k][s] = v / fo.PPM
			}
		}
		name := filepath.Join(dir, prefix+"pcs.png")
		if err := Correlation(prefix+"PCS", "ppm", D.MediaNames, meas, pcs, D.PCSMissing, name); err != nil {
			return err
		}
	}
	return nil
}

//Histogram plots the histogram D to filename.
func Histogram(D *histo.Data, filename string) error {
	div := D.CopyDividers()
	counts := D.View()
	bins := make([]plotter.HistogramBin, len(counts))
	for i, c := range counts {
		bins[i] = plotter.HistogramBin{Min: div[i], Max: div[i+1], Weight: c}
	}
	h := &plotter.Histogram{
		Bins:      bins,
		Width:     div[len(div)-1] - div[0],
		FillColor: plotutil.Color(2),
		LineStyle: plotter.DefaultLineStyle,
	}
	ylabel := "count"
	if D.Normalized() {
		ylabel = "fraction"
	}
	p := basicPlot(fmt.Sprintf("%s (%d values)", D.Name(), D.Total()), D.Name(), ylabel)
	p.Add(h)
	return p.Save(Size, Size, filename)
}

//Histograms writes one plot per histogram of S in dir, named prefix+name+".png".
func Histograms(dir, prefix string, S *histo.Set) error {
	for _, name := range S.Names() {
		if err := Histogram(S.View(name), filepath.Join(dir, prefix+name+".png")); err != nil {
			return fmt.Errorf("frameorder/corrplot.Histograms: %s: %w", name, err)
		}
	}
	return nil
}
