/*
 * state_test.go, part of frameorder.
 *
 * Copyright 2024 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
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

package state

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	fo "github.com/rmera/frameorder"
	"github.com/rmera/frameorder/analysis"
	"github.com/rmera/frameorder/model"
	"github.com/rmera/frameorder/modsel"
	"github.com/rmera/frameorder/qrint"
	"github.com/rmera/frameorder/target"
	"github.com/rmera/frameorder/tensor"
	"gonum.org/v1/gonum/spatial/r3"
)

func results() *analysis.Results {
	V := model.Values{Pivot: r3.Vec{X: 10, Y: -1.5}, Trans: r3.Vec{Z: 0.25}, AveBeta: 0.4, AxisAlpha: 0.7, SigmaMax: 0.785}
	return &analysis.Results{
		Model:  model.Rotor,
		Params: model.Spec{Tag: model.Rotor}.Params(),
		Values: V,
		Fit: &analysis.Fit{
			Chi2:        1.25,
			Iterations:  120,
			Evaluations: 260,
			Warning:     "3 steps rejected",
			BackCalc: &target.BackCalc{
				Tensors: []tensor.Vec5{{1e-4, 2e-4, 0, 0, -1e-4}},
				RDC:     [][]float64{{1.5, -2.25}},
				PCS:     [][]float64{{0.125}},
				PCSErr:  [][]float64{{0.001}},
			},
			Sobol: &qrint.Stats{Points: 1000, Min: 250, Max: 250, Mean: 250},
		},
		Errors: map[string]float64{model.ConeSigmaMax: 0.02, model.AxisAlpha: 0.01},
		Sims: []analysis.Sim{
			{Index: 0, Values: V, Chi2: 1.1, Iterations: 80, Evaluations: 170},
			{Index: 1, Failed: true, Err: "numerical failure"},
		},
		Stats: &modsel.Stats{K: 8, N: 30, Chi2: 1.25},
	}
}

func TestRoundTrip(Te *testing.T) {
	S := New()
	R := results()
	S.Add("domain1", "data.json", R)
	R2 := results()
	R2.Model = model.Rigid
	R2.Eliminated = []string{"cone opening angle θ greater than π (θ = 3.2)"}
	S.Add("domain1", "", R2)
	if err := S.Select("domain1", "rotor"); err != nil {
		Te.Fatal(err)
	}
	if err := S.Select("domain1", "iso_cone"); fo.KindOf(err) != fo.ModelNotSelected {
		Te.Errorf("selected a model without results: %v", err)
	}
	dir := Te.TempDir()
	for _, name := range []string{"state.zst", "state.gz", "state.json", "state"} {
		name = filepath.Join(dir, name)
		if err := S.Save(name); err != nil {
			Te.Fatal(err)
		}
		S2, err := Load(name)
		if err != nil {
			Te.Fatal(err)
		}
		if d := cmp.Diff(S, S2); d != "" {
			Te.Errorf("%s: state changed after a round trip (-want +got):\n%s", name, d)
		}
	}
	if got := S.PipeNames(); !cmp.Equal(got, []string{"domain1"}) {
		Te.Errorf("pipe names %v", got)
	}
	if S.Results("domain1", "rigid") == nil || S.Results("domain2", "rigid") != nil {
		Te.Errorf("wrong results lookup")
	}
	if S.Pipes["domain1"].DataFile != "data.json" {
		Te.Errorf("data file %q", S.Pipes["domain1"].DataFile)
	}
}

func TestFormats(Te *testing.T) {
	S := New()
	S.Add("p", "", results())
	var zst, js bytes.Buffer
	if err := S.Write(&zst, "zst"); err != nil {
		Te.Fatal(err)
	}
	if err := S.Write(&js, "json"); err != nil {
		Te.Fatal(err)
	}
	if zst.Len() >= js.Len() {
		Te.Errorf("compressed state (%d bytes) not smaller than the JSON one (%d)", zst.Len(), js.Len())
	}
	if _, err := Read(&js, "zst"); fo.KindOf(err) != fo.InvalidData {
		Te.Errorf("read plain JSON as z-standard: %v", err)
	}
	if err := S.Write(&js, "xz"); fo.KindOf(err) != fo.UnsupportedAlgorithm {
		Te.Errorf("unknown format accepted: %v", err)
	}
	if _, err := Read(bytes.NewReader([]byte(`{"version": 7}`)), "json"); err == nil {
		Te.Errorf("newer version accepted")
	}
}
