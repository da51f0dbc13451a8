/*
 * data_test.go, part of frameorder.
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

package frameorder

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/rmera/frameorder/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

var nan = math.NaN()

func media() []Medium {
	return []Medium{
		{Name: "Dy", Full: tensor.Vec5{5e-4, -3e-4, 0, 0, 0}, FullInRefFrame: true, Temperature: 298, Frequency: 600e6},
		{Full: tensor.Vec5{-2e-4, 4e-4, 1e-4, 0, 0}, Temperature: 298, Frequency: 600e6},
	}
}

func TestAssemble(Te *testing.T) {
	pivot := r3.Vec{X: 10}
	paramag := r3.Vec{}
	ds := &Dataset{
		Media: media(),
		Interatoms: []Interatom{
			{Spin1: "N1", Spin2: "H1", Vector: &r3.Vec{Z: 2}, Dipolar: -23000, RDC: []float64{1.5, nan}, Error: []float64{0.5, 0.5}},
			{Spin1: "N2", Spin2: "H2", Vector: &r3.Vec{X: 1, Y: 1}, Dipolar: -23000, RDC: []float64{2, 3}, Error: []float64{0.5, nan}, Weight: 4},
		},
		Spins: []Spin{
			{ID: "A", Pos: []r3.Vec{{X: 15}, {X: 17}}, PCS: []float64{0.5, 1}},
			{ID: "B", Pos: []r3.Vec{{Y: 5}}, PCS: []float64{nan, nan}},
		},
		Paramag: &paramag,
		Pivot:   &pivot,
	}
	D, err := Assemble(ds, nil)
	require.NoError(Te, err)
	assert.Equal(Te, []string{"Dy", "medium2"}, D.MediaNames)
	assert.Equal(Te, 2, D.NMedia())
	assert.Equal(Te, 2, D.NumRDC())
	assert.Equal(Te, 2, D.NumPCS())
	assert.True(Te, D.HasRDC())
	assert.True(Te, D.HasPCS())
	assert.InDelta(Te, 1, D.RDCVec[1].X*math.Sqrt2, 1e-12)
	assert.Equal(Te, r3.Vec{Z: 1}, D.RDCVec[0])
	//missing data
	assert.True(Te, D.RDCMissing[1][0])
	assert.True(Te, D.RDCMissing[1][1])
	assert.Equal(Te, 0.0, D.RDC[1][1])
	assert.Equal(Te, 1.0, D.RDCErr[1][1])
	//weights
	assert.Equal(Te, 0.5, D.RDCErr[0][0])
	assert.Equal(Te, 0.25, D.RDCErr[0][1])
	//ppm, default errors
	assert.InDelta(Te, 0.5e-6, D.PCS[0][0], 1e-18)
	assert.InDelta(Te, DefaultPCSError*PPM, D.PCSErr[1][0], 1e-18)
	assert.True(Te, D.PCSMissing[0][1])
	assert.Equal(Te, r3.Vec{X: 16}, D.Pos[0])
	assert.Equal(Te, PCSScale(298, 600e6), D.PCSConst[1][0])
	//no structure, the spin centroid is used
	assert.Equal(Te, r3.Vec{X: 8, Y: 2.5}, D.AvePosPivot)
	assert.True(Te, D.PivotSet)
	assert.False(Te, D.Pivot2Set)
	for _, w := range []string{"no PCS errors given", "no PCS data for B", "centroid"} {
		found := false
		for _, v := range D.Warnings {
			found = found || strings.Contains(v, w)
		}
		assert.True(Te, found, "no warning containing %q in %v", w, D.Warnings)
	}
	//the observations of a copy can be replaced
	C := D.WithObservations(nil, [][]float64{{1, 2}, {3, 4}})
	assert.Equal(Te, D.RDC, C.RDC)
	assert.Equal(Te, 3.0, C.PCS[1][0])
	assert.InDelta(Te, 0.5e-6, D.PCS[0][0], 1e-18)
}

func TestAssembleErrors(Te *testing.T) {
	paramag := r3.Vec{X: 1}
	spins := []Spin{{ID: "A", Pos: []r3.Vec{{X: 15}}, PCS: []float64{0.5, 1}}}
	cases := []struct {
		name string
		ds   Dataset
		kind Kind
	}{
		{"no media", Dataset{}, MissingRequiredData},
		{"no data", Dataset{Media: media()}, MissingRequiredData},
		{"no paramagnetic centre", Dataset{Media: media(), Spins: spins}, MissingRequiredData},
		{"pivot on the paramagnetic centre", Dataset{Media: media(), Spins: spins, Paramag: &paramag, Pivot: &paramag}, DegenerateGeometry},
		{"wrong length", Dataset{Media: media(), Spins: []Spin{{ID: "A", Pos: []r3.Vec{{X: 15}}, PCS: []float64{1}}}, Paramag: &paramag}, InvalidData},
		{"zero vector", Dataset{Media: media(), Interatoms: []Interatom{{Spin1: "N", Spin2: "H", Vector: &r3.Vec{}, Dipolar: 1, RDC: []float64{1, 1}}}}, DegenerateGeometry},
		{"no dipolar constant", Dataset{Media: media(), Interatoms: []Interatom{{Spin1: "N", Spin2: "H", Vector: &r3.Vec{X: 1}, RDC: []float64{1, 1}}}}, MissingRequiredData},
		{"no vector", Dataset{Media: media(), Interatoms: []Interatom{{Spin1: "N", Spin2: "H", Dipolar: 1, RDC: []float64{1, 1}}}}, MissingRequiredData},
		{"no position", Dataset{Media: media(), Spins: []Spin{{ID: "A", PCS: []float64{1, 1}}}, Paramag: &paramag}, MissingRequiredData},
	}
	for _, c := range cases {
		c := c
		Te.Run(c.name, func(Te *testing.T) {
			_, err := Assemble(&c.ds, nil)
			require.Error(Te, err)
			assert.Equal(Te, c.kind, KindOf(err), err.Error())
		})
	}
	ds := Dataset{Media: media(), Spins: spins, Paramag: &paramag}
	ds.Media[1].Temperature = 0
	_, err := Assemble(&ds, nil)
	assert.True(Te, errors.Is(err, ErrMissingRequiredData), err)
}

func TestAssembleStructure(Te *testing.T) {
	var recs []AtomRecord
	for m, dz := range []float64{0, 0.2} {
		recs = append(recs,
			AtomRecord{Model: m + 1, Molname: "ALA", Molid: 1, Name: "N", Symbol: "N", Pos: r3.Vec{X: 12, Z: dz}},
			AtomRecord{Model: m + 1, Molname: "ALA", Molid: 1, Name: "H", Symbol: "H", Pos: r3.Vec{X: 13, Z: dz}},
			AtomRecord{Model: m + 1, Molname: "ALA", Molid: 1, Name: "CA", Symbol: "C", Pos: r3.Vec{X: 12, Y: 1.5, Z: dz}},
		)
	}
	st, err := NewStructure(NewRecords(recs))
	require.NoError(Te, err)
	assert.Equal(Te, 3, st.Len())
	assert.Equal(Te, 2, st.NModels())
	paramag := r3.Vec{}
	ds := &Dataset{
		Media:      media(),
		Interatoms: []Interatom{{Spin1: ":1@N", Spin2: ":1@H", Gamma1: G15N, Gamma2: G1H, Distance: 1.02, RDC: []float64{1, 2}}},
		Spins:      []Spin{{ID: ":1@H", PCS: []float64{0.1, 0.2}}},
		Paramag:    &paramag,
		Moving:     []string{":1@N"},
	}
	D, err := Assemble(ds, st)
	require.NoError(Te, err)
	assert.InDelta(Te, 1, D.RDCVec[0].X, 1e-12)
	assert.InDelta(Te, DipolarConstant(G15N, G1H, RNH), D.Dipolar[0], 1e-9*math.Abs(D.Dipolar[0]))
	assert.InDelta(Te, 0.1, D.Pos[0].Z, 1e-12)
	assert.InDelta(Te, 12, D.AvePosPivot.X, 1e-12)
	assert.InDelta(Te, 0.1, D.AvePosPivot.Z, 1e-12)
	//atoms of the second model out of order
	recs[3], recs[4] = recs[4], recs[3]
	_, err = NewStructure(NewRecords(recs))
	assert.Equal(Te, InvalidData, KindOf(err))
	ds.Moving = []string{":2@N"}
	_, err = Assemble(ds, st)
	assert.Equal(Te, MissingRequiredData, KindOf(err))
}

func TestDatasetJSON(Te *testing.T) {
	paramag := r3.Vec{X: 1}
	ds := &Dataset{
		Media:      media(),
		Interatoms: []Interatom{{Spin1: "N", Spin2: "H", Vector: &r3.Vec{X: 1}, Dipolar: -23000, RDC: []float64{1.5, nan}}},
		Spins:      []Spin{{ID: "A", Pos: []r3.Vec{{X: 15}}, PCS: []float64{nan, 0.25}, Error: []float64{0.1, 0.1}}},
		Paramag:    &paramag,
	}
	var b strings.Builder
	require.NoError(Te, WriteDataset(&b, ds))
	assert.Contains(Te, b.String(), "null")
	ds2, err := ReadDataset(strings.NewReader(b.String()))
	require.NoError(Te, err)
	assert.True(Te, math.IsNaN(ds2.Interatoms[0].RDC[1]))
	assert.True(Te, math.IsNaN(ds2.Spins[0].PCS[0]))
	assert.Equal(Te, 0.25, ds2.Spins[0].PCS[1])
	assert.Nil(Te, ds2.Interatoms[0].Error)
	D, err := Assemble(ds2, nil)
	require.NoError(Te, err)
	assert.Equal(Te, 1, D.NumRDC())
	assert.Equal(Te, 1, D.NumPCS())
	_, err = ReadDataset(strings.NewReader(`{"media": [], "bogus": 1}`))
	assert.Equal(Te, InvalidData, KindOf(err))
}
