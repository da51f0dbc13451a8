/*
 * main_test.go, part of frameorder.
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

package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	fo "github.com/rmera/frameorder"
	"github.com/rmera/frameorder/config"
	"github.com/rmera/frameorder/state"
	"github.com/rmera/frameorder/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gonum.org/v1/gonum/spatial/r3"
)

//TestRun fits the rigid model to RDCs back-calculated from a known orientation, with a
//small grid, and checks the saved state.
func TestRun(Te *testing.T) {
	dir := Te.TempDir()
	ds := &fo.Dataset{Media: []fo.Medium{
		{Full: tensor.Vec5{5e-4, -3e-4, 0, 0, 0}, FullInRefFrame: true},
		{Full: tensor.Vec5{-2e-4, 4e-4, 1e-4, 0, 0}, FullInRefFrame: true},
	}}
	vecs := []r3.Vec{{X: 1}, {Y: 1}, {Z: 1}, {X: 1, Y: 1}, {X: 1, Z: -1}, {Y: 1, Z: 1}, {X: 1, Y: -1, Z: 1}, {X: -2, Y: 1}}
	for i := range vecs {
		ds.Interatoms = append(ds.Interatoms, fo.Interatom{Spin1: "N", Spin2: "H", Vector: &vecs[i], Dipolar: fo.DipolarConstant(fo.G15N, fo.G1H, fo.RNH), RDC: []float64{0, 0}})
	}
	data := filepath.Join(dir, "data.json")
	f, err := os.Create(data)
	require.NoError(Te, err)
	require.NoError(Te, fo.WriteDataset(f, ds))
	require.NoError(Te, f.Close())
	C, err := config.Read("", []string{"-data", data, "-state", filepath.Join(dir, "out.json"), "-models", "rigid", "-grid-inc", "3", "-grid-zoom", "1", "-mc", "3", "-workers", "2", "-plots", dir})
	require.NoError(Te, err)
	require.NoError(Te, run(context.Background(), C, zaptest.NewLogger(Te)))
	S, err := state.Load(C.State)
	require.NoError(Te, err)
	P := S.Pipes[C.Pipe]
	require.NotNil(Te, P)
	assert.Equal(Te, "rigid", P.Selected)
	R := S.Results(C.Pipe, "rigid")
	require.NotNil(Te, R)
	//all the RDCs are 0, which the rigid model cannot fit exactly, but the fit is done
	assert.NotNil(Te, R.Fit)
	assert.Len(Te, R.Sims, 3)
	assert.Equal(Te, 16, R.Stats.N)
	_, err = os.Stat(filepath.Join(dir, "rigid_rdc.png"))
	assert.NoError(Te, err)
}
