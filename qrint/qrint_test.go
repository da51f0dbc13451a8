/*
 * qrint_test.go, part of frameorder.
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

package qrint

import (
	"math"
	"testing"

	"github.com/rmera/frameorder/geometry"
	"github.com/rmera/frameorder/model"
	"github.com/rmera/frameorder/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestCache(Te *testing.T) {
	var C Cache
	a, err := C.Get(model.IsoCone, 256)
	require.NoError(Te, err)
	b, err := C.Get(model.IsoCone, 256)
	require.NoError(Te, err)
	assert.Same(Te, a, b, "the same key must give the cached samples")
	c, err := C.Get(model.IsoCone, 512)
	require.NoError(Te, err)
	assert.NotSame(Te, a, c)
	assert.Equal(Te, 512, c.Len())
	d, err := C.Get(model.IsoCone, 256)
	require.NoError(Te, err)
	assert.NotSame(Te, a, d, "a new key must replace the cached samples")
	assert.Equal(Te, a.Key(), d.Key())
	_, err = C.Get(model.Rigid, 256)
	assert.Error(Te, err)
}

func TestSampleRotations(Te *testing.T) {
	for _, t := range model.Tags {
		if !t.Integrated() {
			continue
		}
		S, err := NewSamples(t, 64)
		require.NoError(Te, err, t.String())
		for i := 0; i < S.Len(); i++ {
			if !geometry.IsRotation(S.rot[i].Dense(), 1e-10) {
				Te.Fatalf("%s: sample %d is not a rotation", t, i)
			}
		}
		for _, d := range t.Dims() {
			for i := 0; i < S.Len(); i++ {
				a := S.Angle(i, d)
				switch d {
				case model.Theta:
					assert.True(Te, a >= 0 && a <= math.Pi)
				case model.Phi:
					assert.True(Te, a >= 0 && a <= 2*math.Pi)
				default:
					assert.True(Te, math.Abs(a) <= math.Pi)
				}
			}
		}
	}
}

func fraction(Te *testing.T, M Motion, n int) float64 {
	S, err := NewSamples(M.Tag, n)
	require.NoError(Te, err)
	return float64(M.Count(S)) / float64(S.Len())
}

func TestAcceptance(Te *testing.T) {
	const n = 1 << 14
	const tol = 5e-3
	assert.Equal(Te, 1.0, fraction(Te, Motion{Tag: model.FreeRotor}, n))
	assert.InDelta(Te, 0.4, fraction(Te, Motion{Tag: model.Rotor, SigmaMax: 0.4 * math.Pi}, n), tol)
	//the solid angle of a cone is 2π(1-cos θ)
	theta := 1.1
	assert.InDelta(Te, (1-math.Cos(theta))/2, fraction(Te, Motion{Tag: model.IsoConeTorsionless, Theta: theta}, n), tol)
	assert.InDelta(Te, (1-math.Cos(theta))/2*0.5, fraction(Te, Motion{Tag: model.IsoCone, Theta: theta, SigmaMax: math.Pi / 2}, n), tol)
	assert.InDelta(Te, (1-math.Cos(theta))/2, fraction(Te, Motion{Tag: model.IsoConeFreeRotor, Theta: theta}, n), tol)
	assert.InDelta(Te, 0.25*0.5, fraction(Te, Motion{Tag: model.DoubleRotor, SigmaMax: math.Pi / 4, SigmaMax2: math.Pi / 2}, n), tol)
	//a circular pseudo-ellipse is an isotropic cone
	assert.InDelta(Te, (1-math.Cos(theta))/2, fraction(Te, Motion{Tag: model.PseudoEllipseTorsionless, ThetaX: theta, ThetaY: theta}, n), tol)
	nx := fraction(Te, Motion{Tag: model.PseudoEllipseTorsionless, ThetaX: 0.5, ThetaY: theta}, n)
	assert.True(Te, nx > (1-math.Cos(0.5))/2 && nx < (1-math.Cos(theta))/2, "ellipse acceptance %v out of the circular limits", nx)
}

func TestEllipseEdge(Te *testing.T) {
	assert.InDelta(Te, 0.3, EllipseEdge(0.3, 1.2, 0), 1e-12)
	assert.InDelta(Te, 1.2, EllipseEdge(0.3, 1.2, math.Pi/2), 1e-12)
	assert.InDelta(Te, 0.7, EllipseEdge(0.7, 0.7, 1.234), 1e-12)
	assert.Equal(Te, 0.0, EllipseEdge(0, 1, 0.2))
}

//problem builds a PCS problem with three spins around the pivot and two media,
//the second one not in the reference frame.
func problem() *Problem {
	A1 := tensor.Vec5{-1.6e-4, 5.1e-4, 2.2e-4, -1.1e-4, 3.0e-5}.Tensor()
	A2 := tensor.Vec5{3.2e-4, -1.1e-4, 4.0e-5, 1.5e-4, -2.3e-4}.Tensor()
	X := []r3.Vec{{X: 5, Y: 1, Z: 8}, {X: -3, Y: 4, Z: 6}, {X: 0.5, Y: -6, Z: 3}}
	return &Problem{
		A:       []tensor.Mat3{A1, A2},
		Forward: []bool{true, false},
		X:       X,
		XRev:    []r3.Vec{{X: 4, Y: 2, Z: 8}, {X: -3, Y: 3, Z: 7}, {X: 1, Y: -5, Z: 3}},
		L:       r3.Vec{X: 2, Y: -3, Z: -15},
		C:       [][]float64{{1e3, 1e3, 1e3}, {2e3, 2e3, 2e3}},
		Missing: [][]bool{{false, false, false}, {false, true, false}},
	}
}

func alloc(P *Problem) (pcs, perr [][]float64) {
	pcs = make([][]float64, len(P.A))
	perr = make([][]float64, len(P.A))
	for k := range pcs {
		pcs[k] = make([]float64, len(P.X))
		perr[k] = make([]float64, len(P.X))
	}
	return pcs, perr
}

func TestRigidLimit(Te *testing.T) {
	P := problem()
	S, err := NewSamples(model.IsoConeTorsionless, 1024)
	require.NoError(Te, err)
	pcs, perr := alloc(P)
	n := Integrate(S, Motion{Tag: model.IsoConeTorsionless}, P, pcs, perr)
	assert.Equal(Te, 0, n)
	for k := range P.A {
		for s := range P.X {
			if P.Missing[k][s] {
				assert.Equal(Te, 0.0, pcs[k][s])
				continue
			}
			y := r3.Add(P.X[s], P.L)
			if !P.Forward[k] {
				y = r3.Add(P.XRev[s], P.L)
			}
			r := r3.Norm(y)
			want := tensor.PCS(P.C[k][s]/math.Pow(r, 5), y, P.A[k])
			assert.InDelta(Te, want, pcs[k][s], 1e-12*math.Abs(want))
			assert.Equal(Te, 0.0, perr[k][s])
		}
	}
}

func TestConvergence(Te *testing.T) {
	P := problem()
	for _, M := range []Motion{
		{Tag: model.IsoCone, Theta: 0.8, SigmaMax: 1.0},
		{Tag: model.PseudoEllipse, ThetaX: 0.5, ThetaY: 0.9, SigmaMax: 0.7},
		{Tag: model.Rotor, SigmaMax: 0.9},
	} {
		const n = 1 << 13
		S1, err := NewSamples(M.Tag, n)
		require.NoError(Te, err)
		S2, err := NewSamples(M.Tag, 2*n)
		require.NoError(Te, err)
		p1, e1 := alloc(P)
		p2, e2 := alloc(P)
		n1 := Integrate(S1, M, P, p1, e1)
		n2 := Integrate(S2, M, P, p2, e2)
		require.True(Te, n1 > 0 && n2 > n1, M.String())
		for k := range P.A {
			for s := range P.X {
				if P.Missing[k][s] {
					continue
				}
				diff := math.Abs(p2[k][s] - p1[k][s])
				if diff > math.Sqrt2*e1[k][s] {
					Te.Errorf("%s medium %d spin %d: |δ(2N)-δ(N)| = %g larger than √2 times the standard error %g", M, k, s, diff, e1[k][s])
				}
				assert.True(Te, e2[k][s] < e1[k][s], "the standard error must decrease with N")
			}
		}
	}
}

func TestCountPoints(Te *testing.T) {
	S, err := NewSamples(model.IsoConeTorsionless, 512)
	require.NoError(Te, err)
	M := Motion{Tag: model.IsoConeTorsionless, Theta: 1.0}
	missing := [][]bool{{false, true, true}, {true, true, false}}
	st := CountPoints(S, M, missing)
	acc := M.Count(S)
	assert.Equal(Te, Stats{Points: 512, Min: acc, Max: acc, Mean: float64(acc)}, st)
	st = CountPoints(S, M, [][]bool{{true}})
	assert.Equal(Te, Stats{Points: 512}, st)
}
