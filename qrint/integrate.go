/*
 * integrate.go, part of frameorder.
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

	"github.com/rmera/frameorder/tensor"
	"gonum.org/v1/gonum/spatial/r3"
)

//Problem contains the inputs of one integration, all in the motional eigenframe.
//For a rotation R' of the samples, the paramagnetic centre to spin vector is
//R'^T.X + L for the media with the full tensor in the reference frame, and
//R'.XRev + L for the others. For the double rotor R'^T = R2'^T.R1'^T and the
//first rotation is about a pivot displaced by Inter from the second, so the
//vector is R2'^T.(Inter + R1'^T.X) + L.
type Problem struct {
	A       []tensor.Mat3 //full tensors, one per medium
	Forward []bool
	X       []r3.Vec //pivot to spin vectors, one per spin
	XRev    []r3.Vec //needed only if some medium is not Forward
	L       r3.Vec   //paramagnetic centre to pivot
	Inter   r3.Vec
	C       [][]float64 //PCS constants [medium][spin]
	Missing [][]bool
}

func mulT(R *tensor.Mat3, v r3.Vec) r3.Vec {
	return r3.Vec{
		X: R[0][0]*v.X + R[1][0]*v.Y + R[2][0]*v.Z,
		Y: R[0][1]*v.X + R[1][1]*v.Y + R[2][1]*v.Z,
		Z: R[0][2]*v.X + R[1][2]*v.Y + R[2][2]*v.Z,
	}
}

func mul(R *tensor.Mat3, v r3.Vec) r3.Vec {
	return r3.Vec{
		X: R[0][0]*v.X + R[0][1]*v.Y + R[0][2]*v.Z,
		Y: R[1][0]*v.X + R[1][1]*v.Y + R[1][2]*v.Z,
		Z: R[2][0]*v.X + R[2][1]*v.Y + R[2][2]*v.Z,
	}
}

var identity = tensor.Mat3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

//accumulator sums the PCSs, and their squares, for each sample.
type accumulator struct {
	P       *Problem
	sum, sq [][]float64
	rev     bool
	double  bool
}

func (a *accumulator) add(R, R2 *tensor.Mat3) {
	P := a.P
	for s, x := range P.X {
		var yf, yr r3.Vec
		if a.double {
			yf = r3.Add(mulT(R2, r3.Add(P.Inter, mulT(R, x))), P.L)
			if a.rev {
				yr = r3.Add(mul(R2, r3.Add(P.Inter, mul(R, P.XRev[s]))), P.L)
			}
		} else {
			yf = r3.Add(mulT(R, x), P.L)
			if a.rev {
				yr = r3.Add(mul(R, P.XRev[s]), P.L)
			}
		}
		for k := range P.A {
			if P.Missing[k][s] {
				continue
			}
			y := yf
			if !P.Forward[k] {
				y = yr
			}
			r2 := r3.Dot(y, y)
			d := P.C[k][s] / (r2 * r2 * math.Sqrt(r2)) * P.A[k].Quad(y)
			a.sum[k][s] += d
			a.sq[k][s] += d * d
		}
	}
}

//Integrate averages the PCSs over the samples of S accepted for the motion M, and puts the
//averages in pcs and their standard errors in perr, both indexed [medium][spin].
//Missing data get 0. It returns the number of accepted samples. If none is accepted, the
//motion is too narrow to be resolved by the samples and the domain is taken as rigid.
func Integrate(S *Samples, M Motion, P *Problem, pcs, perr [][]float64) int {
	rev := false
	for _, f := range P.Forward {
		rev = rev || !f
	}
	a := &accumulator{P: P, sum: pcs, sq: perr, rev: rev, double: S.rot2 != nil}
	for k := range pcs {
		for s := range pcs[k] {
			pcs[k][s], perr[k][s] = 0, 0
		}
	}
	n := 0
	for i := range S.rot {
		if !M.Accept(S, i) {
			continue
		}
		n++
		if a.double {
			a.add(&S.rot[i], &S.rot2[i])
		} else {
			a.add(&S.rot[i], nil)
		}
	}
	if n == 0 {
		a.add(&identity, &identity)
		for k := range perr {
			for s := range perr[k] {
				perr[k][s] = 0
			}
		}
		return 0
	}
	fn := float64(n)
	for k := range pcs {
		for s := range pcs[k] {
			if P.Missing[k][s] {
				continue
			}
			mean := pcs[k][s] / fn
			var v float64
			if n > 1 {
				v = (perr[k][s] - fn*mean*mean) / (fn - 1)
			}
			pcs[k][s] = mean
			perr[k][s] = math.Sqrt(math.Max(v, 0) / fn)
		}
	}
	return n
}

//Stats are the acceptance statistics of the samples over the spins with data.
type Stats struct {
	Points int
	Min    int
	Max    int
	Mean   float64
}

//CountPoints reports how many samples are accepted for the motion M, for each spin with
//at least one PCS. missing is indexed [medium][spin].
func CountPoints(S *Samples, M Motion, missing [][]bool) Stats {
	st := Stats{Points: S.Len()}
	acc := M.Count(S)
	var nspins int
	if len(missing) > 0 {
		for s := range missing[0] {
			has := false
			for k := range missing {
				has = has || !missing[k][s]
			}
			if !has {
				continue
			}
			if nspins == 0 || acc < st.Min {
				st.Min = acc
			}
			if acc > st.Max {
				st.Max = acc
			}
			st.Mean += float64(acc)
			nspins++
		}
	}
	if nspins > 0 {
		st.Mean /= float64(nspins)
	}
	return st
}
