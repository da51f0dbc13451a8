/*
 * constraints.go, part of frameorder.
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

package opt

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

//Constraints represents the linear inequalities A.x - B >= 0.
type Constraints struct {
	A *mat.Dense
	B []float64
}

//NewConstraints builds a set of constraints from its rows. It returns nil if there are no rows.
func NewConstraints(rows [][]float64, b []float64) *Constraints {
	if len(rows) == 0 {
		return nil
	}
	if len(rows) != len(b) {
		panic(ErrShape)
	}
	n := len(rows[0])
	A := mat.NewDense(len(rows), n, nil)
	for i, r := range rows {
		if len(r) != n {
			panic(ErrShape)
		}
		A.SetRow(i, r)
	}
	return &Constraints{A: A, B: append([]float64(nil), b...)}
}

//Len returns the number of constraints. A nil set has none.
func (C *Constraints) Len() int {
	if C == nil {
		return 0
	}
	return len(C.B)
}

//Slack puts A.x - B in dst, which is allocated if nil, and returns it.
func (C *Constraints) Slack(dst, x []float64) []float64 {
	r, c := C.A.Dims()
	if len(x) != c {
		panic(ErrShape)
	}
	if dst == nil {
		dst = make([]float64, r)
	}
	for i := 0; i < r; i++ {
		dst[i] = floats.Dot(C.A.RawRowView(i), x) - C.B[i]
	}
	return dst
}

//Check returns true if x satisfies all the constraints. A nil set is always satisfied.
func (C *Constraints) Check(x []float64) bool {
	if C.Len() == 0 {
		return true
	}
	for i := range C.B {
		if floats.Dot(C.A.RawRowView(i), x) < C.B[i] {
			return false
		}
	}
	return true
}

//Scaled returns the constraints for the scaled vector x' where x = diag(scaling).x'.
func (C *Constraints) Scaled(scaling []float64) *Constraints {
	if C == nil {
		return nil
	}
	r, c := C.A.Dims()
	if len(scaling) != c {
		panic(ErrShape)
	}
	A := mat.NewDense(r, c, nil)
	A.Apply(func(i, j int, v float64) float64 { return v * scaling[j] }, C.A)
	return &Constraints{A: A, B: append([]float64(nil), C.B...)}
}

func (C *Constraints) String() string {
	if C == nil {
		return "no constraints"
	}
	return fmt.Sprintf("A=\n%v\nb=%v", mat.Formatted(C.A), C.B)
}

//PanicMsg is a message used for panics.
type PanicMsg string

func (v PanicMsg) Error() string { return string(v) }

const (
	ErrShape = PanicMsg("frameorder/opt: inconsistent dimensions")
)
