/*
 * tensor.go, part of frameorder.
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

//Package tensor implements the algebra of alignment tensors: the 5-vector and the
//3x3 symmetric traceless representations, their reduction by a 9x9 frame order
//matrix, and the back-calculation of RDCs and PCSs.
package tensor

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

//Vec5 is an alignment tensor in its 5-vector form {Axx, Ayy, Axy, Axz, Ayz}.
type Vec5 [5]float64

//Mat3 is a 3x3 tensor. Alignment tensors are symmetric and traceless.
type Mat3 [3][3]float64

//Tensor returns the 3x3 form of a. Azz is -Axx-Ayy.
func (a Vec5) Tensor() Mat3 {
	var A Mat3
	A[0][0] = a[0]
	A[1][1] = a[1]
	A[2][2] = -a[0] - a[1]
	A[0][1], A[1][0] = a[2], a[2]
	A[0][2], A[2][0] = a[3], a[3]
	A[1][2], A[2][1] = a[4], a[4]
	return A
}

func (a Vec5) String() string {
	return fmt.Sprintf("{Axx: %.6g, Ayy: %.6g, Axy: %.6g, Axz: %.6g, Ayz: %.6g}", a[0], a[1], a[2], a[3], a[4])
}

//FromTensor returns the 5-vector form of A. Only the upper triangle and
//the first two diagonal elements of A are read.
func FromTensor(A Mat3) Vec5 {
	return Vec5{A[0][0], A[1][1], A[0][1], A[0][2], A[1][2]}
}

//Mat3FromDense copies the 3x3 gonum matrix m into a Mat3.
func Mat3FromDense(m mat.Matrix) Mat3 {
	var A Mat3
	r, c := m.Dims()
	if r != 3 || c != 3 {
		panic(ErrNot3x3)
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			A[i][j] = m.At(i, j)
		}
	}
	return A
}

//Dense returns A as a gonum Dense matrix.
func (A Mat3) Dense() *mat.Dense {
	return mat.NewDense(3, 3, []float64{A[0][0], A[0][1], A[0][2], A[1][0], A[1][1], A[1][2], A[2][0], A[2][1], A[2][2]})
}

//Trace returns the trace of A
func (A Mat3) Trace() float64 {
	return A[0][0] + A[1][1] + A[2][2]
}

//Asymmetry returns the largest absolute difference between A and its transpose.
func (A Mat3) Asymmetry() float64 {
	var ret float64
	for i := 0; i < 3; i++ {
		for j := i + 1; j < 3; j++ {
			d := A[i][j] - A[j][i]
			if d < 0 {
				d = -d
			}
			if d > ret {
				ret = d
			}
		}
	}
	return ret
}

//Quad returns v^T.A.v
func (A Mat3) Quad(v r3.Vec) float64 {
	x, y, z := v.X, v.Y, v.Z
	return x*(A[0][0]*x+A[0][1]*y+A[0][2]*z) + y*(A[1][0]*x+A[1][1]*y+A[1][2]*z) + z*(A[2][0]*x+A[2][1]*y+A[2][2]*z)
}

//Vec9 returns the row-major vectorisation of A, the index of A[i][j] being 3i+j.
func (A Mat3) Vec9() [9]float64 {
	return [9]float64{A[0][0], A[0][1], A[0][2], A[1][0], A[1][1], A[1][2], A[2][0], A[2][1], A[2][2]}
}

//FromVec9 is the inverse of Mat3.Vec9
func FromVec9(v [9]float64) Mat3 {
	return Mat3{{v[0], v[1], v[2]}, {v[3], v[4], v[5]}, {v[6], v[7], v[8]}}
}

//ReduceFull applies the 9x9 frame order matrix D to the full tensor a,
//vec(A_red) = D.vec(A), and returns the complete 3x3 result.
func ReduceFull(D mat.Matrix, a Vec5) Mat3 {
	r, c := D.Dims()
	if r != 9 || c != 9 {
		panic(ErrNot9x9)
	}
	in := a.Tensor().Vec9()
	var out [9]float64
	if d, ok := D.(*mat.Dense); ok {
		raw := d.RawMatrix()
		for i := 0; i < 9; i++ {
			row := raw.Data[i*raw.Stride : i*raw.Stride+9]
			var s float64
			for j, v := range in {
				s += row[j] * v
			}
			out[i] = s
		}
		return FromVec9(out)
	}
	for i := 0; i < 9; i++ {
		var s float64
		for j, v := range in {
			s += D.At(i, j) * v
		}
		out[i] = s
	}
	return FromVec9(out)
}

//Reduce returns the reduced tensor, in 5-vector form, for the full tensor a and the
//frame order matrix D.
func Reduce(D mat.Matrix, a Vec5) Vec5 {
	return FromTensor(ReduceFull(D, a))
}

//Rotate rotates the tensor A by R. If forward is true the result is R^T.A.R,
//otherwise R.A.R^T.
func Rotate(R mat.Matrix, A Mat3, forward bool) Mat3 {
	var Rm Mat3
	if forward {
		Rm = Mat3FromDense(R.T())
	} else {
		Rm = Mat3FromDense(R)
	}
	var tmp, ret Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			var s float64
			for k := 0; k < 3; k++ {
				s += Rm[i][k] * A[k][j]
			}
			tmp[i][j] = s
		}
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			var s float64
			for k := 0; k < 3; k++ {
				s += tmp[i][k] * Rm[j][k]
			}
			ret[i][j] = s
		}
	}
	return ret
}

//RDC returns the residual dipolar coupling d.u^T.A.u for the unit vector u.
func RDC(d float64, u r3.Vec, A Mat3) float64 {
	return d * A.Quad(u)
}

//PCS returns the pseudo-contact shift cr5.r^T.A.r, where cr5 is the PCS constant
//divided by |r|^5, and r the, non normalised, paramagnetic centre to spin vector.
func PCS(cr5 float64, r r3.Vec, A Mat3) float64 {
	return cr5 * A.Quad(r)
}

//PanicMsg is a message used for panics.
type PanicMsg string

func (v PanicMsg) Error() string { return string(v) }

const (
	ErrNot3x3 = PanicMsg("frameorder/tensor: 3x3 matrix expected")
	ErrNot9x9 = PanicMsg("frameorder/tensor: 9x9 matrix expected")
)
