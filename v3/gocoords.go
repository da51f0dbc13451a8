/*
 * gocoords.go, part of frameorder.
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
/***Dedicated to the long life of the Ven. Khenpo Phuntzok Tenzin Rinpoche***/

package v3

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

const appzero float64 = 0.000000000001 //used to correct floating point
//errors. Everything equal or less than this is considered zero.

//Zeros returns a zero-filled Matrix with vecs vectors and 3 in the other dimension.
func Zeros(vecs int) *Matrix {
	const cols int = 3
	f := make([]float64, cols*vecs)
	return FromRaw(vecs, f)
}

//FromRaw wraps the data slice, which must hold vecs*3 elements, without copying.
func FromRaw(vecs int, data []float64) *Matrix {
	if len(data) != vecs*3 {
		panic(ErrShape)
	}
	M, _ := NewMatrix(data)
	return M
}

//METHODS

//NVecs returns the number of vecs in F.
func (F *Matrix) NVecs() int {
	r, c := F.Dims()
	if c != 3 {
		panic(ErrNotXx3Matrix)
	}
	return r
}

//Vec returns a copy of the ith vector of F as a gonum r3.Vec
func (F *Matrix) Vec(i int) r3.Vec {
	if i >= F.NVecs() {
		panic(ErrIndexOutOfRange)
	}
	return r3.Vec{X: F.At(i, 0), Y: F.At(i, 1), Z: F.At(i, 2)}
}

//SetVec sets the ith vector of F to v.
func (F *Matrix) SetVec(i int, v r3.Vec) {
	if i >= F.NVecs() {
		panic(ErrIndexOutOfRange)
	}
	F.Set(i, 0, v.X)
	F.Set(i, 1, v.Y)
	F.Set(i, 2, v.Z)
}

//AddVec adds a vector to each vector of A putting the result on the receiver.
func (F *Matrix) AddVec(A *Matrix, vec r3.Vec) {
	ar := A.NVecs()
	if ar != F.NVecs() {
		panic(ErrShape)
	}
	for i := 0; i < ar; i++ {
		F.SetVec(i, r3.Add(A.Vec(i), vec))
	}
}

//SubVec subtracts the vector from each vector of the matrix A, putting
//the result on the receiver. A and F can be the same.
func (F *Matrix) SubVec(A *Matrix, vec r3.Vec) {
	F.AddVec(A, r3.Scale(-1, vec))
}

//SomeVecs puts in the receiver the vectors of A with the indexes in clist,
//in the same order as clist.
func (F *Matrix) SomeVecs(A *Matrix, clist []int) {
	ar := A.NVecs()
	if F.NVecs() != len(clist) {
		panic(ErrShape)
	}
	for key, val := range clist {
		if val >= ar {
			panic(ErrIndexOutOfRange)
		}
		F.SetVec(key, A.Vec(val))
	}
}

//SomeVecsSafe is SomeVecs, but returns an error instead of panicking.
func (F *Matrix) SomeVecsSafe(A *Matrix, clist []int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			switch e := r.(type) {
			case PanicMsg:
				err = Error{string(e), []string{"SomeVecsSafe"}, true}
			default:
				panic(r)
			}
		}
	}()
	F.SomeVecs(A, clist)
	return err
}

//WeightedCenter returns the weighted average of the vectors in F.
//If weights is nil all vectors weight the same.
func (F *Matrix) WeightedCenter(weights []float64) (r3.Vec, error) {
	n := F.NVecs()
	if weights != nil && len(weights) != n {
		return r3.Vec{}, Error{fmt.Sprintf("%d weights for %d vectors", len(weights), n), []string{"WeightedCenter"}, true}
	}
	var c r3.Vec
	var total float64
	for i := 0; i < n; i++ {
		w := 1.0
		if weights != nil {
			w = weights[i]
		}
		c = r3.Add(c, r3.Scale(w, F.Vec(i)))
		total += w
	}
	if total <= appzero {
		return r3.Vec{}, Error{"Zero total weight", []string{"WeightedCenter"}, true}
	}
	return r3.Scale(1/total, c), nil
}

//String returns a neat string representation of a Matrix
func (F *Matrix) String() string {
	r, c := F.Dims()
	v := make([]string, r+2)
	v[0] = "\n["
	v[len(v)-1] = " ]"
	row := make([]float64, c)
	for i := 0; i < r; i++ {
		copy(row, F.RawRowView(i))
		if i == 0 {
			v[i+1] = fmt.Sprintf("%6.2f %6.2f %6.2f\n", row[0], row[1], row[2])
			continue
		} else if i == r-1 {
			v[i+1] = fmt.Sprintf(" %6.2f %6.2f %6.2f", row[0], row[1], row[2])
			continue
		} else {
			v[i+1] = fmt.Sprintf(" %6.2f %6.2f %6.2f\n", row[0], row[1], row[2])
		}
	}
	v[len(v)-2] = strings.Replace(v[len(v)-2], "\n", "", 1)
	return strings.Join(v, "")
}
