/*
 * sobol.go, part of frameorder.
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

//Package sobol generates Sobol' low-discrepancy sequences in the unit hypercube,
//using the Antonov-Saleev Gray code ordering and the direction numbers of
//Joe and Kuo. The origin, the first point of every Sobol' sequence, is skipped.
package sobol

import (
	"math/bits"

	fo "github.com/rmera/frameorder"
)

const nbits = 32

//primitive polynomials and initial direction numbers for dimensions 2 to MaxDim.
var joeKuo = []struct {
	s, a uint32
	m    []uint32
}{
	{1, 0, []uint32{1}},
	{2, 1, []uint32{1, 3}},
	{3, 1, []uint32{1, 3, 1}},
	{3, 2, []uint32{1, 1, 1}},
	{4, 1, []uint32{1, 1, 3, 3}},
	{4, 4, []uint32{1, 3, 5, 13}},
	{5, 2, []uint32{1, 1, 5, 5, 17}},
	{5, 4, []uint32{1, 1, 5, 5, 5}},
	{5, 7, []uint32{1, 1, 7, 11, 19}},
}

//MaxDim is the largest dimension supported.
var MaxDim = len(joeKuo) + 1

//Sequence is a Sobol' sequence generator. It is not safe for concurrent use.
type Sequence struct {
	dim   int
	v     [][nbits]uint32
	x     []uint32
	count uint32
}

//New returns a generator for dim-dimensional points.
func New(dim int) (*Sequence, error) {
	if dim < 1 || dim > MaxDim {
		return nil, fo.NewError(fo.InvalidData, "sobol.New", "dimension %d not in [1, %d]", dim, MaxDim)
	}
	S := &Sequence{dim: dim, v: make([][nbits]uint32, dim), x: make([]uint32, dim)}
	for k := 0; k < nbits; k++ {
		S.v[0][k] = 1 << (nbits - 1 - k)
	}
	for d := 1; d < dim; d++ {
		p := joeKuo[d-1]
		s := int(p.s)
		for k := 0; k < s; k++ {
			S.v[d][k] = p.m[k] << (nbits - 1 - k)
		}
		for k := s; k < nbits; k++ {
			v := S.v[d][k-s] ^ (S.v[d][k-s] >> uint(s))
			for i := 1; i < s; i++ {
				if (p.a>>uint(s-1-i))&1 == 1 {
					v ^= S.v[d][k-i]
				}
			}
			S.v[d][k] = v
		}
	}
	return S, nil
}

//Dim returns the dimension of the sequence.
func (S *Sequence) Dim() int {
	return S.dim
}

//Next puts the next point of the sequence in dst, which is allocated if nil, and returns it.
func (S *Sequence) Next(dst []float64) []float64 {
	if dst == nil {
		dst = make([]float64, S.dim)
	}
	if len(dst) != S.dim {
		panic(ErrWrongLength)
	}
	c := bits.TrailingZeros32(^S.count) //rightmost zero bit of the point index
	if c >= nbits {
		panic(ErrExhausted)
	}
	S.count++
	const norm = 1.0 / (1 << nbits)
	for d := 0; d < S.dim; d++ {
		S.x[d] ^= S.v[d][c]
		dst[d] = float64(S.x[d]) * norm
	}
	return dst
}

//Generate returns the first n points, after the origin, of the dim-dimensional sequence.
func Generate(dim, n int) ([][]float64, error) {
	S, err := New(dim)
	if err != nil {
		return nil, fo.ErrDecorate(err, "sobol.Generate")
	}
	ret := make([][]float64, n)
	for i := range ret {
		ret[i] = S.Next(nil)
	}
	return ret, nil
}

//PanicMsg is a message used for panics.
type PanicMsg string

func (v PanicMsg) Error() string { return string(v) }

const (
	ErrWrongLength = PanicMsg("frameorder/sobol: destination of the wrong length")
	ErrExhausted   = PanicMsg("frameorder/sobol: sequence exhausted")
)
