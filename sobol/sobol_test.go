/*
 * sobol_test.go, part of frameorder.
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

package sobol

import (
	"errors"
	"testing"

	fo "github.com/rmera/frameorder"
)

func TestFirstPoints(Te *testing.T) {
	pts, err := Generate(2, 4)
	if err != nil {
		Te.Fatal(err)
	}
	want := [][]float64{{0.5, 0.5}, {0.75, 0.25}, {0.25, 0.75}, {0.375, 0.375}}
	for i, p := range pts {
		for d := range p {
			if p[d] != want[i][d] {
				Te.Errorf("point %d is %v, expected %v", i, p, want[i])
			}
		}
	}
}

//Together with the origin, the first 2^k-1 points put exactly one coordinate in each
//interval of width 2^-k, in every dimension.
func TestStratification(Te *testing.T) {
	const k = 10
	const n = 1<<k - 1
	pts, err := Generate(MaxDim, n)
	if err != nil {
		Te.Fatal(err)
	}
	for d := 0; d < MaxDim; d++ {
		seen := make([]bool, 1<<k)
		seen[0] = true //the origin
		for _, p := range pts {
			b := int(p[d] * (1 << k))
			if seen[b] {
				Te.Fatalf("dimension %d: interval %d hit twice", d, b)
			}
			seen[b] = true
		}
	}
}

func TestDeterministic(Te *testing.T) {
	a, _ := Generate(3, 100)
	b, _ := Generate(3, 100)
	for i := range a {
		for d := range a[i] {
			if a[i][d] != b[i][d] {
				Te.Fatal("two sequences of the same dimension differ")
			}
		}
	}
	if _, err := New(0); !errors.Is(err, fo.ErrInvalidData) {
		Te.Errorf("dimension 0 gave %v", err)
	}
	if _, err := New(MaxDim + 1); !errors.Is(err, fo.ErrInvalidData) {
		Te.Errorf("too large dimension gave %v", err)
	}
	if _, err := Generate(0, 3); fo.KindOf(err) != fo.InvalidData {
		Te.Errorf("generating in dimension 0 gave %v", err)
	}
}

func TestWrongLength(Te *testing.T) {
	S, err := New(3)
	if err != nil {
		Te.Fatal(err)
	}
	defer func() {
		if r := recover(); r != ErrWrongLength {
			Te.Errorf("recovered %v", r)
		}
	}()
	S.Next(make([]float64, 2))
}
