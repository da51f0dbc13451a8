/*
 * v3_test.go, part of frameorder.
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

package v3

import (
	"fmt"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestViews(Te *testing.T) {
	a := []float64{1.0, 2.0, 3, 4, 5, 6, 7, 8, 9}
	A, err := NewMatrix(a)
	if err != nil {
		Te.Fatal(err)
	}
	View := A.VecView(1)
	View.Set(0, 0, 100)
	fmt.Println("View\n", A, "\n", View)
	if A.At(1, 0) != 100 {
		Te.Errorf("View change not reflected in the parent matrix: %v", A)
	}
	if _, err := NewMatrix([]float64{1, 2}); err == nil {
		Te.Error("NewMatrix should fail for slices not divisible by 3")
	}
}

func TestSomeVecs(Te *testing.T) {
	a := []float64{1.0, 2.0, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18}
	A, err := NewMatrix(a)
	if err != nil {
		Te.Fatal(err)
	}
	B := Zeros(3)
	cind := []int{1, 3, 5}
	if err = B.SomeVecsSafe(A, cind); err != nil {
		Te.Fatal(err)
	}
	if B.Vec(2) != (r3.Vec{X: 16, Y: 17, Z: 18}) {
		Te.Errorf("wrong vector copied: %v", B.Vec(2))
	}
	C := Zeros(2)
	if err = C.SomeVecsSafe(A, cind); err == nil {
		Te.Error("SomeVecsSafe should fail with mismatched sizes")
	}
}

func TestCenters(Te *testing.T) {
	A := FromVecs([]r3.Vec{{X: 1}, {X: -1}, {Y: 3}, {Y: -3}})
	c, err := A.WeightedCenter(nil)
	if err != nil {
		Te.Fatal(err)
	}
	if r3.Norm(c) > appzero {
		Te.Errorf("centroid should be at the origin, got %v", c)
	}
	c, err = A.WeightedCenter([]float64{3, 1, 0, 0})
	if err != nil {
		Te.Fatal(err)
	}
	if math.Abs(c.X-0.5) > appzero {
		Te.Errorf("weighted center should be (0.5,0,0), got %v", c)
	}
	A.SubVec(A, r3.Vec{X: 1, Y: 1, Z: 1})
	if A.Vec(0) != (r3.Vec{X: 0, Y: -1, Z: -1}) {
		Te.Errorf("SubVec gave %v", A.Vec(0))
	}
}
