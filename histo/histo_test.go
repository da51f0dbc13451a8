/*
 * histo_test.go, part of frameorder.
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

package histo

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestHisto(Te *testing.T) {
	rawdata := []float64{1, 6, 3, 2, 4, 5, 7, 6, 3.5, 3, 5, 1, 1, 0, 0, 5, 8, 1, 2, 3, 44, 3, 7, 3, 1, 3, 5, 32, 1}
	D := NewData("cone_theta", []float64{0, 1, 2, 3, 4, 8}, rawdata)
	if D.Total() != len(rawdata) {
		Te.Errorf("total %d, expected %d", D.Total(), len(rawdata))
	}
	want := []float64{2, 6, 2, 7, 9}
	if !cmp.Equal(D.View(), want) {
		Te.Errorf("histogram %v, expected %v", D.View(), want)
	}
	if rawdata[0] != 1 {
		Te.Errorf("raw data modified")
	}
	D.AddData(0.5, 100)
	if D.View()[0] != 3 || D.Sum() != 27 {
		Te.Errorf("AddData gave %v", D.View())
	}
	D.Normalize()
	D.Normalize()
	if math.Abs(D.Sum()-27.0/31.0) > 1e-12 {
		Te.Errorf("normalized sum %v", D.Sum())
	}
	D.UnNormalize()
	if math.Abs(D.View()[0]-3) > 1e-12 {
		Te.Errorf("un-normalized %v", D.View())
	}
	c := D.Centers()
	if c[0] != 0.5 || c[4] != 6 {
		Te.Errorf("centers %v", c)
	}
	Te.Log(D)
}

func TestSet(Te *testing.T) {
	S := NewSet(map[string][]float64{
		"cone_sigma_max": {0.7, 0.8, 0.75, 0.9, 0.78},
		"axis_alpha":     {0.1, 0.1, 0.1},
		"broken":         {math.NaN()},
	}, 4)
	if !cmp.Equal(S.Names(), []string{"axis_alpha", "cone_sigma_max"}) {
		Te.Fatalf("names %v", S.Names())
	}
	if s := S.View("cone_sigma_max").Sum(); s != 5 {
		Te.Errorf("the largest value was not counted: %v", S.View("cone_sigma_max").View())
	}
	if s := S.View("axis_alpha").Sum(); s != 3 {
		Te.Errorf("a constant series gave %v", S.View("axis_alpha").View())
	}
	j, err := json.Marshal(S)
	if err != nil {
		Te.Fatal(err)
	}
	S2 := new(Set)
	if err := json.Unmarshal(j, S2); err != nil {
		Te.Fatal(err)
	}
	if S2.String() != S.String() {
		Te.Errorf("JSON round trip changed the set:\n%s\n%s", S, S2)
	}
	if _, err := Dividers(nil, 3); err == nil {
		Te.Errorf("dividers for no data")
	}
}
