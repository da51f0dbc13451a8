/*
 * modsel_test.go, part of frameorder.
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

package modsel

import (
	"errors"
	"math"
	"testing"

	fo "github.com/rmera/frameorder"
)

func TestCriteria(Te *testing.T) {
	S := Stats{K: 3, N: 20, Chi2: 10}
	if v := AIC(S); v != 16 {
		Te.Errorf("AIC %g", v)
	}
	if v := AICc(S); math.Abs(v-(16+24.0/16)) > 1e-12 {
		Te.Errorf("AICc %g", v)
	}
	if v := BIC(S); math.Abs(v-(10+3*math.Log(20))) > 1e-12 {
		Te.Errorf("BIC %g", v)
	}
	if !math.IsInf(AICc(Stats{K: 3, N: 4}), 1) {
		Te.Error("AICc must be infinite without enough data")
	}
	if !(Stats{K: 5, N: 5}).Overfitted() {
		Te.Error("5 parameters and 5 data points not reported as overfitted")
	}
}

func TestSelect(Te *testing.T) {
	cands := []Candidate{
		{Name: "rigid", Stats: Stats{K: 6, N: 40, Chi2: 100}},
		{Name: "rotor", Stats: Stats{K: 8, N: 40, Chi2: 30}},
		{Name: "iso_cone", Stats: Stats{K: 10, N: 40, Chi2: 10}, Eliminated: true},
		{Name: "free_rotor", Stats: Stats{K: 7, N: 40, Chi2: 29}},
	}
	best, scores, err := Select("aic", cands)
	if err != nil {
		Te.Fatal(err)
	}
	if cands[best].Name != "free_rotor" || !math.IsInf(scores[2], 1) {
		Te.Errorf("selected %s, scores %v", cands[best].Name, scores)
	}
	if _, _, err := Select("XYZ", cands); !errors.Is(err, fo.ErrUnsupportedAlgorithm) {
		Te.Errorf("unknown criterion gave %v", err)
	}
	for i := range cands {
		cands[i].Eliminated = true
	}
	if _, _, err := Select("BIC", cands); !errors.Is(err, fo.ErrModelNotSelected) {
		Te.Errorf("all eliminated gave %v", err)
	}
}
