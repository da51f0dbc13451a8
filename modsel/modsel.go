/*
 * modsel.go, part of frameorder.
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

//Package modsel selects among fitted motional models with information criteria.
package modsel

import (
	"math"
	"strings"

	fo "github.com/rmera/frameorder"
)

//Stats are the statistics of a fitted model: its number of parameters K, the number
//of data points N and its chi-squared value.
type Stats struct {
	K    int     `json:"k"`
	N    int     `json:"n"`
	Chi2 float64 `json:"chi2"`
}

//Overfitted returns true if there are not more data points than parameters.
func (S Stats) Overfitted() bool {
	return S.N <= S.K
}

//AIC returns Akaike's information criterion, chi2 + 2k.
func AIC(S Stats) float64 {
	return S.Chi2 + 2*float64(S.K)
}

//AICc returns the small sample corrected AIC. It is +Inf when n <= k+1.
func AICc(S Stats) float64 {
	k, n := float64(S.K), float64(S.N)
	if n-k-1 <= 0 {
		return math.Inf(1)
	}
	return AIC(S) + 2*k*(k+1)/(n-k-1)
}

//BIC returns the Bayesian information criterion, chi2 + k ln(n).
func BIC(S Stats) float64 {
	return S.Chi2 + float64(S.K)*math.Log(float64(S.N))
}

//Criterion returns the criterion function with the given name: "AIC", "AICc" or "BIC".
//The name is not case sensitive.
func Criterion(name string) (func(Stats) float64, error) {
	switch strings.ToLower(name) {
	case "aic":
		return AIC, nil
	case "aicc":
		return AICc, nil
	case "bic":
		return BIC, nil
	}
	return nil, fo.NewError(fo.UnsupportedAlgorithm, "modsel.Criterion", "unknown model selection criterion %q", name)
}

//Candidate is one model taking part in the selection.
type Candidate struct {
	Name       string
	Stats      Stats
	Eliminated bool
}

//Select returns the index of the candidate with the lowest value of the criterion,
//and the values for all of them. Eliminated candidates get +Inf. It fails with
//ModelNotSelected if every candidate is eliminated.
func Select(criterion string, cands []Candidate) (int, []float64, error) {
	f, err := Criterion(criterion)
	if err != nil {
		return -1, nil, err
	}
	best := -1
	scores := make([]float64, len(cands))
	for i, c := range cands {
		scores[i] = math.Inf(1)
		if c.Eliminated || math.IsNaN(c.Stats.Chi2) {
			continue
		}
		scores[i] = f(c.Stats)
		if best < 0 || scores[i] < scores[best] {
			best = i
		}
	}
	if best < 0 {
		return -1, scores, fo.NewError(fo.ModelNotSelected, "modsel.Select", "all the %d models were eliminated", len(cands))
	}
	return best, scores, nil
}
