/*
 * histo.go, part of frameorder.
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

//Package histo builds histograms of parameter distributions, such as those sampled by
//Monte Carlo simulations.
package histo

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

//Set is a group of histograms, one per named parameter.
type Set struct {
	names []string
	d     map[string]*Data
}

//NewSet builds one histogram with nbins bins for each named series in raw. The range
//of each histogram spans the values of its series. Series with no finite values
//are omitted.
func NewSet(raw map[string][]float64, nbins int) *Set {
	S := &Set{d: make(map[string]*Data, len(raw))}
	for name, v := range raw {
		div, err := Dividers(v, nbins)
		if err != nil {
			continue
		}
		S.d[name] = NewData(name, div, v)
		S.names = append(S.names, name)
	}
	sort.Strings(S.names)
	return S
}

//Names returns the names of the histograms, sorted.
func (S *Set) Names() []string {
	return S.names
}

//View returns the histogram for name, or nil.
func (S *Set) View(name string) *Data {
	return S.d[name]
}

//Normalize normalizes all the histograms in the set
func (S *Set) Normalize() {
	for _, v := range S.d {
		v.Normalize()
	}
}

func (S *Set) String() string {
	t := make([]string, 0, len(S.names))
	for _, n := range S.names {
		t = append(t, S.d[n].String())
	}
	return strings.Join(t, "\n\n")
}

func (S *Set) MarshalJSON() ([]byte, error) {
	d := make([]*Data, 0, len(S.names))
	for _, n := range S.names {
		d = append(d, S.d[n])
	}
	return json.Marshal(d)
}

func (S *Set) UnmarshalJSON(b []byte) error {
	var d []*Data
	if err := json.Unmarshal(b, &d); err != nil {
		return err
	}
	S.d = make(map[string]*Data, len(d))
	S.names = S.names[:0]
	for _, v := range d {
		S.d[v.name] = v
		S.names = append(S.names, v.name)
	}
	sort.Strings(S.names)
	return nil
}

//Dividers returns nbins+1 evenly spaced dividers covering the finite values in v.
//The last divider is moved slightly up so the largest value is counted.
func Dividers(v []float64, nbins int) ([]float64, error) {
	if nbins <= 0 {
		return nil, fmt.Errorf("frameorder/histo.Dividers: %d bins requested", nbins)
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			continue
		}
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	if lo > hi {
		return nil, fmt.Errorf("frameorder/histo.Dividers: no finite values")
	}
	if hi == lo {
		//a single value gets a bin of width 1e-6 relative, or absolute around 0
		w := math.Max(math.Abs(lo)*1e-6, 1e-12)
		lo, hi = lo-w, hi+w
	}
	hi = math.Nextafter(hi, math.Inf(1))
	ret := make([]float64, nbins+1)
	floats.Span(ret, lo, hi)
	return ret, nil
}

//Data is the histogram of one named parameter.
type Data struct {
	name       string
	normalized bool
	total      int
	dividers   []float64
	histo      []float64
}

func (D *Data) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name       string    `json:"name"`
		Normalized bool      `json:"normalized"`
		Total      int       `json:"total"`
		Dividers   []float64 `json:"dividers"`
		Histo      []float64 `json:"histo"`
	}{
		Name:       D.name,
		Normalized: D.normalized,
		Total:      D.total,
		Dividers:   D.dividers,
		Histo:      D.histo,
	})
}

func (D *Data) UnmarshalJSON(b []byte) error {
	var a struct {
		Name       string    `json:"name"`
		Normalized bool      `json:"normalized"`
		Total      int       `json:"total"`
		Dividers   []float64 `json:"dividers"`
		Histo      []float64 `json:"histo"`
	}
	err := json.Unmarshal(b, &a)
	if err != nil {
		return err
	}
	D.name = a.Name
	D.normalized = a.Normalized
	D.total = a.Total
	D.dividers = a.Dividers
	D.histo = a.Histo
	return nil
}

//Name returns the name of the parameter of the histogram
func (D *Data) Name() string {
	return D.name
}

//String prints a -hopefully- pretty string representation of
//the histogram, in 3 lines of text.
func (D *Data) String() string {
	ret := fmt.Sprintf("%s, Normalized: %v, TotalData: %d\n", D.name, D.normalized, D.total)
	d := make([]string, 0, len(D.histo))
	h := make([]string, 0, len(D.histo))
	for i, v := range D.histo {
		d = append(d, fmt.Sprintf("%6.3g-%6.3g", D.dividers[i], D.dividers[i+1]))
		h = append(h, fmt.Sprintf("%13.3f", v))
	}
	return ret + fmt.Sprintf("%s\n%s", strings.Join(d, " "), strings.Join(h, " "))
}

//NewData returns a new histogram from the dividers and rawdata given.
//rawdata can be nil. In that case, an empty histogram is created.
//rawdata is not modified.
func NewData(name string, dividers []float64, rawdata []float64) *Data {
	d := &Data{name: name}
	//I prefer to copy the slice to avoid somebody changing it from outside
	d.dividers = append([]float64(nil), dividers...)
	d.histo = make([]float64, len(dividers)-1)
	if rawdata != nil {
		d.ReHisto(d.dividers, rawdata)
	}
	return d
}

//AddData adds the given data point(s) to the histogram.
//Values outside the dividers are counted in the total, but not in any bin.
func (D *Data) AddData(point ...float64) {
	norma := D.normalized
	if norma {
		D.UnNormalize()
	}
	for _, v := range point {
		for j, w := range D.dividers[:len(D.dividers)-1] {
			if w <= v && v < D.dividers[j+1] {
				D.histo[j]++
				break
			}
		}
	}
	D.total += len(point)
	if norma {
		D.Normalize()
	}
}

//Normalized Returns true if the histogram is normalized
func (D *Data) Normalized() bool {
	return D.normalized
}

//Normalize normalizes the histogram
func (D *Data) Normalize() {
	D.normaunnorma(true)
}

//UnNormalize un-normalizes the histogram
func (D *Data) UnNormalize() {
	D.normaunnorma(false)
}

func (D *Data) normaunnorma(normalize bool) {
	if D.total <= 0 || D.normalized == normalize {
		return
	}
	n := float64(D.total)
	D.normalized = false
	if normalize {
		n = 1 / float64(D.total)
		D.normalized = true
	}
	floats.Scale(n, D.histo)
}

//Total returns the number of values given to the histogram.
func (D *Data) Total() int {
	return D.total
}

//CopyDividers copies the dividers of the histogram into dest, if given and large enough,
//or into a new slice.
func (D *Data) CopyDividers(dest ...[]float64) []float64 {
	d := getCopySlice(len(D.dividers), dest...)
	return floats.ScaleTo(d, 1, D.dividers)
}

//Copy copies the counts of the histogram, see CopyDividers.
func (D *Data) Copy(dest ...[]float64) []float64 {
	d := getCopySlice(len(D.histo), dest...)
	return floats.ScaleTo(d, 1, D.histo)
}

//View returns the counts of the histogram, not a copy.
func (D *Data) View() []float64 {
	return D.histo
}

//Centers returns the centers of the bins.
func (D *Data) Centers() []float64 {
	ret := make([]float64, len(D.histo))
	for i := range ret {
		ret[i] = (D.dividers[i] + D.dividers[i+1]) / 2
	}
	return ret
}

//Sum returns the sum of the bins
func (D *Data) Sum() float64 {
	return floats.Sum(D.histo)
}

//ReHisto rebuilds the histogram from rawdata with the given dividers.
func (D *Data) ReHisto(dividers, rawdata []float64) {
	raw := make([]float64, 0, len(rawdata))
	for _, v := range rawdata {
		if !math.IsNaN(v) {
			raw = append(raw, v)
		}
	}
	sort.Float64s(raw)
	//stat.Histogram panics instead of omitting the values that are off limits
	//so we remove them here before the call.
	maxi := sort.SearchFloat64s(raw, dividers[len(dividers)-1])
	mini := sort.SearchFloat64s(raw, dividers[0])
	D.dividers = append(D.dividers[:0], dividers...)
	D.total = len(rawdata)
	D.normalized = false
	D.histo = stat.Histogram(nil, D.dividers, raw[mini:maxi], nil)
}

func getCopySlice(N int, dest ...[]float64) []float64 {
	if len(dest) > 0 && len(dest[0]) >= N {
		//floats.ScaleTo wants both slices to _match_
		return dest[0][:N]
	}
	return make([]float64, N)
}
