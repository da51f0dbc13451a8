/*
 * data.go, part of frameorder.
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

package frameorder

import (
	"fmt"
	"math"

	"github.com/rmera/frameorder/tensor"
	"gonum.org/v1/gonum/spatial/r3"
)

//Default errors used when none is given for a whole data type.
const (
	DefaultPCSError = 0.1 //ppm
	DefaultRDCError = 1.0 //Hz
)

//Medium is one alignment medium: the full alignment tensor of the moving domain
//and the conditions of the PCS measurements.
type Medium struct {
	Name string      `json:"name"`
	Full tensor.Vec5 `json:"full"`
	//Red is the reduced tensor determined for the moving domain, if any. It is only
	//used for reporting.
	Red            *tensor.Vec5 `json:"red,omitempty"`
	RedErr         *tensor.Vec5 `json:"red_err,omitempty"`
	FullInRefFrame bool         `json:"full_in_ref_frame"`
	Temperature    float64      `json:"temperature"` //K
	Frequency      float64      `json:"frequency"`   //proton frequency, Hz
}

//Interatom is a pair of spins in the moving domain with RDCs. The vector joining them
//is either given, or taken from the structure. The dipolar constant is either given
//or computed from the gyromagnetic ratios and the distance, in Angstrom.
type Interatom struct {
	Spin1    string    `json:"spin1"`
	Spin2    string    `json:"spin2"`
	Vector   *r3.Vec   `json:"vector,omitempty"`
	Dipolar  float64   `json:"dipolar,omitempty"`
	Gamma1   float64   `json:"gamma1,omitempty"`
	Gamma2   float64   `json:"gamma2,omitempty"`
	Distance float64   `json:"distance,omitempty"`
	RDC      Series    `json:"rdc"` //one per medium, NaN if missing
	Error    Series    `json:"error,omitempty"`
	Weight   float64   `json:"weight,omitempty"`
}

//Spin is a spin of the moving domain with PCSs, in ppm. Its positions, one per
//structural model, are either given or taken from the structure.
type Spin struct {
	ID     string    `json:"id"`
	Pos    []r3.Vec  `json:"pos,omitempty"`
	PCS    Series    `json:"pcs"` //one per medium, NaN if missing
	Error  Series    `json:"error,omitempty"`
	Weight float64   `json:"weight,omitempty"`
}

//Dataset contains all the parsed inputs of a frame order analysis.
type Dataset struct {
	Media      []Medium    `json:"media"`
	Interatoms []Interatom `json:"interatoms,omitempty"`
	Spins      []Spin      `json:"spins,omitempty"`
	Paramag    *r3.Vec     `json:"paramag,omitempty"`
	Pivot      *r3.Vec     `json:"pivot,omitempty"`
	Pivot2     *r3.Vec     `json:"pivot2,omitempty"`
	//Moving are the IDs of the atoms of the moving domain, used for its center of mass,
	//the pivot for the average domain position rotation. AvePosPivot, if given, is used instead.
	Moving      []string `json:"moving,omitempty"`
	AvePosPivot *r3.Vec  `json:"ave_pos_pivot,omitempty"`
}

//Data is the assembled, read-only, form of a Dataset. Observations are indexed
//[medium][datum]. Missing data have value 0, error 1 and the missing flag set.
type Data struct {
	MediaNames []string
	Full       []tensor.Vec5
	Forward    []bool //the full tensor is in the reference frame
	Red        []*tensor.Vec5

	PairIDs    [][2]string
	RDCVec     []r3.Vec //unit vectors
	Dipolar    []float64
	RDC        [][]float64
	RDCErr     [][]float64
	RDCMissing [][]bool

	SpinIDs    []string
	Pos        []r3.Vec //averaged over the structural models
	PCS        [][]float64
	PCSErr     [][]float64
	PCSMissing [][]bool
	PCSConst   [][]float64

	Paramag     r3.Vec
	Pivot       r3.Vec
	PivotSet    bool
	Pivot2      r3.Vec
	Pivot2Set   bool
	AvePosPivot r3.Vec

	//Warnings about deselected data, produced once by Assemble.
	Warnings []string
}

//NMedia returns the number of alignment media
func (D *Data) NMedia() int {
	return len(D.Full)
}

//HasRDC returns true if there is at least one RDC
func (D *Data) HasRDC() bool {
	return countPresent(D.RDCMissing) > 0
}

//HasPCS returns true if there is at least one PCS
func (D *Data) HasPCS() bool {
	return countPresent(D.PCSMissing) > 0
}

//NumRDC returns the number of RDCs that are not missing.
func (D *Data) NumRDC() int { return countPresent(D.RDCMissing) }

//NumPCS returns the number of PCSs that are not missing.
func (D *Data) NumPCS() int { return countPresent(D.PCSMissing) }

func countPresent(missing [][]bool) int {
	n := 0
	for _, m := range missing {
		for _, v := range m {
			if !v {
				n++
			}
		}
	}
	return n
}

//WithObservations returns a shallow copy of D with the observed RDCs and PCSs replaced.
//nil arguments keep the original values. Used for the Monte Carlo simulations.
func (D *Data) WithObservations(rdc, pcs [][]float64) *Data {
	C := *D
	if rdc != nil {
		C.RDC = rdc
	}
	if pcs != nil {
		C.PCS = pcs
	}
	return &C
}

//Assemble validates the dataset and builds the data for the target functions. st is needed only
//when positions, vectors or the moving domain are given as atom IDs.
func Assemble(ds *Dataset, st *Structure) (*Data, error) {
	const caller = "Assemble"
	nm := len(ds.Media)
	if nm == 0 {
		return nil, NewError(MissingRequiredData, caller, "no alignment media")
	}
	D := &Data{
		MediaNames: make([]string, nm),
		Full:       make([]tensor.Vec5, nm),
		Forward:    make([]bool, nm),
		Red:        make([]*tensor.Vec5, nm),
	}
	for k, m := range ds.Media {
		D.MediaNames[k] = m.Name
		if m.Name == "" {
			D.MediaNames[k] = fmt.Sprintf("medium%d", k+1)
		}
		D.Full[k] = m.Full
		D.Forward[k] = m.FullInRefFrame
		D.Red[k] = m.Red
	}
	if err := D.assembleRDC(ds, st); err != nil {
		return nil, ErrDecorate(err, caller)
	}
	if err := D.assemblePCS(ds, st); err != nil {
		return nil, ErrDecorate(err, caller)
	}
	if !D.HasRDC() && !D.HasPCS() {
		return nil, NewError(MissingRequiredData, caller, "neither RDCs nor PCSs were given")
	}
	if ds.Pivot != nil {
		D.Pivot, D.PivotSet = *ds.Pivot, true
	}
	if ds.Pivot2 != nil {
		D.Pivot2, D.Pivot2Set = *ds.Pivot2, true
	}
	if D.HasPCS() {
		if ds.Paramag == nil {
			return nil, NewError(MissingRequiredData, caller, "PCSs given without a paramagnetic centre")
		}
		D.Paramag = *ds.Paramag
		if D.PivotSet && r3.Norm(r3.Sub(D.Pivot, D.Paramag)) == 0 {
			return nil, NewError(DegenerateGeometry, caller, "the pivot %v coincides with the paramagnetic centre", D.Pivot)
		}
	}
	var err error
	D.AvePosPivot, err = avePosPivot(ds, st, D)
	if err != nil {
		return nil, ErrDecorate(err, caller)
	}
	return D, nil
}

func checkLen(what, id string, v []float64, nm int) error {
	if v != nil && len(v) != nm {
		return NewError(InvalidData, "Assemble", "%s of %s has %d values for %d media", what, id, len(v), nm)
	}
	return nil
}

//assembleMasked fills the value, error and missing arrays, indexed [medium][datum], for one
//data type. get returns the values, errors and weight of datum j.
func assembleMasked(nm, n int, scale, defErr float64, get func(j int) ([]float64, []float64, float64)) (val, er [][]float64, miss [][]bool, anyErr bool) {
	val = make([][]float64, nm)
	er = make([][]float64, nm)
	miss = make([][]bool, nm)
	for k := 0; k < nm; k++ {
		val[k] = make([]float64, n)
		er[k] = make([]float64, n)
		miss[k] = make([]bool, n)
	}
	for j := 0; j < n; j++ {
		vals, errs, _ := get(j)
		for k := 0; k < nm; k++ {
			if errs != nil && !math.IsNaN(errs[k]) && errs[k] > 0 && vals != nil && !math.IsNaN(vals[k]) {
				anyErr = true
			}
		}
	}
	for j := 0; j < n; j++ {
		vals, errs, w := get(j)
		if w <= 0 {
			w = 1
		}
		for k := 0; k < nm; k++ {
			if vals == nil || math.IsNaN(vals[k]) || math.IsInf(vals[k], 0) {
				val[k][j], er[k][j], miss[k][j] = 0, 1, true
				continue
			}
			e := defErr
			if anyErr {
				if errs == nil || math.IsNaN(errs[k]) || errs[k] <= 0 {
					val[k][j], er[k][j], miss[k][j] = 0, 1, true
					continue
				}
				e = errs[k]
			}
			val[k][j] = vals[k] * scale
			er[k][j] = e * scale / math.Sqrt(w)
		}
	}
	return val, er, miss, anyErr
}

func (D *Data) assembleRDC(ds *Dataset, st *Structure) error {
	nm := len(ds.Media)
	n := len(ds.Interatoms)
	D.PairIDs = make([][2]string, n)
	D.RDCVec = make([]r3.Vec, n)
	D.Dipolar = make([]float64, n)
	for j, ia := range ds.Interatoms {
		id := ia.Spin1 + "-" + ia.Spin2
		D.PairIDs[j] = [2]string{ia.Spin1, ia.Spin2}
		if err := checkLen("RDC", id, ia.RDC, nm); err != nil {
			return err
		}
		if err := checkLen("RDC error", id, ia.Error, nm); err != nil {
			return err
		}
		var err error
		D.RDCVec[j], err = interatomVector(ia, st)
		if err != nil {
			return err
		}
		D.Dipolar[j] = ia.Dipolar
		if D.Dipolar[j] == 0 && ia.Gamma1 != 0 && ia.Gamma2 != 0 && ia.Distance > 0 {
			D.Dipolar[j] = DipolarConstant(ia.Gamma1, ia.Gamma2, ia.Distance*1e-10)
		}
	}
	var anyErr bool
	D.RDC, D.RDCErr, D.RDCMissing, anyErr = assembleMasked(nm, n, 1, DefaultRDCError, func(j int) ([]float64, []float64, float64) {
		ia := ds.Interatoms[j]
		return ia.RDC, ia.Error, ia.Weight
	})
	for j := range ds.Interatoms {
		for k := 0; k < nm; k++ {
			if !D.RDCMissing[k][j] && D.Dipolar[j] == 0 {
				return NewError(MissingRequiredData, "assembleRDC", "no dipolar constant for the RDC of %s-%s", ds.Interatoms[j].Spin1, ds.Interatoms[j].Spin2)
			}
		}
	}
	D.warnMissing("RDC", nm, n, D.RDCMissing, func(j int) string { return D.PairIDs[j][0] + "-" + D.PairIDs[j][1] })
	if n > 0 && !anyErr && countPresent(D.RDCMissing) > 0 {
		D.Warnings = append(D.Warnings, fmt.Sprintf("no RDC errors given, all set to %g Hz", DefaultRDCError))
	}
	return nil
}

func (D *Data) assemblePCS(ds *Dataset, st *Structure) error {
	nm := len(ds.Media)
	n := len(ds.Spins)
	D.SpinIDs = make([]string, n)
	D.Pos = make([]r3.Vec, n)
	for s, sp := range ds.Spins {
		D.SpinIDs[s] = sp.ID
		if err := checkLen("PCS", sp.ID, sp.PCS, nm); err != nil {
			return err
		}
		if err := checkLen("PCS error", sp.ID, sp.Error, nm); err != nil {
			return err
		}
		pos := sp.Pos
		if len(pos) == 0 {
			if st == nil || st.Index(sp.ID) < 0 {
				return NewError(MissingRequiredData, "assemblePCS", "no position for the spin %s", sp.ID)
			}
			pos = st.Positions(st.Index(sp.ID))
		}
		var ave r3.Vec
		for _, p := range pos {
			ave = r3.Add(ave, p)
		}
		D.Pos[s] = r3.Scale(1/float64(len(pos)), ave)
	}
	var anyErr bool
	D.PCS, D.PCSErr, D.PCSMissing, anyErr = assembleMasked(nm, n, PPM, DefaultPCSError, func(s int) ([]float64, []float64, float64) {
		sp := ds.Spins[s]
		return sp.PCS, sp.Error, sp.Weight
	})
	D.PCSConst = make([][]float64, nm)
	for k, m := range ds.Media {
		D.PCSConst[k] = make([]float64, n)
		hasData := false
		for s := 0; s < n; s++ {
			hasData = hasData || !D.PCSMissing[k][s]
		}
		if !hasData {
			continue
		}
		if m.Temperature <= 0 || m.Frequency <= 0 {
			return NewError(MissingRequiredData, "assemblePCS", "the medium %s has PCSs but no temperature or frequency", D.MediaNames[k])
		}
		c := PCSScale(m.Temperature, m.Frequency)
		for s := range D.PCSConst[k] {
			D.PCSConst[k][s] = c
		}
	}
	D.warnMissing("PCS", nm, n, D.PCSMissing, func(s int) string { return D.SpinIDs[s] })
	if n > 0 && !anyErr && countPresent(D.PCSMissing) > 0 {
		D.Warnings = append(D.Warnings, fmt.Sprintf("no PCS errors given, all set to %g ppm", DefaultPCSError))
	}
	return nil
}

//warnMissing adds one warning per datum deselected in every medium.
func (D *Data) warnMissing(what string, nm, n int, miss [][]bool, id func(int) string) {
	for j := 0; j < n; j++ {
		all := true
		for k := 0; k < nm; k++ {
			all = all && miss[k][j]
		}
		if all {
			D.Warnings = append(D.Warnings, fmt.Sprintf("no %s data for %s, deselected", what, id(j)))
		}
	}
}

func interatomVector(ia Interatom, st *Structure) (r3.Vec, error) {
	id := ia.Spin1 + "-" + ia.Spin2
	if ia.Vector != nil {
		n := r3.Norm(*ia.Vector)
		if n == 0 {
			return r3.Vec{}, NewError(DegenerateGeometry, "interatomVector", "zero length vector for %s", id)
		}
		return r3.Scale(1/n, *ia.Vector), nil
	}
	if st == nil {
		return r3.Vec{}, NewError(MissingRequiredData, "interatomVector", "no vector nor structure for %s", id)
	}
	i, j := st.Index(ia.Spin1), st.Index(ia.Spin2)
	if i < 0 || j < 0 {
		return r3.Vec{}, NewError(MissingRequiredData, "interatomVector", "atoms of %s not in the structure", id)
	}
	p1, p2 := st.Positions(i), st.Positions(j)
	var ave r3.Vec
	for m := range p1 {
		d := r3.Sub(p2[m], p1[m])
		n := r3.Norm(d)
		if n == 0 {
			return r3.Vec{}, NewError(DegenerateGeometry, "interatomVector", "%s has zero length in model %d", id, m)
		}
		ave = r3.Add(ave, r3.Scale(1/n, d))
	}
	n := r3.Norm(ave)
	if n == 0 {
		return r3.Vec{}, NewError(DegenerateGeometry, "interatomVector", "the vectors of %s average to zero", id)
	}
	return r3.Scale(1/n, ave), nil
}

//avePosPivot returns the point about which the average domain position is rotated: the given
//one, the center of mass of the moving domain, or the centroid of the PCS spins, in that order.
func avePosPivot(ds *Dataset, st *Structure, D *Data) (r3.Vec, error) {
	if ds.AvePosPivot != nil {
		return *ds.AvePosPivot, nil
	}
	if st != nil {
		var sel []int
		if len(ds.Moving) > 0 {
			for _, id := range ds.Moving {
				i := st.Index(id)
				if i < 0 {
					return r3.Vec{}, NewError(MissingRequiredData, "avePosPivot", "moving domain atom %s not in the structure", id)
				}
				sel = append(sel, i)
			}
		}
		return st.CenterOfMass(sel)
	}
	if len(D.Pos) > 0 {
		var c r3.Vec
		for _, p := range D.Pos {
			c = r3.Add(c, p)
		}
		D.Warnings = append(D.Warnings, "no structure given, the centroid of the PCS spins is used as the moving domain center")
		return r3.Scale(1/float64(len(D.Pos)), c), nil
	}
	D.Warnings = append(D.Warnings, "no structure given, the origin is used as the moving domain center")
	return r3.Vec{}, nil
}
