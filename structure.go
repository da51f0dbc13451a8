/*
 * structure.go, part of frameorder.
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

	v3 "github.com/rmera/frameorder/v3"
	"gonum.org/v1/gonum/spatial/r3"
)

//Atom contains the information to represent an atom, except for the coordinates,
//which live in one v3.Matrix per structural model.
type Atom struct {
	Name    string
	Id      int
	Molname string
	Molid   int
	Symbol  string
	Mass    float64
}

//ID returns the spin identification string for the atom, ":molid@name".
func (A *Atom) ID() string {
	return fmt.Sprintf(":%d@%s", A.Molid, A.Name)
}

//Structure holds the atoms of a molecule and their coordinates, one set per model.
//It is read-only once built.
type Structure struct {
	Atoms  []*Atom
	Coords []*v3.Matrix
	index  map[string]int
}

//NewStructure reads all the records from src. Every model must contain the same atoms
//in the same order.
func NewStructure(src AtomSource) (*Structure, error) {
	S := &Structure{index: make(map[string]int)}
	type modelData struct {
		num  int
		vecs []r3.Vec
	}
	var models []*modelData
	for {
		rec, ok := src.Next()
		if !ok {
			break
		}
		if len(models) == 0 || models[len(models)-1].num != rec.Model {
			models = append(models, &modelData{num: rec.Model})
		}
		cur := models[len(models)-1]
		if len(models) == 1 {
			at := &Atom{Name: rec.Name, Id: len(S.Atoms), Molname: rec.Molname, Molid: rec.Molid, Symbol: rec.Symbol}
			at.Mass = Mass(rec.Symbol)
			S.Atoms = append(S.Atoms, at)
			S.index[at.ID()] = at.Id
		} else {
			i := len(cur.vecs)
			if i >= len(S.Atoms) || S.Atoms[i].Name != rec.Name || S.Atoms[i].Molid != rec.Molid {
				return nil, NewError(InvalidData, "NewStructure", "model %d does not match the atoms of the first model at atom %d", rec.Model, i)
			}
		}
		cur.vecs = append(cur.vecs, rec.Pos)
	}
	if len(S.Atoms) == 0 {
		return nil, NewError(MissingRequiredData, "NewStructure", "no atoms read")
	}
	for _, m := range models {
		if len(m.vecs) != len(S.Atoms) {
			return nil, NewError(InvalidData, "NewStructure", "model %d has %d atoms, %d expected", m.num, len(m.vecs), len(S.Atoms))
		}
		S.Coords = append(S.Coords, v3.FromVecs(m.vecs))
	}
	return S, nil
}

//Len returns the number of atoms in the structure
func (S *Structure) Len() int {
	return len(S.Atoms)
}

//NModels returns the number of structural models
func (S *Structure) NModels() int {
	return len(S.Coords)
}

//Index returns the index of the atom with the given ID (see Atom.ID), or -1.
func (S *Structure) Index(id string) int {
	i, ok := S.index[id]
	if !ok {
		return -1
	}
	return i
}

//Positions returns the position of the ith atom in every structural model.
func (S *Structure) Positions(i int) []r3.Vec {
	ret := make([]r3.Vec, 0, len(S.Coords))
	for _, c := range S.Coords {
		ret = append(ret, c.Vec(i))
	}
	return ret
}

//Select returns the indexes of the atoms for which sel returns true.
func (S *Structure) Select(sel func(*Atom) bool) []int {
	var ret []int
	for i, a := range S.Atoms {
		if sel(a) {
			ret = append(ret, i)
		}
	}
	return ret
}

//CenterOfMass returns the center of mass of the atoms with the given indexes
//(all atoms if indexes is nil) averaged over the structural models.
func (S *Structure) CenterOfMass(indexes []int) (r3.Vec, error) {
	if indexes == nil {
		indexes = make([]int, S.Len())
		for i := range indexes {
			indexes[i] = i
		}
	}
	if len(indexes) == 0 {
		return r3.Vec{}, NewError(DegenerateGeometry, "CenterOfMass", "empty atom selection")
	}
	masses := make([]float64, len(indexes))
	for i, v := range indexes {
		masses[i] = S.Atoms[v].Mass
	}
	sel := v3.Zeros(len(indexes))
	var com r3.Vec
	for _, c := range S.Coords {
		sel.SomeVecs(c, indexes)
		mc, err := sel.WeightedCenter(masses)
		if err != nil {
			return r3.Vec{}, NewError(DegenerateGeometry, "CenterOfMass", "%s", err.Error())
		}
		com = r3.Add(com, mc)
	}
	return r3.Scale(1/float64(len(S.Coords)), com), nil
}
