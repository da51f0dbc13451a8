/*
 * interfaces.go, part of frameorder.
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

package frameorder

import "gonum.org/v1/gonum/spatial/r3"

// Error is the interface for errors that all packages in this library implement. The Decorate method allows to add and retrieve info from the
// error, without changing it's type or wrapping it around something else.
type Error interface {
	Error() string
	Decorate(string) []string //It allows you to add information when you pass the error up. Each call also returns the "decoration" slice of strings resulting from the current call. If passed an empty string, it just returns the current value.
}

//AtomRecord is one atom, in one structural model, as delivered by a structure reader.
type AtomRecord struct {
	Model   int
	Molname string
	Molid   int //residue number
	Name    string
	Symbol  string
	Pos     r3.Vec
}

//AtomSource is implemented by the structure readers (PDB, XYZ...) that feed the library.
//Next returns the following record and true, or false when the source is exhausted.
//Records for each model must come in the same atom order.
type AtomSource interface {
	Next() (AtomRecord, bool)
}

//Records is a slice of AtomRecord that implements AtomSource.
type Records struct {
	recs []AtomRecord
	pos  int
}

//NewRecords returns an AtomSource that yields the given records in order.
func NewRecords(recs []AtomRecord) *Records {
	return &Records{recs: recs}
}

func (R *Records) Next() (AtomRecord, bool) {
	if R.pos >= len(R.recs) {
		return AtomRecord{}, false
	}
	R.pos++
	return R.recs[R.pos-1], true
}
