/*
 * pdb.go, part of frameorder.
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
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"
)

//PDBReader is an AtomSource reading the ATOM and HETATM records of a PDB file.
//Every MODEL gives one structural model.
type PDBReader struct {
	r     *bufio.Reader
	model int
	line  int
	err   error
}

//NewPDBReader returns a reader for the PDB data in r.
func NewPDBReader(r io.Reader) *PDBReader {
	return &PDBReader{r: bufio.NewReader(r), model: 1}
}

//Err returns the error that stopped the reading, if any.
func (P *PDBReader) Err() error {
	return P.err
}

//Next returns the following atom record. It returns false at the end of the data
//or on error, see Err.
func (P *PDBReader) Next() (AtomRecord, bool) {
	if P.err != nil {
		return AtomRecord{}, false
	}
	for {
		line, err := P.r.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			if err != io.EOF {
				P.err = NewError(InvalidData, "PDBReader.Next", "line %d: %s", P.line, err.Error())
			}
			return AtomRecord{}, false
		}
		P.line++
		switch {
		case strings.HasPrefix(line, "MODEL"):
			if n, err := strconv.Atoi(strings.TrimSpace(line[5:])); err == nil {
				P.model = n
			}
		case strings.HasPrefix(line, "ATOM") || strings.HasPrefix(line, "HETATM"):
			rec, err := pdbLine(line)
			if err != nil {
				P.err = NewError(InvalidData, "PDBReader.Next", "line %d: %s", P.line, err.Error())
				return AtomRecord{}, false
			}
			rec.Model = P.model
			return rec, true
		}
		if err == io.EOF {
			return AtomRecord{}, false
		}
	}
}

//pdbLine parses a valid ATOM or HETATM line.
func pdbLine(line string) (AtomRecord, error) {
	var rec AtomRecord
	line = strings.TrimRight(line, "\r\n")
	if len(line) < 54 {
		return rec, NewError(InvalidData, "pdbLine", "truncated record %q", line)
	}
	errs := make([]error, 4)
	rec.Name = strings.TrimSpace(line[12:16])
	//PDB says that pos. 17 is for other thing but I see that is
	//used for residue name in many cases
	rec.Molname = strings.TrimSpace(line[17:20])
	rec.Molid, errs[0] = strconv.Atoi(strings.TrimSpace(line[22:26]))
	rec.Pos.X, errs[1] = strconv.ParseFloat(strings.TrimSpace(line[30:38]), 64)
	rec.Pos.Y, errs[2] = strconv.ParseFloat(strings.TrimSpace(line[38:46]), 64)
	rec.Pos.Z, errs[3] = strconv.ParseFloat(strings.TrimSpace(line[46:54]), 64)
	for _, e := range errs {
		if e != nil {
			return rec, e
		}
	}
	if len(line) >= 78 {
		rec.Symbol = strings.TrimSpace(line[76:78])
		if len(rec.Symbol) == 2 {
			rec.Symbol = rec.Symbol[:1] + strings.ToLower(rec.Symbol[1:])
		}
	}
	if rec.Symbol == "" {
		rec.Symbol = symbolFromName(rec.Name)
	}
	return rec, nil
}

//symbolFromName tries to guess a chemical element symbol from a PDB atom name. Mostly based on AMBER names.
//It only deals with some common bio-elements, and the lanthanides used as paramagnetic tags.
//It returns the empty string if it can't guess.
func symbolFromName(name string) string {
	if name == "" {
		return ""
	}
	switch strings.ToUpper(name) {
	//CA, CE and HO are protein atom names, not calcium, cerium or holmium.
	case "CU", "CO", "CL", "NA", "SE", "ZN", "MG", "MN", "FE",
		"DY", "TB", "TM", "ER", "YB", "GD", "LA", "LU", "EU":
		if _, ok := symbolMass[name[:1]+strings.ToLower(name[1:])]; ok {
			return name[:1] + strings.ToLower(name[1:])
		}
	}
	//I thiiink only Hs can have 4-char names in amber.
	if len(name) == 4 || name[0] == 'H' {
		return "H"
	}
	switch name[0] {
	case 'C', 'N', 'O', 'P', 'S':
		return name[:1]
	}
	return ""
}

//ReadPDB reads the structure in the PDB file name.
func ReadPDB(name string) (*Structure, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	P := NewPDBReader(f)
	st, err := NewStructure(P)
	if P.Err() != nil {
		return nil, ErrDecorate(P.Err(), "ReadPDB")
	}
	if err != nil {
		return nil, ErrDecorate(err, "ReadPDB")
	}
	return st, nil
}

var _ AtomSource = (*PDBReader)(nil)
