/*
 * dataset_json.go, part of frameorder.
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
	"encoding/json"
	"io"
	"math"
)

//Series is one value per alignment medium. In JSON, missing values (NaN) are null.
type Series []float64

func (S Series) MarshalJSON() ([]byte, error) {
	if S == nil {
		return []byte("null"), nil
	}
	p := make([]*float64, len(S))
	for i := range S {
		if !math.IsNaN(S[i]) && !math.IsInf(S[i], 0) {
			p[i] = &S[i]
		}
	}
	return json.Marshal(p)
}

func (S *Series) UnmarshalJSON(b []byte) error {
	var p []*float64
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	if p == nil {
		*S = nil
		return nil
	}
	*S = make(Series, len(p))
	for i, v := range p {
		(*S)[i] = math.NaN()
		if v != nil {
			(*S)[i] = *v
		}
	}
	return nil
}

//ReadDataset decodes a JSON dataset from r. Unknown fields are an error.
func ReadDataset(r io.Reader) (*Dataset, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	ds := new(Dataset)
	if err := dec.Decode(ds); err != nil {
		return nil, NewError(InvalidData, "ReadDataset", "%s", err.Error())
	}
	return ds, nil
}

//WriteDataset encodes ds as indented JSON into w.
func WriteDataset(w io.Writer, ds *Dataset) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ds); err != nil {
		return NewError(InvalidData, "WriteDataset", "%s", err.Error())
	}
	return nil
}
