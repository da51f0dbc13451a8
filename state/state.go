/*
 * state.go, part of frameorder.
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

//Package state saves and restores the results of frame order analyses. A state holds
//named pipes, each with the file of its dataset, the results of every model analysed,
//and the selected model. States are written as JSON, compressed with z-standard by
//default, or with gzip, or not compressed, depending on the file extension.
package state

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	fo "github.com/rmera/frameorder"
	"github.com/rmera/frameorder/analysis"
)

//Version of the state format
const Version = 1

//Pipe is the saved form of one analysis.
type Pipe struct {
	DataFile string                       `json:"data_file,omitempty"`
	Models   map[string]*analysis.Results `json:"models"`
	Selected string                       `json:"selected,omitempty"`
}

//State is a set of named pipes.
type State struct {
	Version int              `json:"version"`
	Pipes   map[string]*Pipe `json:"pipes"`
}

//New returns an empty state.
func New() *State {
	return &State{Version: Version, Pipes: make(map[string]*Pipe)}
}

//Add stores the results R in the named pipe, under the name of their model,
//replacing previous results for the same model. The pipe is created if needed.
func (S *State) Add(pipe, dataFile string, R *analysis.Results) {
	P, ok := S.Pipes[pipe]
	if !ok {
		P = &Pipe{Models: make(map[string]*analysis.Results)}
		S.Pipes[pipe] = P
	}
	if dataFile != "" {
		P.DataFile = dataFile
	}
	P.Models[R.Model.String()] = R
}

//Select marks model as the selected one in the pipe.
func (S *State) Select(pipe, model string) error {
	P, ok := S.Pipes[pipe]
	if !ok {
		return fo.NewError(fo.MissingRequiredData, "state.Select", "no pipe %q", pipe)
	}
	if _, ok := P.Models[model]; !ok {
		return fo.NewError(fo.ModelNotSelected, "state.Select", "no results for the model %s in the pipe %q", model, pipe)
	}
	P.Selected = model
	return nil
}

//PipeNames returns the names of the pipes, sorted.
func (S *State) PipeNames() []string {
	ret := make([]string, 0, len(S.Pipes))
	for k := range S.Pipes {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}

//Results returns the stored results of the model in the pipe, or nil.
func (S *State) Results(pipe, model string) *analysis.Results {
	P, ok := S.Pipes[pipe]
	if !ok {
		return nil
	}
	return P.Models[model]
}

//format returns the compression used for the file name: "zst", "gz" or "json".
func format(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".gz":
		return "gz"
	case ".json":
		return "json"
	}
	return "zst"
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

//Write encodes the state into w, compressed according to format ("zst", "gz" or "json").
func (S *State) Write(w io.Writer, format string) error {
	var h io.WriteCloser
	var err error
	switch format {
	case "json":
		h = nopCloser{w}
	case "gz":
		h, err = gzip.NewWriterLevel(w, gzip.BestCompression)
	case "zst", "":
		h, err = zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	default:
		return fo.NewError(fo.UnsupportedAlgorithm, "state.Write", "unknown format %q", format)
	}
	if err != nil {
		return fo.NewError(fo.InvalidData, "state.Write", "%s", err.Error())
	}
	enc := json.NewEncoder(h)
	enc.SetIndent("", " ")
	if err := enc.Encode(S); err != nil {
		h.Close()
		return fo.NewError(fo.InvalidData, "state.Write", "%s", err.Error())
	}
	if err := h.Close(); err != nil {
		return fo.NewError(fo.InvalidData, "state.Write", "%s", err.Error())
	}
	return nil
}

//Read decodes a state from r, compressed according to format.
func Read(r io.Reader, format string) (*State, error) {
	var h io.Reader
	switch format {
	case "json":
		h = r
	case "gz":
		g, err := gzip.NewReader(r)
		if err != nil {
			return nil, fo.NewError(fo.InvalidData, "state.Read", "%s", err.Error())
		}
		defer g.Close()
		h = g
	case "zst", "":
		z, err := zstd.NewReader(r)
		if err != nil {
			return nil, fo.NewError(fo.InvalidData, "state.Read", "%s", err.Error())
		}
		defer z.Close()
		h = z
	default:
		return nil, fo.NewError(fo.UnsupportedAlgorithm, "state.Read", "unknown format %q", format)
	}
	S := new(State)
	if err := json.NewDecoder(h).Decode(S); err != nil {
		return nil, fo.NewError(fo.InvalidData, "state.Read", "%s", err.Error())
	}
	if S.Version > Version {
		return nil, fo.NewError(fo.InvalidData, "state.Read", "state version %d is newer than %d", S.Version, Version)
	}
	if S.Pipes == nil {
		S.Pipes = make(map[string]*Pipe)
	}
	return S, nil
}

//Save writes the state to the file name. The extension .gz gives gzip compression,
//.json no compression, and anything else z-standard.
func (S *State) Save(name string) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := S.Write(f, format(name)); err != nil {
		f.Close()
		return fo.ErrDecorate(err, "state.Save")
	}
	return f.Close()
}

//Load reads the state from the file name, see Save.
func Load(name string) (*State, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	S, err := Read(f, format(name))
	if err != nil {
		return nil, fo.ErrDecorate(err, "state.Load")
	}
	return S, nil
}
