/*
 * config.go, part of frameorder.
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

//Package config reads the settings of a batch frame order analysis from a YAML file,
//with command line flags taking precedence, and converts them into analysis options.
package config

import (
	"flag"
	"os"
	"runtime"
	"strings"

	fo "github.com/rmera/frameorder"
	"github.com/rmera/frameorder/analysis"
	"github.com/rmera/frameorder/model"
	"github.com/rmera/frameorder/modsel"
	"gopkg.in/yaml.v3"
)

//Config contains the settings of a batch analysis.
type Config struct {
	Data      string `yaml:"data"`      //JSON dataset
	Structure string `yaml:"structure"` //optional PDB file for the spin and domain positions
	State     string `yaml:"state"`     //output state file
	Pipe      string `yaml:"pipe"`
	Plots     string `yaml:"plots"` //directory for the plots, none if empty

	Models   []string `yaml:"models"`
	PivotOpt bool     `yaml:"pivot_opt"`
	//GridInc is the number of grid increments for the parameters not listed in Grid.
	//Parameters with 0 increments keep their starting value.
	GridInc   int            `yaml:"grid_inc"`
	Grid      map[string]int `yaml:"grid"`
	//GridZoom is the number of zoomed grid searches after the first one, each around
	//the best node of the previous, with a window half as wide.
	GridZoom  int            `yaml:"grid_zoom"`
	Algorithm string         `yaml:"algorithm"`
	MCSims    int            `yaml:"mc_sims"`
	Criterion string         `yaml:"criterion"`

	SobolPoints  int     `yaml:"sobol_points"`
	Workers      int     `yaml:"workers"`
	Seed         uint64  `yaml:"seed"`
	Noise        float64 `yaml:"noise"`
	Constraints  *bool   `yaml:"constraints"`
	Subdivisions int     `yaml:"subdivisions"`
	MaxGridNodes float64 `yaml:"max_grid_nodes"`
	MaxIter      int     `yaml:"max_iter"`
	FuncTol      float64 `yaml:"func_tol"`

	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`
}

//Read reads the YAML file path, applies the flags in args, and sets the defaults for
//the values not given. An empty path gives a configuration from the flags alone.
func Read(path string, args []string) (*Config, error) {
	C := new(Config)
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, C); err != nil {
			return nil, fo.NewError(fo.InvalidData, "config.Read", "%s: %s", path, err.Error())
		}
	}
	if err := C.applyFlags(args); err != nil {
		return nil, err
	}
	C.setDefaults()
	if err := C.check(); err != nil {
		return nil, err
	}
	return C, nil
}

func (C *Config) applyFlags(args []string) error {
	fs := flag.NewFlagSet("frameorder", flag.ContinueOnError)
	data := fs.String("data", C.Data, "JSON dataset")
	structure := fs.String("structure", C.Structure, "PDB structure")
	state := fs.String("state", C.State, "output state file (.zst, .gz or .json)")
	plots := fs.String("plots", C.Plots, "directory for the plots")
	models := fs.String("models", strings.Join(C.Models, ";"), "models to analyse, separated by ';'")
	pivotOpt := fs.Bool("pivot-opt", C.PivotOpt, "optimise the pivot")
	gridInc := fs.Int("grid-inc", C.GridInc, "grid increments per parameter")
	gridZoom := fs.Int("grid-zoom", C.GridZoom, "zoomed grid searches after the first")
	algorithm := fs.String("algorithm", C.Algorithm, "minimisation algorithm")
	mcSims := fs.Int("mc", C.MCSims, "number of Monte Carlo simulations")
	criterion := fs.String("criterion", C.Criterion, "model selection criterion")
	sobol := fs.Int("sobol", C.SobolPoints, "number of Sobol integration points")
	workers := fs.Int("workers", C.Workers, "number of workers")
	seed := fs.Uint64("seed", C.Seed, "random seed")
	logLevel := fs.String("log-level", C.LogLevel, "log level")
	if err := fs.Parse(args); err != nil {
		return fo.NewError(fo.InvalidData, "config.Read", "%s", err.Error())
	}
	C.Data = *data
	C.Structure = *structure
	C.State = *state
	C.Plots = *plots
	C.Models = nil
	for _, m := range strings.Split(*models, ";") {
		if m = strings.TrimSpace(m); m != "" {
			C.Models = append(C.Models, m)
		}
	}
	C.PivotOpt = *pivotOpt
	C.GridInc = *gridInc
	C.GridZoom = *gridZoom
	C.Algorithm = *algorithm
	C.MCSims = *mcSims
	C.Criterion = *criterion
	C.SobolPoints = *sobol
	C.Workers = *workers
	C.Seed = *seed
	C.LogLevel = *logLevel
	return nil
}

func (C *Config) setDefaults() {
	O := analysis.DefaultOptions()
	if C.Pipe == "" {
		C.Pipe = "frame order"
	}
	if C.State == "" {
		C.State = "frameorder.zst"
	}
	if len(C.Models) == 0 {
		for _, t := range model.Tags {
			C.Models = append(C.Models, t.String())
		}
	}
	if C.GridInc == 0 {
		C.GridInc = 11
	}
	if C.Algorithm == "" {
		C.Algorithm = "simplex"
	}
	if C.Criterion == "" {
		C.Criterion = "AIC"
	}
	if C.SobolPoints == 0 {
		C.SobolPoints = O.SobolPoints()
	}
	if C.Workers == 0 {
		C.Workers = max(1, runtime.NumCPU()-1)
	}
	if C.Seed == 0 {
		C.Seed = O.Seed()
	}
	if C.Noise == 0 {
		C.Noise = O.Noise()
	}
	if C.Constraints == nil {
		c := O.Constraints()
		C.Constraints = &c
	}
	if C.Subdivisions == 0 {
		C.Subdivisions = O.Subdivisions()
	}
	if C.MaxGridNodes == 0 {
		C.MaxGridNodes = O.MaxGridNodes()
	}
	if C.MaxIter == 0 {
		C.MaxIter = O.Simplex().MaxIter
	}
	if C.FuncTol == 0 {
		C.FuncTol = O.Simplex().FuncTol
	}
	if C.LogLevel == "" {
		C.LogLevel = "info"
	}
}

//check validates the names in the configuration.
func (C *Config) check() error {
	if _, err := C.Tags(); err != nil {
		return fo.ErrDecorate(err, "config.Read")
	}
	if _, err := modsel.Criterion(C.Criterion); err != nil {
		return fo.ErrDecorate(err, "config.Read")
	}
	var V model.Values
	for name := range C.Grid {
		if _, err := V.Get(name); err != nil {
			return fo.ErrDecorate(err, "config.Read")
		}
	}
	if C.MCSims < 0 {
		return fo.NewError(fo.InvalidData, "config.Read", "%d Monte Carlo simulations requested", C.MCSims)
	}
	if C.GridZoom < 0 {
		return fo.NewError(fo.InvalidData, "config.Read", "grid zoom level %d", C.GridZoom)
	}
	return nil
}

//Tags returns the models of the configuration.
func (C *Config) Tags() ([]model.Tag, error) {
	ret := make([]model.Tag, 0, len(C.Models))
	for _, m := range C.Models {
		t, err := model.ParseTag(m)
		if err != nil {
			return nil, err
		}
		ret = append(ret, t)
	}
	return ret, nil
}

//Options returns the analysis options for the configuration.
func (C *Config) Options() *analysis.Options {
	O := analysis.DefaultOptions()
	O.Cpus(C.Workers)
	O.SobolPoints(C.SobolPoints)
	O.Seed(C.Seed)
	O.Noise(C.Noise)
	O.Constraints(*C.Constraints)
	O.Subdivisions(C.Subdivisions)
	O.MaxGridNodes(C.MaxGridNodes)
	set := O.Simplex()
	set.MaxIter = C.MaxIter
	set.FuncTol = C.FuncTol
	O.Simplex(set)
	return O
}

//GridSpec returns the grid for the model spec.
func (C *Config) GridSpec(spec model.Spec) analysis.GridSpec {
	G := analysis.UniformGrid(spec, C.GridInc)
	for i, name := range spec.Params() {
		if inc, ok := C.Grid[name]; ok {
			G.Inc[i] = inc
		}
	}
	return G
}

//ConfigPath extracts the -config (or --config) flag, in either the "-config file" or
//"-config=file" form, from args. It returns the file and the remaining arguments.
func ConfigPath(args []string) (string, []string) {
	var path string
	rest := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		a := args[i]
		name := strings.TrimLeft(a, "-")
		switch {
		case a == name:
			rest = append(rest, a)
		case name == "config" && i+1 < len(args):
			path = args[i+1]
			i++
		case strings.HasPrefix(name, "config="):
			path = strings.TrimPrefix(name, "config=")
		default:
			rest = append(rest, a)
		}
	}
	return path, rest
}
