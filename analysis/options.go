/*
 * options.go, part of frameorder.
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

package analysis

import (
	"runtime"

	"github.com/rmera/frameorder/opt"
)

//Options contains the settings of the optimisation driver.
type Options struct {
	cpus         int
	sobolPoints  int
	seed         uint64
	maxGridNodes float64
	subdivisions int
	constraints  bool
	noise        float64 //scale of the Monte Carlo noise, relative to the data errors
	simplex      opt.Settings
}

//DefaultOptions returns reasonable options: all the logical CPUs, 200000 Sobol' points,
//the log-barrier simplex and unit-scaled Monte Carlo noise.
func DefaultOptions() *Options {
	r := new(Options)
	r.cpus = runtime.NumCPU()
	r.sobolPoints = 200000
	r.seed = 1
	r.maxGridNodes = opt.MaxGridNodes
	r.constraints = true
	r.noise = 1
	r.simplex = opt.DefaultSettings()
	return r
}

//Returns the number of gorutines to be used,
//and sets it to a new value, if given.
func (O *Options) Cpus(n ...int) int {
	if len(n) > 0 && n[0] > 0 {
		O.cpus = n[0]
	}
	return O.cpus
}

//Returns the number of Sobol' points used in the PCS integration,
//and sets it to a new value, if given.
func (O *Options) SobolPoints(n ...int) int {
	if len(n) > 0 && n[0] > 0 {
		O.sobolPoints = n[0]
	}
	return O.sobolPoints
}

//Returns the seed for the grid shuffling and the Monte Carlo noise,
//and sets it to a new value, if given.
func (O *Options) Seed(s ...uint64) uint64 {
	if len(s) > 0 {
		O.seed = s[0]
	}
	return O.seed
}

//Returns the largest grid allowed, and sets it to a new value, if given.
func (O *Options) MaxGridNodes(n ...float64) float64 {
	if len(n) > 0 && n[0] > 0 {
		O.maxGridNodes = n[0]
	}
	return O.maxGridNodes
}

//Returns the number of subdivisions of a grid, 0 meaning four per CPU,
//and sets it to a new value, if given.
func (O *Options) Subdivisions(n ...int) int {
	if len(n) > 0 && n[0] >= 0 {
		O.subdivisions = n[0]
	}
	return O.subdivisions
}

//Returns whether the linear constraints are used in grid searches and
//minimisations, and sets it to a new value, if given.
func (O *Options) Constraints(c ...bool) bool {
	if len(c) > 0 {
		O.constraints = c[0]
	}
	return O.constraints
}

//Returns the factor multiplying the data errors to obtain the standard deviation of the
//Monte Carlo noise, and sets it to a new value, if given. 0 gives noise-free simulations.
func (O *Options) Noise(f ...float64) float64 {
	if len(f) > 0 && f[0] >= 0 {
		O.noise = f[0]
	}
	return O.noise
}

//Returns the settings of the simplex minimiser, and sets them to new values, if given.
func (O *Options) Simplex(s ...opt.Settings) opt.Settings {
	if len(s) > 0 {
		O.simplex = s[0]
	}
	return O.simplex
}
