/*
 * simplex.go, part of frameorder.
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

package opt

import (
	"context"
	"fmt"
	"math"
	"strings"

	fo "github.com/rmera/frameorder"
	"gonum.org/v1/gonum/optimize"
)

//Rejected is the value given to the simplex for steps where the function is not
//finite, or the constraints are not satisfied.
const Rejected = 1e300

//Settings controls a local minimisation.
type Settings struct {
	FuncTol     float64 //absolute change in the function below which it is considered converged
	ConvIter    int     //major iterations over which FuncTol is checked
	MaxIter     int     //maximum major iterations per pass
	MaxEval     int     //maximum function evaluations per pass, 0 means no limit
	SimplexSize float64 //size of the initial simplex, in scaled units
	Barrier     bool    //use the logarithmic barrier for the constraints
	MuStart     float64 //initial barrier weight
	MuTol       float64 //final barrier weight
	MuFactor    float64 //reduction of the barrier weight per pass
	//Restarts is the maximum number of extra passes, each from a fresh simplex around
	//the last point, run while the function still improves by more than FuncTol.
	Restarts int
}

//DefaultSettings returns the default settings for Simplex.
func DefaultSettings() Settings {
	return Settings{
		FuncTol:     1e-12,
		ConvIter:    100,
		MaxIter:     5000,
		SimplexSize: 0.05,
		Barrier:     true,
		MuStart:     1e-5,
		MuTol:       1e-8,
		MuFactor:    0.1,
		Restarts:    3,
	}
}

//MinResult is the outcome of a local minimisation.
type MinResult struct {
	X           []float64
	F           float64 //the function, without barrier terms, at X
	Iterations  int
	Evaluations int
	Rejected    int //steps rejected as non-finite or infeasible
	Warning     string
}

//ctxConverger stops the optimisation when the context is done.
type ctxConverger struct {
	ctx   context.Context
	inner optimize.Converger
}

func (c *ctxConverger) Init(dim int) {
	c.inner.Init(dim)
}

func (c *ctxConverger) Converged(loc *optimize.Location) optimize.Status {
	if c.ctx.Err() != nil {
		return optimize.RuntimeLimit
	}
	return c.inner.Converged(loc)
}

//Simplex minimises f from x0 with the Nelder-Mead method. The constraints C, if not nil,
//are enforced by rejecting infeasible steps and, if the settings ask for it and x0 is
//strictly feasible, by a sequence of logarithmic barrier passes f - mu*sum(log(A.x-b)),
//with mu reduced by MuFactor each pass, until it is below MuTol.
//Numerical failures never stop the minimisation: the last valid point is returned with a warning.
func Simplex(ctx context.Context, f Func, x0 []float64, C *Constraints, set Settings) (*MinResult, error) {
	var warnings []string
	res := &MinResult{X: append([]float64(nil), x0...)}
	slack := make([]float64, C.Len())
	feasible := func(x []float64, strict bool) bool {
		if C.Len() == 0 {
			return true
		}
		C.Slack(slack, x)
		for _, v := range slack {
			if v < 0 || (strict && v == 0) {
				return false
			}
		}
		return true
	}
	mus := []float64{0}
	if set.Barrier && C.Len() > 0 {
		if feasible(x0, true) {
			mus = mus[:0]
			for mu := set.MuStart; mu >= set.MuTol; mu *= set.MuFactor {
				mus = append(mus, mu)
				if set.MuFactor <= 0 || set.MuFactor >= 1 {
					break
				}
			}
			if len(mus) == 0 {
				mus = append(mus, 0)
			}
		} else {
			warnings = append(warnings, "start not strictly feasible, log barrier skipped")
		}
	}
	pass := func(mu float64) {
		obj := func(x []float64) float64 {
			if !feasible(x, mu > 0) {
				res.Rejected++
				return Rejected
			}
			v := f(x)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				res.Rejected++
				return Rejected
			}
			for _, s := range slack[:C.Len()] {
				if mu > 0 {
					v -= mu * math.Log(s)
				}
			}
			return v
		}
		nm := &optimize.NelderMead{SimplexSize: set.SimplexSize}
		osettings := &optimize.Settings{
			MajorIterations: set.MaxIter,
			FuncEvaluations: set.MaxEval,
			Converger: &ctxConverger{ctx: ctx, inner: &optimize.FunctionConverge{
				Absolute:   set.FuncTol,
				Iterations: set.ConvIter,
			}},
		}
		r, err := optimize.Minimize(optimize.Problem{Func: obj}, res.X, osettings, nm)
		if ctx.Err() != nil {
			return
		}
		if r != nil {
			res.Iterations += r.Stats.MajorIterations
			res.Evaluations += r.Stats.FuncEvaluations
			if r.Location.F < Rejected {
				copy(res.X, r.Location.X)
			}
			switch r.Status {
			case optimize.IterationLimit:
				warnings = append(warnings, "maximum number of iterations reached")
			case optimize.FunctionEvaluationLimit:
				warnings = append(warnings, "maximum number of function evaluations reached")
			}
		}
		if err != nil {
			warnings = append(warnings, err.Error())
		}
	}
	for _, mu := range mus {
		if pass(mu); ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	//Nelder-Mead can stall on a collapsed simplex, so it is restarted from the last
	//point, with the last barrier weight, until the function stops improving.
	prev := f(res.X)
	for i := 0; i < set.Restarts; i++ {
		if pass(mus[len(mus)-1]); ctx.Err() != nil {
			return nil, ctx.Err()
		}
		cur := f(res.X)
		if !(cur < prev-set.FuncTol) {
			break
		}
		prev = cur
	}
	res.F = f(res.X)
	if res.Rejected > 0 {
		warnings = append(warnings, fmt.Sprintf("%d steps rejected as non-finite or infeasible", res.Rejected))
	}
	if math.IsNaN(res.F) || math.IsInf(res.F, 0) {
		return res, fo.NewError(fo.NumericalFailure, "opt.Simplex", "the function is not finite at the final point %v", res.X)
	}
	res.Warning = strings.Join(dedup(warnings), "; ")
	return res, nil
}

func dedup(s []string) []string {
	var ret []string
	seen := make(map[string]bool)
	for _, v := range s {
		if !seen[v] {
			seen[v] = true
			ret = append(ret, v)
		}
	}
	return ret
}
