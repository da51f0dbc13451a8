/*
 * optimise.go, part of frameorder.
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
	"context"
	"math"
	"strings"

	fo "github.com/rmera/frameorder"
	"github.com/rmera/frameorder/model"
	"github.com/rmera/frameorder/opt"
	"github.com/rmera/frameorder/target"
	"go.uber.org/zap"
)

//Calculate evaluates the target function once at the current parameters and stores the
//back-calculated data. A non-finite chi2 gives a NumericalFailure error. Parameters
//outside their valid ranges give a ParameterOutOfRange error, but the results are still
//stored, and the model is flagged for elimination.
func (P *Pipe) Calculate(ctx context.Context) (*Fit, error) {
	F, err := P.check("Calculate")
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	chi2 := F.Chi2(P.scaled(F))
	P.m.evals.WithLabelValues("calculate").Inc()
	if math.IsNaN(chi2) || math.IsInf(chi2, 0) {
		return nil, fo.NewError(fo.NumericalFailure, "analysis.Calculate", "chi2 = %g at %v", chi2, P.spec.Pack(&P.values))
	}
	st, err := P.sobolStats()
	if err != nil {
		return nil, errDecorate(err, "Calculate")
	}
	P.fit = &Fit{Chi2: chi2, Evaluations: 1, BackCalc: F.BackCalc(), Sobol: st}
	P.log.Info("calculation", zap.Stringer("model", P.spec), zap.Float64("chi2", chi2))
	if reasons := P.spec.Eliminate(&P.values); len(reasons) > 0 {
		P.eliminated = reasons
		return P.fit, fo.NewError(fo.ParameterOutOfRange, "analysis.Calculate", "%s", strings.Join(reasons, "; "))
	}
	return P.fit, nil
}

//GridSpec defines a grid search. The three slices follow the parameter list of the model.
//A nil Lower or Upper takes the default bounds of each parameter. An increment count of
//0 keeps the parameter fixed at its current value, 1 puts it at the lower bound.
//A Zoom level z > 0 shrinks the default bounds of each parameter to a window 2^z times
//narrower, centred on the current value and shifted, if needed, to stay within the bounds.
type GridSpec struct {
	Lower []float64
	Upper []float64
	Inc   []int
	Zoom  int
}

//UniformGrid returns a grid with the same increment count for every parameter of spec,
//and the default bounds.
func UniformGrid(spec model.Spec, inc int) GridSpec {
	g := GridSpec{Inc: make([]int, spec.Len())}
	for i := range g.Inc {
		g.Inc[i] = inc
	}
	return g
}

//rows returns the grid rows for G, in scaled units.
func (P *Pipe) rows(G GridSpec, scaling []float64) ([]opt.Row, error) {
	params := P.spec.Params()
	n := len(params)
	if len(G.Inc) != n || (G.Lower != nil && len(G.Lower) != n) || (G.Upper != nil && len(G.Upper) != n) {
		return nil, fo.NewError(fo.InvalidData, "analysis.GridSearch", "the grid must have %d values per row, for %v", n, params)
	}
	rows := make([]opt.Row, n)
	for i, name := range params {
		cur, _ := P.values.Get(name)
		if G.Inc[i] <= 0 {
			rows[i] = opt.Row{Lo: cur / scaling[i], Hi: cur / scaling[i], Inc: 1}
			continue
		}
		lo, hi := model.Bounds(name)
		if G.Zoom > 0 {
			lo, hi = zoom(lo, hi, cur, G.Zoom)
		}
		if G.Lower != nil {
			lo = G.Lower[i]
		}
		if G.Upper != nil {
			hi = G.Upper[i]
		}
		if hi < lo {
			return nil, fo.NewError(fo.ParameterOutOfRange, "analysis.GridSearch", "the upper bound of %s, %g, is below its lower bound %g", name, hi, lo)
		}
		rows[i] = opt.Row{Lo: lo / scaling[i], Hi: hi / scaling[i], Inc: G.Inc[i], Acos: model.AcosSpaced(name)}
	}
	return rows, nil
}

//zoom returns the window of [lo, hi] 2^level times narrower, centred on cur
func zoom(lo, hi, cur float64, level int) (float64, float64) {
	w := (hi - lo) / math.Pow(2, float64(level))
	zlo, zhi := cur-w/2, cur+w/2
	if zlo < lo {
		zlo, zhi = lo, lo+w
	}
	if zhi > hi {
		zlo, zhi = hi-w, hi
	}
	return zlo, zhi
}

//GridSearch evaluates the target function on a grid and stores the parameters of the
//lowest chi2 node. Nodes violating the linear constraints are skipped when the
//constraints are enabled in the options.
func (P *Pipe) GridSearch(ctx context.Context, G GridSpec) (*Fit, error) {
	F, err := P.check("GridSearch")
	if err != nil {
		return nil, err
	}
	scaling := F.Scaling()
	rows, err := P.rows(G, scaling)
	if err != nil {
		return nil, err
	}
	grid, err := opt.NewGrid(rows, P.O.MaxGridNodes())
	if err != nil {
		return nil, errDecorate(err, "GridSearch")
	}
	var C *opt.Constraints
	if P.O.Constraints() {
		C = P.spec.Constraints().Scaled(scaling)
	}
	base := P.values
	P.log.Info("grid search", zap.Stringer("model", P.spec), zap.Int("nodes", grid.Size()))
	newFunc := func() opt.Func {
		f, err := P.newFunc(P.data, base)
		if err != nil {
			//already built once by check
			panic(err)
		}
		return f.Chi2
	}
	set := opt.GridSettings{
		Seed:         P.O.Seed(),
		Subdivisions: P.O.Subdivisions(),
		Cpus:         P.O.Cpus(),
		Report: func(sub, nsub int, best float64) {
			P.log.Debug("grid subdivision", zap.Int("subdivision", sub), zap.Int("of", nsub), zap.Float64("chi2", best))
		},
	}
	res, err := opt.GridSearch(ctx, grid, C, newFunc, set)
	if err != nil {
		return nil, errDecorate(err, "GridSearch")
	}
	P.m.evals.WithLabelValues("grid").Add(float64(res.Evaluated))
	if math.IsInf(res.F, 1) {
		return nil, fo.NewError(fo.NumericalFailure, "analysis.GridSearch", "no grid node gave a finite chi2")
	}
	P.store(F, res.X)
	F.Chi2(res.X)
	st, err := P.sobolStats()
	if err != nil {
		return nil, errDecorate(err, "GridSearch")
	}
	P.fit = &Fit{Chi2: res.F, Evaluations: res.Evaluated, BackCalc: F.BackCalc(), Sobol: st}
	P.sims, P.mcErrors, P.eliminated = nil, nil, nil
	P.log.Info("grid search done", zap.Float64("chi2", res.F), zap.Int("evaluated", res.Evaluated))
	return P.fit, nil
}

//Algorithms lists the minimisation algorithms accepted by Minimise.
var Algorithms = []string{"simplex", "log-barrier"}

//settings returns the simplex settings for the algorithm.
func (P *Pipe) settings(caller, algorithm string) (opt.Settings, error) {
	set := P.O.Simplex()
	switch strings.ToLower(algorithm) {
	case "simplex", "nelder-mead":
	case "log-barrier", "simplex log-barrier":
		set.Barrier = true
	default:
		return set, fo.NewError(fo.UnsupportedAlgorithm, caller, "the algorithm %q is not supported, use one of %v", algorithm, Algorithms)
	}
	return set, nil
}

//Minimise optimises the parameters from their current values and stores the result.
//Only the Nelder-Mead simplex is supported, with the linear constraints enforced by a
//logarithmic barrier when the options enable them. Steps where the chi2 is not finite
//are rejected, and reported in the warning of the returned Fit.
func (P *Pipe) Minimise(ctx context.Context, algorithm string) (*Fit, error) {
	set, err := P.settings("analysis.Minimise", algorithm)
	if err != nil {
		return nil, err
	}
	F, err := P.check("Minimise")
	if err != nil {
		return nil, err
	}
	res, err := P.minimise(ctx, F, P.scaled(F), set)
	P.m.evals.WithLabelValues("minimise").Add(float64(F.Evaluations()))
	if err != nil {
		return nil, errDecorate(err, "Minimise")
	}
	P.store(F, res.X)
	F.Chi2(res.X)
	st, err := P.sobolStats()
	if err != nil {
		return nil, errDecorate(err, "Minimise")
	}
	P.fit = &Fit{
		Chi2:        res.F,
		Iterations:  res.Iterations,
		Evaluations: res.Evaluations,
		Warning:     res.Warning,
		BackCalc:    F.BackCalc(),
		Sobol:       st,
	}
	P.sims, P.mcErrors, P.eliminated = nil, nil, nil
	if res.Warning != "" {
		P.log.Warn("minimisation", zap.String("warning", res.Warning))
	}
	P.log.Info("minimisation done", zap.Stringer("model", P.spec), zap.Float64("chi2", res.F),
		zap.Int("iterations", res.Iterations), zap.Int("evaluations", res.Evaluations))
	return P.fit, nil
}

//minimise runs the simplex on F from the scaled vector x0.
func (P *Pipe) minimise(ctx context.Context, F *target.Func, x0 []float64, set opt.Settings) (*opt.MinResult, error) {
	var C *opt.Constraints
	if P.O.Constraints() {
		C = P.spec.Constraints().Scaled(F.Scaling())
	} else {
		set.Barrier = false
	}
	return opt.Simplex(ctx, F.Chi2, x0, C, set)
}
