/*
 * montecarlo.go, part of frameorder.
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

	fo "github.com/rmera/frameorder"
	"github.com/rmera/frameorder/model"
	"go.uber.org/zap"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

//Sim is one Monte Carlo simulation.
type Sim struct {
	Index       int          `json:"index"`
	Values      model.Values `json:"values"`
	Chi2        float64      `json:"chi2"`
	Iterations  int          `json:"iterations"`
	Evaluations int          `json:"evaluations"`
	Warning     string       `json:"warning,omitempty"`
	//Failed simulations are kept, but excluded from the error estimates.
	Failed     bool     `json:"failed,omitempty"`
	Err        string   `json:"err,omitempty"`
	Eliminated []string `json:"eliminated,omitempty"`
}

//Used returns true if the simulation takes part in the error estimates.
func (S *Sim) Used() bool {
	return !S.Failed && len(S.Eliminated) == 0
}

//noisy returns a copy of obs with Gaussian noise of standard deviation scale*err added
//to each datum not missing.
func noisy(obs, err [][]float64, missing [][]bool, scale float64, src rand.Source) [][]float64 {
	N := distuv.Normal{Mu: 0, Sigma: 1, Src: src}
	ret := make([][]float64, len(obs))
	for k, row := range obs {
		ret[k] = make([]float64, len(row))
		for j, v := range row {
			ret[k][j] = v
			if missing[k][j] {
				continue
			}
			ret[k][j] += scale * err[k][j] * N.Rand()
		}
	}
	return ret
}

//MonteCarlo runs n simulations. In each, the observed data get Gaussian noise with the
//standard deviation of their errors, times the noise factor of the options, and the
//parameters are minimised again starting from the current ones. The simulations are
//distributed among the CPUs given in the options. Failed simulations are recorded, and
//excluded from the errors, which are the standard deviations of each parameter over the
//simulations. The noise of each simulation depends only on the seed and its index.
func (P *Pipe) MonteCarlo(ctx context.Context, n int, algorithm string) ([]Sim, error) {
	set, err := P.settings("analysis.MonteCarlo", algorithm)
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, fo.NewError(fo.InvalidData, "analysis.MonteCarlo", "%d simulations requested", n)
	}
	F, err := P.check("MonteCarlo")
	if err != nil {
		return nil, err
	}
	if _, err := P.samples(); err != nil {
		return nil, errDecorate(err, "MonteCarlo")
	}
	best := P.values
	x0 := P.scaled(F)
	data := P.data
	sims := make([]Sim, n)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(P.O.Cpus())
	P.log.Info("Monte Carlo simulations", zap.Stringer("model", P.spec), zap.Int("n", n), zap.Float64("noise", P.O.Noise()))
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			src := rand.NewSource(P.O.Seed()*1000003 + uint64(i))
			rdc := noisy(data.RDC, data.RDCErr, data.RDCMissing, P.O.Noise(), src)
			pcs := noisy(data.PCS, data.PCSErr, data.PCSMissing, P.O.Noise(), src)
			sims[i] = Sim{Index: i, Values: best}
			f, err := P.newFunc(data.WithObservations(rdc, pcs), best)
			if err != nil {
				return err
			}
			res, err := P.minimise(gctx, f, append([]float64(nil), x0...), set)
			P.m.evals.WithLabelValues("monte_carlo").Add(float64(f.Evaluations()))
			if gctx.Err() != nil {
				return gctx.Err()
			}
			if err != nil {
				sims[i].Failed = true
				sims[i].Err = err.Error()
				P.m.sims.WithLabelValues("failed").Inc()
				P.log.Warn("simulation failed", zap.Int("sim", i), zap.Error(err))
				return nil
			}
			P.spec.UnpackScaled(&sims[i].Values, res.X, f.Scaling())
			sims[i].Chi2 = res.F
			sims[i].Iterations = res.Iterations
			sims[i].Evaluations = res.Evaluations
			sims[i].Warning = res.Warning
			P.m.sims.WithLabelValues("ok").Inc()
			P.log.Debug("simulation", zap.Int("sim", i), zap.Float64("chi2", res.F), zap.Int("iterations", res.Iterations))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errDecorate(err, "MonteCarlo")
	}
	P.sims = sims
	P.mcErrors = P.simErrors()
	return sims, nil
}

//simErrors returns the standard deviation of each parameter over the used simulations.
//The isotropic cone with free rotor also gets the error of the derived cone_theta.
func (P *Pipe) simErrors() map[string]float64 {
	names := P.spec.Params()
	if P.spec.Tag == model.IsoConeFreeRotor {
		names = append(names, model.ConeTheta)
	}
	errs := make(map[string]float64, len(names))
	vals := make([]float64, 0, len(P.sims))
	for _, name := range names {
		vals = vals[:0]
		for i := range P.sims {
			if !P.sims[i].Used() {
				continue
			}
			v, _ := P.sims[i].Values.Get(name)
			vals = append(vals, v)
		}
		if len(vals) < 2 {
			continue
		}
		errs[name] = stat.StdDev(vals, nil)
	}
	return errs
}

//Sims returns the Monte Carlo simulations of the current model.
func (P *Pipe) Sims() []Sim {
	return P.sims
}

//Errors returns the Monte Carlo errors of the parameters, or nil if no simulation has been run.
func (P *Pipe) Errors() map[string]float64 {
	return P.mcErrors
}
