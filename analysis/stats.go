/*
 * stats.go, part of frameorder.
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

	fo "github.com/rmera/frameorder"
	"github.com/rmera/frameorder/model"
	"github.com/rmera/frameorder/modsel"
	"github.com/rmera/frameorder/target"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"
)

//Eliminate checks the current parameters, and those of every Monte Carlo simulation, against
//the elimination rules. It returns true if the model itself must be eliminated. Eliminated
//simulations are excluded from the errors, which are recomputed. Calling it again without
//changing the parameters gives the same result.
func (P *Pipe) Eliminate() (bool, error) {
	if !P.selected {
		return false, fo.NewError(fo.ModelNotSelected, "analysis.Eliminate", "no motional model selected")
	}
	P.eliminated = P.spec.Eliminate(&P.values)
	for _, r := range P.eliminated {
		P.log.Warn("model eliminated", zap.Stringer("model", P.spec), zap.String("reason", r))
		P.m.eliminated.Inc()
	}
	changed := false
	for i := range P.sims {
		S := &P.sims[i]
		if S.Failed {
			continue
		}
		r := P.spec.Eliminate(&S.Values)
		if len(r) != len(S.Eliminated) {
			changed = true
		}
		S.Eliminated = r
		for _, v := range r {
			P.log.Warn("simulation eliminated", zap.Int("sim", S.Index), zap.String("reason", v))
			P.m.eliminated.Inc()
		}
	}
	if changed {
		P.mcErrors = P.simErrors()
	}
	return len(P.eliminated) > 0, nil
}

//Eliminated returns the reasons for the elimination of the model, if any.
func (P *Pipe) Eliminated() []string {
	return P.eliminated
}

//ModelStatistics returns the number of parameters, the number of data points and the chi2
//of the current fit. A fit must exist. A warning is logged if the model has at least as
//many parameters as data points.
func (P *Pipe) ModelStatistics() (modsel.Stats, error) {
	if !P.selected {
		return modsel.Stats{}, fo.NewError(fo.ModelNotSelected, "analysis.ModelStatistics", "no motional model selected")
	}
	if P.fit == nil {
		return modsel.Stats{}, fo.NewError(fo.MissingRequiredData, "analysis.ModelStatistics", "the %s model has not been fitted", P.spec)
	}
	S := modsel.Stats{K: P.spec.Len(), N: P.data.NumRDC() + P.data.NumPCS(), Chi2: P.fit.Chi2}
	if S.Overfitted() {
		P.log.Warn("overfitting", zap.Stringer("model", P.spec), zap.Int("params", S.K), zap.Int("data", S.N))
	}
	return S, nil
}

//residuals puts the weighted residuals of the last evaluation of F in dst.
func residuals(dst []float64, F *target.Func, data *fo.Data) {
	rdc, pcs := F.Observations()
	i := 0
	for k := range data.RDC {
		for j := range data.RDC[k] {
			if data.RDCMissing[k][j] {
				continue
			}
			dst[i] = (data.RDC[k][j] - rdc[k][j]) / data.RDCErr[k][j]
			i++
		}
	}
	for k := range data.PCS {
		for s := range data.PCS[k] {
			if data.PCSMissing[k][s] {
				continue
			}
			dst[i] = (data.PCS[k][s] - pcs[k][s]) / data.PCSErr[k][s]
			i++
		}
	}
}

//FisherStep is the finite difference step, in unscaled parameter units, used by FisherErrors.
var FisherStep = 1e-3

//FisherErrors returns the parameter errors estimated from the inverse of the Fisher
//information matrix J^T.J at the current parameters, where J is the Jacobian of the
//weighted residuals, obtained by central finite differences.
func (P *Pipe) FisherErrors(ctx context.Context) (map[string]float64, error) {
	F, err := P.check("FisherErrors")
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	x := P.spec.Pack(&P.values)
	m := P.data.NumRDC() + P.data.NumPCS()
	n := len(x)
	if m < n {
		return nil, fo.NewError(fo.MissingRequiredData, "analysis.FisherErrors", "%d data points for %d parameters", m, n)
	}
	J := mat.NewDense(m, n, nil)
	fd.Jacobian(J, func(y, x []float64) {
		F.Chi2Unscaled(x)
		residuals(y, F, P.data)
	}, x, &fd.JacobianSettings{Formula: fd.Central, Step: FisherStep})
	var info, cov mat.Dense
	info.Mul(J.T(), J)
	if err := cov.Inverse(&info); err != nil {
		return nil, fo.NewError(fo.NumericalFailure, "analysis.FisherErrors", "singular Fisher information matrix: %s", err.Error())
	}
	errs := make(map[string]float64, n)
	for i, name := range P.spec.Params() {
		v := cov.At(i, i)
		if v < 0 {
			v = math.NaN()
		}
		errs[name] = math.Sqrt(v)
	}
	return errs, nil
}

//SyntheticData returns a copy of the data with the observations replaced by the values
//back-calculated with the current model and parameters.
func (P *Pipe) SyntheticData() (*fo.Data, error) {
	F, err := P.check("SyntheticData")
	if err != nil {
		return nil, err
	}
	c := F.Chi2(P.scaled(F))
	if math.IsNaN(c) || math.IsInf(c, 0) {
		return nil, fo.NewError(fo.NumericalFailure, "analysis.SyntheticData", "chi2 = %g", c)
	}
	return P.data.WithObservations(F.Observations()), nil
}

//Results are all the results stored for the current model.
type Results struct {
	Model      model.Tag          `json:"model"`
	PivotOpt   bool               `json:"pivot_opt"`
	Params     []string           `json:"params"`
	Values     model.Values       `json:"values"`
	Fit        *Fit               `json:"fit,omitempty"`
	Errors     map[string]float64 `json:"errors,omitempty"`
	Sims       []Sim              `json:"sims,omitempty"`
	Eliminated []string           `json:"eliminated,omitempty"`
	Stats      *modsel.Stats      `json:"stats,omitempty"`
}

//Results returns the results for the current model.
func (P *Pipe) Results() (*Results, error) {
	if !P.selected {
		return nil, fo.NewError(fo.ModelNotSelected, "analysis.Results", "no motional model selected")
	}
	R := &Results{
		Model:      P.spec.Tag,
		PivotOpt:   P.spec.PivotOpt,
		Params:     P.spec.Params(),
		Values:     P.values,
		Fit:        P.fit,
		Errors:     P.mcErrors,
		Sims:       P.sims,
		Eliminated: P.eliminated,
	}
	if P.fit != nil {
		st, _ := P.ModelStatistics()
		R.Stats = &st
	}
	return R, nil
}

//Restore sets the model, the parameters and the results of the pipe from R.
func (P *Pipe) Restore(R *Results) error {
	if err := P.SelectModel(R.Model, R.PivotOpt); err != nil {
		return errDecorate(err, "Restore")
	}
	P.values = R.Values
	P.fit = R.Fit
	P.sims = R.Sims
	P.mcErrors = R.Errors
	P.eliminated = R.Eliminated
	return nil
}
