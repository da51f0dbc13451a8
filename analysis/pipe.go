/*
 * pipe.go, part of frameorder.
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

//Package analysis drives frame order analyses: it holds the data and the current motional
//model with its parameters, and runs the calculations, grid searches, minimisations and
//Monte Carlo simulations on them, storing the results.
package analysis

import (
	"github.com/prometheus/client_golang/prometheus"
	fo "github.com/rmera/frameorder"
	"github.com/rmera/frameorder/model"
	"github.com/rmera/frameorder/qrint"
	"github.com/rmera/frameorder/target"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"
)

//Fit is the outcome of the last calculation or optimisation of a Pipe.
type Fit struct {
	Chi2        float64          `json:"chi2"`
	Iterations  int              `json:"iterations"`
	Evaluations int              `json:"evaluations"`
	Warning     string           `json:"warning,omitempty"`
	BackCalc    *target.BackCalc `json:"back_calc,omitempty"`
	Sobol       *qrint.Stats     `json:"sobol,omitempty"`
}

//Pipe is the context of one frame order analysis. It is not safe for concurrent use,
//although its operations use several goroutines internally.
type Pipe struct {
	data     *fo.Data
	spec     model.Spec
	selected bool
	values   model.Values
	O        *Options
	log      *zap.Logger
	cache    qrint.Cache
	m        *metrics

	fit        *Fit
	sims       []Sim
	mcErrors   map[string]float64
	eliminated []string
}

//NewPipe returns a pipe for the data. A nil logger discards the logs, and nil options
//are replaced by DefaultOptions().
func NewPipe(data *fo.Data, O *Options, logger *zap.Logger) (*Pipe, error) {
	if data == nil || (!data.HasRDC() && !data.HasPCS()) {
		return nil, fo.NewError(fo.MissingRequiredData, "analysis.NewPipe", "neither RDCs nor PCSs available")
	}
	if O == nil {
		O = DefaultOptions()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	P := &Pipe{data: data, O: O, log: logger, m: newMetrics()}
	for _, w := range data.Warnings {
		P.log.Warn("data deselected", zap.String("reason", w))
	}
	return P, nil
}

//Registry returns the prometheus registry with the counters of the pipe.
func (P *Pipe) Registry() *prometheus.Registry {
	return P.m.reg
}

//Log returns the logger of the pipe.
func (P *Pipe) Log() *zap.Logger {
	return P.log
}

//Data returns the data of the pipe.
func (P *Pipe) Data() *fo.Data {
	return P.data
}

//SelectModel sets the motional model. pivotOpt adds the pivot to the optimised parameters.
//All the previous results are discarded, and the parameters set to their initial values:
//0 except for the pivot and, for the double rotor, the distance between the two pivots.
func (P *Pipe) SelectModel(tag model.Tag, pivotOpt bool) error {
	if tag < model.Rigid || tag > model.DoubleRotor {
		return fo.NewError(fo.ModelNotSelected, "analysis.SelectModel", "invalid model %s", tag)
	}
	P.spec = model.Spec{Tag: tag, PivotOpt: pivotOpt}
	P.selected = true
	P.values = model.Values{}
	if P.data.PivotSet {
		P.values.Pivot = P.data.Pivot
	}
	if tag == model.DoubleRotor && P.data.PivotSet && P.data.Pivot2Set {
		P.values.PivotDisp = r3.Norm(r3.Sub(P.data.Pivot2, P.data.Pivot))
	}
	P.reset()
	P.log.Info("model selected", zap.Stringer("model", P.spec), zap.Strings("params", P.spec.Params()))
	return nil
}

func (P *Pipe) reset() {
	P.fit = nil
	P.sims = nil
	P.mcErrors = nil
	P.eliminated = nil
}

//Spec returns the current model, or an error if none has been selected.
func (P *Pipe) Spec() (model.Spec, error) {
	if !P.selected {
		return model.Spec{}, fo.NewError(fo.ModelNotSelected, "analysis.Spec", "no motional model selected")
	}
	return P.spec, nil
}

//Values returns a copy of the current parameter values.
func (P *Pipe) Values() model.Values {
	return P.values
}

//SetValues replaces the parameter values. The values derived from the parameters of
//the current model, such as the cone angle from its order parameter, are recomputed.
//The previous results are discarded.
func (P *Pipe) SetValues(V model.Values) {
	if P.selected {
		P.spec.Derive(&V)
	}
	P.values = V
	P.reset()
}

//Param returns the value of the named parameter.
func (P *Pipe) Param(name string) (float64, error) {
	return P.values.Get(name)
}

//SetParam sets the value of the named parameter. The previous results are discarded.
func (P *Pipe) SetParam(name string, v float64) error {
	if err := P.values.Set(name, v); err != nil {
		return errDecorate(err, "SetParam")
	}
	P.reset()
	return nil
}

//Fit returns the results of the last calculation or optimisation, or nil.
func (P *Pipe) Fit() *Fit {
	return P.fit
}

//samples returns the integration points for the current model, if it needs them.
func (P *Pipe) samples() (*qrint.Samples, error) {
	if !P.spec.Tag.Integrated() || !P.data.HasPCS() {
		return nil, nil
	}
	return P.cache.Get(P.spec.Tag, P.O.SobolPoints())
}

//newFunc returns a target function for the current model and data, with base as the
//values of the parameters not optimised.
func (P *Pipe) newFunc(data *fo.Data, base model.Values) (*target.Func, error) {
	if !P.selected {
		return nil, fo.NewError(fo.ModelNotSelected, "analysis.newFunc", "no motional model selected")
	}
	S, err := P.samples()
	if err != nil {
		return nil, err
	}
	return target.New(P.spec, data, S, base)
}

//check validates the current model and parameters before an operation.
func (P *Pipe) check(caller string) (*target.Func, error) {
	F, err := P.newFunc(P.data, P.values)
	if err != nil {
		return nil, errDecorate(err, caller)
	}
	t := P.spec.Tag
	if t == model.Rigid || !P.data.HasPCS() {
		return F, nil
	}
	for _, p := range target.Pivots(t, &P.values) {
		if r3.Norm(r3.Sub(p, P.data.Paramag)) < target.MinPivotDistance {
			return nil, fo.NewError(fo.DegenerateGeometry, caller, "the pivot %v coincides with the paramagnetic centre %v", p, P.data.Paramag)
		}
	}
	return F, nil
}

//scaled returns the current parameter vector of F divided by the scaling factors.
func (P *Pipe) scaled(F *target.Func) []float64 {
	x := P.spec.Pack(&P.values)
	for i, s := range F.Scaling() {
		x[i] /= s
	}
	return x
}

//store unpacks the scaled vector xs into the current values
func (P *Pipe) store(F *target.Func, xs []float64) {
	P.spec.UnpackScaled(&P.values, xs, F.Scaling())
}

//sobolStats returns the acceptance statistics of the integration points for the current values.
func (P *Pipe) sobolStats() (*qrint.Stats, error) {
	S, err := P.samples()
	if S == nil || err != nil {
		return nil, err
	}
	st := qrint.CountPoints(S, qrint.MotionFrom(P.spec.Tag, &P.values), P.data.PCSMissing)
	return &st, nil
}

//CountPoints reports how many integration points are accepted for the current parameters.
//It returns nil if the model has no PCS integration.
func (P *Pipe) CountPoints() (*qrint.Stats, error) {
	if !P.selected {
		return nil, fo.NewError(fo.ModelNotSelected, "analysis.CountPoints", "no motional model selected")
	}
	st, err := P.sobolStats()
	if err != nil {
		return nil, errDecorate(err, "CountPoints")
	}
	if st != nil {
		P.log.Info("integration points", zap.Int("points", st.Points), zap.Int("min", st.Min), zap.Float64("mean", st.Mean), zap.Int("max", st.Max))
	}
	return st, nil
}

func errDecorate(err error, caller string) error {
	return fo.ErrDecorate(err, "analysis."+caller)
}
