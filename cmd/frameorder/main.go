/*
 * main.go, part of frameorder.
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

//frameorder runs a batch frame order analysis: for each model in the configuration, a
//grid search, a minimisation and, optionally, Monte Carlo simulations, followed by the
//elimination of failed models and the selection of the best one. The results are saved
//in a state file.
//
//Usage: frameorder -config run.yaml [flags]
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	fo "github.com/rmera/frameorder"
	"github.com/rmera/frameorder/analysis"
	"github.com/rmera/frameorder/config"
	"github.com/rmera/frameorder/corrplot"
	"github.com/rmera/frameorder/histo"
	"github.com/rmera/frameorder/model"
	"github.com/rmera/frameorder/modsel"
	"github.com/rmera/frameorder/state"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	path, args := config.ConfigPath(os.Args[1:])
	C, err := config.Read(path, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, "frameorder:", err)
		os.Exit(2)
	}
	logger := initLogger(C.LogLevel, C.LogFile)
	defer logger.Sync()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, C, logger); err != nil {
		logger.Error("analysis failed", zap.Error(err))
		os.Exit(1)
	}
}

//initLogger initializes the logger with the specified level and log file name.
func initLogger(level string, logfileName ...string) *zap.Logger {
	zc := zap.NewProductionConfig()
	switch level {
	case "debug":
		zc.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "warn":
		zc.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zc.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		zc.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	outputPath := []string{"stderr"}
	for _, item := range logfileName {
		if item != "" {
			outputPath = append(outputPath, item)
		}
	}
	zc.OutputPaths = outputPath
	zc.ErrorOutputPaths = outputPath
	zc.EncoderConfig.TimeKey = "t"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, err := zc.Build()
	if err != nil {
		return zap.NewExample()
	}
	return logger
}

//readData reads the dataset and, if given, the structure from which the missing
//bond vectors and spin positions are taken.
func readData(name, pdb string) (*fo.Data, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	ds, err := fo.ReadDataset(f)
	if err != nil {
		return nil, err
	}
	var st *fo.Structure
	if pdb != "" {
		if st, err = fo.ReadPDB(pdb); err != nil {
			return nil, err
		}
	}
	return fo.Assemble(ds, st)
}

func run(ctx context.Context, C *config.Config, logger *zap.Logger) error {
	if C.Data == "" {
		return fo.NewError(fo.MissingRequiredData, "main", "no dataset given")
	}
	data, err := readData(C.Data, C.Structure)
	if err != nil {
		return err
	}
	P, err := analysis.NewPipe(data, C.Options(), logger)
	if err != nil {
		return err
	}
	tags, err := C.Tags()
	if err != nil {
		return err
	}
	if _, err := modsel.Criterion(C.Criterion); err != nil {
		return err
	}
	S := state.New()
	var cands []modsel.Candidate
	var rigid *model.Values
	for _, t := range tags {
		R, err := analyse(ctx, P, C, t, rigid)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			logger.Error("model failed", zap.Stringer("model", t), zap.Error(err))
			continue
		}
		if t == model.Rigid {
			rigid = &R.Values
		}
		S.Add(C.Pipe, C.Data, R)
		cands = append(cands, modsel.Candidate{Name: t.String(), Stats: *R.Stats, Eliminated: len(R.Eliminated) > 0})
		if C.Plots != "" {
			if err := plots(C.Plots, t.String()+"_", data, R); err != nil {
				logger.Warn("plots failed", zap.Stringer("model", t), zap.Error(err))
			}
		}
	}
	if len(cands) > 0 {
		best, scores, err := modsel.Select(C.Criterion, cands)
		if err == nil {
			for i, c := range cands {
				logger.Info("model score", zap.String("model", c.Name), zap.String("criterion", C.Criterion),
					zap.Float64("score", scores[i]), zap.Bool("eliminated", c.Eliminated))
			}
			logger.Info("model selected", zap.String("model", cands[best].Name))
			if err := S.Select(C.Pipe, cands[best].Name); err != nil {
				return err
			}
		} else {
			logger.Warn("no model selected", zap.Error(err))
		}
	}
	if err := S.Save(C.State); err != nil {
		return err
	}
	logger.Info("state saved", zap.String("file", C.State))
	return nil
}

//analyse fits the model t. The average domain position of the rigid fit, if given, is
//the starting point of the other models, and is not part of their grid.
func analyse(ctx context.Context, P *analysis.Pipe, C *config.Config, t model.Tag, rigid *model.Values) (*analysis.Results, error) {
	if err := P.SelectModel(t, C.PivotOpt); err != nil {
		return nil, err
	}
	spec, _ := P.Spec()
	G := C.GridSpec(spec)
	if rigid != nil && t != model.Rigid {
		V := P.Values()
		V.Trans = rigid.Trans
		V.AveAlpha, V.AveBeta, V.AveGamma = rigid.AveAlpha, rigid.AveBeta, rigid.AveGamma
		P.SetValues(V)
		for i, name := range spec.Params() {
			switch name {
			case model.AvePosX, model.AvePosY, model.AvePosZ, model.AvePosAlpha, model.AvePosBeta, model.AvePosGamma:
				if _, ok := C.Grid[name]; !ok {
					G.Inc[i] = 0
				}
			}
		}
	}
	for z := 0; z <= C.GridZoom; z++ {
		G.Zoom = z
		if _, err := P.GridSearch(ctx, G); err != nil {
			if !errors.Is(err, fo.ErrGridTooLarge) {
				return nil, err
			}
			P.Log().Warn("grid search skipped", zap.Stringer("model", t), zap.Int("zoom", z), zap.Error(err))
			break
		}
	}
	if _, err := P.Minimise(ctx, C.Algorithm); err != nil {
		return nil, err
	}
	if C.MCSims > 0 {
		if _, err := P.MonteCarlo(ctx, C.MCSims, C.Algorithm); err != nil {
			return nil, err
		}
	}
	if _, err := P.Eliminate(); err != nil {
		return nil, err
	}
	return P.Results()
}

func plots(dir, prefix string, data *fo.Data, R *analysis.Results) error {
	if R.Fit != nil && R.Fit.BackCalc != nil {
		if err := corrplot.Fit(dir, prefix, data, R.Fit.BackCalc.RDC, R.Fit.BackCalc.PCS); err != nil {
			return err
		}
	}
	if len(R.Sims) == 0 {
		return nil
	}
	raw := make(map[string][]float64, len(R.Params))
	for _, name := range R.Params {
		for i := range R.Sims {
			if !R.Sims[i].Used() {
				continue
			}
			v, _ := R.Sims[i].Values.Get(name)
			raw[name] = append(raw[name], v)
		}
	}
	H := histo.NewSet(raw, 20)
	return corrplot.Histograms(dir, prefix+"mc_", H)
}
