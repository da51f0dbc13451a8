/*
 * values.go, part of frameorder.
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

package model

import (
	"math"

	fo "github.com/rmera/frameorder"
	"gonum.org/v1/gonum/spatial/r3"
)

const pi = math.Pi

//Values holds every parameter a model can have. The ones not in the parameter
//list of a given model keep whatever value they had before unpacking.
type Values struct {
	Pivot      r3.Vec
	PivotDisp  float64
	Trans      r3.Vec
	AveAlpha   float64
	AveBeta    float64
	AveGamma   float64
	EigenAlpha float64
	EigenBeta  float64
	EigenGamma float64
	AxisTheta  float64
	AxisPhi    float64
	AxisAlpha  float64
	Theta      float64
	ThetaX     float64
	ThetaY     float64
	S1         float64
	SigmaMax   float64
	SigmaMax2  float64
}

//field returns a pointer to the field of V corresponding to the named parameter, or nil.
func (V *Values) field(name string) *float64 {
	switch name {
	case PivotX:
		return &V.Pivot.X
	case PivotY:
		return &V.Pivot.Y
	case PivotZ:
		return &V.Pivot.Z
	case PivotDisp:
		return &V.PivotDisp
	case AvePosX:
		return &V.Trans.X
	case AvePosY:
		return &V.Trans.Y
	case AvePosZ:
		return &V.Trans.Z
	case AvePosAlpha:
		return &V.AveAlpha
	case AvePosBeta:
		return &V.AveBeta
	case AvePosGamma:
		return &V.AveGamma
	case EigenAlpha:
		return &V.EigenAlpha
	case EigenBeta:
		return &V.EigenBeta
	case EigenGamma:
		return &V.EigenGamma
	case AxisTheta:
		return &V.AxisTheta
	case AxisPhi:
		return &V.AxisPhi
	case AxisAlpha:
		return &V.AxisAlpha
	case ConeTheta:
		return &V.Theta
	case ConeThetaX:
		return &V.ThetaX
	case ConeThetaY:
		return &V.ThetaY
	case ConeS1:
		return &V.S1
	case ConeSigmaMax:
		return &V.SigmaMax
	case ConeSigma2:
		return &V.SigmaMax2
	}
	return nil
}

//Get returns the value of the named parameter.
func (V *Values) Get(name string) (float64, error) {
	f := V.field(name)
	if f == nil {
		return 0, fo.NewError(fo.InvalidData, "model.Values.Get", "unknown parameter %q", name)
	}
	return *f, nil
}

//Set sets the value of the named parameter.
func (V *Values) Set(name string, v float64) error {
	f := V.field(name)
	if f == nil {
		return fo.NewError(fo.InvalidData, "model.Values.Set", "unknown parameter %q", name)
	}
	*f = v
	if name == ConeS1 {
		V.Theta = fo.IsoConeSToTheta(v)
	}
	return nil
}

//Derive sets the values that follow from the parameters of S: the cone half-angle of the
//isotropic cone with a free rotor comes from its order parameter, and the free rotor
//models have no ave_pos_alpha, which is set to 0.
func (S Spec) Derive(V *Values) {
	if S.Tag.Free() {
		V.AveAlpha = 0
	}
	if S.Tag == IsoConeFreeRotor {
		V.Theta = fo.IsoConeSToTheta(V.S1)
	}
}

//Unpack puts the unscaled parameter vector x into V, following the parameter list of S.
//The free rotor models have no ave_pos_alpha, which is set to 0.
func (S Spec) Unpack(V *Values, x []float64) {
	p := S.Params()
	if len(x) != len(p) {
		panic(ErrWrongLength)
	}
	for i, name := range p {
		*V.field(name) = x[i]
	}
	S.Derive(V)
}

//UnpackScaled is Unpack for a scaled vector. scaling is the diagonal of the scaling matrix.
func (S Spec) UnpackScaled(V *Values, xs, scaling []float64) {
	p := S.Params()
	if len(xs) != len(p) || len(scaling) != len(p) {
		panic(ErrWrongLength)
	}
	for i, name := range p {
		*V.field(name) = xs[i] * scaling[i]
	}
	S.Derive(V)
}

//Pack returns the unscaled parameter vector of S with the values in V.
func (S Spec) Pack(V *Values) []float64 {
	p := S.Params()
	ret := make([]float64, len(p))
	for i, name := range p {
		ret[i] = *V.field(name)
	}
	return ret
}

//PanicMsg is a message used for panics.
type PanicMsg string

func (v PanicMsg) Error() string { return string(v) }

const ErrWrongLength = PanicMsg("frameorder/model: parameter vector of the wrong length")
