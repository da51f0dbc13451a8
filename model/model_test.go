/*
 * model_test.go, part of frameorder.
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
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	fo "github.com/rmera/frameorder"
)

func TestParams(Te *testing.T) {
	cases := []struct {
		spec Spec
		want []string
	}{
		{Spec{Tag: Rigid, PivotOpt: true}, []string{AvePosX, AvePosY, AvePosZ, AvePosAlpha, AvePosBeta, AvePosGamma}},
		{Spec{Tag: FreeRotor}, []string{AvePosX, AvePosY, AvePosZ, AvePosBeta, AvePosGamma, AxisAlpha}},
		{Spec{Tag: Rotor, PivotOpt: true}, []string{PivotX, PivotY, PivotZ, AvePosX, AvePosY, AvePosZ, AvePosAlpha, AvePosBeta, AvePosGamma, AxisAlpha, ConeSigmaMax}},
		{Spec{Tag: IsoConeFreeRotor}, []string{AvePosX, AvePosY, AvePosZ, AvePosBeta, AvePosGamma, AxisTheta, AxisPhi, ConeS1}},
		{Spec{Tag: PseudoEllipse}, []string{AvePosX, AvePosY, AvePosZ, AvePosAlpha, AvePosBeta, AvePosGamma, EigenAlpha, EigenBeta, EigenGamma, ConeThetaX, ConeThetaY, ConeSigmaMax}},
		{Spec{Tag: DoubleRotor}, []string{PivotDisp, AvePosX, AvePosY, AvePosZ, AvePosAlpha, AvePosBeta, AvePosGamma, EigenAlpha, EigenBeta, EigenGamma, ConeSigmaMax, ConeSigma2}},
	}
	for _, c := range cases {
		if diff := cmp.Diff(c.want, c.spec.Params()); diff != "" {
			Te.Errorf("%s parameters (-want +got):\n%s", c.spec, diff)
		}
	}
	for _, t := range Tags {
		n := Spec{Tag: t}.Len()
		np := Spec{Tag: t, PivotOpt: true}.Len()
		if t == Rigid && np != n {
			Te.Errorf("the rigid model can't optimise the pivot")
		}
		if t != Rigid && np != n+3 {
			Te.Errorf("%s: %d parameters with the pivot, %d without", t, np, n)
		}
	}
}

func TestParseTag(Te *testing.T) {
	for _, t := range Tags {
		for _, name := range []string{t.String(), strings.ReplaceAll(t.String(), "_", " "), strings.ToUpper(t.String())} {
			got, err := ParseTag(name)
			if err != nil || got != t {
				Te.Errorf("ParseTag(%q) = %v, %v", name, got, err)
			}
		}
	}
	if got, err := ParseTag("iso cone, torsionless"); err != nil || got != IsoConeTorsionless {
		Te.Errorf("ParseTag with commas = %v, %v", got, err)
	}
	_, err := ParseTag("rotor2")
	if !errors.Is(err, fo.ErrModelNotSelected) {
		Te.Errorf("unknown model gave %v", err)
	}
	var t Tag
	if err := t.UnmarshalText([]byte("pseudo-ellipse")); err != nil || t != PseudoEllipse {
		Te.Errorf("UnmarshalText gave %v, %v", t, err)
	}
}

func TestPackUnpack(Te *testing.T) {
	S := Spec{Tag: IsoCone, PivotOpt: true}
	x := make([]float64, S.Len())
	for i := range x {
		x[i] = 0.1 * float64(i+1)
	}
	var V Values
	S.Unpack(&V, x)
	if V.Pivot.Y != 0.2 || V.Theta != x[S.Index(ConeTheta)] {
		Te.Errorf("wrong unpacking %+v", V)
	}
	if diff := cmp.Diff(x, S.Pack(&V)); diff != "" {
		Te.Errorf("pack (-want +got):\n%s", diff)
	}
	scaling := S.Scaling()
	xs := make([]float64, len(x))
	for i := range x {
		xs[i] = x[i] / scaling[i]
	}
	var W Values
	S.UnpackScaled(&W, xs, scaling)
	got := S.Pack(&W)
	for i := range x {
		if math.Abs(got[i]-x[i]) > 1e-14 {
			Te.Errorf("scaled unpacking, parameter %s: %g != %g", S.Params()[i], got[i], x[i])
		}
	}
	//the free rotor models don't have the first average position angle
	F := Spec{Tag: IsoConeFreeRotor}
	V = Values{AveAlpha: 2}
	F.Unpack(&V, make([]float64, F.Len()))
	if V.AveAlpha != 0 || math.Abs(V.Theta-fo.IsoConeSToTheta(0)) > 1e-14 {
		Te.Errorf("free rotor unpacking %+v", V)
	}
	if _, err := V.Get("nonsense"); err == nil {
		Te.Error("no error for an unknown parameter")
	}
}

func TestS1Theta(Te *testing.T) {
	var V Values
	if err := V.Set(ConeS1, 0.5); err != nil {
		Te.Fatal(err)
	}
	if math.Abs(V.Theta-fo.IsoConeSToTheta(0.5)) > 1e-14 {
		Te.Errorf("setting the order parameter gave cone angle %g, want %g", V.Theta, fo.IsoConeSToTheta(0.5))
	}
	W := Values{S1: 0.2, AveAlpha: 1, Theta: 3}
	Spec{Tag: IsoConeFreeRotor}.Derive(&W)
	if W.AveAlpha != 0 || math.Abs(W.Theta-fo.IsoConeSToTheta(0.2)) > 1e-14 {
		Te.Errorf("derived free rotor values %+v", W)
	}
	//other models keep their own cone angle
	W = Values{S1: 0.2, AveAlpha: 1, Theta: 3}
	Spec{Tag: IsoCone}.Derive(&W)
	if W.AveAlpha != 1 || W.Theta != 3 {
		Te.Errorf("derived iso cone values %+v", W)
	}
}

func TestConstraints(Te *testing.T) {
	S := Spec{Tag: PseudoEllipse}
	C := S.Constraints()
	var V Values
	V.ThetaX, V.ThetaY, V.SigmaMax = 0.5, 1, 1
	if !C.Check(S.Pack(&V)) {
		Te.Errorf("valid ellipse rejected: %v", C)
	}
	V.ThetaX, V.ThetaY = 1, 0.5
	if C.Check(S.Pack(&V)) {
		Te.Error("θx > θy accepted")
	}
	V.ThetaX, V.ThetaY = 0.5, 3.5
	if C.Check(S.Pack(&V)) {
		Te.Error("θy > π accepted")
	}
	V = Values{}
	V.Trans.X = 501
	if C.Check(S.Pack(&V)) {
		Te.Error("translation over the limit accepted")
	}
	R := Spec{Tag: Rigid}.Constraints()
	if R.Len() != 6 {
		Te.Errorf("the rigid model has %d constraints, 6 expected", R.Len())
	}
}

func TestEliminate(Te *testing.T) {
	S := Spec{Tag: IsoCone}
	V := Values{Theta: 3.2, SigmaMax: 1}
	r := S.Eliminate(&V)
	if len(r) != 1 || !strings.Contains(r[0], "cone opening angle θ greater than π") {
		Te.Errorf("unexpected reasons %v", r)
	}
	V.Theta = 1
	if r := S.Eliminate(&V); len(r) != 0 {
		Te.Errorf("valid solution eliminated: %v", r)
	}
	E := Spec{Tag: PseudoEllipseTorsionless}
	V = Values{ThetaX: 0.0005, ThetaY: 1}
	if r := E.Eliminate(&V); len(r) != 1 {
		Te.Errorf("θx below the integration limit not eliminated: %v", r)
	}
	D := Spec{Tag: DoubleRotor}
	V = Values{SigmaMax: 1, SigmaMax2: 4}
	if r := D.Eliminate(&V); len(r) != 1 || !strings.Contains(r[0], "σmax2") {
		Te.Errorf("double rotor reasons %v", r)
	}
}
