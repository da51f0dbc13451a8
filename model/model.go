/*
 * model.go, part of frameorder.
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

//Package model describes the frame order motional models: their tags, their
//ordered parameter lists, the scaling, bounds and linear constraints of each
//parameter, and the rules used to eliminate unphysical solutions.
package model

import (
	"fmt"
	"strings"

	fo "github.com/rmera/frameorder"
)

//Tag identifies a motional model.
type Tag int

const (
	Rigid Tag = iota
	Rotor
	FreeRotor
	IsoCone
	IsoConeTorsionless
	IsoConeFreeRotor
	PseudoEllipse
	PseudoEllipseTorsionless
	PseudoEllipseFreeRotor
	DoubleRotor
)

//Tags lists all the models, in order of increasing complexity within each family.
var Tags = []Tag{Rigid, Rotor, FreeRotor, IsoCone, IsoConeTorsionless, IsoConeFreeRotor,
	PseudoEllipse, PseudoEllipseTorsionless, PseudoEllipseFreeRotor, DoubleRotor}

var tagNames = [...]string{
	"rigid",
	"rotor",
	"free_rotor",
	"iso_cone",
	"iso_cone_torsionless",
	"iso_cone_free_rotor",
	"pseudo_ellipse",
	"pseudo_ellipse_torsionless",
	"pseudo_ellipse_free_rotor",
	"double_rotor",
}

func (t Tag) String() string {
	if t < 0 || int(t) >= len(tagNames) {
		return fmt.Sprintf("Tag(%d)", int(t))
	}
	return tagNames[t]
}

//ParseTag returns the tag with the given name. Spaces, hyphens and commas are
//accepted as separators, so "iso cone, torsionless" is the same as "iso_cone_torsionless".
func ParseTag(s string) (Tag, error) {
	n := strings.ToLower(strings.TrimSpace(s))
	n = strings.NewReplacer(", ", "_", ",", "_", "-", "_", " ", "_").Replace(n)
	for i, v := range tagNames {
		if v == n {
			return Tag(i), nil
		}
	}
	return Rigid, fo.NewError(fo.ModelNotSelected, "model.ParseTag", "unknown motional model %q", s)
}

//MarshalText implements encoding.TextMarshaler
func (t Tag) MarshalText() ([]byte, error) {
	if t < 0 || int(t) >= len(tagNames) {
		return nil, fo.NewError(fo.ModelNotSelected, "model.Tag.MarshalText", "invalid model tag %d", int(t))
	}
	return []byte(tagNames[t]), nil
}

//UnmarshalText implements encoding.TextUnmarshaler
func (t *Tag) UnmarshalText(b []byte) error {
	v, err := ParseTag(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

//Integrated returns true if the PCSs of the model are obtained by numerical integration.
func (t Tag) Integrated() bool {
	return t != Rigid
}

//Torsionless returns true for the models without torsion.
func (t Tag) Torsionless() bool {
	return t == IsoConeTorsionless || t == PseudoEllipseTorsionless
}

//Free returns true for the models with an unrestricted torsion.
func (t Tag) Free() bool {
	return t == FreeRotor || t == IsoConeFreeRotor || t == PseudoEllipseFreeRotor
}

//IsoConeFamily returns true for the three isotropic cone models.
func (t Tag) IsoConeFamily() bool {
	return t == IsoCone || t == IsoConeTorsionless || t == IsoConeFreeRotor
}

//EllipseFamily returns true for the three pseudo-ellipse models.
func (t Tag) EllipseFamily() bool {
	return t == PseudoEllipse || t == PseudoEllipseTorsionless || t == PseudoEllipseFreeRotor
}

//Dim is one of the motional variables sampled in the numerical integration.
type Dim int

const (
	Theta Dim = iota
	Phi
	Sigma
	Sigma2
)

func (d Dim) String() string {
	switch d {
	case Theta:
		return "theta"
	case Phi:
		return "phi"
	case Sigma:
		return "sigma"
	case Sigma2:
		return "sigma2"
	}
	return "unknown"
}

//Dims returns the motional variables integrated for the model, or nil for the rigid model.
func (t Tag) Dims() []Dim {
	switch {
	case t == Rotor || t == FreeRotor:
		return []Dim{Sigma}
	case t.Torsionless():
		return []Dim{Theta, Phi}
	case t.IsoConeFamily() || t.EllipseFamily():
		return []Dim{Theta, Phi, Sigma}
	case t == DoubleRotor:
		return []Dim{Sigma, Sigma2}
	}
	return nil
}

//Spec fully determines the parameter list of a model: its tag and whether the pivot
//is optimised.
type Spec struct {
	Tag      Tag
	PivotOpt bool
}

func (S Spec) String() string {
	if S.PivotOpt && S.Tag != Rigid {
		return S.Tag.String() + " (pivot optimised)"
	}
	return S.Tag.String()
}

//Parameter names
const (
	PivotX       = "pivot_x"
	PivotY       = "pivot_y"
	PivotZ       = "pivot_z"
	PivotDisp    = "pivot_disp"
	AvePosX      = "ave_pos_x"
	AvePosY      = "ave_pos_y"
	AvePosZ      = "ave_pos_z"
	AvePosAlpha  = "ave_pos_alpha"
	AvePosBeta   = "ave_pos_beta"
	AvePosGamma  = "ave_pos_gamma"
	EigenAlpha   = "eigen_alpha"
	EigenBeta    = "eigen_beta"
	EigenGamma   = "eigen_gamma"
	AxisTheta    = "axis_theta"
	AxisPhi      = "axis_phi"
	AxisAlpha    = "axis_alpha"
	ConeTheta    = "cone_theta"
	ConeThetaX   = "cone_theta_x"
	ConeThetaY   = "cone_theta_y"
	ConeS1       = "cone_s1"
	ConeSigmaMax = "cone_sigma_max"
	ConeSigma2   = "cone_sigma_max_2"
)

var (
	pivotBlock = []string{PivotX, PivotY, PivotZ}
	trans      = []string{AvePosX, AvePosY, AvePosZ}
	aveEuler   = []string{AvePosAlpha, AvePosBeta, AvePosGamma}
	aveFree    = []string{AvePosBeta, AvePosGamma}
	eigen      = []string{EigenAlpha, EigenBeta, EigenGamma}
	axisSph    = []string{AxisTheta, AxisPhi}
)

func join(parts ...[]string) []string {
	var ret []string
	for _, p := range parts {
		ret = append(ret, p...)
	}
	return ret
}

//modelParams are the parameter lists without the pivot block
var modelParams = map[Tag][]string{
	Rigid:                    join(trans, aveEuler),
	Rotor:                    join(trans, aveEuler, []string{AxisAlpha, ConeSigmaMax}),
	FreeRotor:                join(trans, aveFree, []string{AxisAlpha}),
	IsoCone:                  join(trans, aveEuler, axisSph, []string{ConeTheta, ConeSigmaMax}),
	IsoConeTorsionless:       join(trans, aveEuler, axisSph, []string{ConeTheta}),
	IsoConeFreeRotor:         join(trans, aveFree, axisSph, []string{ConeS1}),
	PseudoEllipse:            join(trans, aveEuler, eigen, []string{ConeThetaX, ConeThetaY, ConeSigmaMax}),
	PseudoEllipseTorsionless: join(trans, aveEuler, eigen, []string{ConeThetaX, ConeThetaY}),
	PseudoEllipseFreeRotor:   join(trans, aveFree, eigen, []string{ConeThetaX, ConeThetaY}),
	DoubleRotor:              join(trans, aveEuler, eigen, []string{ConeSigmaMax, ConeSigma2}),
}

//Params returns the ordered parameter names of the model. The list is a new slice.
func (S Spec) Params() []string {
	p := modelParams[S.Tag]
	var ret []string
	if S.PivotOpt && S.Tag != Rigid {
		ret = append(ret, pivotBlock...)
	}
	if S.Tag == DoubleRotor {
		ret = append(ret, PivotDisp)
	}
	return append(ret, p...)
}

//Len returns the number of parameters of the model.
func (S Spec) Len() int {
	return len(S.Params())
}

//Index returns the position of the parameter name in the parameter list, or -1.
func (S Spec) Index(name string) int {
	for i, v := range S.Params() {
		if v == name {
			return i
		}
	}
	return -1
}

//Scale returns the diagonal scaling factor of a parameter.
func Scale(name string) float64 {
	switch name {
	case PivotX, PivotY, PivotZ, PivotDisp, AvePosX, AvePosY, AvePosZ:
		return 10
	}
	return 1
}

//Scaling returns the diagonal of the scaling matrix of the model.
func (S Spec) Scaling() []float64 {
	p := S.Params()
	ret := make([]float64, len(p))
	for i, v := range p {
		ret[i] = Scale(v)
	}
	return ret
}

//Bounds returns the default lower and upper values of a parameter in a grid search.
func Bounds(name string) (lo, hi float64) {
	switch name {
	case PivotX, PivotY, PivotZ, AvePosX, AvePosY, AvePosZ:
		return -100, 100
	case PivotDisp:
		return 0, 50
	case AvePosBeta, EigenBeta, AxisTheta, ConeTheta, ConeThetaX, ConeThetaY, ConeSigmaMax, ConeSigma2:
		return 0, pi
	case ConeS1:
		return -0.125, 1
	}
	return 0, 2 * pi //the remaining angles
}

//AcosSpaced returns true for the parameters whose grid values are uniform in
//the cosine, rather than in the angle.
func AcosSpaced(name string) bool {
	return name == AvePosBeta || name == EigenBeta || name == AxisTheta
}
