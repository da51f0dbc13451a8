/*
 * rules.go, part of frameorder.
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
	"fmt"

	"github.com/rmera/frameorder/opt"
)

//Limits of the linear constraints
const (
	MaxTranslation = 500.0
	MaxPivot       = 999.0
	MaxPivotDisp   = 100.0
	MinS1          = -0.125
	MaxS1          = 1.0
	//MinEllipseTheta is the smallest pseudo-ellipse half-angle the numerical
	//integration can resolve.
	MinEllipseTheta = 0.001
)

//Constraints returns the linear constraints A.x - b >= 0 on the unscaled parameter
//vector of the model. The rigid model has only the translation limits.
func (S Spec) Constraints() *opt.Constraints {
	p := S.Params()
	n := len(p)
	var rows [][]float64
	var b []float64
	//lower adds x_i >= lo, upper adds -x_i >= -hi
	lower := func(i int, lo float64) {
		r := make([]float64, n)
		r[i] = 1
		rows = append(rows, r)
		b = append(b, lo)
	}
	upper := func(i int, hi float64) {
		r := make([]float64, n)
		r[i] = -1
		rows = append(rows, r)
		b = append(b, -hi)
	}
	for i, name := range p {
		switch name {
		case PivotX, PivotY, PivotZ:
			lower(i, -MaxPivot)
			upper(i, MaxPivot)
		case PivotDisp:
			lower(i, -MaxPivotDisp)
			upper(i, MaxPivotDisp)
		case AvePosX, AvePosY, AvePosZ:
			lower(i, -MaxTranslation)
			upper(i, MaxTranslation)
		case AxisTheta, ConeTheta, ConeSigmaMax, ConeSigma2:
			lower(i, 0)
			upper(i, pi)
		case ConeThetaX:
			lower(i, 0)
		case ConeThetaY:
			upper(i, pi)
			//theta_y - theta_x >= 0
			r := make([]float64, n)
			r[i] = 1
			r[S.Index(ConeThetaX)] = -1
			rows = append(rows, r)
			b = append(b, 0)
		case ConeS1:
			lower(i, MinS1)
			upper(i, MaxS1)
		}
	}
	return opt.NewConstraints(rows, b)
}

//Eliminate returns the reasons, if any, to eliminate the model with the parameters V.
//An empty slice means the solution is acceptable.
func (S Spec) Eliminate(V *Values) []string {
	var reasons []string
	greater := func(what, sym string, v float64) {
		reasons = append(reasons, fmt.Sprintf("%s greater than π (%s = %.5g)", what, sym, v))
	}
	less := func(what, sym string, v, lim float64) {
		reasons = append(reasons, fmt.Sprintf("%s less than %.5g (%s = %.5g)", what, lim, sym, v))
	}
	t := S.Tag
	if t.IsoConeFamily() {
		if V.Theta >= pi {
			greater("cone opening angle θ", "θ", V.Theta)
		}
		if V.Theta < 0 {
			less("cone opening angle θ", "θ", V.Theta, 0)
		}
	}
	if t.EllipseFamily() {
		if V.ThetaX >= pi {
			greater("cone opening angle θx", "θx", V.ThetaX)
		}
		if V.ThetaX < MinEllipseTheta {
			less("cone opening angle θx", "θx", V.ThetaX, MinEllipseTheta)
		}
		if V.ThetaY >= pi {
			greater("cone opening angle θy", "θy", V.ThetaY)
		}
		if V.ThetaY < MinEllipseTheta {
			less("cone opening angle θy", "θy", V.ThetaY, MinEllipseTheta)
		}
	}
	if S.Index(ConeSigmaMax) >= 0 {
		if V.SigmaMax >= pi {
			greater("torsion angle σmax", "σmax", V.SigmaMax)
		}
		if V.SigmaMax < 0 {
			less("torsion angle σmax", "σmax", V.SigmaMax, 0)
		}
	}
	if S.Index(ConeSigma2) >= 0 {
		if V.SigmaMax2 >= pi {
			greater("second torsion angle σmax2", "σmax2", V.SigmaMax2)
		}
		if V.SigmaMax2 < 0 {
			less("second torsion angle σmax2", "σmax2", V.SigmaMax2, 0)
		}
	}
	return reasons
}
