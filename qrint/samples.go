/*
 * samples.go, part of frameorder.
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

//Package qrint integrates the pseudo-contact shifts of a moving domain over its
//motional distribution, using Sobol' quasi-random points in the motional variables.
//The points and their rotation matrices only depend on the model, the number of points
//and the integrated variables, and are shared read-only between all the evaluations.
package qrint

import (
	"fmt"
	"math"
	"strings"
	"sync"

	fo "github.com/rmera/frameorder"
	"github.com/rmera/frameorder/fomat"
	"github.com/rmera/frameorder/geometry"
	"github.com/rmera/frameorder/model"
	"github.com/rmera/frameorder/sobol"
	"github.com/rmera/frameorder/tensor"
)

//Key identifies a set of samples.
type Key struct {
	Tag  model.Tag
	N    int
	Dims string
}

func dimString(dims []model.Dim) string {
	s := make([]string, len(dims))
	for i, d := range dims {
		s[i] = d.String()
	}
	return strings.Join(s, ",")
}

//Samples are the mapped Sobol' points for a model and their rotations, in the motional
//eigenframe. They must not be modified once built.
type Samples struct {
	key    Key
	dims   []model.Dim
	angles [][]float64     //[point][dim]
	rot    []tensor.Mat3   //R_i'
	rot2   []tensor.Mat3   //second rotation of the double rotor
	idx    [4]int          //column of each model.Dim in angles, -1 if absent
}

//Key returns the cache key of the samples
func (S *Samples) Key() Key {
	return S.key
}

//Len returns the number of points
func (S *Samples) Len() int {
	return len(S.angles)
}

//Angle returns the value of the motional variable d at the point i, or 0 if
//the samples don't include it.
func (S *Samples) Angle(i int, d model.Dim) float64 {
	c := S.idx[d]
	if c < 0 {
		return 0
	}
	return S.angles[i][c]
}

//NewSamples builds n samples for the model tag.
func NewSamples(tag model.Tag, n int) (*Samples, error) {
	dims := tag.Dims()
	if len(dims) == 0 {
		return nil, fo.NewError(fo.InvalidData, "qrint.NewSamples", "the %s model has no numerical integration", tag)
	}
	if n <= 0 {
		return nil, fo.NewError(fo.InvalidData, "qrint.NewSamples", "%d integration points requested", n)
	}
	pts, err := sobol.Generate(len(dims), n)
	if err != nil {
		return nil, fo.ErrDecorate(err, "qrint.NewSamples")
	}
	S := &Samples{
		key:    Key{Tag: tag, N: n, Dims: dimString(dims)},
		dims:   dims,
		angles: pts,
		rot:    make([]tensor.Mat3, n),
		idx:    [4]int{-1, -1, -1, -1},
	}
	for c, d := range dims {
		S.idx[d] = c
	}
	if tag == model.DoubleRotor {
		S.rot2 = make([]tensor.Mat3, n)
	}
	for i, p := range pts {
		//map the unit hypercube onto the motional variables, in place
		for c, d := range dims {
			switch d {
			case model.Theta:
				p[c] = math.Acos(2*p[c] - 1)
			case model.Phi:
				p[c] = 2 * math.Pi * p[c]
			case model.Sigma, model.Sigma2:
				p[c] = 2 * math.Pi * (p[c] - 0.5)
			}
		}
		sigma := S.Angle(i, model.Sigma)
		switch {
		case tag == model.Rotor || tag == model.FreeRotor:
			S.rot[i] = tensor.Mat3FromDense(geometry.RotZ(sigma))
		case tag == model.DoubleRotor:
			S.rot[i] = tensor.Mat3FromDense(geometry.RotY(sigma))
			S.rot2[i] = tensor.Mat3FromDense(geometry.RotX(S.Angle(i, model.Sigma2)))
		default:
			//sigma is 0 for the torsionless models, leaving only the tilt
			S.rot[i] = tensor.Mat3FromDense(geometry.TiltTorsion(S.Angle(i, model.Phi), S.Angle(i, model.Theta), sigma))
		}
	}
	return S, nil
}

//Cache keeps the samples for the last key requested. A request for a different key
//replaces them. It is safe for concurrent use. The zero value is ready to use.
type Cache struct {
	mu  sync.Mutex
	cur *Samples
}

//Get returns the samples for the model and number of points, building them if needed.
func (C *Cache) Get(tag model.Tag, n int) (*Samples, error) {
	key := Key{Tag: tag, N: n, Dims: dimString(tag.Dims())}
	C.mu.Lock()
	defer C.mu.Unlock()
	if C.cur != nil && C.cur.key == key {
		return C.cur, nil
	}
	S, err := NewSamples(tag, n)
	if err != nil {
		return nil, err
	}
	C.cur = S
	return S, nil
}

//Motion holds the motional amplitudes that decide which samples are accepted.
type Motion struct {
	Tag       model.Tag
	Theta     float64 //isotropic cone half-angle
	ThetaX    float64
	ThetaY    float64
	SigmaMax  float64
	SigmaMax2 float64
}

//MotionFrom extracts the amplitudes from the parameter values.
func MotionFrom(tag model.Tag, V *model.Values) Motion {
	M := Motion{Tag: tag, Theta: V.Theta, ThetaX: V.ThetaX, ThetaY: V.ThetaY, SigmaMax: V.SigmaMax, SigmaMax2: V.SigmaMax2}
	if tag == model.IsoConeFreeRotor {
		M.Theta = fo.IsoConeSToTheta(V.S1)
	}
	return M
}

//Accept returns true if the sample i of S lies inside the motional domain.
func (M Motion) Accept(S *Samples, i int) bool {
	t := M.Tag
	switch {
	case t == model.Rotor:
		return math.Abs(S.Angle(i, model.Sigma)) <= M.SigmaMax
	case t == model.FreeRotor:
		return true
	case t == model.DoubleRotor:
		return math.Abs(S.Angle(i, model.Sigma)) <= M.SigmaMax && math.Abs(S.Angle(i, model.Sigma2)) <= M.SigmaMax2
	}
	theta := S.Angle(i, model.Theta)
	if t.IsoConeFamily() && theta > M.Theta {
		return false
	}
	if t.EllipseFamily() && theta > EllipseEdge(M.ThetaX, M.ThetaY, S.Angle(i, model.Phi)) {
		return false
	}
	if t.Free() || t.Torsionless() {
		return true
	}
	return math.Abs(S.Angle(i, model.Sigma)) <= M.SigmaMax
}

//EllipseEdge is fomat.EllipseEdge, but a cone with a zero half-angle has its edge at 0.
func EllipseEdge(thetaX, thetaY, phi float64) float64 {
	if thetaX <= 0 || thetaY <= 0 {
		return 0
	}
	return fomat.EllipseEdge(thetaX, thetaY, phi)
}

//Count returns the number of samples accepted for the motion M.
func (M Motion) Count(S *Samples) int {
	n := 0
	for i := 0; i < S.Len(); i++ {
		if M.Accept(S, i) {
			n++
		}
	}
	return n
}

func (M Motion) String() string {
	return fmt.Sprintf("%s θ=%.4g θx=%.4g θy=%.4g σmax=%.4g σmax2=%.4g", M.Tag, M.Theta, M.ThetaX, M.ThetaY, M.SigmaMax, M.SigmaMax2)
}
