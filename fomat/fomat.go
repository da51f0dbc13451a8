/*
 * fomat.go, part of frameorder.
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

//Package fomat compiles the 2nd degree frame order matrices, D = E[R⊗R], of the
//motional models. Every compiler works in the motional eigenframe and rotates the
//result into the structural frame with the Kronecker product of the eigenframe
//rotation, D = (Re⊗Re).D'.(Re⊗Re)^T.
//
//The averages over the torsion angle and over the tilt angle are closed forms. The
//average over the tilt axis azimuth is exact for the isotropic cones, and uses
//Gauss-Legendre quadrature for the pseudo-ellipses, whose cone edge depends on it.
package fomat

import (
	"math"
	"sync"

	fo "github.com/rmera/frameorder"
	"gonum.org/v1/gonum/integrate/quad"
	"gonum.org/v1/gonum/mat"
)

//Quadrature of the tilt axis azimuth for the pseudo-ellipses: phiBlocks equal
//sub-intervals of [0, 2pi] with phiNodes Legendre nodes each.
const (
	phiBlocks = 8
	phiNodes  = 32
)

//Identity returns the 9x9 identity, the frame order matrix of a rigid body.
func Identity() *mat.Dense {
	D := mat.NewDense(9, 9, nil)
	setIdentity(D)
	return D
}

func setIdentity(D *mat.Dense) {
	D.Zero()
	for i := 0; i < 9; i++ {
		D.Set(i, i, 1)
	}
}

//Rigid puts the identity in dst and returns it.
func Rigid(dst *mat.Dense) *mat.Dense {
	dst = ensure(dst)
	setIdentity(dst)
	return dst
}

//Rotor puts in dst the frame order matrix of a rotor about the eigenframe z axis with
//torsion half-angle sigmaMax, and returns it.
func Rotor(dst *mat.Dense, Rx2 mat.Matrix, sigmaMax float64) *mat.Dense {
	return toStructure(dst, Rx2, rotorEigen(2, sigmaMax))
}

//FreeRotor is Rotor with sigmaMax = pi.
func FreeRotor(dst *mat.Dense, Rx2 mat.Matrix) *mat.Dense {
	return Rotor(dst, Rx2, math.Pi)
}

//IsoCone is the frame order matrix of the isotropic cone of half-angle theta about the
//eigenframe z axis, with torsion half-angle sigmaMax.
func IsoCone(dst *mat.Dense, Rx2 mat.Matrix, theta, sigmaMax float64) *mat.Dense {
	D := new(mat.Dense)
	D.Mul(isoTilt(theta), rotorEigen(2, sigmaMax))
	return toStructure(dst, Rx2, D)
}

//IsoConeTorsionless is the isotropic cone without torsion.
func IsoConeTorsionless(dst *mat.Dense, Rx2 mat.Matrix, theta float64) *mat.Dense {
	return toStructure(dst, Rx2, isoTilt(theta))
}

//IsoConeFreeRotor is the isotropic cone, given by its order parameter s1, with free torsion.
func IsoConeFreeRotor(dst *mat.Dense, Rx2 mat.Matrix, s1 float64) *mat.Dense {
	return IsoCone(dst, Rx2, fo.IsoConeSToTheta(s1), math.Pi)
}

//PseudoEllipse is the frame order matrix of the pseudo-elliptic cone with half-angles
//thetaX and thetaY along the eigenframe x and y axes, and torsion half-angle sigmaMax.
func PseudoEllipse(dst *mat.Dense, Rx2 mat.Matrix, thetaX, thetaY, sigmaMax float64) *mat.Dense {
	D := new(mat.Dense)
	D.Mul(ellipseTilt(thetaX, thetaY), rotorEigen(2, sigmaMax))
	return toStructure(dst, Rx2, D)
}

//PseudoEllipseTorsionless is the pseudo-ellipse without torsion.
func PseudoEllipseTorsionless(dst *mat.Dense, Rx2 mat.Matrix, thetaX, thetaY float64) *mat.Dense {
	return toStructure(dst, Rx2, ellipseTilt(thetaX, thetaY))
}

//PseudoEllipseFreeRotor is the pseudo-ellipse with free torsion.
func PseudoEllipseFreeRotor(dst *mat.Dense, Rx2 mat.Matrix, thetaX, thetaY float64) *mat.Dense {
	return PseudoEllipse(dst, Rx2, thetaX, thetaY, math.Pi)
}

//DoubleRotor is the frame order matrix of two consecutive rotors, the first about the
//eigenframe y axis with half-angle sigmaMax, the second about the eigenframe x axis
//with half-angle sigmaMax2.
func DoubleRotor(dst *mat.Dense, Rx2 mat.Matrix, sigmaMax, sigmaMax2 float64) *mat.Dense {
	D := new(mat.Dense)
	D.Mul(rotorEigen(1, sigmaMax), rotorEigen(0, sigmaMax2))
	return toStructure(dst, Rx2, D)
}

func ensure(dst *mat.Dense) *mat.Dense {
	if dst == nil {
		return mat.NewDense(9, 9, nil)
	}
	if r, c := dst.Dims(); r != 9 || c != 9 {
		panic(ErrNot9x9)
	}
	return dst
}

//toStructure puts (Rx2).D.(Rx2)^T in dst. A nil Rx2 means the eigenframe is the structural frame.
func toStructure(dst *mat.Dense, Rx2 mat.Matrix, D *mat.Dense) *mat.Dense {
	dst = ensure(dst)
	if Rx2 == nil {
		dst.Copy(D)
		return dst
	}
	tmp := mat.NewDense(9, 9, nil)
	tmp.Mul(Rx2, D)
	dst.Mul(tmp, Rx2.T())
	return dst
}

//sinc returns sin(x)/x
func sinc(x float64) float64 {
	if math.Abs(x) < 1e-4 {
		return 1 - x*x/6
	}
	return math.Sin(x) / x
}

//rotorEigen returns E[R⊗R] for rotations R of angle sigma, uniform in [-sigmaMax, sigmaMax],
//about the principal axis ax (0, 1 or 2). With P the projector on the axis, Q=I-P and K
//its cross product matrix, R = P + cos(sigma)Q + sin(sigma)K, and the odd terms average out.
func rotorEigen(ax int, sigmaMax float64) *mat.Dense {
	var e [3]float64
	e[ax] = 1
	P := mat.NewDense(3, 3, nil)
	Q := mat.NewDense(3, 3, nil)
	K := mat.NewDense(3, 3, []float64{0, -e[2], e[1], e[2], 0, -e[0], -e[1], e[0], 0})
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			P.Set(i, j, e[i]*e[j])
			q := -e[i] * e[j]
			if i == j {
				q++
			}
			Q.Set(i, j, q)
		}
	}
	ec := sinc(sigmaMax)
	s2 := sinc(2 * sigmaMax)
	ec2 := (1 + s2) / 2
	es2 := (1 - s2) / 2
	D := new(mat.Dense)
	D.Kronecker(P, P)
	tmp := new(mat.Dense)
	for _, t := range []struct {
		f    float64
		a, b *mat.Dense
	}{{ec, P, Q}, {ec, Q, P}, {ec2, Q, Q}, {es2, K, K}} {
		tmp.Kronecker(t.a, t.b)
		addScaled(D, t.f, tmp)
	}
	return D
}

//addScaled puts D+f*A in D
func addScaled(D *mat.Dense, f float64, A *mat.Dense) {
	d := D.RawMatrix()
	a := A.RawMatrix()
	for i := 0; i < d.Rows; i++ {
		dr := d.Data[i*d.Stride : i*d.Stride+d.Cols]
		ar := a.Data[i*a.Stride : i*a.Stride+a.Cols]
		for j, v := range ar {
			dr[j] += f * v
		}
	}
}

//The tilt T = Rz(phi).Ry(theta).Rz(-phi) is written as M0 + cos(theta)M1 + sin(theta)M2,
//with the Ma depending only on phi.
func tiltParts(phi float64) [3]*mat.Dense {
	s, c := math.Sincos(phi)
	return [3]*mat.Dense{
		mat.NewDense(3, 3, []float64{s * s, -c * s, 0, -c * s, c * c, 0, 0, 0, 0}),
		mat.NewDense(3, 3, []float64{c * c, c * s, 0, c * s, s * s, 0, 0, 0, 1}),
		mat.NewDense(3, 3, []float64{0, 0, c, 0, 0, s, -c, -s, 0}),
	}
}

//tiltMoments returns the integrals over [0, thetaMax] of fa(theta)fb(theta)sin(theta),
//with f0=1, f1=cos and f2=sin, and the area, i.e. the 0,0 element.
func tiltMoments(thetaMax float64) [3][3]float64 {
	var m [3][3]float64
	sh := math.Sin(thetaMax / 2)
	omc := 2 * sh * sh //1-cos, without cancellation
	s, c := math.Sincos(thetaMax)
	x := 2 * thetaMax
	var xms float64 //x - sin(x)
	if x < 1e-2 {
		x3 := x * x * x
		xms = x3/6 - x3*x*x/120 + x3*x3*x/5040
	} else {
		xms = x - math.Sin(x)
	}
	m[0][0] = omc
	m[0][1] = s * s / 2
	m[1][1] = omc * (1 + c + c*c) / 3
	m[0][2] = xms / 4
	m[1][2] = s * s * s / 3
	m[2][2] = omc * (1 - c) * (2 + c) / 3
	m[1][0], m[2][0], m[2][1] = m[0][1], m[0][2], m[1][2]
	return m
}

var (
	isoBasisOnce sync.Once
	isoBasis     [3][3]*mat.Dense
)

//The averages over a uniform phi of the Ma⊗Mb. Their elements are trigonometric polynomials
//of degree 4 at most, for which an equally spaced rule with more than 4 nodes is exact.
func isoTiltBasis() [3][3]*mat.Dense {
	isoBasisOnce.Do(func() {
		const n = 16
		for a := 0; a < 3; a++ {
			for b := 0; b < 3; b++ {
				isoBasis[a][b] = mat.NewDense(9, 9, nil)
			}
		}
		tmp := new(mat.Dense)
		for i := 0; i < n; i++ {
			M := tiltParts(2 * math.Pi * float64(i) / n)
			for a := 0; a < 3; a++ {
				for b := 0; b < 3; b++ {
					tmp.Kronecker(M[a], M[b])
					isoBasis[a][b].Add(isoBasis[a][b], tmp)
				}
			}
		}
		for a := 0; a < 3; a++ {
			for b := 0; b < 3; b++ {
				isoBasis[a][b].Scale(1.0/n, isoBasis[a][b])
			}
		}
	})
	return isoBasis
}

//isoTilt returns E[T⊗T] for tilts uniform on the spherical cap of half-angle thetaMax.
func isoTilt(thetaMax float64) *mat.Dense {
	if thetaMax <= 0 {
		return Identity()
	}
	m := tiltMoments(thetaMax)
	B := isoTiltBasis()
	D := mat.NewDense(9, 9, nil)
	for a := 0; a < 3; a++ {
		for b := 0; b < 3; b++ {
			addScaled(D, m[a][b]/m[0][0], B[a][b])
		}
	}
	return D
}

//EllipseEdge returns the tilt half-angle of the pseudo-elliptic cone edge at the azimuth phi.
func EllipseEdge(thetaX, thetaY, phi float64) float64 {
	s, c := math.Sincos(phi)
	return 1 / math.Sqrt(c*c/(thetaX*thetaX)+s*s/(thetaY*thetaY))
}

var (
	legendreOnce sync.Once
	phiX, phiW   []float64
)

func phiQuadrature() ([]float64, []float64) {
	legendreOnce.Do(func() {
		phiX = make([]float64, phiBlocks*phiNodes)
		phiW = make([]float64, phiBlocks*phiNodes)
		width := 2 * math.Pi / phiBlocks
		for b := 0; b < phiBlocks; b++ {
			lo := float64(b) * width
			quad.Legendre{}.FixedLocations(phiX[b*phiNodes:(b+1)*phiNodes], phiW[b*phiNodes:(b+1)*phiNodes], lo, lo+width)
		}
	})
	return phiX, phiW
}

//ellipseTilt returns E[T⊗T] for tilts uniform on the surface enclosed by the pseudo-ellipse.
func ellipseTilt(thetaX, thetaY float64) *mat.Dense {
	if thetaX <= 0 || thetaY <= 0 {
		return Identity()
	}
	x, w := phiQuadrature()
	D := mat.NewDense(9, 9, nil)
	tmp := new(mat.Dense)
	var area float64
	for i, phi := range x {
		m := tiltMoments(EllipseEdge(thetaX, thetaY, phi))
		M := tiltParts(phi)
		for a := 0; a < 3; a++ {
			for b := 0; b < 3; b++ {
				tmp.Kronecker(M[a], M[b])
				addScaled(D, w[i]*m[a][b], tmp)
			}
		}
		area += w[i] * m[0][0]
	}
	if area <= 0 {
		return Identity()
	}
	D.Scale(1/area, D)
	return D
}

//PanicMsg is a message used for panics.
type PanicMsg string

func (v PanicMsg) Error() string { return string(v) }

const ErrNot9x9 = PanicMsg("frameorder/fomat: 9x9 destination matrix expected")
