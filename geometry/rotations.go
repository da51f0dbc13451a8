/*
 * rotations.go, part of frameorder.
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

package geometry

import (
	"math"

	fo "github.com/rmera/frameorder"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

const appzero float64 = 0.000000000001 //used to correct floating point
//errors. Everything equal or less than this is considered zero.

//RotZ returns the matrix for a right-handed rotation of angle gamma about the Z axis.
func RotZ(gamma float64) *mat.Dense {
	s, c := math.Sincos(gamma)
	return mat.NewDense(3, 3, []float64{c, -s, 0, s, c, 0, 0, 0, 1})
}

//RotY returns the matrix for a right-handed rotation of angle beta about the Y axis.
func RotY(beta float64) *mat.Dense {
	s, c := math.Sincos(beta)
	return mat.NewDense(3, 3, []float64{c, 0, s, 0, 1, 0, -s, 0, c})
}

//RotX returns the matrix for a right-handed rotation of angle a about the X axis.
func RotX(a float64) *mat.Dense {
	s, c := math.Sincos(a)
	return mat.NewDense(3, 3, []float64{1, 0, 0, 0, c, -s, 0, s, c})
}

//EulerZYZ returns the rotation matrix Rz(alpha).Ry(beta).Rz(gamma).
func EulerZYZ(alpha, beta, gamma float64) *mat.Dense {
	R := mat.NewDense(3, 3, nil)
	EulerZYZTo(R, alpha, beta, gamma)
	return R
}

//EulerZYZTo is EulerZYZ, but puts the result in the 3x3 matrix R.
func EulerZYZTo(R *mat.Dense, alpha, beta, gamma float64) {
	sa, ca := math.Sincos(alpha)
	sb, cb := math.Sincos(beta)
	sg, cg := math.Sincos(gamma)
	R.Set(0, 0, -sa*sg+ca*cb*cg)
	R.Set(0, 1, -sa*cg-ca*cb*sg)
	R.Set(0, 2, ca*sb)
	R.Set(1, 0, ca*sg+sa*cb*cg)
	R.Set(1, 1, ca*cg-sa*cb*sg)
	R.Set(1, 2, sa*sb)
	R.Set(2, 0, -sb*cg)
	R.Set(2, 1, sb*sg)
	R.Set(2, 2, cb)
}

//TiltTorsion returns the rotation Rz(phi).Ry(theta).Rz(sigma-phi): a tilt of theta about
//the axis in the xy plane at azimuth phi followed by a torsion sigma about z.
func TiltTorsion(phi, theta, sigma float64) *mat.Dense {
	return EulerZYZ(phi, theta, sigma-phi)
}

//AxisAngle returns the rotation of angle about the given axis, which does not need to be normalized.
func AxisAngle(axis r3.Vec, angle float64) (*mat.Dense, error) {
	n := r3.Norm(axis)
	if n <= appzero {
		return nil, fo.NewError(fo.DegenerateGeometry, "AxisAngle", "zero-length rotation axis")
	}
	k := r3.Scale(1/n, axis)
	s, c := math.Sincos(angle)
	t := 1 - c
	return mat.NewDense(3, 3, []float64{
		c + t*k.X*k.X, t*k.X*k.Y - s*k.Z, t*k.X*k.Z + s*k.Y,
		t*k.Y*k.X + s*k.Z, c + t*k.Y*k.Y, t*k.Y*k.Z - s*k.X,
		t*k.Z*k.X - s*k.Y, t*k.Z*k.Y + s*k.X, c + t*k.Z*k.Z,
	}), nil
}

//TwoVectToR returns the shortest-arc rotation that takes the direction of u into that of v.
//For opposite vectors the rotation is of pi about an arbitrary perpendicular axis.
func TwoVectToR(u, v r3.Vec) (*mat.Dense, error) {
	nu, nv := r3.Norm(u), r3.Norm(v)
	if nu <= appzero || nv <= appzero {
		return nil, fo.NewError(fo.DegenerateGeometry, "TwoVectToR", "zero-length vector")
	}
	u = r3.Scale(1/nu, u)
	v = r3.Scale(1/nv, v)
	cross := r3.Cross(u, v)
	sin := r3.Norm(cross)
	cos := r3.Dot(u, v)
	if sin <= 1e-10 {
		if cos > 0 {
			return eye(), nil
		}
		x, _, _, err := FrameFromAxis(u)
		if err != nil {
			return nil, fo.ErrDecorate(err, "TwoVectToR")
		}
		return AxisAngle(x, math.Pi)
	}
	return AxisAngle(cross, math.Atan2(sin, cos))
}

//FrameFromAxis returns a right-handed orthonormal frame x,y,z where z is the
//normalized axis and x the re-orthonormalized projection of the global x axis
//(of the global y axis, if the axis is along x).
func FrameFromAxis(axis r3.Vec) (x, y, z r3.Vec, err error) {
	n := r3.Norm(axis)
	if n <= appzero {
		return x, y, z, fo.NewError(fo.DegenerateGeometry, "FrameFromAxis", "zero-length axis")
	}
	z = r3.Scale(1/n, axis)
	ref := r3.Vec{X: 1}
	if math.Abs(z.X) > 1-1e-8 {
		ref = r3.Vec{Y: 1}
	}
	x = r3.Unit(r3.Sub(ref, r3.Scale(r3.Dot(ref, z), z)))
	y = r3.Cross(z, x)
	return x, y, z, nil
}

//AxisFromAlpha rebuilds a rotor axis from its single angle. The axis is perpendicular
//to the pivot-point vector, alpha being the rotation about that vector from the
//x vector of FrameFromAxis(point-pivot).
func AxisFromAlpha(alpha float64, pivot, point r3.Vec) (r3.Vec, error) {
	mu := r3.Sub(point, pivot)
	if r3.Norm(mu) <= 1e-8 {
		return r3.Vec{}, fo.NewError(fo.DegenerateGeometry, "AxisFromAlpha", "the pivot and the reference point coincide")
	}
	x, y, _, err := FrameFromAxis(mu)
	if err != nil {
		return r3.Vec{}, fo.ErrDecorate(err, "AxisFromAlpha")
	}
	s, c := math.Sincos(alpha)
	return r3.Add(r3.Scale(c, x), r3.Scale(s, y)), nil
}

//SphericalToCartesian returns the cartesian vector for the radius r, the polar angle theta and the azimuth phi.
func SphericalToCartesian(r, theta, phi float64) r3.Vec {
	st, ct := math.Sincos(theta)
	sp, cp := math.Sincos(phi)
	return r3.Vec{X: r * st * cp, Y: r * st * sp, Z: r * ct}
}

//CartesianToSpherical is the inverse of SphericalToCartesian. phi is in [0, 2pi).
func CartesianToSpherical(v r3.Vec) (r, theta, phi float64) {
	r = r3.Norm(v)
	if r <= appzero {
		return 0, 0, 0
	}
	theta = math.Acos(clamp(v.Z/r, -1, 1))
	phi = math.Atan2(v.Y, v.X)
	if phi < 0 {
		phi += 2 * math.Pi
	}
	return r, theta, phi
}

//Kron returns the Kronecker product A⊗B.
func Kron(A, B mat.Matrix) *mat.Dense {
	K := new(mat.Dense)
	K.Kronecker(A, B)
	return K
}

//RotateTensor returns R.A.R^T
func RotateTensor(R, A mat.Matrix) *mat.Dense {
	tmp := new(mat.Dense)
	tmp.Mul(R, A)
	ret := new(mat.Dense)
	ret.Mul(tmp, R.T())
	return ret
}

//MulVec returns R.v for a 3x3 R.
func MulVec(R mat.Matrix, v r3.Vec) r3.Vec {
	return r3.Vec{
		X: R.At(0, 0)*v.X + R.At(0, 1)*v.Y + R.At(0, 2)*v.Z,
		Y: R.At(1, 0)*v.X + R.At(1, 1)*v.Y + R.At(1, 2)*v.Z,
		Z: R.At(2, 0)*v.X + R.At(2, 1)*v.Y + R.At(2, 2)*v.Z,
	}
}

//Column returns the ith column of the 3x3 matrix R as a vector.
func Column(R mat.Matrix, i int) r3.Vec {
	return r3.Vec{X: R.At(0, i), Y: R.At(1, i), Z: R.At(2, i)}
}

//Angle returns the angle between the vectors v1 and v2
func Angle(v1, v2 r3.Vec) float64 {
	n := r3.Norm(v1) * r3.Norm(v2)
	if n <= appzero {
		return 0
	}
	return math.Acos(clamp(r3.Dot(v1, v2)/n, -1, 1))
}

//Deg2Rad converts degrees to radians
func Deg2Rad(f float64) float64 {
	return f * math.Pi / 180
}

//Rad2Deg converts radians to degrees
func Rad2Deg(f float64) float64 {
	return f * 180 / math.Pi
}

//IsRotation returns true if R is orthogonal with determinant 1 within tol.
func IsRotation(R mat.Matrix, tol float64) bool {
	RRT := new(mat.Dense)
	RRT.Mul(R, R.T())
	if !mat.EqualApprox(RRT, eye(), tol) {
		return false
	}
	return math.Abs(mat.Det(R)-1) <= tol
}

func eye() *mat.Dense {
	return mat.NewDense(3, 3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1})
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
