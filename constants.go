/*
 * constants.go, part of frameorder.
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

package frameorder

import "math"

//Physical constants, SI units.
const (
	Mu0   = 4.0 * math.Pi * 1e-7 //vacuum permeability
	KB    = 1.3806504e-23        //Boltzmann
	H     = 6.62606896e-34       //Planck
	HBar  = H / (2 * math.Pi)
	G1H   = 26.7522212e7 //gyromagnetic ratios, rad s^-1 T^-1
	G13C  = 6.728e7
	G15N  = -2.7126e7
	G19F  = 25.18148e7
	RNH   = 1.02e-10 //N-H bond length, m
	RCH   = 1.09e-10 //C-H bond length, m
	PPM   = 1e-6
	Ang3m = 1e30 //converts m^-3 into Angstrom^-3
)

//FieldFromFrequency returns the magnetic field strength, in T, of a spectrometer
//with the given proton frequency in Hz.
func FieldFromFrequency(frq float64) float64 {
	return frq * 2 * math.Pi / G1H
}

//PCSConstant returns the pseudo-contact shift constant
//
//	mu0  15kT     1
//	--- ------- ----
//	4pi  B0^2   r^3
//
//for the temperature T (K), field B0 (T) and distance r (m).
func PCSConstant(T, B0, r float64) float64 {
	return Mu0 * 15.0 * KB * T / (4.0 * math.Pi * B0 * B0 * r * r * r)
}

//PCSScale returns the per-medium constant c such that the PCS, for a position r
//in Angstrom, is c/|r|^5 r.A.r. T is in K and frq the proton frequency in Hz.
func PCSScale(T, frq float64) float64 {
	return PCSConstant(T, FieldFromFrequency(frq), 1.0) * Ang3m
}

//DipolarConstant returns the RDC prefactor, in Hz, for the two gyromagnetic
//ratios and the internuclear distance r in m.
func DipolarConstant(gi, gj, r float64) float64 {
	return 3.0 / (2.0 * math.Pi) * (-Mu0 / (4.0 * math.Pi) * gi * gj * HBar / (r * r * r))
}

//IsoConeSToTheta converts the order parameter of an isotropic cone into its half-angle.
func IsoConeSToTheta(s float64) float64 {
	return math.Acos((math.Sqrt(1+8*s) - 1) / 2)
}

//IsoConeThetaToS converts the half-angle of an isotropic cone into its order parameter.
func IsoConeThetaToS(theta float64) float64 {
	c := math.Cos(theta)
	return c * (1 + c) / 2
}
