/*
 * doc.go, part of frameorder.
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

/*Package frameorder fits frame order models of inter-domain motion to NMR residual
dipolar couplings (RDCs) and pseudo-contact shifts (PCSs).

A two-domain system is described by a static reference domain, which carries the
alignment tensors, and a moving domain whose RDC and PCS values are averaged over
a motional model: a rigid body, a rotor, free rotors, isotropic and pseudo-elliptic
cones, with or without torsion, or a double rotor.

	**Packages**

    frameorder (this one): errors, the structure reader (PDB) and the assembly of
	the experimental data (Dataset, Data).

    geometry, tensor: rotations, Euler angles and alignment tensors.

    fomat: the frame order matrices of every model.

    sobol, qrint: quasi-random integration of the PCSs.

    model, target, opt: the models with their parameters, the chi-squared target
	functions and the minimisers.

    analysis: the analysis pipe (grid search, minimisation, Monte Carlo, elimination).

    modsel, state, config, histo, corrplot: model selection, saved state, configuration
	and plots.

The cmd/frameorder program runs a complete batch analysis from a YAML configuration.
*/
package frameorder
