/*
 * metrics.go, part of frameorder.
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

package analysis

import "github.com/prometheus/client_golang/prometheus"

//metrics are the counters of a Pipe. Each Pipe has its own registry, so several can
//coexist in one process.
type metrics struct {
	reg        *prometheus.Registry
	evals      *prometheus.CounterVec
	sims       *prometheus.CounterVec
	eliminated prometheus.Counter
}

func newMetrics() *metrics {
	m := &metrics{
		reg: prometheus.NewRegistry(),
		evals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "frameorder",
			Name:      "target_evaluations_total",
			Help:      "Target function evaluations, per driver operation.",
		}, []string{"op"}),
		sims: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "frameorder",
			Name:      "mc_simulations_total",
			Help:      "Finished Monte Carlo simulations, by outcome.",
		}, []string{"status"}),
		eliminated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "frameorder",
			Name:      "eliminations_total",
			Help:      "Models and simulations flagged for elimination.",
		}),
	}
	m.reg.MustRegister(m.evals, m.sims, m.eliminated)
	return m
}
