/*
 * grid.go, part of frameorder.
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

package opt

import (
	"context"
	"math"
	"runtime"

	fo "github.com/rmera/frameorder"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
)

//MaxGridNodes is the largest grid allowed.
const MaxGridNodes = 5e7

//Func is a function to be minimised.
type Func func(x []float64) float64

//Row describes the values of one parameter in a grid. An increment count of 0 or 1
//gives only the lower value. Acos rows are uniform in cos(x), between cos(Lo) and
//cos(Hi), excluding Hi.
type Row struct {
	Lo, Hi float64
	Inc    int
	Acos   bool
}

//Values returns the grid values of the row.
func (R Row) Values() []float64 {
	if R.Inc <= 1 {
		return []float64{R.Lo}
	}
	ret := make([]float64, R.Inc)
	if R.Acos {
		ulo, uhi := math.Cos(R.Lo), math.Cos(R.Hi)
		du := (uhi - ulo) / float64(R.Inc)
		ret[0] = R.Lo
		for i := 1; i < R.Inc; i++ {
			ret[i] = math.Acos(ulo + float64(i)*du)
		}
		return ret
	}
	d := (R.Hi - R.Lo) / float64(R.Inc-1)
	for i := range ret {
		ret[i] = R.Lo + float64(i)*d
	}
	ret[R.Inc-1] = R.Hi
	return ret
}

//Grid is a regular grid of parameter vectors. The first parameter changes fastest.
type Grid struct {
	values [][]float64
	size   int
}

//NewGrid builds the grid for the given rows. It fails with GridTooLarge if the
//number of nodes is larger than max, before building anything.
func NewGrid(rows []Row, max float64) (*Grid, error) {
	total := 1.0
	for _, r := range rows {
		n := r.Inc
		if n < 1 {
			n = 1
		}
		total *= float64(n)
	}
	if total > max {
		return nil, fo.NewError(fo.GridTooLarge, "opt.NewGrid", "the grid has %.4g nodes, more than the maximum of %.4g", total, max)
	}
	G := &Grid{values: make([][]float64, len(rows)), size: 1}
	for i, r := range rows {
		G.values[i] = r.Values()
		G.size *= len(G.values[i])
	}
	return G, nil
}

//Size returns the number of nodes of the grid.
func (G *Grid) Size() int {
	return G.size
}

//Dim returns the number of parameters.
func (G *Grid) Dim() int {
	return len(G.values)
}

//Point puts the node with index idx in dst, which is allocated if nil, and returns it.
func (G *Grid) Point(idx int, dst []float64) []float64 {
	if dst == nil {
		dst = make([]float64, len(G.values))
	}
	for i, v := range G.values {
		dst[i] = v[idx%len(v)]
		idx /= len(v)
	}
	return dst
}

//Feasible returns the indexes of the nodes satisfying C. A nil C keeps every node.
func (G *Grid) Feasible(C *Constraints) []int32 {
	ret := make([]int32, 0, G.size)
	p := make([]float64, G.Dim())
	for i := 0; i < G.size; i++ {
		if C.Len() > 0 && !C.Check(G.Point(i, p)) {
			continue
		}
		ret = append(ret, int32(i))
	}
	return ret
}

//GridSettings controls the evaluation of a grid.
type GridSettings struct {
	Seed         uint64
	Subdivisions int //0 means four per worker
	Cpus         int //0 means runtime.NumCPU()
	//Report, if not nil, is called after each subdivision is evaluated.
	//It may be called concurrently.
	Report func(sub, nsub int, best float64)
}

//GridResult is the minimum of a grid search.
type GridResult struct {
	X         []float64
	F         float64
	Index     int
	Evaluated int
}

type gridBest struct {
	f   float64
	idx int
	n   int
}

//better returns true if (f, idx) should replace the current best. NaN is worse than anything,
//and equal values are resolved by the node index, so the order of evaluation doesn't matter.
func (b gridBest) better(f float64, idx int) bool {
	if math.IsNaN(f) {
		f = math.Inf(1)
	}
	if b.idx < 0 {
		return true
	}
	return f < b.f || (f == b.f && idx < b.idx)
}

//GridSearch evaluates the function at every node of G satisfying C, and returns the minimum.
//The feasible nodes are shuffled and split into contiguous subdivisions, which are
//evaluated concurrently. newFunc is called once per subdivision, so each gets its own
//function. If ctx is cancelled, all the partial results are discarded.
func GridSearch(ctx context.Context, G *Grid, C *Constraints, newFunc func() Func, set GridSettings) (*GridResult, error) {
	nodes := G.Feasible(C)
	if len(nodes) == 0 {
		return nil, fo.NewError(fo.ParameterOutOfRange, "opt.GridSearch", "no grid node satisfies the constraints")
	}
	rand.New(rand.NewSource(set.Seed)).Shuffle(len(nodes), func(i, j int) { nodes[i], nodes[j] = nodes[j], nodes[i] })
	cpus := set.Cpus
	if cpus <= 0 {
		cpus = runtime.NumCPU()
	}
	nsub := set.Subdivisions
	if nsub <= 0 {
		nsub = 4 * cpus
	}
	if nsub > len(nodes) {
		nsub = len(nodes)
	}
	results := make([]gridBest, nsub)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cpus)
	chunk := (len(nodes) + nsub - 1) / nsub
	for s := 0; s < nsub; s++ {
		lo := s * chunk
		hi := lo + chunk
		if hi > len(nodes) {
			hi = len(nodes)
		}
		if lo > hi {
			lo = hi
		}
		s := s
		g.Go(func() error {
			f := newFunc()
			best := gridBest{idx: -1, f: math.Inf(1)}
			p := make([]float64, G.Dim())
			for _, idx := range nodes[lo:hi] {
				if err := gctx.Err(); err != nil {
					return err
				}
				v := f(G.Point(int(idx), p))
				if best.better(v, int(idx)) {
					best.idx = int(idx)
					best.f = v
					if math.IsNaN(v) {
						best.f = math.Inf(1)
					}
				}
				best.n++
			}
			results[s] = best
			if set.Report != nil {
				set.Report(s, nsub, best.f)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err //only cancellation gets here
	}
	best := gridBest{idx: -1, f: math.Inf(1)}
	evaluated := 0
	for _, r := range results {
		evaluated += r.n
		if r.idx >= 0 && best.better(r.f, r.idx) {
			best.f, best.idx = r.f, r.idx
		}
	}
	return &GridResult{X: G.Point(best.idx, nil), F: best.f, Index: best.idx, Evaluated: evaluated}, nil
}
