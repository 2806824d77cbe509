// Copyright 2023 The Hephaestus Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package forms

import (
	"gonum.org/v1/gonum/mat"

	"github.com/EMinsight/hephaestus/coeff"
	"github.com/EMinsight/hephaestus/fes"
)

// MassIntegrator adds the weighted mass term (c u, v)
type MassIntegrator struct {
	Space fes.Space
	C     coeff.Scalar
}

// AddToTriplet assembles the mass term
func (o *MassIntegrator) AddToTriplet(K Putter) {
	for c := 0; c < o.Space.NumCells(); c++ {
		dofs := o.Space.CellDofs(c)
		n := len(dofs)
		k := mat.NewDense(n, n, nil)
		for _, ip := range o.Space.CellIps(c) {
			cv := o.C.Eval(ip.X) * ip.W
			for i := 0; i < n; i++ {
				for j := 0; j < n; j++ {
					k.Set(i, j, k.At(i, j)+cv*ip.S[i]*ip.S[j])
				}
			}
		}
		putLocal(K, dofs, dofs, k)
	}
}

// Nnz returns an upper bound of contributed non-zeros
func (o *MassIntegrator) Nnz() int { return cellNnz(o.Space, o.Space) }

// DiffusionIntegrator adds the weighted stiffness term (c ∇u, ∇v); it is
// the scalar stand-in for curl-curl type operators
type DiffusionIntegrator struct {
	Space fes.Space
	C     coeff.Scalar
}

// AddToTriplet assembles the stiffness term
func (o *DiffusionIntegrator) AddToTriplet(K Putter) {
	for c := 0; c < o.Space.NumCells(); c++ {
		dofs := o.Space.CellDofs(c)
		n := len(dofs)
		k := mat.NewDense(n, n, nil)
		for _, ip := range o.Space.CellIps(c) {
			cv := o.C.Eval(ip.X) * ip.W
			for i := 0; i < n; i++ {
				for j := 0; j < n; j++ {
					dot := 0.0
					for d := 0; d < len(ip.G[i]); d++ {
						dot += ip.G[i][d] * ip.G[j][d]
					}
					k.Set(i, j, k.At(i, j)+cv*dot)
				}
			}
		}
		putLocal(K, dofs, dofs, k)
	}
}

// Nnz returns an upper bound of contributed non-zeros
func (o *DiffusionIntegrator) Nnz() int { return cellNnz(o.Space, o.Space) }

// MixedGradIntegrator adds the mixed coupling term (c ∇p, v) pairing the
// gradient of the trial field with the test shape functions. Test rows,
// trial columns; both spaces must share the cell partition.
type MixedGradIntegrator struct {
	Test  fes.Space
	Trial fes.Space
	C     coeff.Scalar
}

// AddToTriplet assembles the coupling term
func (o *MixedGradIntegrator) AddToTriplet(K Putter) {
	for c := 0; c < o.Test.NumCells(); c++ {
		rdofs := o.Test.CellDofs(c)
		cdofs := o.Trial.CellDofs(c)
		ripts := o.Test.CellIps(c)
		cipts := o.Trial.CellIps(c)
		m, n := len(rdofs), len(cdofs)
		k := mat.NewDense(m, n, nil)
		for p, ip := range ripts {
			tip := cipts[p]
			cv := o.C.Eval(ip.X) * ip.W
			for i := 0; i < m; i++ {
				for j := 0; j < n; j++ {
					k.Set(i, j, k.At(i, j)+cv*ip.S[i]*tip.G[j][0])
				}
			}
		}
		putLocal(K, rdofs, cdofs, k)
	}
}

// Nnz returns an upper bound of contributed non-zeros
func (o *MixedGradIntegrator) Nnz() int { return cellNnz(o.Test, o.Trial) }

// DomainSourceIntegrator adds the source term (c, v) to a linear form
type DomainSourceIntegrator struct {
	Space fes.Space
	C     coeff.Scalar
}

// AddToVector assembles the source term
func (o *DomainSourceIntegrator) AddToVector(b []float64) {
	for c := 0; c < o.Space.NumCells(); c++ {
		dofs := o.Space.CellDofs(c)
		for _, ip := range o.Space.CellIps(c) {
			cv := o.C.Eval(ip.X) * ip.W
			for i, I := range dofs {
				b[I] += cv * ip.S[i]
			}
		}
	}
}

// putLocal scatters a dense local matrix into the global triplet
func putLocal(K Putter, rdofs, cdofs []int, k *mat.Dense) {
	for i, I := range rdofs {
		for j, J := range cdofs {
			K.Put(I, J, k.At(i, j))
		}
	}
}

// cellNnz sums the local matrix sizes over all cells
func cellNnz(test, trial fes.Space) (nnz int) {
	for c := 0; c < test.NumCells(); c++ {
		nnz += len(test.CellDofs(c)) * len(trial.CellDofs(c))
	}
	return
}
