// Copyright 2023 The Hephaestus Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package forms implements bilinear, mixed bilinear and linear weak forms
// assembled into sparse triplets. Kernels contribute integrators to forms;
// the equation system owns the forms and clears them before re-applying
// kernels, so integrator lists never accumulate duplicate terms.
package forms

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"

	"github.com/EMinsight/hephaestus/fes"
)

// Putter accumulates entries of a sparse matrix. *la.Triplet satisfies
// it; the equation system uses its own putter to route block
// contributions into the global constrained matrix.
type Putter interface {
	Put(i, j int, x float64)
}

// Integrator adds one weak-form term to a sparse matrix sink
type Integrator interface {
	AddToTriplet(K Putter) // adds the term's contributions
	Nnz() int              // upper bound of contributed non-zeros
}

// VecIntegrator adds one weak-form term to a dense right-hand-side vector
type VecIntegrator interface {
	AddToVector(b []float64)
}

// BilinearForm holds a square weak form with test and trial on the same
// space
type BilinearForm struct {
	Space       fes.Space
	integrators []Integrator
	K           la.Triplet
	Am          *la.CCMatrix
	assembled   bool
}

// NewBilinearForm returns a new bilinear form on the given space
func NewBilinearForm(space fes.Space) (o *BilinearForm) {
	o = new(BilinearForm)
	o.Space = space
	return
}

// Clear drops all integrators and invalidates the assembled matrix
func (o *BilinearForm) Clear() {
	o.integrators = o.integrators[:0]
	o.Am = nil
	o.assembled = false
}

// AddIntegrator adds one weak-form term
func (o *BilinearForm) AddIntegrator(ig Integrator) {
	o.integrators = append(o.integrators, ig)
}

// Assemble rebuilds the sparse matrix from all integrators
func (o *BilinearForm) Assemble() {
	n := o.Space.NumDofs()
	nnz := 0
	for _, ig := range o.integrators {
		nnz += ig.Nnz()
	}
	o.K.Init(n, n, max(nnz, 1))
	for _, ig := range o.integrators {
		ig.AddToTriplet(&o.K)
	}
	o.Am = o.K.ToMatrix(nil)
	o.assembled = true
}

// Assembled tells whether the form holds an up-to-date matrix
func (o *BilinearForm) Assembled() bool { return o.assembled }

// Triplet returns the assembled triplet
func (o *BilinearForm) Triplet() *la.Triplet {
	if !o.assembled {
		chk.Panic("bilinear form was not assembled")
	}
	return &o.K
}

// AddMult computes b += a * K * x using the assembled matrix
func (o *BilinearForm) AddMult(b []float64, a float64, x []float64) {
	if !o.assembled {
		chk.Panic("bilinear form was not assembled")
	}
	la.SpMatVecMulAdd(b, a, o.Am, x)
}

// AddTo re-applies all integrators into an external sink; the equation
// system uses this to build the global constrained matrix from blocks
func (o *BilinearForm) AddTo(p Putter) {
	for _, ig := range o.integrators {
		ig.AddToTriplet(p)
	}
}

// Nnz returns the non-zero upper bound over all integrators
func (o *BilinearForm) Nnz() (nnz int) {
	for _, ig := range o.integrators {
		nnz += ig.Nnz()
	}
	return
}

// Checksum returns a deterministic fingerprint of the assembled matrix.
// Two bit-identical matrices produce the same checksum.
func (o *BilinearForm) Checksum() float64 {
	if !o.assembled {
		chk.Panic("bilinear form was not assembled")
	}
	return matChecksum(o.Am, o.Space.NumDofs(), o.Space.NumDofs())
}

// MixedBilinearForm holds a rectangular weak form coupling a trial space
// (columns) to a test space (rows)
type MixedBilinearForm struct {
	Test        fes.Space
	Trial       fes.Space
	integrators []Integrator
	K           la.Triplet
	Am          *la.CCMatrix
	assembled   bool
}

// NewMixedBilinearForm returns a new mixed form. Test and trial spaces
// must share the same cell partition.
func NewMixedBilinearForm(test, trial fes.Space) (o *MixedBilinearForm) {
	if test.NumCells() != trial.NumCells() {
		chk.Panic("mixed form needs matching cell partitions. %d != %d", test.NumCells(), trial.NumCells())
	}
	o = new(MixedBilinearForm)
	o.Test = test
	o.Trial = trial
	return
}

// Clear drops all integrators and invalidates the assembled matrix
func (o *MixedBilinearForm) Clear() {
	o.integrators = o.integrators[:0]
	o.Am = nil
	o.assembled = false
}

// AddIntegrator adds one weak-form term
func (o *MixedBilinearForm) AddIntegrator(ig Integrator) {
	o.integrators = append(o.integrators, ig)
}

// Assemble rebuilds the sparse matrix from all integrators
func (o *MixedBilinearForm) Assemble() {
	nnz := 0
	for _, ig := range o.integrators {
		nnz += ig.Nnz()
	}
	o.K.Init(o.Test.NumDofs(), o.Trial.NumDofs(), max(nnz, 1))
	for _, ig := range o.integrators {
		ig.AddToTriplet(&o.K)
	}
	o.Am = o.K.ToMatrix(nil)
	o.assembled = true
}

// Assembled tells whether the form holds an up-to-date matrix
func (o *MixedBilinearForm) Assembled() bool { return o.assembled }

// Triplet returns the assembled triplet
func (o *MixedBilinearForm) Triplet() *la.Triplet {
	if !o.assembled {
		chk.Panic("mixed bilinear form was not assembled")
	}
	return &o.K
}

// AddMult computes b += a * K * x using the assembled matrix
func (o *MixedBilinearForm) AddMult(b []float64, a float64, x []float64) {
	if !o.assembled {
		chk.Panic("mixed bilinear form was not assembled")
	}
	la.SpMatVecMulAdd(b, a, o.Am, x)
}

// AddTo re-applies all integrators into an external sink
func (o *MixedBilinearForm) AddTo(p Putter) {
	for _, ig := range o.integrators {
		ig.AddToTriplet(p)
	}
}

// Nnz returns the non-zero upper bound over all integrators
func (o *MixedBilinearForm) Nnz() (nnz int) {
	for _, ig := range o.integrators {
		nnz += ig.Nnz()
	}
	return
}

// Checksum returns a deterministic fingerprint of the assembled matrix
func (o *MixedBilinearForm) Checksum() float64 {
	if !o.assembled {
		chk.Panic("mixed bilinear form was not assembled")
	}
	return matChecksum(o.Am, o.Test.NumDofs(), o.Trial.NumDofs())
}

// LinearForm holds a linear weak form (right-hand-side terms) on one space
type LinearForm struct {
	Space       fes.Space
	integrators []VecIntegrator
	B           []float64
}

// NewLinearForm returns a new linear form on the given space
func NewLinearForm(space fes.Space) (o *LinearForm) {
	o = new(LinearForm)
	o.Space = space
	o.B = make([]float64, space.NumDofs())
	return
}

// Clear drops all integrators and zeroes the assembled vector
func (o *LinearForm) Clear() {
	o.integrators = o.integrators[:0]
	la.Vector(o.B).Fill(0)
}

// AddIntegrator adds one weak-form term
func (o *LinearForm) AddIntegrator(ig VecIntegrator) {
	o.integrators = append(o.integrators, ig)
}

// AddToDof accumulates a value into one entry; used by integrated
// boundary conditions
func (o *LinearForm) AddToDof(i int, v float64) {
	o.B[i] += v
}

// Assemble rebuilds the vector from all integrators
func (o *LinearForm) Assemble() {
	la.Vector(o.B).Fill(0)
	for _, ig := range o.integrators {
		ig.AddToVector(o.B)
	}
}

// matChecksum fingerprints a sparse matrix through two deterministic
// matrix-vector products; identical matrices give identical sums
func matChecksum(Am *la.CCMatrix, m, n int) float64 {
	u := make([]float64, n)
	w := make([]float64, m)
	for i := 0; i < n; i++ {
		u[i] = math.Sin(float64(i + 1))
	}
	la.SpMatVecMul(w, 1, Am, u)
	sum := 0.0
	for i := 0; i < m; i++ {
		sum += w[i] * math.Cos(float64(i+1))
	}
	return sum
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
