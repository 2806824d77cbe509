// Copyright 2023 The Hephaestus Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package solver wraps the linear solvers of the implicit step: a
// conjugate-gradient solver with optional Jacobi scaling for the
// symmetric operators produced by mass and diffusion kernels, and a
// sparse direct solver for everything else
package solver

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/la"
	"github.com/vladimir-ch/iterative"

	"github.com/EMinsight/hephaestus/par"
)

// solver type names
const (
	TypeCG     = "cg"
	TypeDirect = "direct"
)

// Options configure the linear solver of the implicit step
type Options struct {
	Type       string  // "cg" or "direct"
	Tol        float64 // residual tolerance (iterative types)
	MaxIter    int     // iteration budget (iterative types)
	PrintLevel int     // >0 prints a convergence summary on the root processor
	Jacobi     bool    // symmetric Jacobi scaling of the operator (cg)

	// DtTol controls solver reuse across time steps: the factorization
	// or operator binding is kept while |dt - dtPrev| <= DtTol*dt.
	// A negative value forces a rebuild on every step.
	DtTol float64
}

// NewOptions returns solver options with default values
func NewOptions() *Options {
	return &Options{
		Type:    TypeCG,
		Tol:     1e-10,
		MaxIter: 1000,
		DtTol:   1e-12,
	}
}

// Solver solves A x = b for the operator fixed at construction time
type Solver interface {
	Mult(b, x []float64) error // solves one right-hand side
	Free()                     // releases factorization resources
}

// NonConvergence reports an iterative solve stopping at its iteration
// budget without reaching the residual tolerance
type NonConvergence struct {
	Iterations int
	Residual   float64
}

func (e *NonConvergence) Error() string {
	return io.Sf("linear solve did not converge after %d iterations. residual = %g", e.Iterations, e.Residual)
}

// New returns a solver bound to the assembled operator. Am is the
// compressed matrix, K its triplet and diag its diagonal; unknown
// option types are a configuration error.
func New(opts *Options, comm *par.Comm, Am *la.CCMatrix, K *la.Triplet, diag []float64) (Solver, error) {
	switch opts.Type {
	case TypeCG:
		return newCG(opts, comm, Am, diag), nil
	case TypeDirect:
		return newDirect(opts, comm, K), nil
	}
	chk.Panic("unknown solver type %q", opts.Type)
	return nil, nil
}

// cg is a conjugate-gradient solver on the bound operator. With Jacobi
// enabled it solves the symmetrically scaled system
// (D^-1/2 A D^-1/2) y = D^-1/2 b and maps back x = D^-1/2 y.
type cg struct {
	opts  *Options
	comm  *par.Comm
	Am    *la.CCMatrix
	scale []float64 // 1/sqrt(diag); nil when scaling is off
	w     []float64 // matvec workspace
	n     int
}

func newCG(opts *Options, comm *par.Comm, Am *la.CCMatrix, diag []float64) (o *cg) {
	o = &cg{opts: opts, comm: comm, Am: Am, n: len(diag)}
	if opts.Jacobi {
		o.scale = make([]float64, o.n)
		for i, d := range diag {
			if d <= 0 {
				chk.Panic("Jacobi scaling needs a positive diagonal. entry %d = %g", i, d)
			}
			o.scale[i] = 1 / math.Sqrt(d)
		}
		o.w = make([]float64, o.n)
	}
	return
}

// Mult solves for one right-hand side. b is not modified; x receives
// the solution only on success.
func (o *cg) Mult(b, x []float64) error {
	matvec := func(dst, src []float64) {
		if o.scale == nil {
			la.SpMatVecMul(dst, 1, o.Am, src)
			return
		}
		for i := range src {
			o.w[i] = o.scale[i] * src[i]
		}
		la.SpMatVecMul(dst, 1, o.Am, o.w)
		for i := range dst {
			dst[i] *= o.scale[i]
		}
	}
	rhs := b
	if o.scale != nil {
		rhs = make([]float64, o.n)
		for i := range b {
			rhs[i] = o.scale[i] * b[i]
		}
	}
	settings := iterative.Settings{
		Tolerance:     o.opts.Tol,
		MaxIterations: o.opts.MaxIter,
	}
	res, err := iterative.LinearSolve(iterative.MatrixOps{MatVec: matvec}, rhs, &iterative.CG{}, settings)
	if err != nil {
		return &NonConvergence{Iterations: res.Stats.Iterations, Residual: res.Stats.ResidualNorm}
	}
	if o.scale == nil {
		copy(x, res.X)
	} else {
		for i := range x {
			x[i] = o.scale[i] * res.X[i]
		}
	}
	if o.opts.PrintLevel > 0 && o.comm.Root() {
		io.Pf("    cg: it=%d res=%g\n", res.Stats.Iterations, res.Stats.ResidualNorm)
	}
	return nil
}

// Free implements Solver; cg holds no external resources
func (o *cg) Free() {}

// direct factorizes the operator once and back-substitutes per solve
type direct struct {
	opts *Options
	lis  la.SparseSolver
}

func newDirect(opts *Options, comm *par.Comm, K *la.Triplet) (o *direct) {
	o = &direct{opts: opts}
	o.lis = la.NewSparseSolver("umfpack")
	o.lis.Init(K, false, opts.PrintLevel > 1, "", "", nil)
	o.lis.Fact()
	return
}

// Mult back-substitutes one right-hand side
func (o *direct) Mult(b, x []float64) error {
	o.lis.Solve(x, b, false)
	return nil
}

// Free releases the factorization
func (o *direct) Free() {
	o.lis.Free()
}
