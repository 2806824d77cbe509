// Copyright 2023 The Hephaestus Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package probops

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"

	"github.com/EMinsight/hephaestus/bcs"
	"github.com/EMinsight/hephaestus/coeff"
	"github.com/EMinsight/hephaestus/eqs"
	"github.com/EMinsight/hephaestus/fes"
	"github.com/EMinsight/hephaestus/forms"
	"github.com/EMinsight/hephaestus/kernels"
	"github.com/EMinsight/hephaestus/par"
	"github.com/EMinsight/hephaestus/solver"
	"github.com/EMinsight/hephaestus/vars"
)

func verbose() {
	chk.Verbose = true
}

// newHeat builds a transient single-field diffusion system on [0,1]
func newHeat(ncells int) (space *fes.Lagrange1D, sys *eqs.System, c *coeff.Registry, v *vars.Registry) {
	space = fes.NewLagrange1D(ncells, 1.0)
	s := fes.NewRegistry()
	s.Register("H1", space)
	v = vars.NewRegistry()
	v.Add("u", space)
	c = coeff.NewRegistry()
	c.DeclareConst("alpha", 1.0)
	c.DeclareConst("beta", 1.0)
	sys = eqs.NewTimeDependentSystem(par.NewComm(false))
	sys.AddKernel(kernels.NewMass("u", "beta"))
	sys.AddKernel(kernels.NewStiffness("u", "alpha"))
	sys.Init(v, s, nil, c)
	return
}

func Test_tdop01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("tdop01. implicit step satisfies the discrete equation")

	space, sys, c, _ := newHeat(4)
	op := NewTimeDomainOperator(par.NewComm(false), sys, nil, nil, c, nil)
	defer op.Free()
	n := op.Width()
	chk.IntAssert(n, 5)

	X := make([]float64, n)
	dXdt := make([]float64, n)
	for i := 0; i < n; i++ {
		X[i] = math.Sin(float64(i + 1))
	}
	dt := 0.05
	op.SetTime(dt)
	err := op.ImplicitSolve(dt, X, dXdt)
	if err != nil {
		tst.Errorf("implicit solve failed:\n%v", err)
		return
	}

	// the derivatives must satisfy M u' + K (u + dt u') = 0
	one := &coeff.Const{V: 1}
	M := forms.NewBilinearForm(space)
	M.AddIntegrator(&forms.MassIntegrator{Space: space, C: one})
	M.Assemble()
	K := forms.NewBilinearForm(space)
	K.AddIntegrator(&forms.DiffusionIntegrator{Space: space, C: one})
	K.Assemble()
	r := make([]float64, n)
	tmp := make([]float64, n)
	for i := 0; i < n; i++ {
		tmp[i] = X[i] + dt*dXdt[i]
	}
	M.AddMult(r, 1, dXdt)
	K.AddMult(r, 1, tmp)
	chk.Array(tst, "residual", 1e-7, r, make([]float64, n))
}

func Test_tdop02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("tdop02. solver cache survives step jitter")

	_, sys, c, _ := newHeat(4)
	op := NewTimeDomainOperator(par.NewComm(false), sys, nil, nil, c, nil)
	defer op.Free()
	n := op.Width()
	X := make([]float64, n)
	dXdt := make([]float64, n)
	X[2] = 1

	// identical and jittered steps reuse the factorized operator
	for k, dt := range []float64{0.1, 0.1, 0.1 * (1 + 1e-13)} {
		op.SetTime(float64(k+1) * dt)
		if err := op.ImplicitSolve(dt, X, dXdt); err != nil {
			tst.Errorf("step %d failed:\n%v", k, err)
			return
		}
	}
	chk.IntAssert(op.NumSolverBuilds(), 1)

	// a real step change rebuilds
	op.SetTime(0.5)
	if err := op.ImplicitSolve(0.2, X, dXdt); err != nil {
		tst.Errorf("step failed:\n%v", err)
		return
	}
	chk.IntAssert(op.NumSolverBuilds(), 2)
}

func Test_tdop04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("tdop04. negative DtTol rebuilds the solver every step")

	_, sys, c, _ := newHeat(4)
	opts := solver.NewOptions()
	opts.DtTol = -1
	op := NewTimeDomainOperator(par.NewComm(false), sys, nil, nil, c, opts)
	defer op.Free()
	n := op.Width()
	X := make([]float64, n)
	dXdt := make([]float64, n)
	X[2] = 1

	// identical steps, yet caching is off
	for k := 0; k < 3; k++ {
		op.SetTime(float64(k+1) * 0.1)
		if err := op.ImplicitSolve(0.1, X, dXdt); err != nil {
			tst.Errorf("step %d failed:\n%v", k, err)
			return
		}
	}
	chk.IntAssert(op.NumSolverBuilds(), 3)
}

func Test_steady01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("steady01. Dirichlet diffusion recovers the linear profile")

	space := fes.NewLagrange1D(4, 1.0)
	s := fes.NewRegistry()
	s.Register("H1", space)
	v := vars.NewRegistry()
	v.Add("u", space)
	c := coeff.NewRegistry()
	c.DeclareConst("alpha", 1.0)

	b := bcs.NewMap()
	b.AddEssential("left", &bcs.EssentialBC{VarName: "u", Attrs: []int{fes.BdryLeft}, Fcn: &dbf.Cte{C: 1}})
	b.AddEssential("right", &bcs.EssentialBC{VarName: "u", Attrs: []int{fes.BdryRight}, Fcn: &dbf.Cte{C: 3}})

	sys := eqs.NewSystem(par.NewComm(false))
	sys.AddKernel(kernels.NewStiffness("u", "alpha"))
	sys.Init(v, s, b, c)

	op := NewSteadyOperator(par.NewComm(false), sys, b, nil, c, nil)
	X := make([]float64, op.Width())
	if err := op.Solve(X); err != nil {
		tst.Errorf("solve failed:\n%v", err)
		return
	}
	chk.Array(tst, "u", 1e-7, X, []float64{1, 1.5, 2, 2.5, 3})
}

func Test_tdop03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("tdop03. operator kind must match the system kind")

	_, sys, c, _ := newHeat(2)

	defer func() {
		if recover() == nil {
			tst.Errorf("steady operator on a transient system must panic\n")
		}
	}()
	NewSteadyOperator(par.NewComm(false), sys, nil, nil, c, nil)
}
