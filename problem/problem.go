// Copyright 2023 The Hephaestus Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package problem implements the builder wiring spaces, variables,
// coefficients, kernels, boundary conditions, sources and aux solvers
// into a runnable problem. All configuration errors surface during
// building or finalization, before any expensive work starts.
package problem

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"

	"github.com/EMinsight/hephaestus/auxsolvers"
	"github.com/EMinsight/hephaestus/bcs"
	"github.com/EMinsight/hephaestus/coeff"
	"github.com/EMinsight/hephaestus/eqs"
	"github.com/EMinsight/hephaestus/executioner"
	"github.com/EMinsight/hephaestus/fes"
	"github.com/EMinsight/hephaestus/kernels"
	"github.com/EMinsight/hephaestus/par"
	"github.com/EMinsight/hephaestus/probops"
	"github.com/EMinsight/hephaestus/solver"
	"github.com/EMinsight/hephaestus/sources"
	"github.com/EMinsight/hephaestus/vars"
)

// Builder collects the pieces of one problem
type Builder struct {
	Comm   *par.Comm
	Spaces *fes.Registry
	Vars   *vars.Registry
	Coeffs *coeff.Registry
	BCs    *bcs.Map
	Srcs   *sources.Sources
	Aux    *auxsolvers.Collection
	Sys    *eqs.System
	Opts   *solver.Options

	finalized bool
}

func newBuilder(comm *par.Comm, sys *eqs.System) (o *Builder) {
	o = &Builder{
		Comm:   comm,
		Spaces: fes.NewRegistry(),
		Vars:   vars.NewRegistry(),
		Coeffs: coeff.NewRegistry(),
		BCs:    bcs.NewMap(),
		Srcs:   sources.NewSources(),
		Aux:    auxsolvers.NewCollection(),
		Sys:    sys,
		Opts:   solver.NewOptions(),
	}
	return
}

// NewTransient returns a builder for a time-dependent problem
func NewTransient(comm *par.Comm) *Builder {
	return newBuilder(comm, eqs.NewTimeDependentSystem(comm))
}

// NewSteady returns a builder for a steady-state problem
func NewSteady(comm *par.Comm) *Builder {
	return newBuilder(comm, eqs.NewSystem(comm))
}

func (o *Builder) checkOpen() {
	if o.finalized {
		chk.Panic("problem is already finalized")
	}
}

// AddFESpace registers a finite-element space under a name
func (o *Builder) AddFESpace(name string, space fes.Space) *Builder {
	o.checkOpen()
	o.Spaces.Register(name, space)
	return o
}

// AddVariable registers a field on a previously added space
func (o *Builder) AddVariable(name, spaceName string) *Builder {
	o.checkOpen()
	space, err := o.Spaces.Get(spaceName)
	if err != nil {
		chk.Panic("variable %q requires space %q which is not registered", name, spaceName)
	}
	if _, err := o.Vars.Add(name, space); err != nil {
		chk.Panic("cannot add variable:\n%v", err)
	}
	return o
}

// AddCoefficient registers a time-function coefficient
func (o *Builder) AddCoefficient(name string, fcn dbf.T) *Builder {
	o.checkOpen()
	o.Coeffs.Declare(name, fcn)
	return o
}

// AddConstCoefficient registers a constant coefficient
func (o *Builder) AddConstCoefficient(name string, v float64) *Builder {
	o.checkOpen()
	o.Coeffs.DeclareConst(name, v)
	return o
}

// AddKernel registers a weak-form kernel with the equation system
func (o *Builder) AddKernel(k kernels.Kernel) *Builder {
	o.checkOpen()
	o.Sys.AddKernel(k)
	return o
}

// AddEssentialBC registers an essential boundary condition
func (o *Builder) AddEssentialBC(name string, bc *bcs.EssentialBC) *Builder {
	o.checkOpen()
	o.BCs.AddEssential(name, bc)
	return o
}

// AddIntegratedBC registers an integrated boundary condition
func (o *Builder) AddIntegratedBC(name string, bc *bcs.IntegratedBC) *Builder {
	o.checkOpen()
	o.BCs.AddIntegrated(name, bc)
	return o
}

// AddSource registers a source term
func (o *Builder) AddSource(name string, src sources.Source) *Builder {
	o.checkOpen()
	o.Srcs.Add(name, src)
	return o
}

// AddAuxSolver registers a post-step aux solver
func (o *Builder) AddAuxSolver(name string, a auxsolvers.AuxSolver) *Builder {
	o.checkOpen()
	o.Aux.Add(name, a)
	return o
}

// SetSolverOptions replaces the linear-solver options
func (o *Builder) SetSolverOptions(opts *solver.Options) *Builder {
	o.checkOpen()
	o.Opts = opts
	return o
}

// Problem is a finalized, runnable configuration
type Problem struct {
	Comm   *par.Comm
	Sys    *eqs.System
	Vars   *vars.Registry
	Coeffs *coeff.Registry
	BCs    *bcs.Map
	Srcs   *sources.Sources
	Aux    *auxsolvers.Collection
	Opts   *solver.Options
}

// FinalizeProblem resolves every named dependency and freezes the
// configuration. Any dangling reference aborts here.
func (o *Builder) FinalizeProblem() (p *Problem) {
	o.checkOpen()
	o.Sys.Init(o.Vars, o.Spaces, o.BCs, o.Coeffs)
	o.Srcs.Init(o.Vars, o.Spaces, o.BCs, o.Coeffs)
	o.Aux.Init(o.Vars, o.Spaces, o.Coeffs)
	o.finalized = true
	return &Problem{
		Comm:   o.Comm,
		Sys:    o.Sys,
		Vars:   o.Vars,
		Coeffs: o.Coeffs,
		BCs:    o.BCs,
		Srcs:   o.Srcs,
		Aux:    o.Aux,
		Opts:   o.Opts,
	}
}

// Transient builds the time-domain operator and its executioner; aux
// solvers run after every accepted step
func (p *Problem) Transient() (*probops.TimeDomainOperator, *executioner.Transient) {
	op := probops.NewTimeDomainOperator(p.Comm, p.Sys, p.BCs, p.Srcs, p.Coeffs, p.Opts)
	run := executioner.NewTransient(p.Comm, op)
	run.PostStep = p.Aux.Solve
	return op, run
}

// Steady builds the steady operator and its executioner
func (p *Problem) Steady() (*probops.SteadyOperator, *executioner.Steady) {
	op := probops.NewSteadyOperator(p.Comm, p.Sys, p.BCs, p.Srcs, p.Coeffs, p.Opts)
	run := executioner.NewSteady(p.Comm, op)
	run.Out = func(t float64, X []float64) error {
		p.Aux.Solve(t)
		return nil
	}
	return op, run
}
