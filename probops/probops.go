// Copyright 2023 The Hephaestus Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package probops implements the problem operators gluing the equation
// system to the time integrator: the time-domain operator advances the
// field derivatives through one implicit backward-Euler step, the
// steady operator solves for the fields directly
package probops

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"

	"github.com/EMinsight/hephaestus/bcs"
	"github.com/EMinsight/hephaestus/coeff"
	"github.com/EMinsight/hephaestus/eqs"
	"github.com/EMinsight/hephaestus/par"
	"github.com/EMinsight/hephaestus/solver"
	"github.com/EMinsight/hephaestus/sources"
	"github.com/EMinsight/hephaestus/vars"
)

// TimeDomainOperator binds the block vectors of one transient problem
// to its equation system and solves for the time derivatives. The
// linear solver is cached and rebuilt only when the operator changed:
// a structural change, a step change beyond DtTol or a fresh matrix.
type TimeDomainOperator struct {
	Comm   *par.Comm
	Sys    *eqs.System
	Coeffs *coeff.Registry
	BCs    *bcs.Map
	Srcs   *sources.Sources
	Opts   *solver.Options

	time float64

	// solver cache
	sol     solver.Solver
	solDt   float64
	lastAm  *la.CCMatrix
	nsolves int
}

// NewTimeDomainOperator returns an operator for a time-dependent system
func NewTimeDomainOperator(comm *par.Comm, sys *eqs.System, b *bcs.Map, src *sources.Sources, c *coeff.Registry, opts *solver.Options) (o *TimeDomainOperator) {
	if !sys.TimeDependent() {
		chk.Panic("time-domain operator needs a time-dependent equation system")
	}
	if opts == nil {
		opts = solver.NewOptions()
	}
	o = &TimeDomainOperator{Comm: comm, Sys: sys, Coeffs: c, BCs: b, Srcs: src, Opts: opts}
	return
}

// Width returns the total number of unknowns
func (o *TimeDomainOperator) Width() int { return o.Sys.Size() }

// SetTime moves the operator and all registered coefficients to time t
func (o *TimeDomainOperator) SetTime(t float64) {
	o.time = t
	o.Coeffs.SetTime(t)
}

// Time returns the operator time
func (o *TimeDomainOperator) Time() float64 { return o.time }

// NumSolverBuilds counts solver constructions; steps reusing the cache
// do not increment it
func (o *TimeDomainOperator) NumSolverBuilds() int { return o.nsolves }

// bind attaches the trial fields to X and the derivative fields to dXdt
// without copying, using the system's block offsets
func (o *TimeDomainOperator) bind(X, dXdt []float64) {
	offsets := o.Sys.BlockOffsets()
	for i, name := range o.Sys.TrialVariableNames() {
		u := o.mustVar(name)
		du := o.mustVar(vars.TimeDerivativeName(name))
		u.Bind(X[offsets[i]:offsets[i+1]])
		du.Bind(dXdt[offsets[i]:offsets[i+1]])
	}
}

func (o *TimeDomainOperator) mustVar(name string) *vars.Variable {
	v, err := o.Sys.Vars.Get(name)
	if err != nil {
		chk.Panic("operator requires variable %q which is not registered", name)
	}
	return v
}

// effectiveDt snaps the step to the cached one while within DtTol, so
// small step jitter keeps the assembled operator and its solver alive
func (o *TimeDomainOperator) effectiveDt(dt float64) float64 {
	if o.sol != nil && o.Opts.DtTol >= 0 && math.Abs(dt-o.solDt) <= o.Opts.DtTol*math.Abs(dt) {
		return o.solDt
	}
	return dt
}

// ImplicitSolve computes the derivatives at the operator time from the
// fields in X: it assembles the backward-Euler system, solves it and
// scatters the result into dXdt. X and dXdt must have length Width.
func (o *TimeDomainOperator) ImplicitSolve(dt float64, X, dXdt []float64) (err error) {
	if len(X) != o.Width() || len(dXdt) != o.Width() {
		chk.Panic("state vectors have sizes %d and %d. operator width is %d", len(X), len(dXdt), o.Width())
	}
	o.bind(X, dXdt)
	o.Sys.SetTimeStep(o.effectiveDt(dt))
	o.Sys.UpdateSystem(o.BCs, o.Srcs)
	Am, x, b := o.Sys.FormLinearSystem()

	// rebuild the solver only when the operator actually changed;
	// a negative DtTol disables caching altogether
	if o.sol == nil || Am != o.lastAm || o.Opts.DtTol < 0 {
		if o.sol != nil {
			o.sol.Free()
		}
		o.sol, err = solver.New(o.Opts, o.Comm, Am, o.Sys.Triplet(), o.Sys.Diagonal())
		if err != nil {
			return chk.Err("cannot build solver at t=%g:\n%v", o.time, err)
		}
		o.solDt = o.Sys.TimeStep()
		o.lastAm = Am
		o.nsolves++
	}

	err = o.sol.Mult(b, x)
	if err != nil {
		return chk.Err("implicit step at t=%g (dt=%g) failed:\n%v", o.time, dt, err)
	}
	o.Sys.RecoverSolution(x)
	return
}

// Free releases the cached solver
func (o *TimeDomainOperator) Free() {
	if o.sol != nil {
		o.sol.Free()
		o.sol = nil
		o.lastAm = nil
	}
}

// SteadyOperator solves directly for the trial fields
type SteadyOperator struct {
	Comm   *par.Comm
	Sys    *eqs.System
	Coeffs *coeff.Registry
	BCs    *bcs.Map
	Srcs   *sources.Sources
	Opts   *solver.Options
}

// NewSteadyOperator returns an operator for a steady equation system
func NewSteadyOperator(comm *par.Comm, sys *eqs.System, b *bcs.Map, src *sources.Sources, c *coeff.Registry, opts *solver.Options) (o *SteadyOperator) {
	if sys.TimeDependent() {
		chk.Panic("steady operator cannot drive a time-dependent equation system")
	}
	if opts == nil {
		opts = solver.NewOptions()
	}
	o = &SteadyOperator{Comm: comm, Sys: sys, Coeffs: c, BCs: b, Srcs: src, Opts: opts}
	return
}

// Width returns the total number of unknowns
func (o *SteadyOperator) Width() int { return o.Sys.Size() }

// Solve assembles and solves the steady system, binding the trial
// fields to X and scattering the solution back into it
func (o *SteadyOperator) Solve(X []float64) (err error) {
	if len(X) != o.Width() {
		chk.Panic("state vector has size %d. operator width is %d", len(X), o.Width())
	}
	offsets := o.Sys.BlockOffsets()
	for i, name := range o.Sys.TrialVariableNames() {
		v, err := o.Sys.Vars.Get(name)
		if err != nil {
			chk.Panic("operator requires variable %q which is not registered", name)
		}
		v.Bind(X[offsets[i]:offsets[i+1]])
	}
	o.Sys.UpdateSystem(o.BCs, o.Srcs)
	Am, x, b := o.Sys.FormLinearSystem()
	sol, err := solver.New(o.Opts, o.Comm, Am, o.Sys.Triplet(), o.Sys.Diagonal())
	if err != nil {
		return chk.Err("cannot build solver:\n%v", err)
	}
	defer sol.Free()
	err = sol.Mult(b, x)
	if err != nil {
		return chk.Err("steady solve failed:\n%v", err)
	}
	o.Sys.RecoverSolution(x)
	return
}
