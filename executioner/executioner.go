// Copyright 2023 The Hephaestus Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package executioner drives the outer solution loops: the transient
// executioner advances the coupled fields with backward-Euler steps,
// the steady executioner performs a single solve
package executioner

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"

	"github.com/EMinsight/hephaestus/par"
	"github.com/EMinsight/hephaestus/probops"
)

// OutFcn is called at output times with the current time and the block
// state vector; returning an error stops the run
type OutFcn func(t float64, X []float64) error

// Transient drives the implicit time loop over one time-domain operator
type Transient struct {
	Comm *par.Comm
	Op   *probops.TimeDomainOperator

	X    []float64 // block state vector; fields bound per step
	DXdt []float64 // block derivative vector
	T    float64   // current time

	Out      OutFcn          // optional output callback
	PostStep func(t float64) // optional hook after each accepted step
}

// NewTransient returns a transient executioner with freshly allocated
// state vectors
func NewTransient(comm *par.Comm, op *probops.TimeDomainOperator) (o *Transient) {
	o = &Transient{Comm: comm, Op: op}
	o.X = make([]float64, op.Width())
	o.DXdt = make([]float64, op.Width())
	return
}

// Run advances the state from the current time to tf. dtFunc gives the
// step size as a function of time; dtoFunc, when not nil, gives the
// output interval.
func (o *Transient) Run(tf float64, dtFunc, dtoFunc dbf.T, verbose bool) (err error) {

	// control
	t := o.T
	if tf <= t {
		return chk.Err("final time %g is not beyond current time %g", tf, t)
	}
	tout := tf
	if dtoFunc != nil {
		tout = t + dtoFunc.F(t, nil)
	}

	// first output
	if err = o.output(t); err != nil {
		return
	}

	// time loop
	var lasttimestep bool
	for t < tf {

		// time increment
		dt := dtFunc.F(t, nil)
		if dt <= 0 {
			return chk.Err("time step must be positive. t=%g gives dt=%g", t, dt)
		}
		if t+dt >= tf {
			lasttimestep = true
		}
		t += dt

		// implicit step for the derivatives
		o.Op.SetTime(t)
		err = o.Op.ImplicitSolve(dt, o.X, o.DXdt)
		if err != nil {
			return chk.Err("transient run stopped:\n%v", err)
		}

		// advance fields
		for i := range o.X {
			o.X[i] += dt * o.DXdt[i]
		}
		o.T = t
		if o.PostStep != nil {
			o.PostStep(t)
		}

		// message
		if verbose && o.Comm.Root() {
			io.PfWhite("%30.15f\r", t)
		}

		// output
		if t >= tout || lasttimestep {
			if err = o.output(t); err != nil {
				return
			}
			if dtoFunc != nil {
				tout += dtoFunc.F(t, nil)
			}
		}
	}
	return
}

func (o *Transient) output(t float64) error {
	if o.Out == nil {
		return nil
	}
	if err := o.Out(t, o.X); err != nil {
		return chk.Err("cannot save results:\n%v", err)
	}
	return nil
}

// Steady performs a single solve of a steady operator
type Steady struct {
	Comm *par.Comm
	Op   *probops.SteadyOperator
	X    []float64
	Out  OutFcn
}

// NewSteady returns a steady executioner with a fresh state vector
func NewSteady(comm *par.Comm, op *probops.SteadyOperator) (o *Steady) {
	o = &Steady{Comm: comm, Op: op}
	o.X = make([]float64, op.Width())
	return
}

// Run solves the steady problem and emits one output
func (o *Steady) Run(verbose bool) (err error) {
	err = o.Op.Solve(o.X)
	if err != nil {
		return chk.Err("steady run stopped:\n%v", err)
	}
	if verbose && o.Comm.Root() {
		io.PfGreen("steady solve done\n")
	}
	if o.Out != nil {
		if err = o.Out(0, o.X); err != nil {
			return chk.Err("cannot save results:\n%v", err)
		}
	}
	return
}
