// Copyright 2023 The Hephaestus Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package coeff implements the registry of named material coefficients.
// Coefficients follow a two-phase lifecycle: they are declared by name
// before the problem is initialised, and resolved to live objects exactly
// once when kernels and sources run their Init.
package coeff

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// Scalar is a scalar material coefficient evaluated at a point of the
// domain. The current simulation time is pushed into the registry between
// steps; implementations close over it.
type Scalar interface {
	Eval(x []float64) float64 // value at x and at the registry's current time
	TimeVarying() bool        // whether the value changes when time is pushed
}

// Const implements a constant (but settable) coefficient. Setting a new
// value does not count as time variation; it is the owner's duty to
// invalidate whatever was assembled with the old value.
type Const struct {
	V float64
}

// Eval returns the constant
func (o *Const) Eval(x []float64) float64 { return o.V }

// TimeVarying returns false
func (o *Const) TimeVarying() bool { return false }

// Set sets a new value
func (o *Const) Set(v float64) { o.V = v }

// Func implements a coefficient backed by a time/space function
type Func struct {
	reg *Registry
	fcn dbf.T
}

// Eval returns the function value at x and at the registry's current time
func (o *Func) Eval(x []float64) float64 { return o.fcn.F(o.reg.time, x) }

// TimeVarying returns true
func (o *Func) TimeVarying() bool { return true }

// Product implements the product of two coefficients; e.g. dt times a
// material property
type Product struct {
	A, B Scalar
}

// Eval returns A(x)*B(x)
func (o *Product) Eval(x []float64) float64 { return o.A.Eval(x) * o.B.Eval(x) }

// TimeVarying returns whether either factor is time varying
func (o *Product) TimeVarying() bool { return o.A.TimeVarying() || o.B.TimeVarying() }

// Registry maps coefficient names to scalars and holds the current
// simulation time
type Registry struct {
	time    float64
	names   []string
	scalars map[string]Scalar
}

// NewRegistry returns a new coefficient registry
func NewRegistry() (o *Registry) {
	o = new(Registry)
	o.scalars = make(map[string]Scalar)
	return
}

// Register registers a ready scalar under name. Duplicate names are a
// configuration error and abort the run.
func (o *Registry) Register(name string, s Scalar) {
	if _, ok := o.scalars[name]; ok {
		chk.Panic("coefficient %q is already registered", name)
	}
	o.names = append(o.names, name)
	o.scalars[name] = s
}

// Declare registers a function-backed scalar under name
func (o *Registry) Declare(name string, fcn dbf.T) {
	o.Register(name, &Func{reg: o, fcn: fcn})
}

// DeclareConst registers a constant scalar under name and returns it
func (o *Registry) DeclareConst(name string, v float64) (c *Const) {
	c = &Const{V: v}
	o.Register(name, c)
	return
}

// Has tells whether a coefficient with the given name is declared
func (o *Registry) Has(name string) bool {
	_, ok := o.scalars[name]
	return ok
}

// Get resolves a declared coefficient. Resolution of a missing name is a
// configuration error reported to the caller; kernels abort on it.
func (o *Registry) Get(name string) (s Scalar, err error) {
	s, ok := o.scalars[name]
	if !ok {
		err = chk.Err("cannot find coefficient named %q", name)
	}
	return
}

// SetTime pushes the current simulation time into all function-backed
// coefficients. Safe to call between steps only; no step overlaps another.
func (o *Registry) SetTime(t float64) {
	o.time = t
}

// Time returns the current simulation time
func (o *Registry) Time() float64 {
	return o.time
}
