// Copyright 2023 The Hephaestus Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package auxsolvers implements post-step updates of dependent fields.
// An aux solver never feeds back into the implicit solve; it derives
// auxiliary quantities from the primary fields after each step.
package auxsolvers

import (
	"github.com/cpmech/gosl/chk"

	"github.com/EMinsight/hephaestus/coeff"
	"github.com/EMinsight/hephaestus/fes"
	"github.com/EMinsight/hephaestus/vars"
)

// AuxSolver updates one dependent field after each accepted step
type AuxSolver interface {
	Init(v *vars.Registry, s *fes.Registry, c *coeff.Registry)
	Solve(t float64)
}

// ScaledField maintains target = coefficient * source on shared dofs.
// The target variable is registered on the source's space when missing.
type ScaledField struct {
	SourceVar string
	TargetVar string
	CoefName  string

	src *vars.Variable
	tgt *vars.Variable
	c   coeff.Scalar
}

// NewScaledField returns an aux solver scaling source into target
func NewScaledField(sourceVar, targetVar, coefName string) *ScaledField {
	return &ScaledField{SourceVar: sourceVar, TargetVar: targetVar, CoefName: coefName}
}

// Init resolves the named collaborators
func (o *ScaledField) Init(v *vars.Registry, s *fes.Registry, c *coeff.Registry) {
	src, err := v.Get(o.SourceVar)
	if err != nil {
		chk.Panic("scaled-field aux solver requires variable %q which is not registered", o.SourceVar)
	}
	o.src = src
	if !v.Has(o.TargetVar) {
		if _, err := v.Add(o.TargetVar, src.Space); err != nil {
			chk.Panic("cannot register aux variable %q:\n%v", o.TargetVar, err)
		}
	}
	tgt, err := v.Get(o.TargetVar)
	if err != nil {
		chk.Panic("scaled-field aux solver requires variable %q which is not registered", o.TargetVar)
	}
	if tgt.Space.NumDofs() != src.Space.NumDofs() {
		chk.Panic("aux variable %q does not share dofs with %q", o.TargetVar, o.SourceVar)
	}
	o.tgt = tgt
	cc, err := c.Get(o.CoefName)
	if err != nil {
		chk.Panic("scaled-field aux solver requires coefficient %q which is not registered", o.CoefName)
	}
	o.c = cc
}

// Solve rescales the target field from the current source field
func (o *ScaledField) Solve(t float64) {
	f := o.c.Eval(nil)
	for i, v := range o.src.Field {
		o.tgt.Field[i] = f * v
	}
}

// Collection holds aux solvers in registration order
type Collection struct {
	names []string
	all   map[string]AuxSolver
}

// NewCollection returns an empty aux-solver collection
func NewCollection() (o *Collection) {
	o = new(Collection)
	o.all = make(map[string]AuxSolver)
	return
}

// Add registers an aux solver. Duplicate names are a configuration error.
func (o *Collection) Add(name string, a AuxSolver) {
	if _, ok := o.all[name]; ok {
		chk.Panic("aux solver %q is already registered", name)
	}
	o.names = append(o.names, name)
	o.all[name] = a
}

// Init resolves all aux solvers in registration order
func (o *Collection) Init(v *vars.Registry, s *fes.Registry, c *coeff.Registry) {
	for _, name := range o.names {
		o.all[name].Init(v, s, c)
	}
}

// Solve runs all aux solvers in registration order
func (o *Collection) Solve(t float64) {
	for _, name := range o.names {
		o.all[name].Solve(t)
	}
}
