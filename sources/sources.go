// Copyright 2023 The Hephaestus Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package sources implements external right-hand-side contributors
// (e.g. imposed currents) applied after the kernel set each update
package sources

import (
	"github.com/cpmech/gosl/chk"

	"github.com/EMinsight/hephaestus/bcs"
	"github.com/EMinsight/hephaestus/coeff"
	"github.com/EMinsight/hephaestus/fes"
	"github.com/EMinsight/hephaestus/forms"
	"github.com/EMinsight/hephaestus/vars"
)

// Source adds extra right-hand-side contributions independent of the
// kernel set. Init resolves named dependencies once; Apply augments the
// linear form of the source's target variable.
type Source interface {
	Variable() string // target variable name
	Init(v *vars.Registry, s *fes.Registry, b *bcs.Map, c *coeff.Registry)
	Apply(lf *forms.LinearForm)
}

// Imposed implements a source imposing a named coefficient over the
// domain of its target variable
type Imposed struct {
	VarName  string
	CoefName string

	v *vars.Variable
	c coeff.Scalar
}

// NewImposed returns a new imposed source
func NewImposed(varName, coefName string) *Imposed {
	return &Imposed{VarName: varName, CoefName: coefName}
}

// Variable returns the target variable name
func (o *Imposed) Variable() string { return o.VarName }

// Init resolves named dependencies once; missing names abort the run
func (o *Imposed) Init(v *vars.Registry, s *fes.Registry, b *bcs.Map, c *coeff.Registry) {
	var err error
	o.v, err = v.Get(o.VarName)
	if err != nil {
		chk.Panic("imposed source requires variable %q which is not registered", o.VarName)
	}
	o.c, err = c.Get(o.CoefName)
	if err != nil {
		chk.Panic("imposed source requires coefficient %q which is not declared", o.CoefName)
	}
}

// Apply augments the linear form
func (o *Imposed) Apply(lf *forms.LinearForm) {
	lf.AddIntegrator(&forms.DomainSourceIntegrator{Space: o.v.Space, C: o.c})
}

// Sources is the ordered collection of a problem's sources
type Sources struct {
	names []string
	list  []Source
}

// NewSources returns an empty collection
func NewSources() *Sources {
	return new(Sources)
}

// Add registers a named source. Duplicate names are a configuration
// error.
func (o *Sources) Add(name string, src Source) {
	for _, n := range o.names {
		if n == name {
			chk.Panic("source %q is already registered", name)
		}
	}
	o.names = append(o.names, name)
	o.list = append(o.list, src)
}

// Init initialises all sources in registration order
func (o *Sources) Init(v *vars.Registry, s *fes.Registry, b *bcs.Map, c *coeff.Registry) {
	for _, src := range o.list {
		src.Init(v, s, b, c)
	}
}

// Apply contributes all sources targeting the given variable
func (o *Sources) Apply(varName string, lf *forms.LinearForm) {
	for _, src := range o.list {
		if src.Variable() == varName {
			src.Apply(lf)
		}
	}
}
