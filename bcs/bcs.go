// Copyright 2023 The Hephaestus Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package bcs implements the boundary-condition collaborator: essential
// (Dirichlet) constraints eliminated from the linear system before a
// solve, and integrated (natural) terms augmenting the right-hand side
package bcs

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"

	"github.com/EMinsight/hephaestus/fes"
	"github.com/EMinsight/hephaestus/forms"
)

// EssentialBC constrains the dofs of one variable on a set of boundary
// attributes to the value of a time function
type EssentialBC struct {
	VarName string // constrained variable
	Attrs   []int  // boundary attributes (1-based)
	Fcn     dbf.T  // imposed value as function of time and position
}

// IntegratedBC adds a boundary flux term to the linear form of one
// variable on a set of boundary attributes
type IntegratedBC struct {
	VarName string // target variable
	Attrs   []int  // boundary attributes (1-based)
	Fcn     dbf.T  // flux value as function of time and position
}

// Map records the boundary conditions of a problem keyed by an arbitrary
// condition name, in registration order
type Map struct {
	names []string
	ess   map[string]*EssentialBC
	intg  map[string]*IntegratedBC
}

// NewMap returns a new boundary-condition map
func NewMap() (o *Map) {
	o = new(Map)
	o.ess = make(map[string]*EssentialBC)
	o.intg = make(map[string]*IntegratedBC)
	return
}

// AddEssential registers an essential boundary condition. Duplicate
// condition names are a configuration error.
func (o *Map) AddEssential(name string, bc *EssentialBC) {
	o.checkName(name)
	o.names = append(o.names, name)
	o.ess[name] = bc
}

// AddIntegrated registers an integrated boundary condition
func (o *Map) AddIntegrated(name string, bc *IntegratedBC) {
	o.checkName(name)
	o.names = append(o.names, name)
	o.intg[name] = bc
}

func (o *Map) checkName(name string) {
	if _, ok := o.ess[name]; ok {
		chk.Panic("boundary condition %q is already registered", name)
	}
	if _, ok := o.intg[name]; ok {
		chk.Panic("boundary condition %q is already registered", name)
	}
}

// ApplyEssentialBCs collects the essential dofs of one variable and their
// imposed values at time t. Referencing a boundary attribute out of the
// space's range is a configuration error and aborts the run.
func (o *Map) ApplyEssentialBCs(varName string, space fes.Space, t float64) (dofs []int, vals []float64) {
	seen := make(map[int]bool)
	for _, name := range o.names {
		bc, ok := o.ess[name]
		if !ok || bc.VarName != varName {
			continue
		}
		for _, attr := range bc.Attrs {
			if attr < 1 || attr > space.NumBdryAttrs() {
				chk.Panic("essential bc %q references boundary attribute %d out of range [1,%d]", name, attr, space.NumBdryAttrs())
			}
			for _, dof := range space.BdryDofs(attr) {
				if seen[dof] {
					continue
				}
				seen[dof] = true
				dofs = append(dofs, dof)
				vals = append(vals, bc.Fcn.F(t, nil))
			}
		}
	}
	return
}

// ApplyIntegratedBCs augments the linear form of one variable with all
// integrated boundary terms at time t
func (o *Map) ApplyIntegratedBCs(varName string, lf *forms.LinearForm, t float64) {
	for _, name := range o.names {
		bc, ok := o.intg[name]
		if !ok || bc.VarName != varName {
			continue
		}
		for _, attr := range bc.Attrs {
			if attr < 1 || attr > lf.Space.NumBdryAttrs() {
				chk.Panic("integrated bc %q references boundary attribute %d out of range [1,%d]", name, attr, lf.Space.NumBdryAttrs())
			}
			for _, dof := range lf.Space.BdryDofs(attr) {
				lf.AddToDof(dof, bc.Fcn.F(t, nil))
			}
		}
	}
}
