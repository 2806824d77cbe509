// Copyright 2023 The Hephaestus Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package vars implements the registry of named unknown fields and their
// time-derivative companions
package vars

import (
	"github.com/cpmech/gosl/chk"

	"github.com/EMinsight/hephaestus/fes"
)

// Variable holds one named unknown field: its discrete space and the
// current coefficient vector of the discretised field. Field may alias a
// slice of an external flat block vector (zero-copy binding).
type Variable struct {
	Name  string    // unique name
	Space fes.Space // discrete function space (external collaborator)
	Field []float64 // [Space.NumDofs()] current coefficients
}

// Bind makes Field alias the given storage. The slice length must equal
// the space size.
func (o *Variable) Bind(storage []float64) {
	if len(storage) != o.Space.NumDofs() {
		chk.Panic("cannot bind variable %q: storage size %d does not match space size %d", o.Name, len(storage), o.Space.NumDofs())
	}
	o.Field = storage
}

// Registry tracks named variables in registration order
type Registry struct {
	names []string
	vars  map[string]*Variable
}

// NewRegistry returns a new variable registry
func NewRegistry() (o *Registry) {
	o = new(Registry)
	o.vars = make(map[string]*Variable)
	return
}

// Add registers a new variable with its own field storage.
// Registering a name twice is an error.
func (o *Registry) Add(name string, space fes.Space) (v *Variable, err error) {
	if _, ok := o.vars[name]; ok {
		err = chk.Err("variable %q is already registered", name)
		return
	}
	v = &Variable{Name: name, Space: space, Field: make([]float64, space.NumDofs())}
	o.names = append(o.names, name)
	o.vars[name] = v
	return
}

// Has tells whether a variable with the given name is registered
func (o *Registry) Has(name string) bool {
	_, ok := o.vars[name]
	return ok
}

// Get returns a registered variable; looking up an unregistered name is
// an error
func (o *Registry) Get(name string) (v *Variable, err error) {
	v, ok := o.vars[name]
	if !ok {
		err = chk.Err("cannot find variable named %q", name)
	}
	return
}

// Names returns the registered names in registration order
func (o *Registry) Names() []string {
	return o.names
}

// TimeDerivativeName derives the companion name of the time derivative of
// the variable called name. The derivation is deterministic and injective:
// every variable gets its own companion, even one whose name already looks
// like a derivative (e.g. "dose_dt" pairs with "ddose_dt_dt").
func TimeDerivativeName(name string) string {
	return "d" + name + "_dt"
}
