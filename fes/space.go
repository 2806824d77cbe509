// Copyright 2023 The Hephaestus Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package fes defines the discrete function-space collaborator consumed by
// the equation-system core, and a simple Lagrange space used by tests,
// examples and the command-line demo
package fes

import (
	"github.com/cpmech/gosl/chk"
)

// Ip holds the data of one integration point of one cell: its real
// coordinates, its weight (including the Jacobian determinant) and the
// values and gradients of all cell shape functions evaluated at the point
type Ip struct {
	X []float64   // [ndim] real coordinates
	W float64     // weight times Jacobian determinant
	S []float64   // [nverts] shape function values
	G [][]float64 // [nverts][ndim] shape function gradients
}

// Space defines what the assembly core needs from a discrete
// finite-element space. Spaces are built by external collaborators;
// the core only consumes this interface.
type Space interface {
	NumDofs() int             // number of true degrees of freedom
	NumCells() int            // number of cells in this processor's partition
	CellDofs(idx int) []int   // assembly map: global dof of each cell vertex
	CellIps(idx int) []*Ip    // integration points of one cell
	NumBdryAttrs() int        // number of boundary attributes
	BdryDofs(attr int) []int  // dofs on the boundary with given attribute (1-based)
}

// Registry maps space names to spaces
type Registry struct {
	names  []string
	spaces map[string]Space
}

// NewRegistry returns a new space registry
func NewRegistry() (o *Registry) {
	o = new(Registry)
	o.spaces = make(map[string]Space)
	return
}

// Register registers a new space. Registering the same name twice is a
// configuration error and aborts the run.
func (o *Registry) Register(name string, space Space) {
	if _, ok := o.spaces[name]; ok {
		chk.Panic("space %q is already registered", name)
	}
	o.names = append(o.names, name)
	o.spaces[name] = space
}

// Has tells whether a space with the given name is registered
func (o *Registry) Has(name string) bool {
	_, ok := o.spaces[name]
	return ok
}

// Get returns a registered space
func (o *Registry) Get(name string) (space Space, err error) {
	space, ok := o.spaces[name]
	if !ok {
		err = chk.Err("cannot find space named %q", name)
	}
	return
}

// Names returns the registered space names in registration order
func (o *Registry) Names() []string {
	return o.names
}
