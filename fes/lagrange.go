// Copyright 2023 The Hephaestus Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fes

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// boundary attributes of Lagrange1D
const (
	BdryLeft  = 1 // x = 0
	BdryRight = 2 // x = L
)

// Lagrange1D implements a linear Lagrange space on a uniform 1D mesh over
// [0,L] with ncells elements. It has two boundary attributes: BdryLeft for
// the node at x=0 and BdryRight for the node at x=L. Two-point Gauss
// quadrature is used; shape data is precomputed per cell.
type Lagrange1D struct {
	L      float64 // domain length
	Ncells int     // number of cells
	h      float64 // cell size
	dofs   [][]int // [ncells][2] assembly maps
	ips    [][]*Ip // [ncells][nip] integration points
}

// NewLagrange1D returns a new 1D linear Lagrange space
func NewLagrange1D(ncells int, length float64) (o *Lagrange1D) {
	if ncells < 1 {
		chk.Panic("Lagrange1D needs at least one cell. ncells=%d is invalid", ncells)
	}
	o = new(Lagrange1D)
	o.L = length
	o.Ncells = ncells
	o.h = length / float64(ncells)
	o.dofs = make([][]int, ncells)
	o.ips = make([][]*Ip, ncells)
	ξ := 1.0 / math.Sqrt(3.0) // Gauss points at ±1/√3 on [-1,1]
	for c := 0; c < ncells; c++ {
		o.dofs[c] = []int{c, c + 1}
		x0 := float64(c) * o.h
		o.ips[c] = make([]*Ip, 2)
		for k, ξk := range []float64{-ξ, +ξ} {
			// map from reference [-1,1]; |J| = h/2, unit Gauss weights
			o.ips[c][k] = &Ip{
				X: []float64{x0 + (1.0+ξk)*o.h/2.0},
				W: o.h / 2.0,
				S: []float64{(1.0 - ξk) / 2.0, (1.0 + ξk) / 2.0},
				G: [][]float64{{-1.0 / o.h}, {+1.0 / o.h}},
			}
		}
	}
	return
}

// NumDofs returns the number of true degrees of freedom
func (o *Lagrange1D) NumDofs() int { return o.Ncells + 1 }

// NumCells returns the number of cells
func (o *Lagrange1D) NumCells() int { return o.Ncells }

// CellDofs returns the assembly map of one cell
func (o *Lagrange1D) CellDofs(idx int) []int { return o.dofs[idx] }

// CellIps returns the integration points of one cell
func (o *Lagrange1D) CellIps(idx int) []*Ip { return o.ips[idx] }

// NumBdryAttrs returns the number of boundary attributes
func (o *Lagrange1D) NumBdryAttrs() int { return 2 }

// BdryDofs returns the dofs on the boundary with the given attribute
func (o *Lagrange1D) BdryDofs(attr int) []int {
	switch attr {
	case BdryLeft:
		return []int{0}
	case BdryRight:
		return []int{o.Ncells}
	}
	chk.Panic("boundary attribute %d is out of range [1,%d]", attr, o.NumBdryAttrs())
	return nil
}
