// Copyright 2023 The Hephaestus Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package kernels implements the closed set of weak-form contributors.
// A kernel is constructed with static configuration (names only); Init
// resolves the names against the live registries exactly once; Apply adds
// exactly one weak-form term to the form passed by the equation system.
// Kernels never solve and never own global state; re-applying them is
// safe because the equation system clears forms first.
package kernels

import (
	"github.com/cpmech/gosl/chk"

	"github.com/EMinsight/hephaestus/bcs"
	"github.com/EMinsight/hephaestus/coeff"
	"github.com/EMinsight/hephaestus/fes"
	"github.com/EMinsight/hephaestus/forms"
	"github.com/EMinsight/hephaestus/vars"
)

// Kind tags the closed set of kernel variants
type Kind int

const (
	KindMass      Kind = iota // (c u̇, v): acts on the time derivative
	KindStiffness             // (c ∇u, ∇v): stiffness/curl-type, acts on the field
	KindMixed                 // (c ∇p, v): coupling between two variables
	KindSource                // (c, v): linear-form term
)

// Kernel is the common contract of all weak-form contributors
type Kernel interface {
	Kind() Kind
	TestVariable() string  // test-variable bucket this kernel belongs to
	TrialVariable() string // trial variable; equals TestVariable except for mixed kernels
	Init(v *vars.Registry, s *fes.Registry, b *bcs.Map, c *coeff.Registry)
	TimeVarying() bool // whether the resolved coefficient varies with time
}

// BilinearKernel contributes to a square bilinear form
type BilinearKernel interface {
	Kernel
	Apply(blf *forms.BilinearForm)
	// ApplyImplicit adds the term scaled for an implicit stage; scale is
	// the time-step coefficient owned by the equation system
	ApplyImplicit(blf *forms.BilinearForm, scale coeff.Scalar)
}

// MixedKernel contributes to a mixed bilinear form
type MixedKernel interface {
	Kernel
	Apply(mblf *forms.MixedBilinearForm)
	ApplyImplicit(mblf *forms.MixedBilinearForm, scale coeff.Scalar)
}

// LinearKernel contributes to a linear form
type LinearKernel interface {
	Kernel
	Apply(lf *forms.LinearForm)
}

// resolveVar resolves a variable name or aborts; missing names are
// configuration errors discoverable before any expensive work
func resolveVar(who string, v *vars.Registry, name string) *vars.Variable {
	vv, err := v.Get(name)
	if err != nil {
		chk.Panic("%s requires variable %q which is not registered", who, name)
	}
	return vv
}

// resolveCoef resolves a coefficient name or aborts
func resolveCoef(who string, c *coeff.Registry, name string) coeff.Scalar {
	s, err := c.Get(name)
	if err != nil {
		chk.Panic("%s requires coefficient %q which is not declared", who, name)
	}
	return s
}
