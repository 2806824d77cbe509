// Copyright 2023 The Hephaestus Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kernels

import (
	"github.com/EMinsight/hephaestus/bcs"
	"github.com/EMinsight/hephaestus/coeff"
	"github.com/EMinsight/hephaestus/fes"
	"github.com/EMinsight/hephaestus/forms"
	"github.com/EMinsight/hephaestus/vars"
)

// Mass implements the mass-type kernel (c u̇, v)
type Mass struct {
	VarName  string
	CoefName string

	// resolved at Init
	v *vars.Variable
	c coeff.Scalar
}

// NewMass returns a new mass kernel
func NewMass(varName, coefName string) *Mass {
	return &Mass{VarName: varName, CoefName: coefName}
}

// Kind returns the variant tag
func (o *Mass) Kind() Kind { return KindMass }

// TestVariable returns the test-variable bucket
func (o *Mass) TestVariable() string { return o.VarName }

// TrialVariable returns the trial variable
func (o *Mass) TrialVariable() string { return o.VarName }

// Init resolves named dependencies once
func (o *Mass) Init(v *vars.Registry, s *fes.Registry, b *bcs.Map, c *coeff.Registry) {
	o.v = resolveVar("mass kernel", v, o.VarName)
	o.c = resolveCoef("mass kernel", c, o.CoefName)
}

// TimeVarying reports whether the coefficient varies with time
func (o *Mass) TimeVarying() bool { return o.c.TimeVarying() }

// Apply adds the mass term
func (o *Mass) Apply(blf *forms.BilinearForm) {
	blf.AddIntegrator(&forms.MassIntegrator{Space: o.v.Space, C: o.c})
}

// ApplyImplicit adds the mass term unscaled: the mass kernel acts on the
// time derivative itself
func (o *Mass) ApplyImplicit(blf *forms.BilinearForm, scale coeff.Scalar) {
	o.Apply(blf)
}

// Stiffness implements the stiffness/curl-type kernel (c ∇u, ∇v)
type Stiffness struct {
	VarName  string
	CoefName string

	v *vars.Variable
	c coeff.Scalar
}

// NewStiffness returns a new stiffness kernel
func NewStiffness(varName, coefName string) *Stiffness {
	return &Stiffness{VarName: varName, CoefName: coefName}
}

// Kind returns the variant tag
func (o *Stiffness) Kind() Kind { return KindStiffness }

// TestVariable returns the test-variable bucket
func (o *Stiffness) TestVariable() string { return o.VarName }

// TrialVariable returns the trial variable
func (o *Stiffness) TrialVariable() string { return o.VarName }

// Init resolves named dependencies once
func (o *Stiffness) Init(v *vars.Registry, s *fes.Registry, b *bcs.Map, c *coeff.Registry) {
	o.v = resolveVar("stiffness kernel", v, o.VarName)
	o.c = resolveCoef("stiffness kernel", c, o.CoefName)
}

// TimeVarying reports whether the coefficient varies with time
func (o *Stiffness) TimeVarying() bool { return o.c.TimeVarying() }

// Apply adds the unscaled stiffness term
func (o *Stiffness) Apply(blf *forms.BilinearForm) {
	blf.AddIntegrator(&forms.DiffusionIntegrator{Space: o.v.Space, C: o.c})
}

// ApplyImplicit adds the stiffness term scaled by the time step,
// discretising u_{n+1} = u_n + dt u̇_{n+1}
func (o *Stiffness) ApplyImplicit(blf *forms.BilinearForm, scale coeff.Scalar) {
	blf.AddIntegrator(&forms.DiffusionIntegrator{Space: o.v.Space, C: &coeff.Product{A: scale, B: o.c}})
}

// MixedGradient implements the coupling kernel (c ∇p, v) between a trial
// variable p and the test variable's space
type MixedGradient struct {
	TestVar  string
	TrialVar string
	CoefName string

	vt *vars.Variable
	vq *vars.Variable
	c  coeff.Scalar
}

// NewMixedGradient returns a new mixed gradient kernel
func NewMixedGradient(testVar, trialVar, coefName string) *MixedGradient {
	return &MixedGradient{TestVar: testVar, TrialVar: trialVar, CoefName: coefName}
}

// Kind returns the variant tag
func (o *MixedGradient) Kind() Kind { return KindMixed }

// TestVariable returns the test-variable bucket
func (o *MixedGradient) TestVariable() string { return o.TestVar }

// TrialVariable returns the trial variable
func (o *MixedGradient) TrialVariable() string { return o.TrialVar }

// Init resolves named dependencies once
func (o *MixedGradient) Init(v *vars.Registry, s *fes.Registry, b *bcs.Map, c *coeff.Registry) {
	o.vt = resolveVar("mixed gradient kernel", v, o.TestVar)
	o.vq = resolveVar("mixed gradient kernel", v, o.TrialVar)
	o.c = resolveCoef("mixed gradient kernel", c, o.CoefName)
}

// TimeVarying reports whether the coefficient varies with time
func (o *MixedGradient) TimeVarying() bool { return o.c.TimeVarying() }

// Apply adds the unscaled coupling term
func (o *MixedGradient) Apply(mblf *forms.MixedBilinearForm) {
	mblf.AddIntegrator(&forms.MixedGradIntegrator{Test: o.vt.Space, Trial: o.vq.Space, C: o.c})
}

// ApplyImplicit adds the coupling term scaled by the time step
func (o *MixedGradient) ApplyImplicit(mblf *forms.MixedBilinearForm, scale coeff.Scalar) {
	mblf.AddIntegrator(&forms.MixedGradIntegrator{Test: o.vt.Space, Trial: o.vq.Space, C: &coeff.Product{A: scale, B: o.c}})
}

// Source implements the linear-form kernel (c, v)
type Source struct {
	VarName  string
	CoefName string

	v *vars.Variable
	c coeff.Scalar
}

// NewSource returns a new source kernel
func NewSource(varName, coefName string) *Source {
	return &Source{VarName: varName, CoefName: coefName}
}

// Kind returns the variant tag
func (o *Source) Kind() Kind { return KindSource }

// TestVariable returns the test-variable bucket
func (o *Source) TestVariable() string { return o.VarName }

// TrialVariable returns an empty name: source kernels have no trial
// variable
func (o *Source) TrialVariable() string { return "" }

// Init resolves named dependencies once
func (o *Source) Init(v *vars.Registry, s *fes.Registry, b *bcs.Map, c *coeff.Registry) {
	o.v = resolveVar("source kernel", v, o.VarName)
	o.c = resolveCoef("source kernel", c, o.CoefName)
}

// TimeVarying reports whether the coefficient varies with time
func (o *Source) TimeVarying() bool { return o.c.TimeVarying() }

// Apply adds the source term
func (o *Source) Apply(lf *forms.LinearForm) {
	lf.AddIntegrator(&forms.DomainSourceIntegrator{Space: o.v.Space, C: o.c})
}
