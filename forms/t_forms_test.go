// Copyright 2023 The Hephaestus Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package forms

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/floats"

	"github.com/EMinsight/hephaestus/coeff"
	"github.com/EMinsight/hephaestus/fes"
)

func verbose() {
	chk.Verbose = true
}

func Test_forms01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("forms01. mass and stiffness on a 1D mesh")

	s := fes.NewLagrange1D(2, 1.0) // h = 0.5
	one := &coeff.Const{V: 1.0}

	// mass row sums: M * 1 = [h/2, h, h/2]
	blf := NewBilinearForm(s)
	blf.AddIntegrator(&MassIntegrator{Space: s, C: one})
	blf.Assemble()
	ones := []float64{1, 1, 1}
	res := make([]float64, 3)
	blf.AddMult(res, 1, ones)
	chk.Array(tst, "M*1", 1e-15, res, []float64{0.25, 0.5, 0.25})

	// stiffness annihilates constants: K * 1 = 0
	blf.Clear()
	blf.AddIntegrator(&DiffusionIntegrator{Space: s, C: one})
	blf.Assemble()
	res = make([]float64, 3)
	blf.AddMult(res, 1, ones)
	chk.Array(tst, "K*1", 1e-14, res, []float64{0, 0, 0})

	// stiffness applied to the linear field x recovers boundary fluxes
	res = make([]float64, 3)
	blf.AddMult(res, 1, []float64{0, 0.5, 1})
	chk.Array(tst, "K*x", 1e-14, res, []float64{-1, 0, 1})
}

func Test_forms02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("forms02. mixed gradient coupling")

	s := fes.NewLagrange1D(4, 1.0)
	one := &coeff.Const{V: 1.0}

	mblf := NewMixedBilinearForm(s, s)
	mblf.AddIntegrator(&MixedGradIntegrator{Test: s, Trial: s, C: one})
	mblf.Assemble()

	// gradient of a constant field vanishes
	ones := []float64{1, 1, 1, 1, 1}
	res := make([]float64, 5)
	mblf.AddMult(res, 1, ones)
	chk.Array(tst, "G*1", 1e-14, res, []float64{0, 0, 0, 0, 0})

	// (∇x, v) = (1, v): G*x equals the mass row sums
	x := []float64{0, 0.25, 0.5, 0.75, 1}
	res = make([]float64, 5)
	mblf.AddMult(res, 1, x)
	chk.Array(tst, "G*x", 1e-14, res, []float64{0.125, 0.25, 0.25, 0.25, 0.125})
}

func Test_forms03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("forms03. assembly is idempotent; source integral is exact")

	s := fes.NewLagrange1D(8, 2.0)
	c := &coeff.Const{V: 3.0}

	blf := NewBilinearForm(s)
	blf.AddIntegrator(&MassIntegrator{Space: s, C: c})
	blf.Assemble()
	sum1 := blf.Checksum()
	blf.Assemble()
	chk.Float64(tst, "re-assembly checksum", 0, blf.Checksum(), sum1)

	// clearing and re-applying the same integrators gives the same matrix
	blf.Clear()
	blf.AddIntegrator(&MassIntegrator{Space: s, C: c})
	blf.Assemble()
	chk.Float64(tst, "clear+reapply checksum", 0, blf.Checksum(), sum1)

	// (c, v) sums to c times the domain length
	lf := NewLinearForm(s)
	lf.AddIntegrator(&DomainSourceIntegrator{Space: s, C: c})
	lf.Assemble()
	chk.Float64(tst, "Σ (c,v)", 1e-14, floats.Sum(lf.B), 6.0)

	// assembling twice does not accumulate
	lf.Assemble()
	chk.Float64(tst, "Σ (c,v) twice", 1e-14, floats.Sum(lf.B), 6.0)
}
