// Copyright 2023 The Hephaestus Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kernels

import (
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/EMinsight/hephaestus/bcs"
	"github.com/EMinsight/hephaestus/coeff"
	"github.com/EMinsight/hephaestus/fes"
	"github.com/EMinsight/hephaestus/forms"
	"github.com/EMinsight/hephaestus/vars"
)

func verbose() {
	chk.Verbose = true
}

func buildRegistries() (*vars.Registry, *fes.Registry, *bcs.Map, *coeff.Registry) {
	s := fes.NewRegistry()
	s.Register("H1", fes.NewLagrange1D(4, 1.0))
	v := vars.NewRegistry()
	sp, _ := s.Get("H1")
	v.Add("u", sp)
	v.Add("p", sp)
	c := coeff.NewRegistry()
	c.DeclareConst("alpha", 2.0)
	c.DeclareConst("beta", 1.0)
	return v, s, bcs.NewMap(), c
}

func Test_kernels01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("kernels01. init resolves names; apply contributes one term")

	v, s, b, c := buildRegistries()
	sp, _ := s.Get("H1")

	k := NewMass("u", "beta")
	k.Init(v, s, b, c)
	if k.TimeVarying() {
		tst.Errorf("constant coefficient kernel must not be time varying")
		return
	}

	blf := forms.NewBilinearForm(sp)
	k.Apply(blf)
	blf.Assemble()
	ones := []float64{1, 1, 1, 1, 1}
	res := make([]float64, 5)
	blf.AddMult(res, 1, ones)
	chk.Array(tst, "M*1", 1e-15, res, []float64{0.125, 0.25, 0.25, 0.25, 0.125})

	// repeated apply after a clear does not accumulate
	blf.Clear()
	k.Apply(blf)
	blf.Assemble()
	res = make([]float64, 5)
	blf.AddMult(res, 1, ones)
	chk.Array(tst, "M*1 after clear", 1e-15, res, []float64{0.125, 0.25, 0.25, 0.25, 0.125})
}

func Test_kernels02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("kernels02. implicit scaling by the time-step coefficient")

	v, s, b, c := buildRegistries()
	sp, _ := s.Get("H1")
	dt := &coeff.Const{V: 0.5}

	k := NewStiffness("u", "alpha")
	k.Init(v, s, b, c)

	plain := forms.NewBilinearForm(sp)
	k.Apply(plain)
	plain.Assemble()

	scaled := forms.NewBilinearForm(sp)
	k.ApplyImplicit(scaled, dt)
	scaled.Assemble()

	x := []float64{0, 0.25, 0.5, 0.75, 1}
	rp := make([]float64, 5)
	rs := make([]float64, 5)
	plain.AddMult(rp, 0.5, x)
	scaled.AddMult(rs, 1, x)
	chk.Array(tst, "dt*K*x", 1e-14, rs, rp)
}

func Test_kernels03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("kernels03. missing coefficient aborts at Init")

	v, s, b, c := buildRegistries()

	defer func() {
		if recover() == nil {
			tst.Errorf("missing coefficient should have panicked at Init")
		}
	}()
	NewMass("u", "undeclared").Init(v, s, b, c)
}

func Test_kernels04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("kernels04. mixed kernel couples two variables")

	v, s, b, c := buildRegistries()
	sp, _ := s.Get("H1")

	k := NewMixedGradient("u", "p", "beta")
	k.Init(v, s, b, c)
	chk.StrAssert(k.TestVariable(), "u")
	chk.StrAssert(k.TrialVariable(), "p")

	mblf := forms.NewMixedBilinearForm(sp, sp)
	k.Apply(mblf)
	mblf.Assemble()
	x := []float64{0, 0.25, 0.5, 0.75, 1}
	res := make([]float64, 5)
	mblf.AddMult(res, 1, x)
	chk.Array(tst, "G*x", 1e-14, res, []float64{0.125, 0.25, 0.25, 0.25, 0.125})
}
