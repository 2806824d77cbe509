// Copyright 2023 The Hephaestus Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coeff

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

func verbose() {
	chk.Verbose = true
}

func Test_coeff01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("coeff01. declare, resolve and push time")

	reg := NewRegistry()
	reg.DeclareConst("alpha", 2.5)
	reg.Declare("beta", &dbf.Lin{M: 3.0}) // beta(t) = 3 t

	a, err := reg.Get("alpha")
	if err != nil {
		tst.Errorf("Get failed:\n%v", err)
		return
	}
	b, err := reg.Get("beta")
	if err != nil {
		tst.Errorf("Get failed:\n%v", err)
		return
	}
	chk.Float64(tst, "alpha", 1e-15, a.Eval(nil), 2.5)

	reg.SetTime(0.0)
	chk.Float64(tst, "beta(0)", 1e-15, b.Eval(nil), 0.0)
	reg.SetTime(2.0)
	chk.Float64(tst, "beta(2)", 1e-15, b.Eval(nil), 6.0)

	if a.TimeVarying() {
		tst.Errorf("constant coefficient must not be time varying")
	}
	if !b.TimeVarying() {
		tst.Errorf("function coefficient must be time varying")
	}

	// missing names fail closed
	if _, err := reg.Get("gamma"); err == nil {
		tst.Errorf("Get should have failed for undeclared coefficient")
	}
}

func Test_coeff02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("coeff02. dt-scaled product")

	reg := NewRegistry()
	alpha := reg.DeclareConst("alpha", 4.0)
	dt := reg.DeclareConst("dt", 0.0)
	dtAlpha := &Product{A: dt, B: alpha}
	reg.Register("dtAlpha", dtAlpha)

	chk.Float64(tst, "dt*alpha (dt=0)", 1e-15, dtAlpha.Eval(nil), 0.0)
	dt.Set(0.1)
	chk.Float64(tst, "dt*alpha (dt=0.1)", 1e-15, dtAlpha.Eval(nil), 0.4)
	alpha.Set(8.0)
	chk.Float64(tst, "dt*alpha (alpha=8)", 1e-15, dtAlpha.Eval(nil), 0.8)
}

func Test_coeff03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("coeff03. duplicate declaration panics")

	defer func() {
		if recover() == nil {
			tst.Errorf("duplicate registration should have panicked")
		}
	}()
	reg := NewRegistry()
	reg.DeclareConst("sigma", 1.0)
	reg.DeclareConst("sigma", 2.0)
}
