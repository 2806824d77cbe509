// Copyright 2023 The Hephaestus Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vars

import (
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/EMinsight/hephaestus/fes"
)

func verbose() {
	chk.Verbose = true
}

func Test_vars01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("vars01. add, lookup, duplicates")

	reg := NewRegistry()
	s := fes.NewLagrange1D(4, 1.0)

	u, err := reg.Add("u", s)
	if err != nil {
		tst.Errorf("Add failed:\n%v", err)
		return
	}
	chk.IntAssert(len(u.Field), 5)

	// duplicate registration fails before any assembly is attempted
	if _, err := reg.Add("u", s); err == nil {
		tst.Errorf("duplicate Add should have failed")
		return
	}

	if !reg.Has("u") {
		tst.Errorf("registry should have u")
		return
	}
	if _, err := reg.Get("p"); err == nil {
		tst.Errorf("Get of unregistered name should have failed")
		return
	}

	reg.Add("p", s)
	chk.Strings(tst, "names", reg.Names(), []string{"u", "p"})
}

func Test_vars02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("vars02. time-derivative naming is deterministic and injective")

	chk.StrAssert(TimeDerivativeName("u"), "du_dt")
	chk.StrAssert(TimeDerivativeName("magnetic_vector_potential"), "dmagnetic_vector_potential_dt")

	// a variable that happens to look like a derivative still gets its
	// own distinct companion
	chk.StrAssert(TimeDerivativeName("dose_dt"), "ddose_dt_dt")
}

func Test_vars03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("vars03. zero-copy binding")

	reg := NewRegistry()
	s := fes.NewLagrange1D(2, 1.0)
	u, _ := reg.Add("u", s)

	x := make([]float64, 3)
	u.Bind(x)
	u.Field[1] = 7.0
	chk.Float64(tst, "aliasing", 1e-15, x[1], 7.0)

	defer func() {
		if recover() == nil {
			tst.Errorf("binding with wrong size should have panicked")
		}
	}()
	u.Bind(make([]float64, 2))
}
