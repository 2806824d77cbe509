// Copyright 2023 The Hephaestus Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package auxsolvers

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"

	"github.com/EMinsight/hephaestus/coeff"
	"github.com/EMinsight/hephaestus/fes"
	"github.com/EMinsight/hephaestus/vars"
)

func verbose() {
	chk.Verbose = true
}

func Test_aux01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("aux01. scaled field tracks its source")

	space := fes.NewLagrange1D(3, 1.0)
	s := fes.NewRegistry()
	s.Register("H1", space)
	v := vars.NewRegistry()
	v.Add("b", space)
	c := coeff.NewRegistry()
	c.Declare("nu", &dbf.Lin{M: 2.0}) // nu(t) = 2 t

	col := NewCollection()
	col.Add("h", NewScaledField("b", "h", "nu"))
	col.Init(v, s, c)

	// the target was registered on the source's space
	if !v.Has("h") {
		tst.Errorf("aux variable was not registered\n")
		return
	}

	b, _ := v.Get("b")
	for i := range b.Field {
		b.Field[i] = float64(i)
	}
	c.SetTime(3.0)
	col.Solve(3.0)
	h, _ := v.Get("h")
	chk.Array(tst, "h", 1e-15, h.Field, []float64{0, 6, 12, 18})
}

func Test_aux02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("aux02. missing source aborts at Init")

	s := fes.NewRegistry()
	v := vars.NewRegistry()
	c := coeff.NewRegistry()

	defer func() {
		if recover() == nil {
			tst.Errorf("missing source variable must panic\n")
		}
	}()
	NewScaledField("ghost", "h", "nu").Init(v, s, c)
}
