// Copyright 2023 The Hephaestus Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eqs

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"

	"github.com/EMinsight/hephaestus/bcs"
	"github.com/EMinsight/hephaestus/kernels"
	"github.com/EMinsight/hephaestus/sources"
	"github.com/EMinsight/hephaestus/vars"
)

// UpdateSystem re-applies kernels, sources and boundary conditions at
// the current time. Linear and mixed forms are rebuilt on every call;
// bilinear blocks are rebuilt only when invalidated by a time-step
// change, a time-varying coefficient or a structural change.
func (o *System) UpdateSystem(b *bcs.Map, src *sources.Sources) {
	if !o.inited {
		chk.Panic("UpdateSystem called before Init")
	}
	o.computeOffsets()
	t := o.Coeffs.Time()

	for _, test := range o.trialNames {

		// bilinear block
		blf := o.blfs[test]
		if !blf.Assembled() || o.coefDirty[test] || (o.dtDirty && o.dtDep[test]) {
			blf.Clear()
			for _, k := range o.blfKernels[test] {
				if o.timeDep {
					k.ApplyImplicit(blf, o.dtCoef)
				} else {
					k.Apply(blf)
				}
			}
			blf.Assemble()
			o.opDirty = true
		}

		// unscaled field-acting terms; their matvec against the current
		// fields feeds the backward-Euler right-hand side
		if aux := o.auxBlfs[test]; aux != nil {
			if !aux.Assembled() || o.coefDirty[test] {
				aux.Clear()
				for _, k := range o.blfKernels[test] {
					if k.Kind() != kernels.KindMass {
						k.Apply(aux)
					}
				}
				aux.Assemble()
			}
		}

		// mixed couplings
		for trial, mblf := range o.mblfs[test] {
			mblf.Clear()
			for _, k := range o.mblfKernels[test] {
				if k.TrialVariable() != trial {
					continue
				}
				if o.timeDep {
					k.ApplyImplicit(mblf, o.dtCoef)
				} else {
					k.Apply(mblf)
				}
			}
			mblf.Assemble()
			o.opDirty = true
			if aux := o.auxMblfs[test][trial]; aux != nil {
				aux.Clear()
				for _, k := range o.mblfKernels[test] {
					if k.TrialVariable() == trial {
						k.Apply(aux)
					}
				}
				aux.Assemble()
			}
		}

		// right-hand side
		lf := o.lfs[test]
		lf.Clear()
		for _, k := range o.lfKernels[test] {
			k.Apply(lf)
		}
		if src != nil {
			src.Apply(test, lf)
		}
		lf.Assemble()
		if b != nil {
			b.ApplyIntegratedBCs(test, lf, t)
		}
		if o.timeDep {
			u := o.mustVar(test)
			if aux := o.auxBlfs[test]; aux != nil {
				aux.AddMult(lf.B, -1, u.Field)
			}
			for trial, aux := range o.auxMblfs[test] {
				w := o.mustVar(trial)
				aux.AddMult(lf.B, -1, w.Field)
			}
		}

		// essential constraints of this step. For transient systems the
		// boundary functions prescribe the rate of the constrained field.
		var dofs []int
		var vals []float64
		if b != nil {
			dofs, vals = b.ApplyEssentialBCs(test, blf.Space, t)
		}
		if !sameInts(dofs, o.essDofs[test]) {
			o.opDirty = true
		}
		o.essDofs[test] = dofs
		o.essVals[test] = vals
	}

	o.dtDirty = false
	o.updated = true
}

// elimPutter routes block contributions into the global triplet with
// offsets, dropping rows and columns of eliminated essential dofs. The
// diagonal is accumulated on the side for Jacobi-scaled solvers.
type elimPutter struct {
	K          *la.Triplet
	roff, coff int
	ess        []bool
	diag       []float64
}

func (p *elimPutter) Put(i, j int, x float64) {
	I, J := p.roff+i, p.coff+j
	if p.ess[I] || p.ess[J] {
		return
	}
	p.K.Put(I, J, x)
	if I == J {
		p.diag[I] += x
	}
}

// FormLinearSystem builds the global constrained system: essential rows
// become identity, their column action moves to the right-hand side and
// the unknown vector carries the imposed values as initial guess. The
// sparse matrix is rebuilt only when some block or the essential dof
// set changed since the last call.
func (o *System) FormLinearSystem() (Am *la.CCMatrix, x, b []float64) {
	if !o.updated {
		chk.Panic("FormLinearSystem called before UpdateSystem")
	}
	n := o.Size()
	if n == 0 {
		chk.Panic("equation system has no trial variables")
	}

	// global essential markers and imposed values
	if len(o.essMark) != n {
		o.essMark = make([]bool, n)
		o.essVec = make([]float64, n)
		o.gB = make([]float64, n)
		o.gW = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		o.essMark[i] = false
		o.essVec[i] = 0
	}
	ness := 0
	for i, test := range o.trialNames {
		roff := o.offsets[i]
		for k, d := range o.essDofs[test] {
			o.essMark[roff+d] = true
			o.essVec[roff+d] = o.essVals[test][k]
			ness++
		}
	}

	// global constrained matrix
	if o.opDirty || o.gAm == nil {
		nnz := ness
		for _, test := range o.trialNames {
			nnz += o.blfs[test].Nnz()
			for _, mblf := range o.mblfs[test] {
				nnz += mblf.Nnz()
			}
		}
		if len(o.gDiag) != n {
			o.gDiag = make([]float64, n)
		}
		la.Vector(o.gDiag).Fill(0)
		o.gK.Init(n, n, imax(nnz, 1))
		for i, test := range o.trialNames {
			roff := o.offsets[i]
			o.blfs[test].AddTo(&elimPutter{&o.gK, roff, roff, o.essMark, o.gDiag})
			for trial, mblf := range o.mblfs[test] {
				coff := o.offsets[o.blockIndex(trial)]
				mblf.AddTo(&elimPutter{&o.gK, roff, coff, o.essMark, o.gDiag})
			}
		}
		for d := 0; d < n; d++ {
			if o.essMark[d] {
				o.gK.Put(d, d, 1)
				o.gDiag[d] = 1
			}
		}
		o.gAm = o.gK.ToMatrix(nil)
		o.opDirty = false
	}

	// right-hand side: stacked linear forms, reduced over processors,
	// minus the column action of eliminated dofs
	for i, test := range o.trialNames {
		copy(o.gB[o.offsets[i]:o.offsets[i+1]], o.lfs[test].B)
	}
	o.Comm.AllReduceSum(o.gB, o.gW)
	for i, test := range o.trialNames {
		roff, rend := o.offsets[i], o.offsets[i+1]
		o.blfs[test].AddMult(o.gB[roff:rend], -1, o.essVec[roff:rend])
		for trial, mblf := range o.mblfs[test] {
			coff := o.offsets[o.blockIndex(trial)]
			cend := coff + mblf.Trial.NumDofs()
			mblf.AddMult(o.gB[roff:rend], -1, o.essVec[coff:cend])
		}
	}
	for d := 0; d < n; d++ {
		if o.essMark[d] {
			o.gB[d] = o.essVec[d]
		}
	}

	x = make([]float64, n)
	copy(x, o.essVec)
	o.formed = true
	return o.gAm, x, o.gB
}

// RecoverSolution scatters the solved block vector into the named
// fields, re-imposing essential values, and consumes the formed system.
// Calling it without a prior FormLinearSystem is a programming error.
func (o *System) RecoverSolution(x []float64) {
	if !o.formed {
		chk.Panic("RecoverSolution called without a formed linear system")
	}
	if len(x) != o.Size() {
		chk.Panic("solution vector has size %d. expected %d", len(x), o.Size())
	}
	for i, test := range o.trialNames {
		v := o.mustVar(o.SolvedVariable(test))
		copy(v.Field, x[o.offsets[i]:o.offsets[i+1]])
		for k, d := range o.essDofs[test] {
			v.Field[d] = o.essVals[test][k]
		}
	}
	o.formed = false
}

// BlockChecksum fingerprints one assembled block: the diagonal block of
// a variable (trial == test) or a mixed coupling block
func (o *System) BlockChecksum(test, trial string) float64 {
	if test == trial {
		blf, ok := o.blfs[test]
		if !ok {
			chk.Panic("no bilinear block for variable %q", test)
		}
		return blf.Checksum()
	}
	mblf := o.mblfs[test][trial]
	if mblf == nil {
		chk.Panic("no mixed block coupling %q to %q", trial, test)
	}
	return mblf.Checksum()
}

// mustVar returns a registered variable or aborts
func (o *System) mustVar(name string) *vars.Variable {
	v, err := o.Vars.Get(name)
	if err != nil {
		chk.Panic("equation system requires variable %q which is not registered", name)
	}
	return v
}

func sameInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func imax(a, b int) int {
	if a > b {
		return a
	}
	return b
}
