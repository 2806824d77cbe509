// Copyright 2023 The Hephaestus Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package eqs implements the equation system: the owner of the kernel
// set, the block-structured discrete operator and the right-hand side.
// Trial variables are laid out in registration order; block boundaries
// are prefix sums over the variables' true-DOF sizes.
package eqs

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"

	"github.com/EMinsight/hephaestus/bcs"
	"github.com/EMinsight/hephaestus/coeff"
	"github.com/EMinsight/hephaestus/fes"
	"github.com/EMinsight/hephaestus/forms"
	"github.com/EMinsight/hephaestus/kernels"
	"github.com/EMinsight/hephaestus/par"
	"github.com/EMinsight/hephaestus/vars"
)

// DtCoefName is the reserved name under which the time-dependent system
// registers its time-step coefficient at Init
const DtCoefName = "dt"

// System assembles the block-structured linear system from the
// contributions of its kernels. The steady variant solves for the trial
// fields themselves; the time-dependent variant solves for their time
// derivatives with backward-Euler scaling of field-acting terms.
type System struct {

	// context and registries (borrowed)
	Comm   *par.Comm
	Vars   *vars.Registry
	Spaces *fes.Registry
	Coeffs *coeff.Registry

	// configuration
	timeDep     bool
	trialNames  []string // insertion order = block order
	blfKernels  map[string][]kernels.BilinearKernel
	mblfKernels map[string][]kernels.MixedKernel
	lfKernels   map[string][]kernels.LinearKernel
	order       []kernels.Kernel // stable kernel registration order

	// time step
	dt     float64
	dtCoef *coeff.Const

	// per-block forms; aux forms carry the unscaled field-acting terms
	// whose matvec against the current fields feeds the right-hand side
	blfs     map[string]*forms.BilinearForm
	mblfs    map[string]map[string]*forms.MixedBilinearForm
	lfs      map[string]*forms.LinearForm
	auxBlfs  map[string]*forms.BilinearForm
	auxMblfs map[string]map[string]*forms.MixedBilinearForm

	// block layout
	offsets []int // [nvars+1] prefix sums
	sizes   []int // [nvars] true-DOF size per trial variable
	epoch   int   // structure epoch; bumped when offsets change

	// dirty flags, checked once per update
	dtDirty   bool
	dtDep     map[string]bool // test var has dt-dependent bilinear terms
	coefDirty map[string]bool // test var has time-varying bilinear terms
	opDirty   bool            // global constrained operator must be rebuilt

	// essential-boundary data of the current step
	essDofs map[string][]int
	essVals map[string][]float64
	essMark []bool
	essVec  []float64

	// assembled global system
	gK      la.Triplet
	gAm     *la.CCMatrix
	gDiag   []float64 // diagonal of the constrained matrix
	gB      []float64
	gW      []float64 // reduction workspace
	inited  bool
	updated bool
	formed  bool
}

// NewSystem returns a new steady-state equation system
func NewSystem(comm *par.Comm) (o *System) {
	o = new(System)
	o.Comm = comm
	o.blfKernels = make(map[string][]kernels.BilinearKernel)
	o.mblfKernels = make(map[string][]kernels.MixedKernel)
	o.lfKernels = make(map[string][]kernels.LinearKernel)
	return
}

// NewTimeDependentSystem returns a new time-dependent equation system
func NewTimeDependentSystem(comm *par.Comm) (o *System) {
	o = NewSystem(comm)
	o.timeDep = true
	return
}

// TimeDependent tells whether this system solves for time derivatives
func (o *System) TimeDependent() bool { return o.timeDep }

// AddTrialVariableNameIfMissing appends a trial-variable name keeping
// insertion order
func (o *System) AddTrialVariableNameIfMissing(name string) {
	for _, n := range o.trialNames {
		if n == name {
			return
		}
	}
	o.trialNames = append(o.trialNames, name)
}

// TrialVariableNames returns the trial-variable names in block order
func (o *System) TrialVariableNames() []string { return o.trialNames }

// AddKernel registers a kernel in its test-variable bucket. The set of
// kernel variants is closed; anything else is a configuration error.
func (o *System) AddKernel(k kernels.Kernel) {
	test := k.TestVariable()
	o.AddTrialVariableNameIfMissing(test)
	switch kk := k.(type) {
	case kernels.BilinearKernel:
		o.blfKernels[test] = append(o.blfKernels[test], kk)
	case kernels.MixedKernel:
		o.AddTrialVariableNameIfMissing(kk.TrialVariable())
		o.mblfKernels[test] = append(o.mblfKernels[test], kk)
	case kernels.LinearKernel:
		o.lfKernels[test] = append(o.lfKernels[test], kk)
	default:
		chk.Panic("kernel on %q has unknown kind %d", test, k.Kind())
	}
	o.order = append(o.order, k)
}

// SolvedVariable maps a trial-variable name to the name of the variable
// actually solved for: the field itself (steady) or its time derivative
func (o *System) SolvedVariable(trial string) string {
	if o.timeDep {
		return vars.TimeDerivativeName(trial)
	}
	return trial
}

// Init registers missing variables and coefficients, resolves all
// kernels in registration order and builds the block layout. Any missing
// named dependency aborts the run: it is a configuration error
// discoverable before any expensive work.
func (o *System) Init(v *vars.Registry, s *fes.Registry, b *bcs.Map, c *coeff.Registry) {
	o.Vars, o.Spaces, o.Coeffs = v, s, c

	// every trial variable must exist; time-dependent systems register
	// the time-derivative companions before assembly begins
	for _, name := range o.trialNames {
		vv, err := v.Get(name)
		if err != nil {
			chk.Panic("equation system requires variable %q which is not registered", name)
		}
		if o.timeDep {
			dname := vars.TimeDerivativeName(name)
			if !v.Has(dname) {
				if _, err := v.Add(dname, vv.Space); err != nil {
					chk.Panic("cannot register time derivative of %q:\n%v", name, err)
				}
			}
		}
	}

	// the time-step coefficient depends on variables existing, so it is
	// created here and not earlier
	if o.timeDep {
		if c.Has(DtCoefName) {
			chk.Panic("coefficient name %q is reserved for the time step", DtCoefName)
		}
		o.dtCoef = c.DeclareConst(DtCoefName, 0)
	}

	// resolve kernels in stable registration order
	for _, k := range o.order {
		k.Init(v, s, b, c)
	}

	// dirty-flag setup
	o.dtDep = make(map[string]bool)
	o.coefDirty = make(map[string]bool)
	for test, ks := range o.blfKernels {
		for _, k := range ks {
			if o.timeDep && k.Kind() != kernels.KindMass {
				o.dtDep[test] = true
			}
			if k.TimeVarying() {
				o.coefDirty[test] = true
			}
		}
	}

	// forms
	o.blfs = make(map[string]*forms.BilinearForm)
	o.mblfs = make(map[string]map[string]*forms.MixedBilinearForm)
	o.lfs = make(map[string]*forms.LinearForm)
	o.auxBlfs = make(map[string]*forms.BilinearForm)
	o.auxMblfs = make(map[string]map[string]*forms.MixedBilinearForm)
	for _, test := range o.trialNames {
		space := o.mustSpace(test)
		o.blfs[test] = forms.NewBilinearForm(space)
		o.lfs[test] = forms.NewLinearForm(space)
		if o.timeDep && o.dtDep[test] {
			o.auxBlfs[test] = forms.NewBilinearForm(space)
		}
		for _, k := range o.mblfKernels[test] {
			trial := k.TrialVariable()
			if o.mblfs[test] == nil {
				o.mblfs[test] = make(map[string]*forms.MixedBilinearForm)
				o.auxMblfs[test] = make(map[string]*forms.MixedBilinearForm)
			}
			if o.mblfs[test][trial] == nil {
				o.mblfs[test][trial] = forms.NewMixedBilinearForm(space, o.mustSpace(trial))
				if o.timeDep {
					o.auxMblfs[test][trial] = forms.NewMixedBilinearForm(space, o.mustSpace(trial))
				}
			}
		}
	}

	o.essDofs = make(map[string][]int)
	o.essVals = make(map[string][]float64)
	o.computeOffsets()
	o.dtDirty = true
	o.opDirty = true
	o.inited = true
}

// computeOffsets recomputes the block offset table as prefix sums over
// the trial variables' true-DOF sizes. A zero-size block is a
// configuration error.
func (o *System) computeOffsets() {
	n := len(o.trialNames)
	sizes := make([]int, n)
	offsets := make([]int, n+1)
	for i, name := range o.trialNames {
		sizes[i] = o.mustSpace(name).NumDofs()
		if sizes[i] == 0 {
			chk.Panic("variable %q has a zero-size space", name)
		}
		offsets[i+1] = offsets[i] + sizes[i]
	}
	changed := len(o.sizes) != n
	if !changed {
		for i := range sizes {
			if sizes[i] != o.sizes[i] {
				changed = true
				break
			}
		}
	}
	o.sizes = sizes
	o.offsets = offsets
	if changed {
		o.epoch++
		o.opDirty = true
	}
}

// mustSpace returns the space of a trial variable
func (o *System) mustSpace(name string) fes.Space {
	v, err := o.Vars.Get(name)
	if err != nil {
		chk.Panic("equation system requires variable %q which is not registered", name)
	}
	return v.Space
}

// BlockOffsets returns the block offset table (length nvars+1)
func (o *System) BlockOffsets() []int { return o.offsets }

// StructureEpoch counts structural changes of the block layout; solver
// caches key on it
func (o *System) StructureEpoch() int { return o.epoch }

// Size returns the total number of unknowns
func (o *System) Size() int {
	if len(o.offsets) == 0 {
		return 0
	}
	return o.offsets[len(o.offsets)-1]
}

// blockIndex returns the block index of a trial variable
func (o *System) blockIndex(name string) int {
	for i, n := range o.trialNames {
		if n == name {
			return i
		}
	}
	chk.Panic("variable %q is not a trial variable of this system", name)
	return -1
}

// SetTimeStep stores the step size used by subsequent assembly and
// invalidates all dt-dependent bilinear forms when the step changes
func (o *System) SetTimeStep(dt float64) {
	if !o.inited {
		chk.Panic("SetTimeStep called before Init")
	}
	if dt != o.dt {
		o.dt = dt
		o.dtDirty = true
	}
	if o.dtCoef != nil {
		o.dtCoef.Set(dt)
	}
}

// TimeStep returns the current time step
func (o *System) TimeStep() float64 { return o.dt }

// Triplet returns the triplet of the globally assembled constrained
// matrix; direct solvers factorize from it
func (o *System) Triplet() *la.Triplet {
	if o.gAm == nil {
		chk.Panic("Triplet called before FormLinearSystem")
	}
	return &o.gK
}

// Diagonal returns the diagonal of the constrained matrix; iterative
// solvers use it for Jacobi scaling
func (o *System) Diagonal() []float64 {
	if o.gAm == nil {
		chk.Panic("Diagonal called before FormLinearSystem")
	}
	return o.gDiag
}
