// Copyright 2023 The Hephaestus Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package inp reads YAML run configurations and builds runnable
// problems from them
package inp

import (
	"os"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"gopkg.in/yaml.v3"

	"github.com/EMinsight/hephaestus/auxsolvers"
	"github.com/EMinsight/hephaestus/bcs"
	"github.com/EMinsight/hephaestus/fes"
	"github.com/EMinsight/hephaestus/kernels"
	"github.com/EMinsight/hephaestus/par"
	"github.com/EMinsight/hephaestus/problem"
	"github.com/EMinsight/hephaestus/solver"
	"github.com/EMinsight/hephaestus/sources"
)

// MeshConfig describes the 1D mesh of the run
type MeshConfig struct {
	Ncells int     `yaml:"ncells"`
	Length float64 `yaml:"length"`
}

// CoefficientConfig declares one coefficient: constant when rate is
// zero, linear in time otherwise
type CoefficientConfig struct {
	Name  string  `yaml:"name"`
	Value float64 `yaml:"value"`
	Rate  float64 `yaml:"rate"`
}

// KernelConfig declares one weak-form kernel
type KernelConfig struct {
	Type        string `yaml:"type"` // mass | stiffness | mixed_gradient | source
	Variable    string `yaml:"variable"`
	Trial       string `yaml:"trial"` // mixed_gradient only
	Coefficient string `yaml:"coefficient"`
}

// BCConfig declares one boundary condition
type BCConfig struct {
	Name     string  `yaml:"name"`
	Kind     string  `yaml:"kind"` // essential | integrated
	Variable string  `yaml:"variable"`
	Attrs    []int   `yaml:"attrs"`
	Value    float64 `yaml:"value"`
}

// SourceConfig declares one imposed source
type SourceConfig struct {
	Name        string `yaml:"name"`
	Variable    string `yaml:"variable"`
	Coefficient string `yaml:"coefficient"`
}

// AuxConfig declares one scaled-field aux solver
type AuxConfig struct {
	Name        string `yaml:"name"`
	Source      string `yaml:"source"`
	Target      string `yaml:"target"`
	Coefficient string `yaml:"coefficient"`
}

// SolverConfig overrides linear-solver options; zero fields keep the
// defaults
type SolverConfig struct {
	Type    string  `yaml:"type"`
	Tol     float64 `yaml:"tol"`
	MaxIter int     `yaml:"maxiter"`
	Jacobi  bool    `yaml:"jacobi"`
	DtTol   float64 `yaml:"dttol"`
}

// ControlConfig sets the time-loop schedule
type ControlConfig struct {
	Dt    float64 `yaml:"dt"`
	Tf    float64 `yaml:"tf"`
	DtOut float64 `yaml:"dtout"`
}

// Sim is one complete run configuration
type Sim struct {
	Kind         string              `yaml:"kind"` // transient | steady
	Mesh         MeshConfig          `yaml:"mesh"`
	Variables    []string            `yaml:"variables"`
	Coefficients []CoefficientConfig `yaml:"coefficients"`
	Kernels      []KernelConfig      `yaml:"kernels"`
	BCs          []BCConfig          `yaml:"bcs"`
	Sources      []SourceConfig      `yaml:"sources"`
	Aux          []AuxConfig         `yaml:"aux"`
	Solver       SolverConfig        `yaml:"solver"`
	Control      ControlConfig       `yaml:"control"`
}

// DefaultSim returns a configuration with sensible defaults
func DefaultSim() *Sim {
	return &Sim{
		Kind: "transient",
		Mesh: MeshConfig{Ncells: 10, Length: 1.0},
		Control: ControlConfig{
			Dt: 0.01,
			Tf: 1.0,
		},
	}
}

// Load reads a YAML configuration file over the defaults
func Load(path string) (*Sim, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sim := DefaultSim()
	if err := yaml.Unmarshal(data, sim); err != nil {
		return nil, chk.Err("cannot parse %q:\n%v", path, err)
	}
	return sim, nil
}

// Save writes the configuration as YAML
func Save(path string, sim *Sim) error {
	data, err := yaml.Marshal(sim)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Build assembles the configured problem. Misconfiguration aborts the
// run with a message naming the offending entry.
func (o *Sim) Build(comm *par.Comm) *problem.Problem {
	var b *problem.Builder
	switch o.Kind {
	case "transient":
		b = problem.NewTransient(comm)
	case "steady":
		b = problem.NewSteady(comm)
	default:
		chk.Panic("unknown problem kind %q", o.Kind)
	}

	b.AddFESpace("H1", fes.NewLagrange1D(o.Mesh.Ncells, o.Mesh.Length))
	for _, name := range o.Variables {
		b.AddVariable(name, "H1")
	}
	for _, c := range o.Coefficients {
		if c.Rate != 0 {
			b.AddCoefficient(c.Name, &dbf.Lin{M: c.Rate})
		} else {
			b.AddConstCoefficient(c.Name, c.Value)
		}
	}
	for _, k := range o.Kernels {
		switch k.Type {
		case "mass":
			b.AddKernel(kernels.NewMass(k.Variable, k.Coefficient))
		case "stiffness":
			b.AddKernel(kernels.NewStiffness(k.Variable, k.Coefficient))
		case "mixed_gradient":
			b.AddKernel(kernels.NewMixedGradient(k.Variable, k.Trial, k.Coefficient))
		case "source":
			b.AddKernel(kernels.NewSource(k.Variable, k.Coefficient))
		default:
			chk.Panic("unknown kernel type %q on variable %q", k.Type, k.Variable)
		}
	}
	for _, c := range o.BCs {
		switch c.Kind {
		case "essential":
			b.AddEssentialBC(c.Name, &bcs.EssentialBC{VarName: c.Variable, Attrs: c.Attrs, Fcn: &dbf.Cte{C: c.Value}})
		case "integrated":
			b.AddIntegratedBC(c.Name, &bcs.IntegratedBC{VarName: c.Variable, Attrs: c.Attrs, Fcn: &dbf.Cte{C: c.Value}})
		default:
			chk.Panic("unknown boundary condition kind %q in %q", c.Kind, c.Name)
		}
	}
	for _, s := range o.Sources {
		b.AddSource(s.Name, sources.NewImposed(s.Variable, s.Coefficient))
	}
	for _, a := range o.Aux {
		b.AddAuxSolver(a.Name, auxsolvers.NewScaledField(a.Source, a.Target, a.Coefficient))
	}

	opts := solver.NewOptions()
	if o.Solver.Type != "" {
		opts.Type = o.Solver.Type
	}
	if o.Solver.Tol > 0 {
		opts.Tol = o.Solver.Tol
	}
	if o.Solver.MaxIter > 0 {
		opts.MaxIter = o.Solver.MaxIter
	}
	if o.Solver.DtTol != 0 {
		opts.DtTol = o.Solver.DtTol
	}
	opts.Jacobi = o.Solver.Jacobi
	b.SetSolverOptions(opts)

	return b.FinalizeProblem()
}

// Run builds and runs the configured problem
func (o *Sim) Run(comm *par.Comm, verbose bool) error {
	p := o.Build(comm)
	if o.Kind == "steady" {
		_, run := p.Steady()
		return run.Run(verbose)
	}
	op, run := p.Transient()
	defer op.Free()
	var dto dbf.T
	if o.Control.DtOut > 0 {
		dto = &dbf.Cte{C: o.Control.DtOut}
	}
	return run.Run(o.Control.Tf, &dbf.Cte{C: o.Control.Dt}, dto, verbose)
}
