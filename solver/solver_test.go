// Copyright 2023 The Hephaestus Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solver

import (
	"errors"
	"testing"

	"github.com/cpmech/gosl/la"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EMinsight/hephaestus/par"
)

// spd builds a small symmetric positive-definite test operator
func spd() (*la.CCMatrix, *la.Triplet, []float64) {
	K := new(la.Triplet)
	K.Init(2, 2, 4)
	K.Put(0, 0, 4)
	K.Put(0, 1, 1)
	K.Put(1, 0, 1)
	K.Put(1, 1, 3)
	return K.ToMatrix(nil), K, []float64{4, 3}
}

func TestCGSolve(t *testing.T) {
	Am, K, diag := spd()
	s, err := New(NewOptions(), par.NewComm(false), Am, K, diag)
	require.NoError(t, err)
	defer s.Free()

	x := make([]float64, 2)
	require.NoError(t, s.Mult([]float64{1, 2}, x))
	assert.InDelta(t, 1.0/11.0, x[0], 1e-8)
	assert.InDelta(t, 7.0/11.0, x[1], 1e-8)
}

func TestCGJacobiSolve(t *testing.T) {
	Am, K, diag := spd()
	opts := NewOptions()
	opts.Jacobi = true
	s, err := New(opts, par.NewComm(false), Am, K, diag)
	require.NoError(t, err)
	defer s.Free()

	x := make([]float64, 2)
	require.NoError(t, s.Mult([]float64{1, 2}, x))
	assert.InDelta(t, 1.0/11.0, x[0], 1e-8)
	assert.InDelta(t, 7.0/11.0, x[1], 1e-8)
}

func TestCGIterationBudget(t *testing.T) {
	Am, K, diag := spd()
	opts := NewOptions()
	opts.MaxIter = 1
	opts.Tol = 1e-14
	s, err := New(opts, par.NewComm(false), Am, K, diag)
	require.NoError(t, err)

	x := make([]float64, 2)
	err = s.Mult([]float64{1, 2}, x)
	require.Error(t, err)
	var nc *NonConvergence
	assert.True(t, errors.As(err, &nc))
	assert.NotEmpty(t, nc.Error())
}

func TestUnknownSolverType(t *testing.T) {
	Am, K, diag := spd()
	opts := NewOptions()
	opts.Type = "gmres"
	assert.Panics(t, func() {
		New(opts, par.NewComm(false), Am, K, diag)
	})
}
