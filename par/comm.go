// Copyright 2023 The Hephaestus Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package par holds the communicator context threaded through all components
package par

import (
	"github.com/cpmech/gosl/mpi"
)

// Comm holds the multiprocessing context of one problem: whether the run is
// distributed, this processor's id and the total number of processors.
// A zero Comm is a valid single-process context.
type Comm struct {
	Distr bool // distributed/parallel run
	Proc  int  // this processor number
	Nproc int  // number of processors

	world *mpi.Communicator // world communicator; nil in a serial run
}

// NewComm returns the communicator context for this process.
//  allowParallel -- allow parallel execution; otherwise run in serial mode
//                   regardless of whether MPI is on or not
func NewComm(allowParallel bool) (o *Comm) {
	o = new(Comm)
	o.Nproc = 1
	if mpi.IsOn() && allowParallel {
		o.Proc = mpi.WorldRank()
		o.Nproc = mpi.WorldSize()
		o.Distr = o.Nproc > 1
		if o.Distr {
			o.world = mpi.NewCommunicator(nil)
		}
	}
	return
}

// Root tells whether this is the root processor
func (o *Comm) Root() bool {
	return o.Proc == 0
}

// AllReduceSum sums x over all processors, using w as workspace.
// In a serial run x is left untouched.
func (o *Comm) AllReduceSum(x, w []float64) {
	if o.Distr {
		o.world.AllReduceSum(w, x)
		copy(x, w)
	}
}
