// Copyright 2023 The Hephaestus Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/mpi"
	"github.com/spf13/cobra"

	"github.com/EMinsight/hephaestus/inp"
	"github.com/EMinsight/hephaestus/par"
)

var (
	verbose       bool
	allowParallel bool
)

func main() {

	// catch errors
	defer func() {
		if err := recover(); err != nil {
			if mpi.WorldRank() == 0 {
				io.PfRed("\nERROR: %v\n", err)
				io.Pf("See location of error below:\n")
				chk.Verbose = true
				for i := 5; i > 3; i-- {
					chk.CallerInfo(i)
				}
			}
		}
		mpi.Stop()
	}()
	mpi.Start()

	rootCmd := &cobra.Command{
		Use:   "hephaestus",
		Short: "finite-element equation systems with implicit time stepping",
	}
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", true, "show messages")
	rootCmd.PersistentFlags().BoolVar(&allowParallel, "parallel", true, "allow parallel run")

	runCmd := &cobra.Command{
		Use:   "run [config]",
		Short: "run a configured simulation",
		Args:  cobra.ExactArgs(1),
		RunE:  runSim,
	}

	initCmd := &cobra.Command{
		Use:   "init [config]",
		Short: "write a default configuration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return inp.Save(args[0], inp.DefaultSim())
		},
	}

	rootCmd.AddCommand(runCmd, initCmd)
	if err := rootCmd.Execute(); err != nil {
		chk.Panic("command failed:\n%v", err)
	}
}

func runSim(cmd *cobra.Command, args []string) error {
	comm := par.NewComm(allowParallel)

	// message
	if comm.Root() && verbose {
		io.PfWhite("\nHephaestus -- Finite-Element Equation Systems\n")
		io.Pf("Copyright 2023 The Hephaestus Authors. All rights reserved.\n")
		io.Pf("Use of this source code is governed by a BSD-style\n")
		io.Pf("license that can be found in the LICENSE file.\n\n")
	}

	sim, err := inp.Load(args[0])
	if err != nil {
		return err
	}
	return sim.Run(comm, verbose)
}
