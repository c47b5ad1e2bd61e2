// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Command verilock checks handshake circuit descriptions for deadlocks.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/db47h/verilock"
	"github.com/db47h/verilock/circuits"
)

var (
	entry     string
	maxStates int
	workers   int
	timed     bool
)

func main() {
	root := &cobra.Command{
		Use:           "verilock",
		Short:         "deadlock verifier for asynchronous handshake circuits",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().IntVar(&maxStates, "max-states", 0, "abort exploration after this many states (0 = unbounded)")
	root.PersistentFlags().IntVar(&workers, "workers", 1, "number of exploration goroutines")
	root.PersistentFlags().BoolVar(&timed, "time", false, "report wall-clock time per design")

	verify := &cobra.Command{
		Use:   "verify [files...]",
		Short: "verify designs read from files",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runVerify,
	}
	verify.Flags().StringVar(&entry, "entry", "top", "name of the top-level module")
	root.AddCommand(verify)

	root.AddCommand(&cobra.Command{
		Use:   "suite",
		Short: "run the bundled example circuits",
		Args:  cobra.NoArgs,
		RunE:  runSuite,
	})

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "verilock:", err)
		os.Exit(1)
	}
}

func runVerify(cmd *cobra.Command, args []string) error {
	bad := false
	for _, name := range args {
		src, err := os.ReadFile(name)
		if err != nil {
			return errors.Wrap(err, "read")
		}
		start := time.Now()
		r := verilock.VerifyLimit(string(src), entry, maxStates, workers)
		report(name, r, time.Since(start))
		if r.Verdict != verilock.DeadlockFree {
			bad = true
		}
	}
	if bad {
		return errors.New("some designs failed verification")
	}
	return nil
}

func runSuite(cmd *cobra.Command, args []string) error {
	for _, c := range circuits.Cases {
		start := time.Now()
		r := verilock.VerifyLimit(c.Source, c.Entry, maxStates, workers)
		report(c.Name, r, time.Since(start))
		want := verilock.DeadlockFree
		if c.Deadlock {
			want = verilock.Deadlocked
		}
		if r.Verdict != want {
			return errors.Errorf("%s: got %v, expected %v", c.Name, r.Verdict, want)
		}
	}
	return nil
}

func report(name string, r verilock.Result, d time.Duration) {
	fmt.Printf("%-24s %-14s %d states", name, r.Verdict, r.States)
	if timed {
		fmt.Printf(" %v", d)
	}
	fmt.Println()
	switch r.Verdict {
	case verilock.Rejected:
		fmt.Printf("  %v\n", r.Err)
	case verilock.Deadlocked:
		fmt.Print(r.Trace)
	}
}
