// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

/*
Package verilock verifies asynchronous handshake circuits for deadlocks.

A design is written in a restricted synthesizable SystemVerilog subset:
single-bit logic signals, interfaces used as signal bundles, ANSI module
headers, positional instantiation, and behavioral processes built from
blocking assignments, if/else chains, while loops and wait statements.

Verification proceeds in three stages. The design is parsed and
elaborated into a flat netlist of components over a shared set of
single-bit signals. Each component's process is compiled into a finite
automaton whose transitions are guarded assignments: an else-less if arm
or a wait statement blocks the component until its condition holds. The
composed system then interleaves one component transition at a time, and
a breadth-first search over the reachable valuations either exhausts the
state space, or stops at a state where no transition is enabled while
some component has not terminated. The search being breadth-first, the
witness trace returned for a deadlock is one of minimal length.

	r := verilock.Verify(src, "top")
	if r.Verdict == verilock.Deadlocked {
		fmt.Print(r.Trace)
	}

Verify explores the full state space and is exact: DeadlockFree means no
reachable deadlock exists. VerifyLimit bounds the exploration and may
return Inconclusive instead.
*/
package verilock
