// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package verilock

import (
	"time"
)

// A Verdict is the outcome of a verification run.
type Verdict int

const (
	// DeadlockFree means the full reachable state space was explored and
	// contains no deadlock.
	DeadlockFree Verdict = iota
	// Deadlocked means a reachable deadlock state was found; the Result
	// carries a witness trace.
	Deadlocked
	// Rejected means the source was not accepted; the Result carries a
	// *ParseError, *ElabError or *ModelError.
	Rejected
	// Inconclusive means the exploration hit its state budget before
	// exhausting the reachable state space.
	Inconclusive
)

var verdictNames = [...]string{"deadlock-free", "deadlocked", "rejected", "inconclusive"}

func (v Verdict) String() string {
	if int(v) < len(verdictNames) {
		return verdictNames[v]
	}
	return "unknown"
}

// A Result holds the outcome of verifying one design.
//
type Result struct {
	Verdict Verdict
	Trace   *Trace   // witness, set iff Verdict == Deadlocked
	Blocked []string // blocked components, set iff Verdict == Deadlocked
	States  int      // number of distinct states explored
	Err     error    // rejection cause, set iff Verdict == Rejected
}

// Verify parses source, elaborates the design rooted at the entry module
// and exhaustively explores the composed state space for deadlocks.
//
func Verify(source, entry string) Result {
	return VerifyLimit(source, entry, 0, 1)
}

// VerifyLimit is Verify with resource controls. maxStates > 0 bounds the
// number of states explored; exceeding the bound yields an Inconclusive
// verdict. workers > 1 spreads successor expansion over that many
// goroutines. The verdict and witness do not depend on workers.
//
func VerifyLimit(source, entry string, maxStates, workers int) Result {
	ast, perr := parse(source)
	if perr != nil {
		return Result{Verdict: Rejected, Err: perr}
	}
	nl, eerr := elaborate(ast, entry)
	if eerr != nil {
		return Result{Verdict: Rejected, Err: eerr}
	}
	auts, merr := buildAutomata(nl)
	if merr != nil {
		return Result{Verdict: Rejected, Err: merr}
	}
	idx := newStateIndex()
	out := explore(nl, auts, idx, maxStates, workers)
	r := Result{States: out.states}
	switch {
	case out.deadlock:
		r.Verdict = Deadlocked
		r.Trace, r.Blocked = buildTrace(nl, auts, idx, out.at)
	case out.truncated:
		r.Verdict = Inconclusive
	default:
		r.Verdict = DeadlockFree
	}
	return r
}

// Time runs Verify and reports the wall-clock duration of the whole
// pipeline.
//
func Time(source, entry string) (Result, time.Duration) {
	start := time.Now()
	r := Verify(source, entry)
	return r, time.Since(start)
}
