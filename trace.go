package verilock

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// A Step is one fired transition of a witness trace.
//
type Step struct {
	Component string   // hierarchical instance name
	Action    string   // fired statement, rendered
	Changes   []string // signal value changes, as "name=0" or "name=1"
}

// A Trace is a witness: the shortest sequence of transitions leading from
// the reset state to a deadlock state. Replay re-executes it to check that
// it reproduces the claimed state.
//
type Trace struct {
	Steps []Step

	path    [][2]int32
	auts    []*automaton
	nl      *netlist
	blocked []string // rendered per-component wait diagnostics
}

// buildTrace reconstructs the path to the deadlock node and returns the
// trace along with the names of the blocked components.
//
func buildTrace(nl *netlist, auts []*automaton, idx *stateIndex, at int32) (*Trace, []string) {
	t := &Trace{path: idx.path(at), auts: auts, nl: nl}
	locals := make([]int, len(auts))
	vals := nl.resetVals()
	for _, f := range t.path {
		a := auts[f[0]]
		tr := a.trans[locals[f[0]]][f[1]]
		prev := vals
		locals, vals = fire(auts, locals, vals, int(f[0]), int(f[1]))
		step := Step{Component: a.comp.name, Action: tr.desc}
		for si := range vals {
			if vals[si] != prev[si] {
				step.Changes = append(step.Changes, nl.signals[si].name+"="+bit(vals[si]))
			}
		}
		t.Steps = append(t.Steps, step)
	}
	var blocked []string
	for ci, a := range auts {
		if a.terminal >= 0 && locals[ci] == a.terminal {
			continue
		}
		blocked = append(blocked, a.comp.name)
		waits := a.waitingOn(locals[ci])
		names := make([]string, len(waits))
		for i, sig := range waits {
			names[i] = nl.signals[sig].name
		}
		t.blocked = append(t.blocked, fmt.Sprintf("%s waiting on %s", a.comp.name, strings.Join(names, ", ")))
	}
	return t, blocked
}

// Replay re-fires every recorded transition from the reset state and
// checks that each was enabled when fired and that the final state has no
// enabled transition while at least one component has not terminated.
//
func (t *Trace) Replay() error {
	locals := make([]int, len(t.auts))
	vals := t.nl.resetVals()
	for i, f := range t.path {
		a := t.auts[f[0]]
		ts := a.trans[locals[f[0]]]
		if int(f[1]) >= len(ts) {
			return errors.Errorf("step %d: %s has no transition %d from state %d",
				i+1, a.comp.name, f[1], locals[f[0]])
		}
		tr := ts[f[1]]
		if !tr.guard.eval(vals) {
			return errors.Errorf("step %d: %s: %q is not enabled", i+1, a.comp.name, tr.desc)
		}
		locals, vals = fire(t.auts, locals, vals, int(f[0]), int(f[1]))
	}
	for ci, a := range t.auts {
		for _, tr := range a.trans[locals[ci]] {
			if tr.guard.eval(vals) {
				return errors.Errorf("final state has enabled transition %q in %s", tr.desc, a.comp.name)
			}
		}
	}
	if allTerminal(t.auts, locals) {
		return errors.New("final state is a normal termination, not a deadlock")
	}
	return nil
}

// Len returns the number of steps in the trace.
func (t *Trace) Len() int { return len(t.Steps) }

func bit(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

func (t *Trace) String() string {
	var b strings.Builder
	for i, s := range t.Steps {
		fmt.Fprintf(&b, "%3d. %s: %s", i+1, s.Component, s.Action)
		if len(s.Changes) > 0 {
			fmt.Fprintf(&b, "  [%s]", strings.Join(s.Changes, " "))
		}
		b.WriteByte('\n')
	}
	for _, d := range t.blocked {
		fmt.Fprintf(&b, "     blocked: %s\n", d)
	}
	return b.String()
}
