package verilock

import (
	"strings"
	"testing"
)

func build(t *testing.T, src, entry string) (*netlist, []*automaton) {
	t.Helper()
	nl, err := elaborate(mustParse(t, src), entry)
	if err != nil {
		t.Fatal(err)
	}
	auts, merr := buildAutomata(nl)
	if merr != nil {
		t.Fatal(merr)
	}
	return nl, auts
}

func TestAutomatonLoop(t *testing.T) {
	src := `
module top();
	logic x;
	always begin
		x = 1;
		x = 0;
	end
endmodule
`
	_, auts := build(t, src, "top")
	a := auts[0]
	if a.nstates != 2 || a.terminal != -1 {
		t.Fatalf("got %d states, terminal %d", a.nstates, a.terminal)
	}
	if len(a.trans[0]) != 1 || a.trans[0][0].dst != 1 {
		t.Errorf("bad transitions from 0: %+v", a.trans[0])
	}
	if len(a.trans[1]) != 1 || a.trans[1][0].dst != 0 {
		t.Errorf("control does not loop: %+v", a.trans[1])
	}
	if a.trans[0][0].desc != "x = 1" || a.trans[1][0].desc != "x = 0" {
		t.Errorf("bad descriptions %q, %q", a.trans[0][0].desc, a.trans[1][0].desc)
	}
}

func TestAutomatonInitialTerminal(t *testing.T) {
	src := `
module top();
	logic x;
	initial x = 1;
endmodule
`
	_, auts := build(t, src, "top")
	a := auts[0]
	if a.terminal < 0 {
		t.Fatal("no terminal state for an initial process")
	}
	if len(a.trans[0]) != 1 || a.trans[0][0].dst != a.terminal {
		t.Errorf("bad transitions: %+v", a.trans[0])
	}
	if len(a.trans[a.terminal]) != 0 {
		t.Errorf("terminal state has outgoing transitions: %+v", a.trans[a.terminal])
	}
}

// A guard over a single assignment or wait merges into one atomic
// transition; the else arm fires under the negated disjunction of the arm
// conditions.
func TestAutomatonGuardedMerge(t *testing.T) {
	src := `
module m(input logic a, output logic b);
	always if (a) b = 1;
	else b = 0;
endmodule
module top();
	logic a, b;
	m u(a, b);
endmodule
`
	nl, auts := build(t, src, "top")
	a := auts[0]
	if a.nstates != 1 || len(a.trans[0]) != 2 {
		t.Fatalf("got %d states, %d transitions", a.nstates, len(a.trans[0]))
	}
	arm, els := a.trans[0][0], a.trans[0][1]
	if arm.desc != "if (a) b = 1" || els.desc != "else b = 0" {
		t.Errorf("bad descriptions %q, %q", arm.desc, els.desc)
	}
	vals := make([]bool, len(nl.signals))
	if arm.guard.eval(vals) || !els.guard.eval(vals) {
		t.Error("arm selection wrong for a = 0")
	}
	vals[nl.index["top.a"]] = true
	if !arm.guard.eval(vals) || els.guard.eval(vals) {
		t.Error("arm selection wrong for a = 1")
	}
}

// An else-less if blocks: the only transitions out carry the arm guards.
func TestAutomatonBlockingIf(t *testing.T) {
	src := `
module m(input logic a, output logic b);
	always if (a) b = 1;
endmodule
module top();
	logic a, b;
	m u(a, b);
endmodule
`
	nl, auts := build(t, src, "top")
	a := auts[0]
	if a.nstates != 1 || len(a.trans[0]) != 1 {
		t.Fatalf("got %d states, %d transitions", a.nstates, len(a.trans[0]))
	}
	vals := make([]bool, len(nl.signals))
	if a.trans[0][0].guard.eval(vals) {
		t.Error("transition enabled with a = 0")
	}
	waits := a.waitingOn(0)
	if len(waits) != 1 || waits[0] != nl.index["top.a"] {
		t.Errorf("waitingOn = %v, expected [%d]", waits, nl.index["top.a"])
	}
}

func TestAutomatonWhile(t *testing.T) {
	src := `
module m(input logic a, output logic b);
	always begin
		while (a) b = 1;
		b = 0;
	end
endmodule
module top();
	logic a, b;
	m u(a, b);
endmodule
`
	_, auts := build(t, src, "top")
	a := auts[0]
	if a.nstates != 2 {
		t.Fatalf("got %d states", a.nstates)
	}
	if len(a.trans[0]) != 2 {
		t.Fatalf("got %d transitions from the loop head", len(a.trans[0]))
	}
	body, exit := a.trans[0][0], a.trans[0][1]
	if body.dst != 0 || body.desc != "while (a) b = 1" {
		t.Errorf("bad loop transition: %+v", body)
	}
	if exit.dst != 1 || exit.desc != "exit while (a)" {
		t.Errorf("bad exit transition: %+v", exit)
	}
}

func TestAutomatonTwoProcesses(t *testing.T) {
	src := `
module top();
	logic x, y;
	always x = 1;
	always y = 1;
endmodule
`
	nl, err := elaborate(mustParse(t, src), "top")
	if err != nil {
		t.Fatal(err)
	}
	_, merr := buildAutomata(nl)
	if merr == nil {
		t.Fatal("two processes accepted")
	}
	if merr.Stage() != "model" || !strings.Contains(merr.Msg, "single always or initial block") {
		t.Error(merr)
	}
}

func TestAutomatonUnknownSignal(t *testing.T) {
	src := `
module top();
	logic x;
	always x = missing;
endmodule
`
	nl, err := elaborate(mustParse(t, src), "top")
	if err != nil {
		t.Fatal(err)
	}
	_, merr := buildAutomata(nl)
	if merr == nil {
		t.Fatal("unknown signal accepted")
	}
	if !strings.Contains(merr.Msg, "signal missing is not declared") || merr.Component != "top" {
		t.Error(merr)
	}
}

func TestAutomatonSignalSets(t *testing.T) {
	src := `
module m(input logic a, output logic b);
	always begin
		wait(a);
		b = 1;
		wait(!a);
		b = 0;
	end
endmodule
module top();
	logic a, b;
	m u(a, b);
endmodule
`
	nl, auts := build(t, src, "top")
	a := auts[0]
	if len(a.reads) != 1 || a.reads[0] != nl.index["top.a"] {
		t.Errorf("reads = %v", a.reads)
	}
	if len(a.writeSet) != 1 || a.writeSet[0] != nl.index["top.b"] {
		t.Errorf("writeSet = %v", a.writeSet)
	}
}
