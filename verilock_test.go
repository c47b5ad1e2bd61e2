package verilock_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/db47h/verilock"
	"github.com/db47h/verilock/circuits"
)

func TestVerifyHandshake(t *testing.T) {
	r := verilock.Verify(circuits.Handshake, "top")
	if r.Verdict != verilock.DeadlockFree {
		t.Fatalf("verdict %v: %v", r.Verdict, r.Err)
	}
	if r.Trace != nil || r.Blocked != nil || r.Err != nil {
		t.Errorf("unexpected result fields: %+v", r)
	}
	if r.States == 0 {
		t.Error("no states explored")
	}
}

func TestVerifyDeadlockWitness(t *testing.T) {
	r := verilock.Verify(circuits.HandshakeMismatch, "top")
	if r.Verdict != verilock.Deadlocked {
		t.Fatalf("verdict %v: %v", r.Verdict, r.Err)
	}
	if r.Trace == nil || r.Trace.Len() == 0 {
		t.Fatal("no witness trace")
	}
	if err := r.Trace.Replay(); err != nil {
		t.Fatalf("witness does not replay: %v", err)
	}
	if !reflect.DeepEqual(r.Blocked, []string{"top.p", "top.c"}) {
		t.Errorf("blocked = %v", r.Blocked)
	}
	for _, s := range r.Trace.Steps {
		if !strings.HasPrefix(s.Component, "top.") || s.Action == "" {
			t.Errorf("bad step %+v", s)
		}
	}
	out := r.Trace.String()
	if !strings.Contains(out, "blocked:") || !strings.Contains(out, "top.p") {
		t.Errorf("trace rendering:\n%s", out)
	}
}

// Two peers, each lowering its own ready line and then waiting for the
// other to raise its line first: two steps into the run nobody can move.
func TestVerifyMutualWait(t *testing.T) {
	src := `
module peer(input logic other, output logic mine);
	always begin
		mine = 0;
		wait(other);
		mine = 1;
	end
endmodule

module top();
	logic a, b;
	peer left(b, a);
	peer right(a, b);
endmodule
`
	r := verilock.Verify(src, "top")
	if r.Verdict != verilock.Deadlocked {
		t.Fatalf("verdict %v: %v", r.Verdict, r.Err)
	}
	if r.Trace.Len() != 2 {
		t.Errorf("witness has %d steps, expected 2:\n%s", r.Trace.Len(), r.Trace)
	}
	if err := r.Trace.Replay(); err != nil {
		t.Error(err)
	}
	if !reflect.DeepEqual(r.Blocked, []string{"top.left", "top.right"}) {
		t.Errorf("blocked = %v", r.Blocked)
	}
}

func TestVerifyCyclicWait(t *testing.T) {
	r := verilock.Verify(circuits.CyclicWait, "top")
	if r.Verdict != verilock.Deadlocked {
		t.Fatalf("verdict %v: %v", r.Verdict, r.Err)
	}
	// nobody can move at reset: the witness is empty
	if r.Trace.Len() != 0 {
		t.Errorf("witness has %d steps, expected 0", r.Trace.Len())
	}
	if err := r.Trace.Replay(); err != nil {
		t.Error(err)
	}
	if len(r.Blocked) != 3 {
		t.Errorf("blocked = %v", r.Blocked)
	}
}

func TestVerifyRejected(t *testing.T) {
	r := verilock.Verify("module top();\nalways x <= 1;\nendmodule", "top")
	if r.Verdict != verilock.Rejected {
		t.Fatalf("verdict %v", r.Verdict)
	}
	perr, ok := r.Err.(*verilock.ParseError)
	if !ok {
		t.Fatalf("error is %T: %v", r.Err, r.Err)
	}
	if perr.Line != 2 || perr.Stage() != "parse" {
		t.Error(perr)
	}
}

func TestVerifyMissingEntry(t *testing.T) {
	r := verilock.Verify("module a();\nendmodule", "top")
	if r.Verdict != verilock.Rejected {
		t.Fatalf("verdict %v", r.Verdict)
	}
	if _, ok := r.Err.(*verilock.ElabError); !ok {
		t.Fatalf("error is %T: %v", r.Err, r.Err)
	}
}

func TestVerifyShortConnection(t *testing.T) {
	src := `
module m(input logic a, input logic b, input logic c);
	always wait(a && b && c);
endmodule
module top();
	logic x;
	m u(x);
endmodule
`
	r := verilock.Verify(src, "top")
	if r.Verdict != verilock.Rejected {
		t.Fatalf("verdict %v", r.Verdict)
	}
	eerr, ok := r.Err.(*verilock.ElabError)
	if !ok {
		t.Fatalf("error is %T: %v", r.Err, r.Err)
	}
	if !strings.Contains(eerr.Msg, "expects 3 connections, got 1") {
		t.Error(eerr)
	}
}

func TestVerifyTermination(t *testing.T) {
	src := `
module top();
	logic x;
	initial begin
		x = 1;
		x = 0;
	end
endmodule
`
	r := verilock.Verify(src, "top")
	if r.Verdict != verilock.DeadlockFree {
		t.Fatalf("run-once process reported as %v", r.Verdict)
	}
}

func TestVerifyBlockedInitial(t *testing.T) {
	src := `
module top();
	logic x;
	initial wait(x);
endmodule
`
	r := verilock.Verify(src, "top")
	if r.Verdict != verilock.Deadlocked {
		t.Fatalf("verdict %v", r.Verdict)
	}
}

func TestVerifyIdempotent(t *testing.T) {
	a := verilock.Verify(circuits.HandshakeMismatch, "top")
	b := verilock.Verify(circuits.HandshakeMismatch, "top")
	if a.Verdict != b.Verdict || a.States != b.States {
		t.Fatalf("runs differ: %+v vs %+v", a, b)
	}
	if !reflect.DeepEqual(a.Trace.Steps, b.Trace.Steps) || !reflect.DeepEqual(a.Blocked, b.Blocked) {
		t.Error("witnesses differ between runs")
	}
}

func TestVerifyInconclusive(t *testing.T) {
	r := verilock.VerifyLimit(circuits.Pipeline, "top", 3, 1)
	if r.Verdict != verilock.Inconclusive {
		t.Fatalf("verdict %v with a 3 state budget", r.Verdict)
	}
	r = verilock.VerifyLimit(circuits.Handshake, "top", 2, 1)
	if r.Verdict == verilock.DeadlockFree {
		t.Fatal("truncated run claimed deadlock-freedom")
	}
}

func TestVerifyParallel(t *testing.T) {
	for _, c := range circuits.Cases {
		seq := verilock.VerifyLimit(c.Source, c.Entry, 0, 1)
		par := verilock.VerifyLimit(c.Source, c.Entry, 0, 4)
		if seq.Verdict != par.Verdict {
			t.Errorf("%s: sequential %v, parallel %v", c.Name, seq.Verdict, par.Verdict)
		}
		if par.Verdict == verilock.Deadlocked {
			if err := par.Trace.Replay(); err != nil {
				t.Errorf("%s: parallel witness does not replay: %v", c.Name, err)
			}
		}
	}
}

func TestTime(t *testing.T) {
	r, d := verilock.Time(circuits.Handshake, "top")
	if r.Verdict != verilock.DeadlockFree {
		t.Fatalf("verdict %v", r.Verdict)
	}
	if d <= 0 {
		t.Errorf("non-positive duration %v", d)
	}
}

func BenchmarkVerify(b *testing.B) {
	for _, c := range circuits.Cases {
		b.Run(c.Name, func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				verilock.Verify(c.Source, c.Entry)
			}
		})
	}
}
