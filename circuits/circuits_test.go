package circuits_test

import (
	"testing"

	"github.com/db47h/verilock"
	"github.com/db47h/verilock/circuits"
)

func TestCases(t *testing.T) {
	for _, c := range circuits.Cases {
		t.Run(c.Name, func(t *testing.T) {
			r := verilock.Verify(c.Source, c.Entry)
			want := verilock.DeadlockFree
			if c.Deadlock {
				want = verilock.Deadlocked
			}
			if r.Verdict != want {
				t.Fatalf("got %v, expected %v (%v)", r.Verdict, want, r.Err)
			}
			if c.Deadlock {
				if err := r.Trace.Replay(); err != nil {
					t.Errorf("witness does not replay: %v", err)
				}
			}
		})
	}
}
