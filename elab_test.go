package verilock

import (
	"strings"
	"testing"
)

func mustParse(t *testing.T, src string) *AST {
	t.Helper()
	ast, err := parse(src)
	if err != nil {
		t.Fatal(err)
	}
	return ast
}

func elabErr(t *testing.T, src, entry string) *ElabError {
	t.Helper()
	_, err := elaborate(mustParse(t, src), entry)
	if err == nil {
		t.Fatal("design elaborated")
	}
	if err.Stage() != "elaboration" {
		t.Errorf("stage %q, expected elaboration", err.Stage())
	}
	return err
}

func TestElabUnknownEntry(t *testing.T) {
	err := elabErr(t, "module a();\nendmodule", "top")
	if !strings.Contains(err.Msg, "entry module top is not declared") {
		t.Error(err)
	}
}

func TestElabEntryWithPorts(t *testing.T) {
	err := elabErr(t, "module top(input logic x);\nendmodule", "top")
	if !strings.Contains(err.Msg, "empty port list") {
		t.Error(err)
	}
}

func TestElabUnknownModule(t *testing.T) {
	err := elabErr(t, "module top();\nmissing m();\nendmodule", "top")
	if !strings.Contains(err.Msg, "module missing is not declared") {
		t.Error(err)
	}
}

func TestElabArity(t *testing.T) {
	src := `
module b(input logic x);
	always wait(x);
endmodule
module top();
	b c();
endmodule
`
	err := elabErr(t, src, "top")
	if !strings.Contains(err.Msg, "module b expects 1 connections, got 0") {
		t.Error(err)
	}
}

func TestElabRecursion(t *testing.T) {
	err := elabErr(t, "module a();\na x();\nendmodule", "a")
	if !strings.Contains(err.Msg, "recursive instantiation of module a") {
		t.Error(err)
	}
}

func TestElabDoubleDriver(t *testing.T) {
	src := `
module d(output logic o);
	always o = 1;
endmodule
module top();
	logic x;
	d d1(x);
	d d2(x);
endmodule
`
	err := elabErr(t, src, "top")
	if !strings.Contains(err.Msg, "signal top.x driven by both top.d1 and top.d2") {
		t.Error(err)
	}
}

func TestElabInputWrite(t *testing.T) {
	src := `
module d(input logic i);
	always i = 1;
endmodule
module top();
	logic x;
	d d1(x);
endmodule
`
	err := elabErr(t, src, "top")
	if !strings.Contains(err.Msg, "drives its input port i") {
		t.Error(err)
	}
}

func TestElabIfaceMismatch(t *testing.T) {
	src := `
interface hs();
	logic req;
endinterface
module m(hs ch);
	always wait(ch.req);
endmodule
module top();
	logic x;
	m u(x);
endmodule
`
	err := elabErr(t, src, "top")
	if !strings.Contains(err.Msg, "expects an instance of interface hs") {
		t.Error(err)
	}
}

// Flattening gives every signal a scoped name and a dense index, resolves
// interface members through ports, and keeps reset values.
func TestElabFlatten(t *testing.T) {
	src := `
interface hs();
	logic req;
	logic ack = 1;
endinterface
module m(hs ch, output logic done);
	logic t;
	always begin
		wait(ch.req);
		ch.ack = 0;
		t = 1;
		done = 1;
	end
endmodule
module top();
	hs ch();
	logic done;
	m u(ch, done);
endmodule
`
	nl, err := elaborate(mustParse(t, src), "top")
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"top.ch.req", "top.ch.ack", "top.done", "top.u.t"} {
		if _, ok := nl.index[name]; !ok {
			t.Errorf("signal %s missing from the flat table", name)
		}
	}
	if len(nl.signals) != 4 {
		t.Fatalf("got %d signals, expected 4", len(nl.signals))
	}
	rv := nl.resetVals()
	if !rv[nl.index["top.ch.ack"]] || rv[nl.index["top.ch.req"]] {
		t.Errorf("bad reset valuation %v", rv)
	}
	if len(nl.comps) != 1 || nl.comps[0].name != "top.u" {
		t.Fatalf("bad components: %+v", nl.comps)
	}
	c := nl.comps[0]
	if idx, ok := c.resolve(SignalRef{Name: "ch", Member: "ack"}); !ok || idx != nl.index["top.ch.ack"] {
		t.Errorf("ch.ack resolved to %d, %v", idx, ok)
	}
	if idx, ok := c.resolve(SignalRef{Name: "t"}); !ok || idx != nl.index["top.u.t"] {
		t.Errorf("t resolved to %d, %v", idx, ok)
	}
	if _, ok := c.resolve(SignalRef{Name: "nope"}); ok {
		t.Error("undeclared name resolved")
	}
}
