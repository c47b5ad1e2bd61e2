// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package circuits bundles a library of small handshake circuits used by
// the command line tool, the tests and the benchmarks. Each case is a
// self-contained source text with a known verdict.
//
package circuits

// A Case is a named design with its expected outcome.
type Case struct {
	Name     string
	Entry    string // top-level module
	Source   string
	Deadlock bool
}

// Cases lists the bundled circuits.
var Cases = []Case{
	{Name: "handshake", Entry: "top", Source: Handshake},
	{Name: "handshake-mismatch", Entry: "top", Source: HandshakeMismatch, Deadlock: true},
	{Name: "cyclic-wait", Entry: "top", Source: CyclicWait, Deadlock: true},
	{Name: "token-ring", Entry: "top", Source: TokenRing},
	{Name: "pipeline", Entry: "top", Source: Pipeline},
	{Name: "pipeline-stuck-stage", Entry: "top", Source: PipelineStuckStage, Deadlock: true},
}

// Handshake is a producer and a consumer joined by a four-phase
// request/acknowledge interface. It is deadlock-free.
const Handshake = `
interface hs();
	logic req;
	logic ack;
endinterface

module producer(hs ch);
	always begin
		wait(!ch.ack);
		ch.req = 1;
		wait(ch.ack);
		ch.req = 0;
	end
endmodule

module consumer(hs ch);
	always begin
		wait(ch.req);
		ch.ack = 1;
		wait(!ch.req);
		ch.ack = 0;
	end
endmodule

module top();
	hs ch();
	producer p(ch);
	consumer c(ch);
endmodule
`

// HandshakeMismatch wires the producer of Handshake to a consumer that
// acknowledges only after the request has been withdrawn. The producer
// waits for the acknowledge with its request still raised, so both sides
// block forever.
const HandshakeMismatch = `
interface hs();
	logic req;
	logic ack;
endinterface

module producer(hs ch);
	always begin
		wait(!ch.ack);
		ch.req = 1;
		wait(ch.ack);
		ch.req = 0;
	end
endmodule

module lateconsumer(hs ch);
	always begin
		wait(ch.req);
		wait(!ch.req);
		ch.ack = 1;
		ch.ack = 0;
	end
endmodule

module top();
	hs ch();
	producer p(ch);
	lateconsumer c(ch);
endmodule
`

// CyclicWait is a ring of three identical nodes, each waiting for its
// left neighbour to raise a token before raising its own. Nobody moves
// first, so the ring deadlocks in its reset state.
const CyclicWait = `
module node(input logic l, output logic r);
	always begin
		wait(l);
		r = 1;
		wait(!l);
		r = 0;
	end
endmodule

module top();
	logic a, b, c;
	node n0(c, a);
	node n1(a, b);
	node n2(b, c);
endmodule
`

// TokenRing is CyclicWait with one node replaced by a seed that raises
// its token first. The token circulates forever: deadlock-free.
const TokenRing = `
module seed(input logic l, output logic r);
	always begin
		r = 1;
		wait(l);
		r = 0;
		wait(!l);
	end
endmodule

module node(input logic l, output logic r);
	always begin
		wait(l);
		r = 1;
		wait(!l);
		r = 0;
	end
endmodule

module top();
	logic a, b, c;
	seed n0(c, a);
	node n1(a, b);
	node n2(b, c);
endmodule
`

// Pipeline chains a source, a buffering stage and a sink with four-phase
// handshakes on both hops. It is deadlock-free.
const Pipeline = `
interface hs();
	logic req;
	logic ack;
endinterface

module source(hs out);
	always begin
		wait(!out.ack);
		out.req = 1;
		wait(out.ack);
		out.req = 0;
	end
endmodule

module stage(hs in, hs out);
	always begin
		wait(in.req);
		wait(!out.ack);
		out.req = 1;
		in.ack = 1;
		wait(!in.req);
		in.ack = 0;
		wait(out.ack);
		out.req = 0;
	end
endmodule

module sink(hs in);
	always begin
		wait(in.req);
		in.ack = 1;
		wait(!in.req);
		in.ack = 0;
	end
endmodule

module top();
	hs a();
	hs b();
	source s(a);
	stage st(a, b);
	sink k(b);
endmodule
`

// PipelineStuckStage is Pipeline with a stage that waits for a downstream
// acknowledge before it has issued a request. The sink never acknowledges
// an absent request and the whole pipeline wedges.
const PipelineStuckStage = `
interface hs();
	logic req;
	logic ack;
endinterface

module source(hs out);
	always begin
		wait(!out.ack);
		out.req = 1;
		wait(out.ack);
		out.req = 0;
	end
endmodule

module stuckstage(hs in, hs out);
	always begin
		wait(in.req);
		wait(out.ack);
		out.req = 1;
		in.ack = 1;
		wait(!in.req);
		in.ack = 0;
		out.req = 0;
	end
endmodule

module sink(hs in);
	always begin
		wait(in.req);
		in.ack = 1;
		wait(!in.req);
		in.ack = 0;
	end
endmodule

module top();
	hs a();
	hs b();
	source s(a);
	stuckstage st(a, b);
	sink k(b);
endmodule
`
