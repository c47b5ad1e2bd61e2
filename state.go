// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package verilock

// A global state is the tuple of every component's control state plus the
// signal valuation. States are encoded into compact byte strings: control
// states as uvarints in component order, then the valuation as packed
// bits. Two states are equal iff their encodings are equal, so the visited
// set is a plain map from encoding to a dense id.

func encodeState(locals []int, vals []bool) string {
	buf := make([]byte, 0, len(locals)+len(vals)/8+1)
	for _, l := range locals {
		u := uint(l)
		for u >= 0x80 {
			buf = append(buf, byte(u)|0x80)
			u >>= 7
		}
		buf = append(buf, byte(u))
	}
	var b byte
	for i, v := range vals {
		if v {
			b |= 1 << (uint(i) % 8)
		}
		if i%8 == 7 {
			buf = append(buf, b)
			b = 0
		}
	}
	if len(vals)%8 != 0 {
		buf = append(buf, b)
	}
	return string(buf)
}

func decodeState(key string, ncomp, nsig int) ([]int, []bool) {
	locals := make([]int, ncomp)
	i := 0
	for ci := range locals {
		var u, shift uint
		for {
			c := key[i]
			i++
			u |= uint(c&0x7f) << shift
			if c < 0x80 {
				break
			}
			shift += 7
		}
		locals[ci] = int(u)
	}
	vals := make([]bool, nsig)
	for si := range vals {
		vals[si] = key[i+si/8]&(1<<(uint(si)%8)) != 0
	}
	return locals, vals
}

// A node is one discovered global state. pred and the (comp, tidx) pair
// record how it was first reached, for witness reconstruction; the initial
// state has pred -1.
//
type node struct {
	key  string
	pred int32
	comp int32 // component that fired
	tidx int32 // transition index within that component's source state
}

// A stateIndex maps state encodings to dense ids backed by an arena of
// nodes. It is the only mutable shared structure of a search.
//
type stateIndex struct {
	visited map[string]int32
	nodes   []node
}

func newStateIndex() *stateIndex {
	return &stateIndex{visited: make(map[string]int32)}
}

// add returns the id for key, inserting a new node if the state was not
// seen before.
//
func (x *stateIndex) add(key string, pred, comp, tidx int32) (int32, bool) {
	if id, ok := x.visited[key]; ok {
		return id, false
	}
	id := int32(len(x.nodes))
	x.visited[key] = id
	x.nodes = append(x.nodes, node{key: key, pred: pred, comp: comp, tidx: tidx})
	return id, true
}

func (x *stateIndex) len() int { return len(x.nodes) }

// path returns the chain of (comp, tidx) firings from the initial state to
// the given node.
//
func (x *stateIndex) path(id int32) [][2]int32 {
	var rev [][2]int32
	for n := x.nodes[id]; n.pred >= 0; n = x.nodes[n.pred] {
		rev = append(rev, [2]int32{n.comp, n.tidx})
	}
	for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
		rev[i], rev[j] = rev[j], rev[i]
	}
	return rev
}
