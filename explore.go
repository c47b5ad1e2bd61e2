// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package verilock

import "sync"

// The explorer decides deadlock-freedom by breadth-first search over the
// reachable composed state space. The composition is never materialized:
// successors are generated on demand by firing one enabled transition of
// one component per step (interleaving semantics), and only the reachable
// subset of the product is ever visited. Breadth-first order makes the
// reported witness a shortest one.

type searchOutcome struct {
	deadlock  bool
	at        int32 // node id of the deadlock state
	states    int
	truncated bool
}

// fire applies transition ti of component ci to (locals, vals) and returns
// the successor. Writes read the pre-state, so a statement's assignments
// are atomic.
//
func fire(auts []*automaton, locals []int, vals []bool, ci, ti int) ([]int, []bool) {
	t := &auts[ci].trans[locals[ci]][ti]
	nloc := append([]int(nil), locals...)
	nval := append([]bool(nil), vals...)
	for _, w := range t.writes {
		nval[w.sig] = w.rhs.eval(vals)
	}
	nloc[ci] = t.dst
	return nloc, nval
}

// allTerminal reports whether every component sits in the terminal state
// of a run-once process. Such quiescence is normal termination, not
// deadlock.
//
func allTerminal(auts []*automaton, locals []int) bool {
	for ci, a := range auts {
		if a.terminal < 0 || locals[ci] != a.terminal {
			return false
		}
	}
	return true
}

// explore searches the reachable state graph from the reset state. With
// maxStates > 0 the search stops once more states than that have been
// discovered and reports truncation instead of a verdict. With workers > 1
// successor expansion is spread over goroutines level by level; the
// verdict is unaffected, only the reported witness may vary.
//
func explore(nl *netlist, auts []*automaton, idx *stateIndex, maxStates, workers int) searchOutcome {
	locals := make([]int, len(auts))
	idx.add(encodeState(locals, nl.resetVals()), -1, 0, 0)
	if workers > 1 {
		return exploreParallel(nl, auts, idx, maxStates, workers)
	}

	queue := []int32{0}
	for qi := 0; qi < len(queue); qi++ {
		if maxStates > 0 && idx.len() > maxStates {
			return searchOutcome{states: idx.len(), truncated: true}
		}
		id := queue[qi]
		locals, vals := decodeState(idx.nodes[id].key, len(auts), len(nl.signals))
		enabled := 0
		for ci, a := range auts {
			for ti := range a.trans[locals[ci]] {
				if !a.trans[locals[ci]][ti].guard.eval(vals) {
					continue
				}
				enabled++
				nloc, nval := fire(auts, locals, vals, ci, ti)
				nid, inserted := idx.add(encodeState(nloc, nval), id, int32(ci), int32(ti))
				if inserted {
					queue = append(queue, nid)
				}
			}
		}
		if enabled == 0 && !allTerminal(auts, locals) {
			return searchOutcome{deadlock: true, at: id, states: idx.len()}
		}
	}
	return searchOutcome{states: idx.len()}
}

// exploreParallel runs the same search level-synchronously: each BFS level
// is split among workers, all insertions go through the shared index under
// a single lock, and the first worker to discover a state is the one whose
// insertion wins. The initial state is already in idx.
//
func exploreParallel(nl *netlist, auts []*automaton, idx *stateIndex, maxStates, workers int) searchOutcome {
	var (
		mu         sync.Mutex
		wg         sync.WaitGroup
		next       []int32
		deadlockAt = int32(-1)
		truncated  = false
	)
	level := []int32{0}
	for len(level) > 0 && deadlockAt < 0 && !truncated {
		// snapshot keys before spawning: workers append to the node arena
		keys := make([]string, len(level))
		for i, id := range level {
			keys[i] = idx.nodes[id].key
		}
		next = next[:0]
		size := len(level) / workers
		if size*workers < len(level) {
			size++
		}
		for start := 0; start < len(level); start += size {
			end := start + size
			if end > len(level) {
				end = len(level)
			}
			wg.Add(1)
			go func(ids []int32, keys []string) {
				defer wg.Done()
				for i, id := range ids {
					locals, vals := decodeState(keys[i], len(auts), len(nl.signals))
					enabled := 0
					type succ struct {
						key    string
						ci, ti int32
					}
					var succs []succ
					for ci, a := range auts {
						for ti := range a.trans[locals[ci]] {
							if !a.trans[locals[ci]][ti].guard.eval(vals) {
								continue
							}
							enabled++
							nloc, nval := fire(auts, locals, vals, ci, ti)
							succs = append(succs, succ{encodeState(nloc, nval), int32(ci), int32(ti)})
						}
					}
					mu.Lock()
					if enabled == 0 && !allTerminal(auts, locals) {
						if deadlockAt < 0 || id < deadlockAt {
							deadlockAt = id
						}
					}
					for _, s := range succs {
						nid, inserted := idx.add(s.key, id, s.ci, s.ti)
						if inserted {
							next = append(next, nid)
						}
					}
					if maxStates > 0 && idx.len() > maxStates {
						truncated = true
					}
					mu.Unlock()
				}
			}(level[start:end], keys[start:end])
		}
		wg.Wait()
		level = append([]int32(nil), next...)
	}
	switch {
	case deadlockAt >= 0:
		return searchOutcome{deadlock: true, at: deadlockAt, states: idx.len()}
	case truncated:
		return searchOutcome{states: idx.len(), truncated: true}
	default:
		return searchOutcome{states: idx.len()}
	}
}
