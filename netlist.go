// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package verilock

// A signalInfo describes one wire of the flattened circuit. Signals are
// addressed by dense indices into the global valuation; hierarchical names
// are kept for diagnostics only.
//
type signalInfo struct {
	name   string
	reset  bool
	driver int // index of the driving component, -1 when undriven
}

// A binding connects a local name of a module to the flat signal table:
// either a single signal index, or an interface bundle mapping member
// names to signal indices.
//
type binding struct {
	idx    int
	iface  string
	bundle map[string]int
}

// A component is a module instance with behavior. Its structure is fixed
// at elaboration; only its control state changes during exploration.
//
type component struct {
	name   string // hierarchical instance path
	module *ModuleDecl
	env    map[string]binding
	inputs map[int]bool // signals bound through input ports
}

// resolve maps a signal reference of the component's module to its flat
// signal index.
//
func (c *component) resolve(ref SignalRef) (int, bool) {
	b, ok := c.env[ref.Name]
	if !ok {
		return 0, false
	}
	if ref.Member == "" {
		if b.bundle != nil {
			return 0, false
		}
		return b.idx, true
	}
	if b.bundle == nil {
		return 0, false
	}
	i, ok := b.bundle[ref.Member]
	return i, ok
}

// A netlist is the fully elaborated circuit: a flat signal table and the
// components operating over it.
//
type netlist struct {
	signals []signalInfo
	comps   []*component
	index   map[string]int // hierarchical signal name -> index
}

func (nl *netlist) addSignal(name string, reset bool) int {
	i := len(nl.signals)
	nl.signals = append(nl.signals, signalInfo{name: name, reset: reset, driver: -1})
	nl.index[name] = i
	return i
}

// resetVals returns the initial signal valuation.
//
func (nl *netlist) resetVals() []bool {
	v := make([]bool, len(nl.signals))
	for i, s := range nl.signals {
		v[i] = s.reset
	}
	return v
}
