package verilock

import "fmt"

// elaborate walks the instantiation hierarchy top-down from the entry
// module and flattens it into a netlist: every signal of every scope gets
// a dense index in a single flat table, and every instance with behavior
// becomes a component bound to those indices. Hierarchical names are
// resolved here, once; exploration never performs name lookups.
//
func elaborate(ast *AST, entry string) (*netlist, *ElabError) {
	e := &elaborator{
		nl:     &netlist{index: make(map[string]int)},
		mods:   make(map[string]*ModuleDecl),
		ifaces: make(map[string]*InterfaceDecl),
	}
	for _, m := range ast.Modules {
		if _, ok := e.mods[m.Name]; ok {
			return nil, &ElabError{Pos: m.Pos, Msg: "module " + m.Name + " declared twice"}
		}
		e.mods[m.Name] = m
	}
	for _, i := range ast.Interfaces {
		if _, ok := e.ifaces[i.Name]; ok {
			return nil, &ElabError{Pos: i.Pos, Msg: "interface " + i.Name + " declared twice"}
		}
		if _, ok := e.mods[i.Name]; ok {
			return nil, &ElabError{Pos: i.Pos, Msg: i.Name + " declared as both module and interface"}
		}
		e.ifaces[i.Name] = i
	}
	root, ok := e.mods[entry]
	if !ok {
		return nil, &ElabError{Msg: "entry module " + entry + " is not declared"}
	}
	if len(root.Ports) > 0 {
		return nil, &ElabError{Pos: root.Pos, Msg: "entry module " + entry + " must have an empty port list"}
	}
	if err := e.instantiate(root, entry, nil, root.Pos); err != nil {
		return nil, err
	}
	return e.nl, nil
}

type elaborator struct {
	nl     *netlist
	mods   map[string]*ModuleDecl
	ifaces map[string]*InterfaceDecl
	stack  []string // module names on the instantiation path
}

func (e *elaborator) instantiate(decl *ModuleDecl, path string, args []binding, at Pos) *ElabError {
	for _, name := range e.stack {
		if name == decl.Name {
			return &ElabError{Scope: path, Pos: at,
				Msg: "recursive instantiation of module " + decl.Name}
		}
	}

	// bind ports positionally
	if len(args) != len(decl.Ports) {
		return &ElabError{Scope: path, Pos: at,
			Msg: errArity(decl.Name, len(decl.Ports), len(args))}
	}
	env := make(map[string]binding, len(decl.Ports)+len(decl.Signals))
	inputs := make(map[int]bool)
	for i, port := range decl.Ports {
		b := args[i]
		if port.Iface != "" {
			if b.bundle == nil {
				return &ElabError{Scope: path, Pos: at,
					Msg: "port " + port.Name + " of module " + decl.Name + " expects an instance of interface " + port.Iface}
			}
			if b.iface != port.Iface {
				return &ElabError{Scope: path, Pos: at,
					Msg: "port " + port.Name + " of module " + decl.Name + " expects interface " + port.Iface + ", got " + b.iface}
			}
		} else if b.bundle != nil {
			return &ElabError{Scope: path, Pos: at,
				Msg: "port " + port.Name + " of module " + decl.Name + " expects a signal, got an interface bundle"}
		}
		env[port.Name] = b
		if port.Iface == "" && port.Dir == DirInput {
			inputs[b.idx] = true
		}
	}

	// local signals
	for _, sig := range decl.Signals {
		if _, ok := env[sig.Name]; ok {
			return &ElabError{Scope: path, Pos: sig.Pos,
				Msg: "name " + sig.Name + " already used in module " + decl.Name}
		}
		env[sig.Name] = binding{idx: e.nl.addSignal(path+"."+sig.Name, sig.Reset)}
	}

	// sub-instances
	instNames := make(map[string]bool)
	for _, inst := range decl.Insts {
		if instNames[inst.Name] {
			return &ElabError{Scope: path, Pos: inst.Pos,
				Msg: "instance name " + inst.Name + " used twice"}
		}
		instNames[inst.Name] = true
		if idecl, ok := e.ifaces[inst.Type]; ok {
			if len(inst.Args) != 0 {
				return &ElabError{Scope: path, Pos: inst.Pos,
					Msg: "interface " + inst.Type + " takes no connections"}
			}
			if _, ok := env[inst.Name]; ok {
				return &ElabError{Scope: path, Pos: inst.Pos,
					Msg: "name " + inst.Name + " already used in module " + decl.Name}
			}
			bundle := make(map[string]int, len(idecl.Signals))
			for _, sig := range idecl.Signals {
				bundle[sig.Name] = e.nl.addSignal(path+"."+inst.Name+"."+sig.Name, sig.Reset)
			}
			env[inst.Name] = binding{idx: -1, iface: inst.Type, bundle: bundle}
			continue
		}
		sub, ok := e.mods[inst.Type]
		if !ok {
			return &ElabError{Scope: path, Pos: inst.Pos,
				Msg: "module " + inst.Type + " is not declared"}
		}
		subArgs := make([]binding, len(inst.Args))
		for i, ref := range inst.Args {
			b, err := resolveArg(env, ref, path)
			if err != nil {
				return err
			}
			subArgs[i] = b
		}
		e.stack = append(e.stack, decl.Name)
		err := e.instantiate(sub, path+"."+inst.Name, subArgs, inst.Pos)
		e.stack = e.stack[:len(e.stack)-1]
		if err != nil {
			return err
		}
	}

	// behavior
	if len(decl.Procs) > 0 {
		c := &component{name: path, module: decl, env: env, inputs: inputs}
		e.nl.comps = append(e.nl.comps, c)
		if err := e.checkDrivers(c, len(e.nl.comps)-1); err != nil {
			return err
		}
	}
	return nil
}

func errArity(module string, want, got int) string {
	return fmt.Sprintf("module %s expects %d connections, got %d", module, want, got)
}

// resolveArg resolves a positional connection at an instantiation site to
// the binding passed down to the instantiated module.
//
func resolveArg(env map[string]binding, ref SignalRef, path string) (binding, *ElabError) {
	b, ok := env[ref.Name]
	if !ok {
		return binding{}, &ElabError{Scope: path, Pos: ref.Pos,
			Msg: "signal " + ref.Name + " is not declared"}
	}
	if ref.Member == "" {
		return b, nil
	}
	if b.bundle == nil {
		return binding{}, &ElabError{Scope: path, Pos: ref.Pos,
			Msg: ref.Name + " is not an interface instance"}
	}
	idx, ok := b.bundle[ref.Member]
	if !ok {
		return binding{}, &ElabError{Scope: path, Pos: ref.Pos,
			Msg: "interface " + b.iface + " has no signal " + ref.Member}
	}
	return binding{idx: idx}, nil
}

// checkDrivers enforces the single-driver discipline: after flattening,
// each signal may be assigned by at most one component, and a component
// may not assign its own input ports. References that do not resolve are
// left alone here; the model builder reports them.
//
func (e *elaborator) checkDrivers(c *component, ci int) *ElabError {
	var err *ElabError
	for _, proc := range c.module.Procs {
		walkAssigns(proc.Body, func(a *Assign) {
			if err != nil {
				return
			}
			idx, ok := c.resolve(a.LHS)
			if !ok {
				return
			}
			if c.inputs[idx] {
				err = &ElabError{Scope: c.name, Pos: a.Pos,
					Msg: "component drives its input port " + a.LHS.String()}
				return
			}
			if d := e.nl.signals[idx].driver; d >= 0 && d != ci {
				err = &ElabError{Scope: c.name, Pos: a.Pos,
					Msg: "signal " + e.nl.signals[idx].name + " driven by both " + e.nl.comps[d].name + " and " + c.name}
				return
			}
			e.nl.signals[idx].driver = ci
		})
	}
	return err
}

func walkAssigns(s Stmt, f func(*Assign)) {
	switch s := s.(type) {
	case *Block:
		for _, sub := range s.Stmts {
			walkAssigns(sub, f)
		}
	case *Assign:
		f(s)
	case *If:
		for _, arm := range s.Arms {
			walkAssigns(arm.Body, f)
		}
		if s.Else != nil {
			walkAssigns(s.Else, f)
		}
	case *While:
		walkAssigns(s.Body, f)
	}
}
