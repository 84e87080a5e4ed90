package ir

// NewSyntheticFunction creates a function with no backing module entry,
// for collaborators (e.g. the globals-constructor builder) that must hand
// the core an ordinary-looking Function built outside the IRDB.
func NewSyntheticFunction(name string) *Function {
	return &Function{Name: name}
}

// AppendCall appends a direct-call instruction targeting callee to fn and
// returns it. Used to stitch synthetic bodies together (e.g. the globals
// constructor/destructor model, which just calls every entry point).
func (fn *Function) AppendCall(callee *Function) *Instruction {
	idx := len(fn.Insts)
	inst := &Instruction{
		Fn:         fn,
		Idx:        idx,
		Op:         OpCall,
		CalleeName: callee.Name,
		Text:       "call " + callee.Name,
	}
	if idx > 0 {
		fn.Insts[idx-1].Succs = []int{idx}
	}
	fn.Insts = append(fn.Insts, inst)
	fn.IsDeclaration = false
	return inst
}
