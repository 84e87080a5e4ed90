package icfg

import (
	"fmt"

	"github.com/zboralski/lattice"
	"icfg/internal/ir"
)

// BuildFuncCFG builds the intra-procedural control-flow graph for f as a
// lattice.FuncCFG: one lattice.BasicBlock per maximal run of
// straight-line instructions, wired by lattice.Successor, with call sites
// recorded as lattice.CallSite entries. The ICFG facade's own
// intra-procedural queries read Instruction.Succs directly and do not
// call this builder. It is built the
// same way the teacher's internal/callgraph.BuildFuncCFG assembles a
// lattice.FuncCFG from disassembled instructions, generalized from ARM64
// instructions to abstract IR instructions.
func BuildFuncCFG(f *ir.Function) *lattice.FuncCFG {
	cfg := &lattice.FuncCFG{Name: f.Name}
	if len(f.Insts) == 0 {
		return cfg
	}

	leaders := leaderSet(f)
	blockOf := make(map[int]int, len(f.Insts)) // instruction index -> block id

	var blockID int
	for idx := range f.Insts {
		if leaders[idx] {
			blockOf[idx] = blockID
			blockID++
		} else {
			blockOf[idx] = blockID - 1
		}
	}

	cfg.Blocks = make([]*lattice.BasicBlock, blockID)
	for idx, inst := range f.Insts {
		bi := blockOf[idx]
		b := cfg.Blocks[bi]
		if b == nil {
			b = &lattice.BasicBlock{ID: bi, Start: idx}
			cfg.Blocks[bi] = b
		}
		b.End = idx + 1
		if inst.IsCallLike() {
			b.Calls = append(b.Calls, lattice.CallSite{Offset: idx, Callee: calleeLabel(inst)})
		}
		if len(inst.Succs) == 0 {
			b.Term = true
		}
		for _, s := range inst.Succs {
			if blockOf[s] != bi {
				b.Succs = append(b.Succs, lattice.Successor{BlockID: blockOf[s]})
			}
		}
	}
	return cfg
}

// calleeLabel returns the display name for a call instruction's target:
// its statically known name if any, else a marker naming the indirect
// operand.
func calleeLabel(inst *ir.Instruction) string {
	if inst.CalleeName != "" {
		return inst.CalleeName
	}
	if inst.CalleeOperand != "" {
		return fmt.Sprintf("*%s", inst.CalleeOperand)
	}
	return "<indirect>"
}

// leaderSet marks every instruction index that begins a new basic block:
// the entry instruction, any branch target (a successor other than the
// immediately following instruction), every successor of a multi-way
// branch (including its fall-through, which would otherwise wrongly merge
// into the branch instruction's own block), and any join point (an
// instruction reached by more than one predecessor).
func leaderSet(f *ir.Function) map[int]bool {
	leaders := map[int]bool{0: true}
	predCount := make(map[int]int)
	for idx, inst := range f.Insts {
		if len(inst.Succs) > 1 {
			for _, s := range inst.Succs {
				leaders[s] = true
			}
		}
		for _, s := range inst.Succs {
			predCount[s]++
			if s != idx+1 {
				leaders[s] = true
			}
		}
	}
	for idx, n := range predCount {
		if n > 1 {
			leaders[idx] = true
		}
	}
	return leaders
}
