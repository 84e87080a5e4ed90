package ir

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Module is a single translation unit's worth of functions, the unit the
// "WPA module" (whole-program-analysis module) handle refers to.
type Module struct {
	Path      string
	Functions []*Function
}

// IRDB is the interface the builder consumes to read IR. It is the
// external collaborator spec.md §6 describes; this package supplies the
// only concrete implementation this module ships, a JSONL-file-backed,
// in-memory database.
type IRDB interface {
	AllFunctions() []*Function
	// FunctionDefinition returns the function named name if it has a body,
	// nil otherwise (including when the name is unknown or declaration-only).
	FunctionDefinition(name string) *Function
	// Function returns the function named name, definition or declaration,
	// nil if unknown.
	Function(name string) *Function
	WPAModule() *Module
	NumberOfModules() int
}

// DB is the in-memory IRDB implementation. It owns all Function and
// Instruction values it was built from.
type DB struct {
	modules []*Module
	byName  map[string]*Function
}

var _ IRDB = (*DB)(nil)

// NewDB builds a DB from already-constructed modules. Functions across
// modules must have distinct names; a later module silently shadows an
// earlier declaration of the same name only if the earlier one was itself
// a declaration (mirrors how a linker would resolve weak declarations).
func NewDB(modules []*Module) *DB {
	db := &DB{modules: modules, byName: make(map[string]*Function)}
	for _, m := range modules {
		for _, f := range m.Functions {
			if existing, ok := db.byName[f.Name]; !ok || (existing.IsDeclaration && !f.IsDeclaration) {
				db.byName[f.Name] = f
			}
		}
	}
	return db
}

func (db *DB) AllFunctions() []*Function {
	out := make([]*Function, 0, len(db.byName))
	for _, m := range db.modules {
		for _, f := range m.Functions {
			if db.byName[f.Name] == f {
				out = append(out, f)
			}
		}
	}
	return out
}

func (db *DB) FunctionDefinition(name string) *Function {
	f, ok := db.byName[name]
	if !ok || f.IsDeclaration {
		return nil
	}
	return f
}

func (db *DB) Function(name string) *Function {
	return db.byName[name]
}

func (db *DB) WPAModule() *Module {
	if len(db.modules) == 0 {
		return nil
	}
	return db.modules[0]
}

func (db *DB) NumberOfModules() int { return len(db.modules) }

// --- JSONL on-disk format -------------------------------------------------
//
// One line per function:
//
//	{"name":"main","instructions":[{"op":"call","callee":"f"}, ...]}
//
// A function with an absent or empty "instructions" array is a declaration.

type instRecord struct {
	Op           string `json:"op"`
	CalleeName   string `json:"callee,omitempty"`
	CalleeOp     string `json:"callee_operand,omitempty"`
	InlineAsm    bool   `json:"inline_asm,omitempty"`
	Receiver     string `json:"receiver,omitempty"`
	ReceiverType string `json:"receiver_type,omitempty"`
	VTableIndex  int    `json:"vtable_index,omitempty"`
	HasVTableIdx bool   `json:"has_vtable_index,omitempty"`
	AllocType    string `json:"alloc_type,omitempty"`
	AllocVar     string `json:"alloc_var,omitempty"`
	StoreVar     string `json:"store_var,omitempty"`
	StoreValue   string `json:"store_value,omitempty"`
	Succs        []int  `json:"succs,omitempty"`
	Text         string `json:"text,omitempty"`
}

type funcRecord struct {
	Name          string       `json:"name"`
	IsDeclaration bool         `json:"declaration,omitempty"`
	Instructions  []instRecord `json:"instructions,omitempty"`
}

// LoadModule reads one JSONL module file into a *Module. Each line is a
// function record; blank lines are skipped.
func LoadModule(path string) (*Module, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ir: open %s: %w", path, err)
	}
	defer f.Close()
	return decodeModule(path, f)
}

func decodeModule(path string, r io.Reader) (*Module, error) {
	mod := &Module{Path: path}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Bytes()
		if len(bufTrimSpace(line)) == 0 {
			continue
		}
		var rec funcRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("ir: %s:%d: %w", path, lineNo, err)
		}
		mod.Functions = append(mod.Functions, buildFunction(rec))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("ir: %s: %w", path, err)
	}
	return mod, nil
}

func bufTrimSpace(b []byte) []byte {
	start := 0
	for start < len(b) && (b[start] == ' ' || b[start] == '\t' || b[start] == '\r') {
		start++
	}
	end := len(b)
	for end > start && (b[end-1] == ' ' || b[end-1] == '\t' || b[end-1] == '\r') {
		end--
	}
	return b[start:end]
}

func buildFunction(rec funcRecord) *Function {
	fn := &Function{Name: rec.Name, IsDeclaration: rec.IsDeclaration || len(rec.Instructions) == 0}
	fn.Insts = make([]*Instruction, len(rec.Instructions))
	for idx, rv := range rec.Instructions {
		inst := &Instruction{
			Fn:            fn,
			Idx:           idx,
			CalleeName:    rv.CalleeName,
			CalleeOperand: rv.CalleeOp,
			InlineAsm:     rv.InlineAsm,
			Receiver:      rv.Receiver,
			ReceiverType:  rv.ReceiverType,
			VTableIndex:   -1,
			AllocType:     rv.AllocType,
			AllocVar:      rv.AllocVar,
			StoreVar:      rv.StoreVar,
			StoreValue:    rv.StoreValue,
			Succs:         rv.Succs,
			Text:          rv.Text,
		}
		if rv.HasVTableIdx {
			inst.VTableIndex = rv.VTableIndex
		}
		switch rv.Op {
		case "call":
			inst.Op = OpCall
		case "return":
			inst.Op = OpReturn
		case "alloc":
			inst.Op = OpAlloc
		case "store":
			inst.Op = OpStore
		default:
			inst.Op = OpOther
		}
		if len(inst.Succs) == 0 && inst.Op != OpReturn && idx+1 < len(rec.Instructions) {
			inst.Succs = []int{idx + 1}
		}
		fn.Insts[idx] = inst
	}
	return fn
}

// LoadDB reads every path as a JSONL module and returns the resulting DB.
func LoadDB(paths []string) (*DB, error) {
	modules := make([]*Module, 0, len(paths))
	for _, p := range paths {
		m, err := LoadModule(p)
		if err != nil {
			return nil, err
		}
		modules = append(modules, m)
	}
	return NewDB(modules), nil
}
