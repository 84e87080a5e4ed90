package callgraph

import (
	"errors"
	"fmt"

	"icfg/internal/ir"
)

// CallGraphAnalysisType selects the resolver strategy (spec.md §6).
type CallGraphAnalysisType int

const (
	NoResolve CallGraphAnalysisType = iota
	CHA
	RTA
	DTA
	VTA
	OTF
	invalidAnalysisType
)

func (t CallGraphAnalysisType) String() string {
	switch t {
	case NoResolve:
		return "NORESOLVE"
	case CHA:
		return "CHA"
	case RTA:
		return "RTA"
	case DTA:
		return "DTA"
	case VTA:
		return "VTA"
	case OTF:
		return "OTF"
	default:
		return "INVALID"
	}
}

// ErrInvalidAnalysisType is returned by ParseCallGraphAnalysisType for any
// name outside {NORESOLVE, CHA, RTA, DTA, VTA, OTF}.
var ErrInvalidAnalysisType = errors.New("callgraph: invalid call-graph analysis type")

// ParseCallGraphAnalysisType parses one of the enumerated algorithm names.
func ParseCallGraphAnalysisType(s string) (CallGraphAnalysisType, error) {
	switch s {
	case "NORESOLVE":
		return NoResolve, nil
	case "CHA":
		return CHA, nil
	case "RTA":
		return RTA, nil
	case "DTA":
		return DTA, nil
	case "VTA":
		return VTA, nil
	case "OTF":
		return OTF, nil
	default:
		return invalidAnalysisType, fmt.Errorf("%w: %q", ErrInvalidAnalysisType, s)
	}
}

// PointsToAnalysisType names a points-to analysis for OTF. It is parsed
// and carried in Config, but no resolver reads it: OTF always uses the
// in-memory pointsto.Info, whichever value is set.
type PointsToAnalysisType int

const (
	CFLSteens PointsToAnalysisType = iota
	CFLAnders
	invalidPointsToType
)

func (t PointsToAnalysisType) String() string {
	switch t {
	case CFLSteens:
		return "CFLSteens"
	case CFLAnders:
		return "CFLAnders"
	default:
		return "INVALID"
	}
}

// ErrInvalidPointsToType is returned for any points-to analysis name
// outside {CFLSteens, CFLAnders}.
var ErrInvalidPointsToType = errors.New("callgraph: invalid points-to analysis type")

func ParsePointsToAnalysisType(s string) (PointsToAnalysisType, error) {
	switch s {
	case "CFLSteens":
		return CFLSteens, nil
	case "CFLAnders":
		return CFLAnders, nil
	default:
		return invalidPointsToType, fmt.Errorf("%w: %q", ErrInvalidPointsToType, s)
	}
}

// Soundness is the declared confidence level of the constructed graph:
// Sound >= Soundy >= Unsound.
type Soundness int

const (
	Soundy Soundness = iota
	Sound
	Unsound
	invalidSoundness
)

func (s Soundness) String() string {
	switch s {
	case Soundy:
		return "Soundy"
	case Sound:
		return "Sound"
	case Unsound:
		return "Unsound"
	default:
		return "Invalid"
	}
}

// ErrInvalidSoundness is returned for any soundness name outside
// {Soundy, Sound, Unsound}.
var ErrInvalidSoundness = errors.New("callgraph: invalid soundness tag")

func ParseSoundness(s string) (Soundness, error) {
	switch s {
	case "Soundy":
		return Soundy, nil
	case "Sound":
		return Sound, nil
	case "Unsound":
		return Unsound, nil
	default:
		return invalidSoundness, fmt.Errorf("%w: %q", ErrInvalidSoundness, s)
	}
}

// ErrIncludeGlobalsMultiModule is the configuration error raised when
// IncludeGlobals is requested against more than one IR module.
var ErrIncludeGlobalsMultiModule = errors.New("callgraph: IncludeGlobals requires exactly one module")

// AllEntryPoints is the sentinel entry-point name meaning "every named,
// non-declaration function in the IRDB is an entry".
const AllEntryPoints = "__ALL__"

// GlobalCtorBuilder is the globals-constructor builder collaborator
// (spec.md §6): given the resolved user entry points, it returns a
// synthetic function that runs global initializers and then calls each
// entry in turn. The core only ever consumes the Function handle it
// returns; how that function's body is constructed is external.
type GlobalCtorBuilder func(entries []*ir.Function) *ir.Function

// Config configures one call-graph construction.
type Config struct {
	EntryPoints    []string
	Algorithm      CallGraphAnalysisType
	PointsTo       PointsToAnalysisType
	Soundness      Soundness
	IncludeGlobals bool
	// GlobalCtorBuilder must be non-nil when IncludeGlobals is set.
	GlobalCtorBuilder GlobalCtorBuilder
}
