package fold90

import (
	"github.com/soypat/fold90/diag"
	"github.com/soypat/fold90/hostlib"
	"github.com/soypat/fold90/numeric"
)

// PDTInstance is a realization of a parameterized derived type with kind
// and length parameters bound to specific values, consulted by
// TypeParamInquiry folding (§5, SPEC_FULL §D.1).
type PDTInstance struct {
	Params map[string]Expr
}

// FoldingContext is single-threaded and re-entrant (§5): it owns a message
// sink, a rounding mode, a subnormal-flush flag, an implied-DO index map
// mutated in strictly balanced Start/End pairs, and optional host library
// and PDT instance references.
//
// Constructed with functional options, the way the teacher's Lexer90 is
// configured by method rather than by an exported zero-value struct.
type FoldingContext struct {
	Messages         diag.Messages
	Rounding         numeric.Rounding
	FlushSubnormals  bool
	HostLibrary      *hostlib.Library
	PDT              *PDTInstance
	impliedDoIndices map[string]numeric.Integer
}

// Option configures a FoldingContext at construction time.
type Option func(*FoldingContext)

// WithRounding overrides the default ToNearest rounding mode.
func WithRounding(r numeric.Rounding) Option {
	return func(c *FoldingContext) { c.Rounding = r }
}

// WithFlushSubnormals enables flushing Real subnormal results to zero.
func WithFlushSubnormals(flush bool) Option {
	return func(c *FoldingContext) { c.FlushSubnormals = flush }
}

// WithHostLibrary injects the host-intrinsic library used to fold
// transcendental Real/Complex intrinsics.
func WithHostLibrary(lib *hostlib.Library) Option {
	return func(c *FoldingContext) { c.HostLibrary = lib }
}

// WithPDTInstance supplies the parameterized derived-type instance used by
// TypeParamInquiry folding.
func WithPDTInstance(pdt *PDTInstance) Option {
	return func(c *FoldingContext) { c.PDT = pdt }
}

// NewFoldingContext constructs a context with ToNearest rounding, flush
// disabled, and no host library or PDT instance, applying opts over those
// defaults.
func NewFoldingContext(opts ...Option) *FoldingContext {
	ctx := &FoldingContext{
		Rounding:         numeric.ToNearest,
		impliedDoIndices: map[string]numeric.Integer{},
	}
	for _, opt := range opts {
		opt(ctx)
	}
	return ctx
}

// StartImpliedDo binds name to value for the duration of an implied-DO
// body fold. Callers must pair every StartImpliedDo with an EndImpliedDo;
// the folder guarantees this internally.
func (ctx *FoldingContext) StartImpliedDo(name string, value numeric.Integer) {
	ctx.impliedDoIndices[name] = value
}

// EndImpliedDo unbinds name after an implied-DO body fold completes.
func (ctx *FoldingContext) EndImpliedDo(name string) {
	delete(ctx.impliedDoIndices, name)
}

// impliedDoValue looks up a bound implied-DO index by name.
func (ctx *FoldingContext) impliedDoValue(name string) (numeric.Integer, bool) {
	v, ok := ctx.impliedDoIndices[name]
	return v, ok
}

func severityErr() diag.Severity     { return diag.Err }
func severityWarning() diag.Severity { return diag.Warning }
func severityInfo() diag.Severity    { return diag.Info }
