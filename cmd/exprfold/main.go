// exprfold demonstrates the constant-folding core against a fixed set of
// worked scenarios, since the core takes an already-built Expr tree
// rather than Fortran source text (parsing and symbol resolution are out
// of scope; see the package doc comment).
//
// Usage:
//
//	exprfold [-scenario name]
//
// With no -scenario flag every scenario runs, sorted by name.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/pkg/errors"
	fold "github.com/soypat/fold90"
	"github.com/soypat/fold90/hostlib"
	"github.com/soypat/fold90/kind"
	"github.com/soypat/fold90/numeric"
	"github.com/soypat/fold90/token"
	"golang.org/x/exp/maps"
)

var flagScenario = flag.String("scenario", "", "run a single named scenario (default: run them all)")

type scenario struct {
	name string
	expr fold.Expr
}

func main() {
	flag.Parse()
	ctx := fold.NewFoldingContext(fold.WithHostLibrary(hostlib.NewDefault()))

	byName := buildScenarios()
	if *flagScenario != "" {
		s, ok := byName[*flagScenario]
		if !ok {
			names := maps.Keys(byName)
			sort.Strings(names)
			fmt.Fprintln(os.Stderr, errors.Errorf("no such scenario %q, have: %v", *flagScenario, names))
			os.Exit(1)
		}
		runScenario(ctx, s)
		return
	}
	names := maps.Keys(byName)
	sort.Strings(names)
	for _, name := range names {
		runScenario(ctx, byName[name])
	}
}

func runScenario(ctx *fold.FoldingContext, s scenario) {
	before := s.expr.AppendString(nil)
	folded := fold.Fold(ctx, s.expr)
	after := folded.AppendString(nil)
	fmt.Printf("%-22s %s => %s\n", s.name, before, after)
	for _, msg := range ctx.Messages.Items() {
		fmt.Printf("  [%s] %s\n", msg.Severity, msg.Text)
	}
	ctx.Messages.Reset()
}

var i4 = kind.DynamicType{Category: kind.Integer, Kind: 4}
var i8 = kind.DynamicType{Category: kind.Integer, Kind: 8}
var r4 = kind.DynamicType{Category: kind.Real, Kind: 4}
var r8 = kind.DynamicType{Category: kind.Real, Kind: 8}
var ch1 = kind.DynamicType{Category: kind.Character, Kind: 1}

func intLit(v int64) fold.Expr    { return fold.ScalarConstant(i4, numeric.NewInteger(4, v)) }
func realLit(v float64) fold.Expr { return fold.ScalarConstant(r8, numeric.NewReal(8, v)) }

func buildScenarios() map[string]scenario {
	list := []scenario{
		{
			name: "integer-overflow",
			expr: &fold.BinaryArith{
				Op: token.Add, Typ: i4,
				X: fold.ScalarConstant(i4, numeric.NewInteger(4, 2147483647)),
				Y: intLit(1),
			},
		},
		{
			name: "division-by-zero",
			expr: &fold.BinaryArith{
				Op: token.Div, Typ: r8,
				X: realLit(1),
				Y: realLit(0),
			},
		},
		{
			name: "power-zero-to-zero",
			expr: &fold.BinaryArith{
				Op: token.Pow, Typ: i4,
				X: intLit(0),
				Y: intLit(0),
			},
		},
		{
			name: "parens-preserved",
			expr: &fold.Parentheses{
				Typ: i4,
				X: &fold.BinaryArith{
					Op: token.Add, Typ: i4,
					X: intLit(1),
					Y: intLit(1),
				},
			},
		},
		{
			name: "min-nan-first-wins",
			expr: &fold.Extremum{
				Typ: r8, Ordering: fold.PreferLess,
				X: fold.ScalarConstant(r8, numeric.NewReal(8, nan())),
				Y: realLit(3),
			},
		},
		{
			name: "elementwise-array-add",
			expr: &fold.BinaryArith{
				Op: token.Add, Typ: i4,
				X: &fold.Constant{Typ: i4, Shape: []int64{3}, Elems: []any{
					numeric.NewInteger(4, 1), numeric.NewInteger(4, 2), numeric.NewInteger(4, 3),
				}},
				Y: &fold.Constant{Typ: i4, Shape: []int64{3}, Elems: []any{
					numeric.NewInteger(4, 10), numeric.NewInteger(4, 20), numeric.NewInteger(4, 30),
				}},
			},
		},
		{
			name: "shape-of-array-constructor",
			expr: &fold.FunctionRef{
				Typ: i4, Name: "size", Intrinsic: true,
				Args:     []fold.Expr{&fold.ArrayConstructor{Typ: i4, Values: []fold.ArrayConstructorValue{{Expr: intLit(1)}, {Expr: intLit(2)}, {Expr: intLit(3)}}}},
				ArgNames: []string{""},
			},
		},
		{
			name: "character-concat",
			expr: &fold.Concat{
				Typ: ch1,
				X:   fold.ScalarConstant(ch1, numeric.NewCharacterFromString("foo")),
				Y:   fold.ScalarConstant(ch1, numeric.NewCharacterFromString("bar")),
			},
		},
		{
			name: "intrinsic-sqrt-via-host",
			expr: &fold.FunctionRef{
				Typ: r8, Name: "sqrt", Intrinsic: true,
				Args:     []fold.Expr{realLit(2)},
				ArgNames: []string{""},
			},
		},
	}
	byName := make(map[string]scenario, len(list))
	for _, s := range list {
		byName[s.name] = s
	}
	return byName
}

func nan() float64 {
	var zero float64
	return zero / zero
}
