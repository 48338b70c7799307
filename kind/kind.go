// Package kind defines the Fortran intrinsic type-category and kind
// descriptors shared by every other layer of the folder, plus a small
// generic Option type standing in for the source's std::optional.
package kind

import "fmt"

// Category is one of the five Fortran intrinsic type categories.
type Category int

const (
	Integer Category = iota
	Real
	Complex
	Character
	Logical
)

func (c Category) String() string {
	switch c {
	case Integer:
		return "INTEGER"
	case Real:
		return "REAL"
	case Complex:
		return "COMPLEX"
	case Character:
		return "CHARACTER"
	case Logical:
		return "LOGICAL"
	default:
		return "INVALID"
	}
}

// SubscriptIntegerKind is the Integer kind used for shapes, extents and
// implied-DO indices: wide enough to address any extent the core handles.
const SubscriptIntegerKind = 8

// LogicalResultKind is the kind produced by relational and LOGICAL
// comparison operators.
const LogicalResultKind = 1

// DynamicType pairs a category with a kind (storage width selector).
// Derived-type values are identified by a non-empty Name holding the
// type's name; their Category is not consulted. The folder treats them
// opaquely (see StructureConstructor).
type DynamicType struct {
	Category Category
	Kind     int
	// Name identifies a derived-type spec. Empty for intrinsic types.
	Name string
}

func (t DynamicType) String() string {
	if t.Name != "" {
		return "TYPE(" + t.Name + ")"
	}
	return fmt.Sprintf("%s(%d)", t.Category, t.Kind)
}

// IsDerived reports whether t denotes a derived type rather than one of the
// five intrinsic categories.
func (t DynamicType) IsDerived() bool {
	return t.Name != ""
}

// validKinds lists the byte widths the core supports per category, mirroring
// §3 of the specification.
var validKinds = map[Category][]int{
	Integer:   {1, 2, 4, 8, 16},
	Real:      {2, 4, 8, 10, 16},
	Complex:   {2, 4, 8, 10, 16},
	Character: {1, 2, 4},
	Logical:   {1, 2, 4, 8},
}

// ValidKind reports whether k is a supported kind for category c.
func ValidKind(c Category, k int) bool {
	for _, v := range validKinds[c] {
		if v == k {
			return true
		}
	}
	return false
}

// SubscriptInteger is the DynamicType used for extents, shapes and
// implied-DO indices.
var SubscriptInteger = DynamicType{Category: Integer, Kind: SubscriptIntegerKind}

// LogicalResult is the DynamicType produced by relational comparisons.
var LogicalResult = DynamicType{Category: Logical, Kind: LogicalResultKind}

// Option stands in for std::optional<T>: present-or-absent without a
// usable zero value collision (an absent Option[int] is distinguishable
// from a present Option[int] holding 0).
type Option[T any] struct {
	val T
	ok  bool
}

// Some wraps a present value.
func Some[T any](v T) Option[T] { return Option[T]{val: v, ok: true} }

// None returns an absent Option.
func None[T any]() Option[T] { return Option[T]{} }

// Get returns the wrapped value and whether it was present.
func (o Option[T]) Get() (T, bool) { return o.val, o.ok }

// IsSome reports whether o holds a value.
func (o Option[T]) IsSome() bool { return o.ok }

// MustGet panics if o is absent.
func (o Option[T]) MustGet() T {
	if !o.ok {
		panic("kind: Option.MustGet on an absent value")
	}
	return o.val
}
