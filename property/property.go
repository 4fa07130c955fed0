// Package property implements the engine's small typed-value system used to
// configure nodes and expose their state. Every property has a kind
// (size/int/real/string) and a fully-qualified name carrying one of a fixed
// set of recognized prefixes.
package property

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind discriminates the value a Property holds.
type Kind int

const (
	KindSize Kind = iota
	KindInt
	KindReal
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindSize:
		return "size"
	case KindInt:
		return "int"
	case KindReal:
		return "real"
	case KindString:
		return "string"
	default:
		return "unknown"
	}
}

// Prefix identifies the namespace a fully-qualified property name belongs
// to (spec §4.9).
type Prefix string

const (
	PrefixNode   Prefix = "node"
	PrefixConfig Prefix = "config"
	PrefixState  Prefix = "state"
	PrefixInput  Prefix = "input"
	PrefixOutput Prefix = "output"
	PrefixPlugin Prefix = "plugin"
)

var knownPrefixes = map[Prefix]struct{}{
	PrefixNode:   {},
	PrefixConfig: {},
	PrefixState:  {},
	PrefixInput:  {},
	PrefixOutput: {},
	PrefixPlugin: {},
}

// Qualify resolves a property name to its fully-qualified form. If the name
// already carries a recognized prefix it is returned unchanged; otherwise it
// is coerced to config:<name>, mirroring the original engine's
// fully_qualify_property_name.
func Qualify(name string) string {
	if prefix, _, ok := strings.Cut(name, ":"); ok {
		if _, known := knownPrefixes[Prefix(prefix)]; known {
			return name
		}
	}
	return string(PrefixConfig) + ":" + name
}

// Property stores one discriminated value. Setters accept string or numeric
// forms and coerce them to the property's declared kind; cross-kind
// assignment is rejected at this boundary rather than deep in the hot path
// (spec §9 design note).
type Property struct {
	name string
	kind Kind

	sizeVal   uint64
	intVal    int64
	realVal   float64
	stringVal string
}

// New creates a zero-valued property of the given kind under name, which is
// qualified via Qualify.
func New(name string, kind Kind) *Property {
	return &Property{name: Qualify(name), kind: kind}
}

// Name returns the property's fully-qualified name.
func (p *Property) Name() string { return p.name }

// Kind returns the property's declared kind.
func (p *Property) Kind() Kind { return p.kind }

// SetNumber assigns a numeric value, coerced to the property's kind.
// Calling it on a KindString property is a programmer error and is fatal.
func (p *Property) SetNumber(v float64) {
	switch p.kind {
	case KindSize:
		if v < 0 {
			panic(fmt.Sprintf("property %q: negative value %v not valid for size", p.name, v))
		}
		p.sizeVal = uint64(v)
	case KindInt:
		p.intVal = int64(v)
	case KindReal:
		p.realVal = v
	default:
		panic(fmt.Sprintf("property %q: cannot assign a number to kind %s", p.name, p.kind))
	}
}

// SetString parses value according to the property's kind: strtoul-style
// for size, atoi for int, strtof for real, identity for string.
func (p *Property) SetString(value string) {
	switch p.kind {
	case KindSize:
		v, err := strconv.ParseUint(strings.TrimSpace(value), 10, 64)
		if err != nil {
			panic(fmt.Sprintf("property %q: invalid size value %q: %v", p.name, value, err))
		}
		p.sizeVal = v
	case KindInt:
		v, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			panic(fmt.Sprintf("property %q: invalid int value %q: %v", p.name, value, err))
		}
		p.intVal = v
	case KindReal:
		v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			panic(fmt.Sprintf("property %q: invalid real value %q: %v", p.name, value, err))
		}
		p.realVal = v
	case KindString:
		p.stringVal = value
	}
}

// Size returns the stored value of a KindSize property (zero for other
// kinds; no conversion is made).
func (p *Property) Size() uint64 { return p.sizeVal }

// Int returns the stored value of a KindInt property (zero for other kinds).
func (p *Property) Int() int64 { return p.intVal }

// Real returns the stored value of a KindReal property (zero for other
// kinds).
func (p *Property) Real() float64 { return p.realVal }

// String stringifies the property's current value regardless of kind,
// matching the engine's peek() contract.
func (p *Property) String() string {
	switch p.kind {
	case KindSize:
		return strconv.FormatUint(p.sizeVal, 10)
	case KindInt:
		return strconv.FormatInt(p.intVal, 10)
	case KindReal:
		return strconv.FormatFloat(p.realVal, 'g', -1, 64)
	case KindString:
		return p.stringVal
	default:
		return ""
	}
}
