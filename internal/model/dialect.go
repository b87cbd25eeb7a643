package model

import "strings"

// WidthSyntax is a bitmask of size-field notations accepted in $var declarations.
type WidthSyntax uint8

const (
	// WidthDecimal accepts a plain decimal bit count ("8").
	WidthDecimal WidthSyntax = 1 << iota
	// WidthBitRange accepts a bracketed range ("[7:0]").
	WidthBitRange
)

// Has reports whether s includes every notation in other.
func (s WidthSyntax) Has(other WidthSyntax) bool {
	return s&other == other
}

// Dialect describes the capabilities of one VCD grammar variant.
// Parsers are parameterized by a Dialect rather than specialized per variant.
type Dialect struct {
	Name string
	// Widths lists the size-field notations the variable-line grammar accepts.
	Widths WidthSyntax
	// ScalarAlphabet holds every character that may start a scalar change line.
	ScalarAlphabet string
	// VectorSigils holds every character that marks a vector change line.
	VectorSigils string
	// StrengthFields is the number of strength tokens between a vector value
	// and its identifier code (dumpports writes two).
	StrengthFields int
}

// IsScalarValue reports whether c is a valid scalar value character.
func (d Dialect) IsScalarValue(c byte) bool {
	return strings.IndexByte(d.ScalarAlphabet, c) >= 0
}

// IsVectorSigil reports whether c marks a vector change line.
func (d Dialect) IsVectorSigil(c byte) bool {
	return strings.IndexByte(d.VectorSigils, c) >= 0
}
