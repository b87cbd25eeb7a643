// Package dialects provides the dialect descriptors the dump parser is configured with.
package dialects

import (
	"errors"
	"fmt"
	"strings"

	m "wavedig.dev/pkg/wavedig/internal/model"
)

// Names of the built-in dialects.
const (
	StandardName = "standard"
	ExtendedName = "extended"
)

// ErrUnknownDialect is returned by Lookup for an unrecognized dialect name.
var ErrUnknownDialect = errors.New("unknown dialect")

// Standard is IEEE 1364 four-state VCD plus the nine-state letters emitted by
// VHDL simulators. Sizes are decimal bit counts.
var Standard = m.Dialect{
	Name:           StandardName,
	Widths:         m.WidthDecimal,
	ScalarAlphabet: "01xXzZuUwWlLhH-",
	VectorSigils:   "bBrRsS",
	StrengthFields: 0,
}

// Extended is the $dumpports dialect. Sizes may be bracketed ranges and every
// port change is written as "p<state> <strength0> <strength1> <code>".
var Extended = m.Dialect{
	Name:   ExtendedName,
	Widths: m.WidthDecimal | m.WidthBitRange,
	// input DUNZdu, output LHXTlh, unknown direction 01?FAaBbCcf
	ScalarAlphabet: "DUNZdu" + "LHXTlh" + "01?FAaBbCcf",
	VectorSigils:   "p",
	StrengthFields: 2,
}

// All returns the built-in dialects.
func All() []m.Dialect {
	return []m.Dialect{Standard, Extended}
}

// Names returns the names of the built-in dialects.
func Names() []string {
	all := All()
	names := make([]string, 0, len(all))

	for _, d := range all {
		names = append(names, d.Name)
	}

	return names
}

// Lookup returns the dialect registered under name (case-insensitive).
// "evcd" and "dumpports" are accepted as aliases of the extended dialect.
func Lookup(name string) (m.Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case StandardName, "vcd", "":
		return Standard, nil
	case ExtendedName, "evcd", "dumpports":
		return Extended, nil
	}

	return m.Dialect{}, fmt.Errorf("%w: %q (want one of %s)", ErrUnknownDialect, name, strings.Join(Names(), ", "))
}
