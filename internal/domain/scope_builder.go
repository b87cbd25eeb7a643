package domain

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	m "wavedig.dev/pkg/wavedig/internal/model"
)

const (
	scopeKeyword   = "$scope"
	varKeyword     = "$var"
	upscopeKeyword = "$upscope"
	endKeyword     = "$end"
)

// BuildScopeTree consumes the definitions region and returns the scope tree.
// Open scopes are tracked on an explicit stack of arena indices, so nesting
// depth never depends on recursion or on insertion order.
func BuildScopeTree(lines []Line, dialect m.Dialect) (*m.ScopeTree, error) {
	tree := m.NewScopeTree()
	stack := make([]int, 0, 8)
	variables := 0

	for _, l := range lines {
		fields := strings.Fields(l.Text)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case scopeKeyword:
			kind, name, err := parseScopeFields(fields)
			if err != nil {
				return nil, definitionsError(l, err)
			}

			parent := m.RootIndex
			if len(stack) > 0 {
				parent = stack[len(stack)-1]
			}

			stack = append(stack, tree.AddScope(parent, kind, name))
		case varKeyword:
			v, err := parseVarFields(fields, dialect)
			if err != nil {
				return nil, definitionsError(l, err)
			}

			if len(stack) == 0 {
				return nil, definitionsError(l, fmt.Errorf("%w: $var %s declared outside any scope", ErrUnbalancedScope, v.Name))
			}

			tree.AddVariable(stack[len(stack)-1], v)
			variables++
		case upscopeKeyword:
			if len(stack) == 0 {
				return nil, definitionsError(l, fmt.Errorf("%w: $upscope without open scope", ErrUnbalancedScope))
			}

			stack = stack[:len(stack)-1]
		}
	}

	if len(stack) > 0 {
		open := tree.Node(stack[len(stack)-1]).Name
		return nil, &ParseError{
			Section: m.SectionDefinitions,
			Err:     fmt.Errorf("%w: %d scope(s) still open at end of definitions (innermost %q)", ErrUnbalancedScope, len(stack), open),
		}
	}

	slog.Debug("Built scope tree", "scopes", tree.Len()-1, "variables", variables, "dialect", dialect.Name)

	return tree, nil
}

func definitionsError(l Line, err error) error {
	return &ParseError{Section: m.SectionDefinitions, Line: l.No, Text: l.Text, Err: err}
}

// parseScopeFields accepts "$scope <kind> <name> $end".
func parseScopeFields(fields []string) (string, string, error) {
	if len(fields) < 3 || fields[1] == endKeyword || fields[2] == endKeyword {
		return "", "", fmt.Errorf("%w: $scope needs a kind and a name", ErrMalformedFile)
	}

	return fields[1], fields[2], nil
}

// parseVarFields accepts "$var <kind> <size> <code> <name> [<select>] $end".
func parseVarFields(fields []string, dialect m.Dialect) (m.Variable, error) {
	if len(fields) < 6 || len(fields) > 7 || fields[len(fields)-1] != endKeyword {
		return m.Variable{}, fmt.Errorf("%w: expected $var <kind> <size> <code> <name> [<select>] $end", ErrUnknownVariableSyntax)
	}

	width, err := parseWidth(fields[2], dialect)
	if err != nil {
		return m.Variable{}, err
	}

	v := m.Variable{
		Kind:  fields[1],
		Width: width,
		Code:  fields[3],
		Name:  fields[4],
	}

	if len(fields) == 7 {
		v.Select = fields[5]
	}

	return v, nil
}

// parseWidth derives a bit width from a decimal size ("8") or a bracketed
// range ("[7:0]"), subject to what the dialect's variable grammar allows.
func parseWidth(field string, dialect m.Dialect) (int, error) {
	if isDecimal(field) {
		if !dialect.Widths.Has(m.WidthDecimal) {
			return 0, fmt.Errorf("%w: decimal size %q not accepted by %s dialect", ErrUnknownVariableSyntax, field, dialect.Name)
		}

		width, err := strconv.Atoi(field)
		if err != nil || width < 1 {
			return 0, fmt.Errorf("%w: size %q", ErrUnknownVariableSyntax, field)
		}

		return width, nil
	}

	if strings.HasPrefix(field, "[") && strings.HasSuffix(field, "]") {
		if !dialect.Widths.Has(m.WidthBitRange) {
			return 0, fmt.Errorf("%w: bit range %q not accepted by %s dialect", ErrUnknownVariableSyntax, field, dialect.Name)
		}

		msbText, lsbText, ok := strings.Cut(field[1:len(field)-1], ":")
		if !ok {
			return 0, fmt.Errorf("%w: bit range %q", ErrUnknownVariableSyntax, field)
		}

		// Bounds are limited to 32 bits so the width below cannot overflow.
		msb, msbErr := strconv.ParseInt(strings.TrimSpace(msbText), 10, 32)
		lsb, lsbErr := strconv.ParseInt(strings.TrimSpace(lsbText), 10, 32)

		if msbErr != nil || lsbErr != nil {
			return 0, fmt.Errorf("%w: bit range %q", ErrUnknownVariableSyntax, field)
		}

		if msb < lsb {
			msb, lsb = lsb, msb
		}

		return int(msb - lsb + 1), nil
	}

	return 0, fmt.Errorf("%w: size %q", ErrUnknownVariableSyntax, field)
}

func isDecimal(s string) bool {
	if s == "" {
		return false
	}

	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}

	return true
}
