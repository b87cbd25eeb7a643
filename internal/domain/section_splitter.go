package domain

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	m "wavedig.dev/pkg/wavedig/internal/model"
)

const maxLineBytes = 1 << 20

// Line is an input line tagged with its 1-based position in the file.
type Line struct {
	No   int
	Text string
}

// Sections holds the three regions of a dump in input order.
type Sections struct {
	Header       []Line
	Definitions  []Line
	ValueChanges []Line
}

// SplitSections reads r line by line and classifies every line into one of the
// three regions. The first line mentioning $scope opens the definitions region;
// the line mentioning $enddefinitions closes it.
func SplitSections(r io.Reader) (Sections, error) {
	var sections Sections

	current := m.SectionHeader
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	no := 0
	for scanner.Scan() {
		no++
		l := Line{No: no, Text: strings.TrimRight(scanner.Text(), "\r")}

		switch current {
		case m.SectionHeader:
			if !strings.Contains(l.Text, "$scope") {
				sections.Header = append(sections.Header, l)
				continue
			}

			current = m.SectionDefinitions

			fallthrough
		case m.SectionDefinitions:
			sections.Definitions = append(sections.Definitions, l)
			if strings.Contains(l.Text, "$enddefinitions") {
				current = m.SectionValueChanges
			}
		case m.SectionValueChanges:
			sections.ValueChanges = append(sections.ValueChanges, l)
		}
	}

	if err := scanner.Err(); err != nil {
		return Sections{}, fmt.Errorf("read dump: %w", err)
	}

	if current != m.SectionValueChanges {
		return Sections{}, &ParseError{Section: current, Err: fmt.Errorf("%w: $enddefinitions not found", ErrMalformedFile)}
	}

	if !hasContent(sections.ValueChanges) {
		return Sections{}, &ParseError{Section: m.SectionValueChanges, Err: fmt.Errorf("%w: value change section is empty", ErrMalformedFile)}
	}

	return sections, nil
}

func hasContent(lines []Line) bool {
	for _, l := range lines {
		if strings.TrimSpace(l.Text) != "" {
			return true
		}
	}

	return false
}
