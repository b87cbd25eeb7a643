package domain

import (
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	m "wavedig.dev/pkg/wavedig/internal/model"
)

// Control keywords that may appear in the value-change region. They mark
// sections of the dump but never carry a value themselves.
var controlKeywords = map[string]bool{
	"$dumpvars": true,
	"$end":      true,
	"$dumpon":   true,
	"$dumpoff":  true,
	"$dumpall":  true,

	"$dumpports":    true,
	"$dumpportson":  true,
	"$dumpportsoff": true,
	"$dumpportsall": true,
}

const commentKeyword = "$comment"

// ValueChangeIndex maps identifier codes to their timelines. It is immutable
// once built.
type ValueChangeIndex struct {
	timelines  map[string]m.Timeline
	timestamps []int64
}

// Timeline returns the history recorded for code.
func (idx *ValueChangeIndex) Timeline(code string) (m.Timeline, bool) {
	tl, ok := idx.timelines[code]
	return tl, ok
}

// Timestamps returns every distinct event timestamp in file order.
func (idx *ValueChangeIndex) Timestamps() []int64 {
	return idx.timestamps
}

// HasTimestamp reports whether t is an event timestamp of the dump.
func (idx *ValueChangeIndex) HasTimestamp(t int64) bool {
	_, found := slices.BinarySearch(idx.timestamps, t)
	return found
}

// Codes returns the number of identifier codes with at least one change.
func (idx *ValueChangeIndex) Codes() int {
	return len(idx.timelines)
}

// BuildValueChangeIndex tokenizes the value-change region one line at a time.
// A line's role is decided by its first character alone, so an identifier code
// is never searched for inside other text and codes that are substrings of one
// another (or of keywords) cannot be confused.
func BuildValueChangeIndex(lines []Line, dialect m.Dialect) (*ValueChangeIndex, m.IndexStats, error) {
	tok := &tokenizer{
		dialect: dialect,
		seen:    map[string]int{},
	}

	for _, l := range lines {
		if err := tok.consume(l); err != nil {
			return nil, m.IndexStats{}, &ParseError{Section: m.SectionValueChanges, Line: l.No, Text: l.Text, Err: err}
		}
	}

	if tok.inComment {
		return nil, m.IndexStats{}, &ParseError{
			Section: m.SectionValueChanges,
			Err:     fmt.Errorf("%w: unterminated $comment", ErrMalformedFile),
		}
	}

	tok.flush()

	idx := &ValueChangeIndex{
		timelines:  invert(tok.events),
		timestamps: tok.timestamps,
	}

	tok.stats.Lines = len(lines)
	tok.stats.Events = len(tok.events)
	tok.stats.Codes = len(idx.timelines)

	if n := len(idx.timestamps); n > 0 {
		tok.stats.FirstTime = idx.timestamps[0]
		tok.stats.LastTime = idx.timestamps[n-1]
	}

	if tok.stats.Duplicates > 0 {
		slog.Warn("Identifier codes changed more than once within a timestamp; kept the last value", "count", tok.stats.Duplicates)
	}

	return idx, tok.stats, nil
}

// invert turns the ordered event list into per-code timelines in one pass.
// Event times are strictly increasing and a code appears at most once per
// event, so every sample simply appends.
func invert(events []m.Event) map[string]m.Timeline {
	timelines := map[string]m.Timeline{}

	for _, ev := range events {
		for _, ch := range ev.Changes {
			timelines[ch.Code] = append(timelines[ch.Code], m.Sample{Time: ev.Time, Value: ch.Value})
		}
	}

	return timelines
}

type tokenizer struct {
	dialect m.Dialect

	current  int64
	haveTime bool

	pending []m.Change
	seen    map[string]int // code -> index in pending

	events     []m.Event
	timestamps []int64
	inComment  bool

	stats m.IndexStats
}

func (tok *tokenizer) consume(l Line) error {
	text := strings.TrimSpace(l.Text)
	if text == "" {
		return nil
	}

	if tok.inComment {
		if strings.Contains(text, endKeyword) {
			tok.inComment = false
		}

		return nil
	}

	switch text[0] {
	case '#':
		return tok.timestamp(text)
	case '$':
		tok.directive(text)
		return nil
	default:
		change, err := tok.valueChange(text)
		if err != nil {
			return err
		}

		tok.record(change, l.No)

		return nil
	}
}

func (tok *tokenizer) timestamp(text string) error {
	digits := text[1:]
	if !isDecimal(digits) {
		return fmt.Errorf("%w: bad timestamp %q", ErrMalformedFile, text)
	}

	t, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: timestamp %q: %w", ErrMalformedFile, text, err)
	}

	if tok.haveTime && t < tok.current {
		return fmt.Errorf("%w: timestamp #%d goes back from #%d", ErrMalformedFile, t, tok.current)
	}

	// A repeated marker, or #0 after initial values, continues the open event
	// so duplicates are still detected by record.
	if t != tok.current {
		tok.flush()
	}

	tok.current = t
	tok.haveTime = true
	tok.addTimestamp(t)

	return nil
}

func (tok *tokenizer) directive(text string) {
	keyword := strings.Fields(text)[0]

	switch {
	case keyword == commentKeyword:
		tok.inComment = !strings.Contains(text[len(commentKeyword):], endKeyword)
	case controlKeywords[keyword]:
		tok.stats.Markers++
	default:
		slog.Debug("Ignoring directive in value change section", "directive", keyword)
	}
}

// valueChange classifies a line by its first character: a vector sigil starts
// "<sigil><value> [strengths...] <code>", anything else is "<value><code>".
func (tok *tokenizer) valueChange(text string) (m.Change, error) {
	first := text[0]

	if tok.dialect.IsVectorSigil(first) {
		return tok.vectorChange(text)
	}

	if !tok.dialect.IsScalarValue(first) {
		return m.Change{}, fmt.Errorf("%w: %q is not a %s value", ErrMalformedFile, first, tok.dialect.Name)
	}

	code := strings.TrimSpace(text[1:])
	if code == "" || strings.ContainsAny(code, " \t") {
		return m.Change{}, fmt.Errorf("%w: scalar change needs exactly one identifier code", ErrMalformedFile)
	}

	return m.Change{Code: code, Value: text[:1]}, nil
}

func (tok *tokenizer) vectorChange(text string) (m.Change, error) {
	sep := strings.IndexAny(text, " \t")
	if sep < 0 {
		return m.Change{}, fmt.Errorf("%w: vector change without identifier code", ErrMalformedFile)
	}

	value := text[1:sep]
	if value == "" {
		return m.Change{}, fmt.Errorf("%w: vector change without value", ErrMalformedFile)
	}

	rest := strings.Fields(text[sep+1:])
	if len(rest) != tok.dialect.StrengthFields+1 {
		return m.Change{}, fmt.Errorf("%w: vector change needs %d strength field(s) and one identifier code",
			ErrMalformedFile, tok.dialect.StrengthFields)
	}

	for _, strength := range rest[:tok.dialect.StrengthFields] {
		if !isDecimal(strength) {
			return m.Change{}, fmt.Errorf("%w: strength %q is not a number", ErrMalformedFile, strength)
		}
	}

	return m.Change{Code: rest[len(rest)-1], Value: value}, nil
}

func (tok *tokenizer) record(change m.Change, lineNo int) {
	if i, dup := tok.seen[change.Code]; dup {
		slog.Debug("Duplicate change within timestamp", "code", change.Code, "time", tok.current, "line", lineNo)
		tok.pending[i].Value = change.Value
		tok.stats.Duplicates++

		return
	}

	tok.seen[change.Code] = len(tok.pending)
	tok.pending = append(tok.pending, change)
	tok.stats.Changes++
}

// flush closes the pending event. Changes seen before the first timestamp
// marker belong to time 0, the initial-value dump.
func (tok *tokenizer) flush() {
	if len(tok.pending) == 0 {
		return
	}

	tok.events = append(tok.events, m.Event{Time: tok.current, Changes: tok.pending})
	tok.addTimestamp(tok.current)
	tok.pending = nil
	clear(tok.seen)
}

func (tok *tokenizer) addTimestamp(t int64) {
	if n := len(tok.timestamps); n > 0 && tok.timestamps[n-1] == t {
		return
	}

	tok.timestamps = append(tok.timestamps, t)
}
