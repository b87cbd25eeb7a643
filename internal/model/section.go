package model

// Section identifies one of the three regions of a dump file.
type Section int

const (
	// SectionHeader holds $date, $version, $timescale and similar directives.
	SectionHeader Section = iota
	// SectionDefinitions holds $scope, $var and $upscope up to $enddefinitions.
	SectionDefinitions
	// SectionValueChanges holds timestamps and value changes.
	SectionValueChanges
)

func (s Section) String() string {
	switch s {
	case SectionHeader:
		return "header"
	case SectionDefinitions:
		return "definitions"
	case SectionValueChanges:
		return "value changes"
	default:
		return "unknown"
	}
}
