package model

// Variable is a declared signal.
type Variable struct {
	Kind  string // wire, reg, port, ...
	Width int
	Code  string // identifier code used in the value-change section
	Name  string // declared reference name
	// Select is the optional bit-select written after the name, e.g. "[7:0]".
	Select string
}

// Signal pairs a declared variable with its full hierarchical path.
type Signal struct {
	Path     SignalPath
	Variable Variable
}
