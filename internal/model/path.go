// Package model defines the data structures shared by the dump parser and its callers.
package model

// Path represents a file system path.
type Path string

// SignalPath is a "/"-delimited hierarchical signal name such as "top/cpu/clk".
type SignalPath string
