// Package main is the entry point for the wavedig CLI.
package main

import "wavedig.dev/pkg/wavedig/cmd"

func main() {
	cmd.Execute()
}
