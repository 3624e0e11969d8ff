// main package for vulnsweep command-line tool
// Package main is the entry point for the vulnsweep CLI.
package main

import "vulnsweep.dev/pkg/vulnsweep/cmd"

func main() {
	cmd.Execute()
}
