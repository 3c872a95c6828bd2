// Package main is the entry point for the evaldriver CLI.
package main

import "evaldriver.dev/pkg/evaldriver/cmd"

func main() {
	cmd.Execute()
}
