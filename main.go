// main.go
//
// Entry point; the CLI lives in cmd/root.go

package main

import (
	"github.com/production-sim/production-sim/cmd"
)

func main() {
	cmd.Execute()
}
