// Package main is the entry point of the shiftlog CLI.
package main

import (
	"fmt"
	"os"

	"github.com/blowline/shiftlog/cmd"
	"github.com/blowline/shiftlog/internal/store"
)

func main() {
	err := cmd.Execute()
	store.CloseStore()
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}
