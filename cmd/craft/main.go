// Package main provides the entry point for the craft host binary.
package main

import (
	"fmt"
	"os"

	"github.com/Aman-CERP/craft/cmd/craft/cmd"
	"github.com/Aman-CERP/craft/internal/errors"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprint(os.Stderr, errors.FormatForCLI(err))
		os.Exit(1)
	}
}
