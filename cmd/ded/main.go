package main

import (
	"fmt"
	"os"

	"github.com/sokinpui/ded"
)

func main() {
	if err := ded.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
