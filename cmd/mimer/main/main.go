package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/mimer/cmd/mimer"
	"github.com/arthur-debert/mimer/pkg/ui/styles"
)

func main() {
	rootCmd := mimer.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		errorStyle := styles.Get("Error")
		fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("Error: %v", err)))
		os.Exit(1)
	}
}
