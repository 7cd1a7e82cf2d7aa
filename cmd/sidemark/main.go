package main

import (
	"fmt"
	"os"

	"github.com/sidemark/sidemark/internal/ui"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", ui.RenderErr("error:"), err)
		os.Exit(1)
	}
}
