package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(connectFromEnv).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
