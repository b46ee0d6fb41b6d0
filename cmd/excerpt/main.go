// Command excerpt shows excerpts of many files as one document.
//
// Usage:
//
//	excerpt show -f excerpts.yaml
//	excerpt watch -f excerpts.yaml --metrics-addr :9090
//	excerpt add -f excerpts.yaml main.go --lines 10-20
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
