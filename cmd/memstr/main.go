// Command memstr inspects, benchmarks and stress tests the memstr
// primitives and runs WebAssembly guests against the memstr host module.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
