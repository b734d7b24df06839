package main

import (
	"flag"
	"fmt"
	"os"
)

func main() {
	// glog writes to stderr; its flags are not exposed on the CLI.
	_ = flag.Set("logtostderr", "true")
	_ = flag.CommandLine.Parse(nil)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
