package main

import (
	"fmt"
	"os"

	"github.com/fatali-fataliyev/expense_tracker/cli"
	"github.com/fatali-fataliyev/expense_tracker/logging"
)

func main() {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = "warning"
	}
	if err := logging.Init(level); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	c := cli.New()
	os.Exit(c.Run(os.Args[1:]))
}
