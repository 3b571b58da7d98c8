package main

import (
	"fmt"
	"os"

	"embedding-conn/internal/app"
	"embedding-conn/internal/credentials"
)

func main() {
	if err := newRootCmd(app.Build, credentials.OSEnv()).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
