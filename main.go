package main

import (
	cmd "github.com/rohmanhakim/robots-resolver/internal/cli"
)

func main() {
	cmd.Execute()
}
