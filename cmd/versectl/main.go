package main

import (
	"github.com/JupiterPi/verse/internal/cli"
)

func main() {
	cli.Execute()
}
