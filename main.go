package main

import (
	_ "go.uber.org/automaxprocs"

	"github.com/xrsl/cvlift/cmd"
)

func main() {
	cmd.Execute()
}
