package main

import (
	"github.com/kinetikids/motionhub/internal/cli"
)

func main() {
	cli.Execute()
}
