package main

import (
	"github.com/MiSo1289/hdrpkg/pkg/cli"
)

func main() {
	cli.Execute()
}
