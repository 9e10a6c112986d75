package main

import "github.com/fasmtools/fasm-go/cmd/fasm/cmd"

func main() {
	cmd.Execute()
}
