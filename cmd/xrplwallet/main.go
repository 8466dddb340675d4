package main

import "github.com/LeJamon/goXRPLwallet/internal/cli"

func main() {
	cli.Execute()
}
