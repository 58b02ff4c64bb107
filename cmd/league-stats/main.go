package main

import "github.com/LeoCastillo21/Proyecto/internal/cli"

func main() {
	cli.Execute()
}
