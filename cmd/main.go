package main

import "pomotodo/internal/cli"

func main() {
	cli.Execute()
}
