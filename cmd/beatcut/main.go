package main

import "beatcut/internal/cli"

func main() {
	cli.Execute()
}
