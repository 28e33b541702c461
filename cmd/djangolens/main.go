package main

import "github.com/djangolens/djangolens/internal/cli"

func main() {
	cli.Execute()
}
