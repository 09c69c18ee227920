package main

import "github.com/drawhive/drawhive/internal/cli"

func main() {
	cli.Execute()
}
