package main

import "neurohr-interview/internal/cli"

func main() {
	cli.Execute()
}
