package main

import "github.com/avolkov/filedrop/internal/client/cli"

func main() {
	cli.Execute()
}
