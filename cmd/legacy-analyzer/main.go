package main

import "legacy-analyzer/src/handler/cli"

func main() {
	cli.Run()
}
