package main

import "github.com/mvp-joe/cortex-skeleton/internal/cli"

func main() {
	cli.Execute()
}
