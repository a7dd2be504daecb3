package main

import "github.com/khulnasoft/cargo-licenses/cmd"

func main() {
	cmd.Execute()
}
