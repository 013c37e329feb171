package main

import "github.com/okaneo/handprint/cmd"

func main() {
	cmd.Execute()
}
