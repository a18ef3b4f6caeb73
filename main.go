package main

import "github.com/notargets/gohho/cmd"

func main() {
	cmd.Execute()
}
