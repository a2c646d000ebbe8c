package main

import "github.com/notargets/freefemio/cmd"

func main() {
	cmd.Execute()
}
