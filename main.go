package main

import "github.com/perceptualtools/refbatch/cmd"

func main() {
	cmd.Execute()
}
