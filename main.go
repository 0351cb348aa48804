package main

import "github.com/deploymenttheory/go-nxfs/cmd"

func main() {
	cmd.Execute()
}
