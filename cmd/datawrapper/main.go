package main

import "github.com/jmcleod/datawrapper/cmd/datawrapper/cmd"

func main() {
	cmd.Execute()
}
