package main

import "github.com/jsphweid/groovedex/cmd"

func main() {
	cmd.Execute()
}
