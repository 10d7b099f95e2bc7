package main

import "github.com/Rorical/agentic/cmd"

func main() {
	cmd.Execute()
}
