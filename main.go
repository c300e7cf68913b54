package main

import "github.com/lepinkainen/springer-meta/cmd"

var execute = cmd.Execute

func main() {
	execute()
}
