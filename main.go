package main

import "github.com/bplaunch/bplaunch/cmd"

func main() {
	cmd.Execute()
}
