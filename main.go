package main

import "github.com/dbnav/dbnav/cmd"

func main() {
	cmd.Execute()
}
