package main

import "github.com/theirongolddev/cplan/cmd"

func main() {
	cmd.Execute()
}
