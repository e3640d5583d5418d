package main

import "tapedeck/cmd"

func main() {
	cmd.Execute()
}
