package main

import "reviewlens/cmd/reviewctl/command"

func main() {
	command.Execute()
}
