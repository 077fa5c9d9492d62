package main

import "repobridge/cmd"

func main() {
	cmd.Execute()
}
