package main

import "managerof/cmd/managerof-cli/cmd"

func main() {
	cmd.Execute()
}
