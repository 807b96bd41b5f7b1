package main

import "github.com/mwuertinger/nest-events/cmd"

func main() {
	cmd.Execute()
}
