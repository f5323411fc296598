package main

import "github.com/Jimmer1/Chip16/cmd"

func main() {
	cmd.Execute()
}
