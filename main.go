package main

import "github.com/Shkitskiy94/hw05-final/cmd"

func main() {
	cmd.Execute()
}
