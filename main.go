package main

import "github.com/mishell-project/mishell/cmd"

func main() {
	cmd.Execute()
}
