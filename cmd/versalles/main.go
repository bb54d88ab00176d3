package main

import "github.com/versalles/versalles/cmd/versalles/cmd"

func main() {
	cmd.Execute()
}
