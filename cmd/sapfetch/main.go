package main

import "github.com/sapfetch/sapfetch/cmd"

func main() {
	cmd.Execute()
}
