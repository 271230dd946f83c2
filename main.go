package main

import "github.com/y3rawat/mindstore/cmd"

func main() {
	cmd.Execute()
}
