package main

import "github.com/rajdefenseye/CMMC-lens3/cmd"

func main() {
	cmd.Execute()
}
