package main

import "seasonvar/cmd"

func main() {
	cmd.Execute()
}
