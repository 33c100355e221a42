package main

import "camctl/cmd"

func main() {
	cmd.Execute()
}
