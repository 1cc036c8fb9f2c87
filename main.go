package main

import "sb-verify/cmd"

func main() {
	cmd.Execute()
}
