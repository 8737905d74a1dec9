package main

import "bitbackup/cmd"

func main() {
	cmd.Execute()
}
