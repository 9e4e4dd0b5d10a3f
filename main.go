package main

import "hsaledger/cmd"

func main() {
	cmd.Execute()
}
