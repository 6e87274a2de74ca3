package main

import "github.com/harrisonrobin/aledger/cmd"

func main() {
	cmd.Execute()
}
