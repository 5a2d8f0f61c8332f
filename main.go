package main

import "github.com/mselser95/polymarket-mcp/cmd"

func main() {
	cmd.Execute()
}
