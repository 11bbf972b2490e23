package main

import "signaldesk/internal/cli"

func main() {
	cli.Execute()
}
