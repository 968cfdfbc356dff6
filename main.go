package main

import "github.com/theirongolddev/fitdex/cmd"

func main() {
	cmd.Execute()
}
