package main

import (
	"minutes/cmd/minutes/cmd"
)

func main() {
	cmd.Execute()
}
