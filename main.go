package main

import "github.com/hitanshu-dhawan/gosh/cmd"

func main() {
	cmd.Execute()
}
