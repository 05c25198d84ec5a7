package main

import "github.com/frahmantamala/navguard/cmd"

func main() {
	cmd.Execute()
}
