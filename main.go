package main

import "pharmacertlabs/pharmacert/cmd"

func main() {
	cmd.Execute()
}
