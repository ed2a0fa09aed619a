package main

import "questboard/cmd/questboard/root"

func main() {
	root.Execute()
}
