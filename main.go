package main

import "migration-reconciler/cmd"

func main() {
	cmd.Execute()
}
