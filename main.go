package main

import "github.com/dairymanager/dairy-api/cmd"

func main() {
	cmd.Execute()
}
