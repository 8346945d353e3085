package main

import "github.com/jsphweid/choirdex/cmd"

func main() {
	cmd.Execute()
}
