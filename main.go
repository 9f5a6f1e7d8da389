package main

import "github.com/jsphweid/harmonycheck/cmd"

func main() {
	cmd.Execute()
}
