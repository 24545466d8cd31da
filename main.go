package main

import "github.com/khrees2412/pipeliner/cmd"

func main() {
	cmd.Execute()
}
