package main

import "github.com/culinary-data/larder/cmd"

func main() {
	cmd.Execute()
}
