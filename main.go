package main

import "github.com/KaramelBytes/waterdash/cmd"

func main() {
	cmd.Execute()
}
