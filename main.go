package main

import "github.com/syedjakeer1992/weather-cli-app/cmd"

func main() {
	cmd.Execute()
}
