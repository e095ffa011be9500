package main

import "github.com/FlightfulOS/apps-repository/cmd/repo-generator/cmd"

func main() {
	cmd.Execute()
}
