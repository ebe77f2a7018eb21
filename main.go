package main

import "github.com/kitchen-service/kitchen/cmd"

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	cmd.Execute(version, commit)
}
