package main

import (
	"os"

	"github.com/yahsan2/jira-pm/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
