// cmd/healdette-coverage/main.go
package main

import (
	"healdette/internal/appshell"
	"healdette/internal/coverageapp"
)

func main() { appshell.Main(coverageapp.RunContext) }
