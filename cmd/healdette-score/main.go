// cmd/healdette-score/main.go
package main

import (
	"healdette/internal/appshell"
	"healdette/internal/scoreapp"
)

func main() { appshell.Main(scoreapp.RunContext) }
