package main

import (
	"os"

	"github.com/soundprediction/orgchart/cmd/orgchart"
)

func main() {
	if err := orgchart.Execute(); err != nil {
		os.Exit(1)
	}
}
