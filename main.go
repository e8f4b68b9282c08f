package main

import (
	"os"

	"github.com/aquamon/aquamon/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
