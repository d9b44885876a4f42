package main

import (
	"os"

	"github.com/MeetingMinder/MeetingMinder/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
