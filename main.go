package main

import (
	"os"

	"github.com/invoxhq/invox/internal/app"

	cblog "github.com/charmbracelet/log"
	_ "github.com/mattn/go-sqlite3"
)

func main() {
	a := &app.App{}
	if err := a.Run(); err != nil {
		cblog.Error(err)
		os.Exit(1)
	}
}
