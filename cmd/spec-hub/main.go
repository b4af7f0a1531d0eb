package main

import (
	_ "go.uber.org/automaxprocs"

	"github.com/actionspec-io/spec-hub/cmd/spec-hub/app"
)

func main() {
	app.NewApp().Run()
}
