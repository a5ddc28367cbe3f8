package main

import (
	"fmt"
	"os"

	"github.com/solo-io/remdbg/pkg/remdbgctl"
	"github.com/solo-io/remdbg/pkg/version"
)

func main() {
	app, err := remdbgctl.App(version.Version)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	if err := app.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
