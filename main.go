package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/anicoll/apsystems-integration/cmd"
)

func main() {
	app := &cli.App{
		Name:   "apsystems-integration",
		Usage:  "publishes APsystems ECU production to Home Assistant",
		Action: cmd.ApsystemsCommand,
		Flags:  cmd.Flags(),
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
