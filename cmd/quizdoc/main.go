package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

var Version = "dev"

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "quizdoc:", err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "quizdoc",
		Usage:   "convert quiz documents into LMS questions",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML config file (environment variables apply underneath)",
				Sources: cli.EnvVars("QUIZDOC_CONFIG"),
			},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "log diagnostics to stderr"},
		},
		Commands: []*cli.Command{
			parseCommand(),
			exportCommand(),
			uploadCommand(),
		},
	}
}
