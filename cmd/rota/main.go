package main

import (
	"fmt"
	"io"
	"os"

	"github.com/arnavshah/content-rota-go/pkg/config"
	"github.com/urfave/cli"
)

const version = "1.0.0"

// runner holds the parsed flags and the streams of one invocation
type runner struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	configPath   string
	schedulePath string
	backend      string
	databaseURL  string
	dataPath     string
	logLevel     string

	month         string
	from          string
	to            string
	fillEmpty     bool
	templateIndex int
	seed          int64
	monthlyCap    bool
	yes           bool
	dryRun        bool
}

func newApp(in io.Reader, out, errOut io.Writer) *cli.App {
	r := &runner{in: in, out: out, errOut: errOut}

	rangeFlags := []cli.Flag{
		cli.StringFlag{
			Name:        "month, m",
			Usage:       "calendar month as YYYY-MM",
			Destination: &r.month,
		},
		cli.StringFlag{
			Name:        "from",
			Usage:       "first date as YYYY-MM-DD",
			Destination: &r.from,
		},
		cli.StringFlag{
			Name:        "to",
			Usage:       "last date as YYYY-MM-DD",
			Destination: &r.to,
		},
	}

	generateFlags := append([]cli.Flag{
		cli.BoolFlag{
			Name:        "fill-empty, e",
			Usage:       "only assign dates that have no entry yet (default: false)",
			Destination: &r.fillEmpty,
		},
		cli.IntFlag{
			Name:        "template-index, t",
			Usage:       "weekly template active in the first week",
			Destination: &r.templateIndex,
		},
		cli.Int64Flag{
			Name:        "seed",
			Usage:       "seed for tie-breaking, for repeatable runs",
			Destination: &r.seed,
		},
		cli.BoolFlag{
			Name:        "cap",
			Usage:       "limit each person to ceil(days/people) tasks per run",
			EnvVar:      "MONTHLY_CAP",
			Destination: &r.monthlyCap,
		},
		cli.BoolFlag{
			Name:        "yes, y",
			Usage:       "overwrite existing entries without asking (default: false)",
			Destination: &r.yes,
		},
		cli.BoolFlag{
			Name:        "dry-run, n",
			Usage:       "print the result without saving it (default: false)",
			Destination: &r.dryRun,
		},
	}, rangeFlags...)

	app := cli.NewApp()
	app.Name = "rota"
	app.HelpName = "rota"
	app.Usage = "share weekly content tasks fairly across a team"
	app.UsageText = "rota [global options] <command> [arguments...]"
	app.Version = version
	app.Writer = out
	app.ErrWriter = errOut
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:        "config, c",
			Usage:       "path of the rota configuration",
			Value:       "config.json",
			EnvVar:      "CONFIG_PATH",
			Destination: &r.configPath,
		},
		cli.StringFlag{
			Name:        "schedule, s",
			Usage:       "path of the schedule file",
			Value:       "schedule.json",
			EnvVar:      "SCHEDULE_PATH",
			Destination: &r.schedulePath,
		},
		cli.StringFlag{
			Name:        "backend",
			Usage:       "schedule store: file or db",
			Value:       "file",
			EnvVar:      "SCHEDULE_BACKEND",
			Destination: &r.backend,
		},
		cli.StringFlag{
			Name:        "database-url",
			Usage:       "postgres DSN for the db backend (sqlite when empty)",
			EnvVar:      "DATABASE_URL",
			Destination: &r.databaseURL,
		},
		cli.StringFlag{
			Name:        "data-path",
			Usage:       "sqlite file for the db backend",
			Value:       "rota.db",
			EnvVar:      "DATA_PATH",
			Destination: &r.dataPath,
		},
		cli.StringFlag{
			Name:        "log-level",
			Usage:       "debug, info, warn or error",
			Value:       "warn",
			EnvVar:      "LOG_LEVEL",
			Destination: &r.logLevel,
		},
	}
	app.Commands = []cli.Command{
		{
			Name:    "generate",
			Aliases: []string{"g"},
			Usage:   "assign every planned date of a month or range",
			Action:  r.generate,
			Flags:   generateFlags,
		},
		{
			Name:    "show",
			Aliases: []string{"s"},
			Usage:   "list the schedule",
			Action:  r.show,
			Flags:   rangeFlags,
		},
		{
			Name:    "workload",
			Aliases: []string{"w"},
			Usage:   "print task counts and weight per person",
			Action:  r.workload,
		},
		{
			Name:   "validate",
			Usage:  "check the configuration file",
			Action: r.validate,
		},
		{
			Name:   "types",
			Usage:  "list task types and their weights",
			Action: r.types,
		},
	}
	return app
}

func main() {
	config.LoadDotEnv()
	if err := newApp(os.Stdin, os.Stdout, os.Stderr).Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "rota: %v\n", err)
		os.Exit(1)
	}
}
