package main

import (
	"os"

	"github.com/alecthomas/kong"
)

// CLI is the root command line.
type CLI struct {
	Env     []string         `help:"Dotenv files loaded before parsing the environment" default:".env" sep:","`
	Version kong.VersionFlag `help:"Show version and exit"`

	Serve ServeCmd `cmd:"" default:"withargs" help:"Run the SLA escalation scheduler with health and metrics endpoints"`
	Sweep SweepCmd `cmd:"" help:"Run a single SLA escalation sweep and exit"`
}

var version = "dev"

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("civicpulse"),
		kong.Description("CivicPulse helpdesk background services."),
		kong.Vars{"version": version},
		kong.UsageOnError(),
	)
	if err := ctx.Run(&cli); err != nil {
		ctx.Errorf("%v", err)
		os.Exit(1)
	}
}
