package main

import (
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicpulse/helpdesk/internal/escalation"
	"github.com/civicpulse/helpdesk/pkg/periodic"
)

func parse(t *testing.T, args ...string) (*CLI, *kong.Context) {
	t.Helper()

	var cli CLI
	parser, err := kong.New(&cli, kong.Vars{"version": "test"})
	require.NoError(t, err)
	ctx, err := parser.Parse(args)
	require.NoError(t, err)
	return &cli, ctx
}

func TestCLI_DefaultsToServe(t *testing.T) {
	t.Parallel()

	cli, ctx := parse(t)
	assert.Equal(t, "serve", ctx.Command())
	assert.Equal(t, []string{".env"}, cli.Env)
}

func TestCLI_Sweep(t *testing.T) {
	t.Parallel()

	cli, ctx := parse(t, "--env", "base.env,local.env", "sweep")
	assert.Equal(t, "sweep", ctx.Command())
	assert.Equal(t, []string{"base.env", "local.env"}, cli.Env)
}

func TestSweep_WithoutDatabase(t *testing.T) {
	t.Setenv("DATABASE_CONN_URL", "")
	t.Setenv("REDIS_URL", "")
	t.Setenv("SENTRY_DSN", "")
	t.Setenv("LOG_LEVEL", "error")

	err := (&SweepCmd{}).Run(&CLI{})
	require.ErrorIs(t, err, escalation.ErrUnavailable)
	require.ErrorIs(t, err, periodic.ErrCheckFailed)
}
