package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRootCommand_Subcommands(t *testing.T) {
	cmd := newRootCommand()

	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"serve", "migrate"}, names)
	assert.NotNil(t, cmd.RunE)
}

func TestMigrate_UnknownAction(t *testing.T) {
	err := migrate(context.Background(), "sideways")
	assert.ErrorContains(t, err, "unknown migrate action")
}

func TestServe_InvalidConfig(t *testing.T) {
	t.Setenv("POSTGRES_URL", "")
	err := serve(context.Background())
	assert.ErrorContains(t, err, "POSTGRES_URL")
}
