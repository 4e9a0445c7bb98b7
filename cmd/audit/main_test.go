package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPurgeRequiresConfirmation(t *testing.T) {
	rq := require.New(t)

	t.Setenv("PG_DSN", "postgres://localhost:5432/bidder")

	var out bytes.Buffer

	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"purge"})

	rq.ErrorIs(root.ExecuteContext(context.Background()), errPurgeNotConfirmed)
	rq.NotContains(out.String(), "Deleted")
}

func TestRootRejectsArgs(t *testing.T) {
	rq := require.New(t)

	t.Setenv("PG_DSN", "postgres://localhost:5432/bidder")

	var out bytes.Buffer

	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"unexpected"})

	rq.Error(root.ExecuteContext(context.Background()))
}
