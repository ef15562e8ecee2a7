package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-tasknode"
)

func TestRun_SubmitFetchAndRun(t *testing.T) {
	n, err := tasknode.Start(context.Background(),
		tasknode.WithPreset(tasknode.PresetLocal),
		tasknode.WithExecutorName("reverse"))
	require.NoError(t, err)
	defer n.Close()

	addr := n.ClientAddr().String()

	var out bytes.Buffer
	require.NoError(t, run([]string{"-addr", addr, "run", "-tag", "t1", "abc"}, &out))
	fields := strings.Split(strings.TrimSpace(out.String()), "\t")
	require.Len(t, fields, 3)
	assert.Equal(t, "t1", fields[0])
	assert.Equal(t, "cba", fields[2])

	out.Reset()
	require.NoError(t, run([]string{"-addr", addr, "fetch", "missing"}, &out))
	assert.Equal(t, "missing\tnot_found\n", out.String())

	out.Reset()
	require.NoError(t, run([]string{"-addr", addr, "submit", "-priority", "high", "xyz"}, &out))
	tag := strings.TrimSpace(out.String())
	assert.NotEmpty(t, tag)

	out.Reset()
	require.NoError(t, run([]string{"-addr", addr, "wait", tag}, &out))
	assert.Contains(t, out.String(), "zyx")
}

func TestRun_BadArguments(t *testing.T) {
	n, err := tasknode.Start(context.Background(), tasknode.WithPreset(tasknode.PresetLocal))
	require.NoError(t, err)
	defer n.Close()
	addr := n.ClientAddr().String()

	var out bytes.Buffer
	assert.Error(t, run([]string{"-addr", addr}, &out))
	assert.Error(t, run([]string{"-addr", addr, "bogus"}, &out))
	assert.Error(t, run([]string{"-addr", addr, "submit"}, &out))
	assert.Error(t, run([]string{"-addr", addr, "submit", "-priority", "urgent", "x"}, &out))
}
