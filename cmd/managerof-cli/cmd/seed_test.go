package cmd

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"managerof/internal/adapters/memory"
)

const labOU = "OU=ManagerOfLab,DC=corp,DC=local"

func TestRunSeed_DryRun(t *testing.T) {
	calls := useSession(t, memory.NewDirectory(nil), nil)
	var stdout bytes.Buffer

	err := runSeed(context.Background(), testConfig(t), labOU, 4, 3, true, &stdout, &bytes.Buffer{})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasSuffix(lines[0], "\t-"), "first person is the root")
	assert.Zero(t, *calls)
}

func TestRunSeed_ThenExport(t *testing.T) {
	dir := memory.NewDirectory(nil)
	useSession(t, dir, nil)
	cfg := testConfig(t)
	var stderr bytes.Buffer

	require.NoError(t, runSeed(context.Background(), cfg, labOU, 7, 2, false, &bytes.Buffer{}, &stderr))
	assert.Contains(t, stderr.String(), "Created 7 people")

	stderr.Reset()
	require.NoError(t, runExport(context.Background(), cfg, false, false, &bytes.Buffer{}, &stderr))
	assert.Contains(t, stderr.String(), "Wrote 6 ManagerOf edges")
}

func TestRunSeed_InvalidParameters(t *testing.T) {
	calls := useSession(t, memory.NewDirectory(nil), nil)

	err := runSeed(context.Background(), testConfig(t), "", 10, 2, false, &bytes.Buffer{}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Equal(t, exitConfig, exitCode(err))

	err = runSeed(context.Background(), testConfig(t), labOU, 10, 0, false, &bytes.Buffer{}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Equal(t, exitConfig, exitCode(err))
	assert.Zero(t, *calls)
}
