package mcp

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"managerof/internal/adapters/jsonfile"
	"managerof/internal/adapters/memory"
	"managerof/internal/adapters/sqlite"
	"managerof/internal/domain"
	"managerof/internal/ports"
)

const (
	managerDN  = "CN=Dana,OU=Lab,DC=corp,DC=local"
	managerSID = "S-1-5-21-7-7-7-1000"
)

func labOpener(dir *memory.Directory) ports.DirectoryOpener {
	return func(context.Context) (ports.Directory, error) {
		return dir, nil
	}
}

func labDirectory() *memory.Directory {
	return memory.NewDirectory([]domain.Record{
		{DN: "CN=Ann,OU=Lab,DC=corp,DC=local", SID: domain.MustParseSID("S-1-5-21-7-7-7-1101"), Manager: managerDN},
		{DN: "CN=Bob,OU=Lab,DC=corp,DC=local", SID: domain.MustParseSID("S-1-5-21-7-7-7-1102"), Manager: managerDN},
	}, memory.WithEntry(managerDN, domain.MustParseSID(managerSID)))
}

func callRequest(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return text.Text
}

func openIndex(t *testing.T) *sqlite.Index {
	t.Helper()
	idx := sqlite.NewIndex()
	require.NoError(t, idx.Open(filepath.Join(t.TempDir(), "edges.db")))
	t.Cleanup(func() { _ = idx.Close() })
	return idx
}

func TestExportHandler(t *testing.T) {
	outDir := t.TempDir()
	dir := labDirectory()
	idx := openIndex(t)

	handler := exportHandler(labOpener(dir), jsonfile.NewWriter(), idx)
	res, err := handler(context.Background(), callRequest(map[string]any{
		"output_dir": outDir,
		"file_name":  "managers.json",
	}))
	require.NoError(t, err)
	require.False(t, res.IsError, resultText(t, res))

	text := resultText(t, res)
	assert.Contains(t, text, "Wrote 2 ManagerOf edges")
	assert.Contains(t, text, `"source_kind":"ManagerOf"`)
	assert.True(t, dir.Closed(), "directory session must be closed")

	doc, err := jsonfile.Read(filepath.Join(outDir, "managers.json"))
	require.NoError(t, err)
	assert.Len(t, doc.Graph.Edges, 2)

	reports, err := idx.DirectReports(managerSID)
	require.NoError(t, err)
	assert.Equal(t, []string{"S-1-5-21-7-7-7-1101", "S-1-5-21-7-7-7-1102"}, reports)
}

func TestLoggerContext_ReachesExport(t *testing.T) {
	var buf bytes.Buffer
	ctx := LoggerContext(zerolog.New(&buf))(context.Background())

	handler := exportHandler(labOpener(labDirectory()), jsonfile.NewWriter(), nil)
	res, err := handler(ctx, callRequest(map[string]any{
		"output_dir": t.TempDir(),
		"file_name":  "managers.json",
	}))
	require.NoError(t, err)
	require.False(t, res.IsError, resultText(t, res))

	assert.Contains(t, buf.String(), `"message":"graph built"`)
	assert.Contains(t, buf.String(), `"edges":2`)
}

func TestExportHandler_EmptyResult(t *testing.T) {
	outDir := t.TempDir()
	handler := exportHandler(labOpener(memory.NewDirectory(nil)), jsonfile.NewWriter(), nil)

	res, err := handler(context.Background(), callRequest(map[string]any{
		"output_dir": outDir,
		"file_name":  "managers.json",
	}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Contains(t, resultText(t, res), "no file written")

	_, statErr := os.Stat(filepath.Join(outDir, "managers.json"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestExportHandler_InvalidTargetSkipsDirectory(t *testing.T) {
	opened := false
	open := func(context.Context) (ports.Directory, error) {
		opened = true
		return labDirectory(), nil
	}

	res, err := exportHandler(open, jsonfile.NewWriter(), nil)(context.Background(), callRequest(map[string]any{
		"output_dir": t.TempDir(),
		"file_name":  "managers.csv",
	}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.False(t, opened)
}

func TestExportHandler_ConnectFailure(t *testing.T) {
	open := func(context.Context) (ports.Directory, error) {
		return nil, errors.New("connection refused")
	}

	res, err := exportHandler(open, jsonfile.NewWriter(), nil)(context.Background(), callRequest(map[string]any{
		"output_dir": t.TempDir(),
		"file_name":  "managers.json",
	}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "connection refused")
}

func TestQueryHandlers(t *testing.T) {
	idx := openIndex(t)
	require.NoError(t, idx.ReplaceEdges("run-1", []domain.Edge{
		domain.NewManagerOfEdge(managerSID, "S-1-5-21-7-7-7-1101"),
	}))
	ctx := context.Background()

	res, err := directReportsHandler(idx)(ctx, callRequest(map[string]any{"manager_sid": managerSID}))
	require.NoError(t, err)
	assert.Equal(t, "S-1-5-21-7-7-7-1101\n", resultText(t, res))

	res, err = managerOfHandler(idx)(ctx, callRequest(map[string]any{"sid": "S-1-5-21-7-7-7-1101"}))
	require.NoError(t, err)
	assert.Equal(t, managerSID, resultText(t, res))

	res, err = managerOfHandler(idx)(ctx, callRequest(map[string]any{"sid": managerSID}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, "No manager recorded.", resultText(t, res))

	res, err = directReportsHandler(idx)(ctx, callRequest(map[string]any{"manager_sid": "S-1-5-21-9-9-9-1"}))
	require.NoError(t, err)
	assert.Equal(t, "No direct reports.", resultText(t, res))
}

func TestQueryHandlers_InvalidSID(t *testing.T) {
	idx := openIndex(t)
	ctx := context.Background()

	for name, args := range map[string]map[string]any{
		"missing": {},
		"garbage": {"sid": "not-a-sid"},
	} {
		t.Run(name, func(t *testing.T) {
			res, err := managerOfHandler(idx)(ctx, callRequest(args))
			require.NoError(t, err)
			assert.True(t, res.IsError)
		})
	}
}
