package mcp

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"managerof/internal/adapters/jsonfile"
	"managerof/internal/application/commands"
	"managerof/internal/ports"
)

// RegisterExportTools adds the export tool to the MCP server. Each call opens
// its own directory session through open and closes it before returning.
// index may be nil.
func RegisterExportTools(s *server.MCPServer, open ports.DirectoryOpener, writer ports.GraphWriter, index ports.EdgeIndex) {
	s.AddTool(exportTool(), exportHandler(open, writer, index))
}

// --- export_manager_graph ---

func exportTool() mcp.Tool {
	return mcp.NewTool("export_manager_graph",
		mcp.WithDescription("Export manager relationships from the directory as ManagerOf edges. Writes the graph document to output_dir/file_name and returns it."),
		mcp.WithString("output_dir",
			mcp.Description("Existing directory to write the document to"),
			mcp.Required(),
		),
		mcp.WithString("file_name",
			mcp.Description("Output file name, must end in .json (e.g. managerof.json)"),
			mcp.Required(),
		),
		mcp.WithBoolean("write_empty",
			mcp.Description("Write an empty graph document when no user has a manager"),
		),
	)
}

func exportHandler(open ports.DirectoryOpener, writer ports.GraphWriter, index ports.EdgeIndex) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		outputDir := req.GetString("output_dir", "")
		fileName := req.GetString("file_name", "")

		opts := []commands.ExportOption{
			commands.WithWriteEmpty(req.GetBool("write_empty", false)),
			commands.WithRunID(uuid.NewString()),
		}
		if index != nil {
			opts = append(opts, commands.WithIndex(index))
		}

		// Fail on a bad output target before touching the directory.
		probe := commands.NewExportCommand(nil, nil, writer, outputDir, fileName)
		if err := probe.Validate(); err != nil {
			return toolError(err)
		}

		dir, err := open(ctx)
		if err != nil {
			return toolError(fmt.Errorf("failed to connect to directory: %w", err))
		}
		defer func() {
			if err := dir.Close(); err != nil {
				zerolog.Ctx(ctx).Warn().Err(err).Msg("failed to close directory session")
			}
		}()

		cmd := commands.NewExportCommand(dir, dir, writer, outputDir, fileName, opts...)
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		if result.Document == nil {
			return mcp.NewToolResultText(result.Message), nil
		}

		body, err := jsonfile.Marshal(result.Document)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message + "\n" + string(body)), nil
	}
}

// LoggerContext attaches logger to the context every tool handler runs with
func LoggerContext(logger zerolog.Logger) server.StdioContextFunc {
	return func(ctx context.Context) context.Context {
		return logger.WithContext(ctx)
	}
}

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}
