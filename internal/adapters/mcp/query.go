package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"managerof/internal/domain"
	"managerof/internal/ports"
)

// RegisterQueryTools adds read-only tools over the edge index
func RegisterQueryTools(s *server.MCPServer, index ports.EdgeIndex) {
	s.AddTool(directReportsTool(), directReportsHandler(index))
	s.AddTool(managerOfTool(), managerOfHandler(index))
}

// --- query_direct_reports ---

func directReportsTool() mcp.Tool {
	return mcp.NewTool("query_direct_reports",
		mcp.WithDescription("List the SIDs that report directly to a manager, from the last indexed export."),
		mcp.WithString("manager_sid",
			mcp.Description("Manager SID (e.g. S-1-5-21-1004336348-1177238915-682003330-1100)"),
			mcp.Required(),
		),
	)
}

func directReportsHandler(index ports.EdgeIndex) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sid, err := sidArgument(req, "manager_sid")
		if err != nil {
			return toolError(err)
		}

		reports, err := index.DirectReports(sid)
		if err != nil {
			return toolError(err)
		}
		if len(reports) == 0 {
			return mcp.NewToolResultText("No direct reports."), nil
		}
		return mcp.NewToolResultText(strings.Join(reports, "\n") + "\n"), nil
	}
}

// --- query_manager_of ---

func managerOfTool() mcp.Tool {
	return mcp.NewTool("query_manager_of",
		mcp.WithDescription("Return the SID of the manager of a user, from the last indexed export."),
		mcp.WithString("sid",
			mcp.Description("User SID"),
			mcp.Required(),
		),
	)
}

func managerOfHandler(index ports.EdgeIndex) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sid, err := sidArgument(req, "sid")
		if err != nil {
			return toolError(err)
		}

		manager, err := index.ManagerOf(sid)
		if errors.Is(err, ports.ErrNotIndexed) {
			return mcp.NewToolResultText("No manager recorded."), nil
		}
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(manager), nil
	}
}

func sidArgument(req mcp.CallToolRequest, name string) (string, error) {
	sid := strings.TrimSpace(req.GetString(name, ""))
	if sid == "" {
		return "", fmt.Errorf("%s is required", name)
	}
	if _, err := domain.ParseSID(sid); err != nil {
		return "", fmt.Errorf("%s: %w", name, err)
	}
	return sid, nil
}
