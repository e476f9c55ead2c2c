package main

import (
	"context"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"managerof/internal/adapters/jsonfile"
	"managerof/internal/adapters/ldap"
	mcpadapter "managerof/internal/adapters/mcp"
	"managerof/internal/adapters/sqlite"
	"managerof/internal/config"
	"managerof/internal/logging"
	"managerof/internal/ports"
)

var version = "dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags := pflag.NewFlagSet("managerof-mcp", pflag.ExitOnError)
	configFile := flags.String("config", "", "config file (yaml, toml or json)")
	flags.String(config.KeyServer, "", "directory server URL (default ldap://$USERDNSDOMAIN)")
	flags.String(config.KeySearchBase, "", "search root (default: the server's defaultNamingContext)")
	flags.String(config.KeyBindDN, "", "bind DN (empty for an anonymous session)")
	flags.String(config.KeyBindPassword, "", "bind password")
	flags.Bool(config.KeyStartTLS, false, "upgrade the connection with StartTLS")
	flags.Bool(config.KeyInsecure, false, "skip TLS certificate verification")
	flags.String(config.KeyIndex, "", "SQLite edge index to update and query")
	flags.String(config.KeyLogLevel, config.DefaultLogLevel, "log level")
	_ = flags.Parse(args)

	// stdout carries the protocol, so logs always go to stderr as JSON.
	logger := logging.New(config.DefaultLogLevel, "json", os.Stderr).With().Str("component", "managerof-mcp").Logger()

	v := config.NewViper()
	if err := v.BindPFlags(flags); err != nil {
		logger.Error().Err(err).Msg("failed to bind flags")
		return 2
	}
	cfg, err := config.Load(v, *configFile)
	if err != nil {
		logger.Error().Err(err).Msg("failed to load configuration")
		return 2
	}
	logger = logging.New(cfg.LogLevel, "json", os.Stderr).With().Str("component", "managerof-mcp").Logger()

	open := func(ctx context.Context) (ports.Directory, error) {
		dir, err := ldap.Dial(ctx, ldap.Options{
			Server:             cfg.Server,
			SearchBase:         cfg.SearchBase,
			BindDN:             cfg.BindDN,
			BindPassword:       cfg.BindPassword,
			StartTLS:           cfg.StartTLS,
			InsecureSkipVerify: cfg.Insecure,
			PageSize:           cfg.PageSize,
			Timeout:            cfg.Timeout,
		})
		if err != nil {
			return nil, err
		}
		zerolog.Ctx(ctx).Debug().Str("search_base", dir.SearchBase()).Msg("connected to directory")
		return dir, nil
	}

	mcpServer := server.NewMCPServer(
		"managerof-mcp",
		version,
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check, returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	idx, err := registerTools(mcpServer, cfg, open)
	if err != nil {
		logger.Error().Err(err).Msg("failed to open edge index")
		return 2
	}
	if idx != nil {
		defer func() {
			if err := idx.Close(); err != nil {
				logger.Warn().Err(err).Str("index", idx.Path()).Msg("failed to close edge index")
			}
		}()
	}

	logger.Info().Str("server", cfg.Server).Str("index", cfg.IndexPath).Msg("serving on stdio")
	if err := server.ServeStdio(mcpServer, server.WithStdioContextFunc(mcpadapter.LoggerContext(logger))); err != nil {
		logger.Error().Err(err).Msg("server stopped")
		return 1
	}
	return 0
}

// registerTools adds the export tool, and the query tools when an edge index
// is configured. The returned index is nil without one; the caller closes it.
func registerTools(s *server.MCPServer, cfg *config.Config, open ports.DirectoryOpener) (*sqlite.Index, error) {
	if cfg.IndexPath == "" {
		mcpadapter.RegisterExportTools(s, open, jsonfile.NewWriter(), nil)
		return nil, nil
	}

	idx := sqlite.NewIndex()
	if err := idx.Open(cfg.IndexPath); err != nil {
		return nil, err
	}
	mcpadapter.RegisterExportTools(s, open, jsonfile.NewWriter(), idx)
	mcpadapter.RegisterQueryTools(s, idx)
	return idx, nil
}
