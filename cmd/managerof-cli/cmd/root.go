package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"managerof/internal/adapters/cli/styles"
	"managerof/internal/config"
	"managerof/internal/logging"
)

var (
	cfgFile string
	cfg     *config.Config
	v       = config.NewViper()
	runID   = uuid.NewString()
)

var rootCmd = &cobra.Command{
	Use:   "managerof-cli",
	Short: "Export Active Directory manager relationships as a graph",
	Long: `managerof-cli reads every user that has a manager from Active Directory
and writes the "manager of" relationships as ManagerOf edges in an
OpenGraph JSON document, keyed by objectSid.

Run without a subcommand to export. Every flag can also be set through a
MANAGEROF_* environment variable (e.g. MANAGEROF_SERVER) or a config file.

Examples:
  managerof-cli --server ldaps://dc01.corp.local --bind-dn "CORP\svc-export" -o ./out
  managerof-cli --file managers.json --pass-thru > graph.json
  managerof-cli seed --ou "OU=ManagerOfLab,DC=corp,DC=local" --users 50`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "version" {
			return nil
		}
		if err := v.BindPFlags(cmd.Flags()); err != nil {
			return withCode(exitConfig, err)
		}
		loaded, err := config.Load(v, cfgFile)
		if err != nil {
			return withCode(exitConfig, err)
		}
		cfg = loaded

		logger := logging.New(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr()).
			With().Str("run_id", runID).Logger()
		cmd.SetContext(logger.WithContext(cmd.Context()))
		return nil
	},
	RunE: runExportCmd,
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, styles.Failure(err))
		os.Exit(exitCode(err))
	}
}

func init() {
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return withCode(exitConfig, err)
	})

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (yaml, toml or json)")
	pf.String(config.KeyServer, "", "directory server URL (default ldap://$USERDNSDOMAIN)")
	pf.String(config.KeySearchBase, "", "search root (default: the server's defaultNamingContext)")
	pf.String(config.KeyBindDN, "", "bind DN or user principal (empty for an anonymous session)")
	pf.String(config.KeyBindPassword, "", "bind password")
	pf.Bool(config.KeyStartTLS, false, "upgrade ldap:// connections with StartTLS")
	pf.Bool(config.KeyInsecure, false, "skip TLS certificate verification")
	pf.Uint32(config.KeyPageSize, config.DefaultPageSize, "search page size")
	pf.Duration(config.KeyTimeout, config.DefaultTimeout, "per-request timeout")
	pf.String(config.KeyLogLevel, config.DefaultLogLevel, "log level (debug, info, warn, error)")
	pf.String(config.KeyLogFormat, config.DefaultLogFormat, "log format (console, json)")

	f := rootCmd.Flags()
	f.StringP(config.KeyOutputDir, "o", config.DefaultOutputDir, "existing directory to write the document to")
	f.StringP(config.KeyFile, "f", "", "output file name ending in .json (default managerof_<timestamp>.json)")
	f.Bool(config.KeyWriteEmpty, false, "write an empty graph document when no user has a manager")
	f.String(config.KeyIndex, "", "also store the edges in this SQLite index")
	f.BoolVar(&exportOpts.passThru, "pass-thru", false, "print the graph document to stdout")
	f.BoolVar(&exportOpts.copy, "copy", false, "copy the graph document to the clipboard")

	rootCmd.AddCommand(seedCmd, versionCmd)
}
