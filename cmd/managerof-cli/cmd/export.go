package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/atotto/clipboard"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"managerof/internal/adapters/cli/styles"
	"managerof/internal/adapters/jsonfile"
	"managerof/internal/adapters/ldap"
	"managerof/internal/adapters/sqlite"
	"managerof/internal/application"
	"managerof/internal/application/commands"
	"managerof/internal/config"
	"managerof/internal/ports"
)

var exportOpts struct {
	passThru bool
	copy     bool
}

// session is a connected directory that can be read and, for seeding, written
type session interface {
	ports.Directory
	ports.DirectoryWriter
}

// openSession connects to the configured directory
var openSession = func(ctx context.Context, cfg *config.Config) (session, error) {
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
	zerolog.Ctx(ctx).Info().
		Str("server", cfg.Server).
		Str("search_base", dir.SearchBase()).
		Msg("connected to directory")
	return dir, nil
}

func runExportCmd(cmd *cobra.Command, args []string) error {
	return runExport(cmd.Context(), cfg, exportOpts.passThru, exportOpts.copy, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

func runExport(ctx context.Context, cfg *config.Config, passThru, copyDoc bool, stdout, stderr io.Writer) error {
	log := zerolog.Ctx(ctx)

	if err := checkExportConfig(cfg); err != nil {
		return withCode(exitConfig, err)
	}

	opts := []commands.ExportOption{
		commands.WithWriteEmpty(cfg.WriteEmpty),
		commands.WithRunID(runID),
	}
	if cfg.IndexPath != "" {
		idx := sqlite.NewIndex()
		if err := idx.Open(cfg.IndexPath); err != nil {
			return withCode(exitConfig, err)
		}
		defer closeLogged(log, "edge index", idx)
		log.Debug().Str("index", idx.Path()).Msg("opened edge index")
		opts = append(opts, commands.WithIndex(idx))
	}

	sess, err := openSession(ctx, cfg)
	if err != nil {
		return withCode(exitDirectory, err)
	}
	defer closeLogged(log, "directory session", sess)

	result, err := commands.NewExportCommand(sess, sess, jsonfile.NewWriter(), cfg.OutputDir, cfg.FileName, opts...).Execute(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(stderr, styles.ExportSummary(result))

	if result.Document == nil || (!passThru && !copyDoc) {
		return nil
	}

	body, err := jsonfile.Marshal(result.Document)
	if err != nil {
		return err
	}
	if passThru {
		if _, err := stdout.Write(body); err != nil {
			return err
		}
	}
	if copyDoc {
		if err := clipboard.WriteAll(string(body)); err != nil {
			log.Debug().Err(err).Msg("clipboard write failed")
			fmt.Fprintln(stderr, styles.Warn("Could not copy document to clipboard: "+err.Error()))
		} else {
			fmt.Fprintln(stderr, styles.MutedText.Render("Copied document to clipboard"))
		}
	}
	return nil
}

// checkExportConfig rejects unusable settings before any connection is made
func checkExportConfig(cfg *config.Config) error {
	if err := application.ValidateRequired("server", cfg.Server); err != nil {
		return err
	}
	if err := application.ValidateOutputDir(cfg.OutputDir); err != nil {
		return err
	}
	return application.ValidateFileName(cfg.FileName)
}

func closeLogged(log *zerolog.Logger, what string, c io.Closer) {
	if err := c.Close(); err != nil {
		log.Warn().Err(err).Msgf("failed to close %s", what)
	}
}
