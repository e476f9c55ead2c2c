package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"managerof/internal/adapters/cli/styles"
	"managerof/internal/application"
	"managerof/internal/application/commands"
	"managerof/internal/config"
	"managerof/internal/domain"
)

var seedOpts struct {
	ou     string
	users  int
	fanout int
	dryRun bool
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create a fictional management hierarchy in a lab OU",
	Long: `Create disabled user accounts under an organizational unit and link each
one to its manager, giving the export something to find. The OU is created
if it does not exist. Intended for lab domains only.

Examples:
  managerof-cli seed --ou "OU=ManagerOfLab,DC=corp,DC=local" --users 50 --fanout 5
  managerof-cli seed --ou "OU=ManagerOfLab,DC=corp,DC=local" --users 13 --dry-run`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSeed(cmd.Context(), cfg, seedOpts.ou, seedOpts.users, seedOpts.fanout, seedOpts.dryRun,
			cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedOpts.ou, "ou", "", "distinguished name of the lab OU")
	seedCmd.Flags().IntVar(&seedOpts.users, "users", 50, "number of people to create")
	seedCmd.Flags().IntVar(&seedOpts.fanout, "fanout", 5, "direct reports per manager")
	seedCmd.Flags().BoolVar(&seedOpts.dryRun, "dry-run", false, "print the hierarchy without writing to the directory")
}

func runSeed(ctx context.Context, cfg *config.Config, ou string, users, fanout int, dryRun bool, stdout, stderr io.Writer) error {
	seed := commands.NewSeedCommand(nil, ou, users, fanout)
	if err := seed.Validate(); err != nil {
		return err
	}

	if dryRun {
		people, err := domain.GenerateHierarchy(users, fanout)
		if err != nil {
			return err
		}
		for _, p := range people {
			manager := p.ManagerName
			if p.IsRoot() {
				manager = "-"
			}
			fmt.Fprintf(stdout, "%s\t%s\t%s\n", p.CommonName, p.Title, manager)
		}
		return nil
	}

	if err := application.ValidateRequired("server", cfg.Server); err != nil {
		return err
	}

	log := zerolog.Ctx(ctx)
	sess, err := openSession(ctx, cfg)
	if err != nil {
		return withCode(exitDirectory, err)
	}
	defer closeLogged(log, "directory session", sess)

	result, err := commands.NewSeedCommand(sess, ou, users, fanout).Execute(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(stderr, styles.SeedSummary(result))
	return nil
}
