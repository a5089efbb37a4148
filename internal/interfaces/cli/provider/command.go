package provider

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	ingestUsecases "github.com/orris-inc/plansearch/internal/application/ingest/usecases"
	"github.com/orris-inc/plansearch/internal/infrastructure/database"
	"github.com/orris-inc/plansearch/internal/infrastructure/repository"
	"github.com/orris-inc/plansearch/internal/interfaces/cli/bootstrap"
	"github.com/orris-inc/plansearch/internal/shared/logger"
)

var (
	flags       bootstrap.Flags
	name        string
	feedURL     string
	description string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "provider",
		Short: "Manage feed providers",
		Long:  `Register feed providers and enable or disable their polling.`,
	}

	flags.Bind(cmd)

	cmd.AddCommand(
		newAddCommand(),
		newListCommand(),
		newSetActiveCommand("enable", "Resume polling a provider", true),
		newSetActiveCommand("disable", "Stop polling a provider", false),
	)

	return cmd
}

func newAddCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a provider",
		RunE:  runAdd,
	}

	cmd.Flags().StringVar(&name, "name", "", "Provider name")
	cmd.Flags().StringVar(&feedURL, "url", "", "Feed URL (http or https)")
	cmd.Flags().StringVar(&description, "description", "", "Optional description")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("url")

	return cmd
}

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List providers",
		RunE:  runList,
	}
}

func newSetActiveCommand(use, short string, active bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <provider-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, cleanup, err := initUseCase()
			if err != nil {
				return err
			}
			defer cleanup()

			if err := uc.SetActive(context.Background(), args[0], active); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "provider %s %sd\n", args[0], use)
			return nil
		},
	}
}

func initUseCase() (*ingestUsecases.ManageProvidersUseCase, func(), error) {
	cfg, log, err := bootstrap.Init(&flags)
	if err != nil {
		return nil, nil, err
	}

	if err := database.Init(&cfg.Database); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	repo := repository.NewCatalogRepository(database.Get(), log)
	cleanup := func() {
		_ = database.Close()
		_ = logger.Sync()
	}
	return ingestUsecases.NewManageProvidersUseCase(repo, log), cleanup, nil
}

func runAdd(cmd *cobra.Command, args []string) error {
	uc, cleanup, err := initUseCase()
	if err != nil {
		return err
	}
	defer cleanup()

	p, err := uc.Create(context.Background(), ingestUsecases.CreateProviderCommand{
		Name:        name,
		URL:         feedURL,
		Description: description,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "provider %s created (%s)\n", p.Name, p.ID)
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	uc, cleanup, err := initUseCase()
	if err != nil {
		return err
	}
	defer cleanup()

	providers, err := uc.List(context.Background())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tACTIVE\tURL")
	for _, p := range providers {
		fmt.Fprintf(w, "%s\t%s\t%t\t%s\n", p.ID, p.Name, p.Active, p.URL)
	}
	return w.Flush()
}
