// Package main is the entry point for the ContaCerta demo data seeder.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/contacerta/backend/config"
	"github.com/contacerta/backend/internal/infra/db"
	"github.com/contacerta/backend/internal/integration/adapters"
)

var (
	seedEmail       string
	seedPassword    string
	seedFriendEmail string

	rootCmd = &cobra.Command{
		Use:   "seed",
		Short: "Populate the database with a demo account",
		Long: `seed creates a demo user with cards, categories and a month of expenses.

Expenses go through the same allocation engine as the API, so installments,
invoices and remaining limits are consistent. A second user is created to
receive a share of a split purchase. Running it again for an existing demo
user does nothing.`,
		SilenceUsage: true,
		RunE:         runSeed,
	}
)

func init() {
	rootCmd.Flags().StringVar(&seedEmail, "email", "lucas@contacerta.dev", "demo user email")
	rootCmd.Flags().StringVar(&seedPassword, "password", "senha12345", "demo user password")
	rootCmd.Flags().StringVar(&seedFriendEmail, "friend-email", "maria@contacerta.dev", "email of the user sharing a split purchase")
}

func main() {
	// Load .env file if it exists (development only)
	_ = godotenv.Load()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runSeed(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()

	database, err := db.NewConnection(&cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := database.Close(); closeErr != nil {
			slog.Error("failed to close database", "error", closeErr)
		}
	}()

	if err := database.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	s := newSeeder(database.DB(), cfg.Billing.Policy(), adapters.NewPasswordService(cfg.Password.BcryptCost, cfg.Password.MinLength))
	summary, err := s.Run(cmd.Context(), seedAccount{
		Email:       seedEmail,
		Password:    seedPassword,
		FriendEmail: seedFriendEmail,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if summary.AlreadySeeded {
		fmt.Fprintf(out, "%s already exists, nothing to do\n", seedEmail)
		return nil
	}
	fmt.Fprintf(out, "Seeded %s (password %q)\n", seedEmail, seedPassword)
	fmt.Fprintf(out, "  cards:      %d\n", summary.Cards)
	fmt.Fprintf(out, "  categories: %d\n", summary.Categories)
	fmt.Fprintf(out, "  expenses:   %d\n", summary.Expenses)
	for _, card := range summary.Limits {
		fmt.Fprintf(out, "  %s: %s of %s remaining\n", card.Name, card.Remaining.StringFixed(2), card.Total.StringFixed(2))
	}
	return nil
}
