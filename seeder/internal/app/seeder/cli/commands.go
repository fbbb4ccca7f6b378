package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

type SeedOptions struct {
	Users      int
	Shops      int
	Bookings   int
	Seed       int64
	CleanFirst bool
}

func (o SeedOptions) validate() error {
	if o.Users < 0 || o.Shops < 0 || o.Bookings < 0 {
		return fmt.Errorf("counts must not be negative")
	}
	if o.Bookings > 0 && (o.Users == 0 || o.Shops == 0) {
		return fmt.Errorf("bookings need at least one user and one shop")
	}
	return nil
}

// Runner does the actual work behind the commands.
type Runner interface {
	Seed(ctx context.Context, opts SeedOptions) error
	Clean(ctx context.Context, audit bool) error
}

func NewRootCommand(runner Runner) *cobra.Command {
	root := &cobra.Command{
		Use:           "seeder",
		Short:         "Generate BarbersBuddies demo data",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newSeedCommand(runner), newCleanCommand(runner))
	return root
}

func newSeedCommand(runner Runner) *cobra.Command {
	opts := SeedOptions{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert demo users, shops, bookings, ratings and messages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.validate(); err != nil {
				return err
			}
			if opts.CleanFirst {
				if err := runner.Clean(cmd.Context(), false); err != nil {
					return err
				}
			}
			return runner.Seed(cmd.Context(), opts)
		},
	}

	cmd.Flags().IntVar(&opts.Users, "users", 50, "number of user accounts")
	cmd.Flags().IntVar(&opts.Shops, "shops", 5, "number of barber shops")
	cmd.Flags().IntVar(&opts.Bookings, "bookings", 200, "number of bookings to attempt")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 1, "random seed; the same seed yields the same data")
	cmd.Flags().BoolVar(&opts.CleanFirst, "clean", false, "drop seeded collections first")
	return cmd
}

func newCleanCommand(runner Runner) *cobra.Command {
	var audit bool

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Drop the seeded collections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runner.Clean(cmd.Context(), audit)
		},
	}

	cmd.Flags().BoolVar(&audit, "audit", false, "also truncate the reminder audit table")
	return cmd
}
