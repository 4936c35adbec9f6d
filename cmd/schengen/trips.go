package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pkordes/schengen-tracker/internal/cli"
	"github.com/pkordes/schengen-tracker/internal/domain"
)

func (a *app) tripsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trips",
		Short: "Manage recorded trips",
	}
	cmd.AddCommand(
		a.tripsListCmd(),
		a.tripsAddCmd(),
		a.tripsRmCmd(),
		a.tripsClearCmd(),
		a.tripsImportCmd(),
	)
	return cmd
}

func (a *app) tripsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List trips, oldest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.openStore(cmd.Context()); err != nil {
				return err
			}
			trips, err := a.trips.List(cmd.Context())
			if err != nil {
				return err
			}
			a.printf("%s", a.render.RenderTrips(trips))
			return nil
		},
	}
}

func (a *app) tripsAddCmd() *cobra.Command {
	var name, icon string
	cmd := &cobra.Command{
		Use:   "add START END",
		Short: "Record a trip from START to END inclusive",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.openStore(cmd.Context()); err != nil {
				return err
			}
			start, err := domain.ParseDate(args[0])
			if err != nil {
				return err
			}
			end, err := domain.ParseDate(args[1])
			if err != nil {
				return err
			}

			trip, err := a.trips.Create(cmd.Context(), domain.Trip{
				Name: name, Icon: icon, StartDate: start, EndDate: end,
			})
			if err != nil {
				return err
			}
			a.log.Debug("trip created", "id", trip.ID, "days", trip.Days)
			a.printf("Added %s: %s to %s (%d days) %s\n", cli.TripLabel(trip),
				domain.FormatDate(trip.StartDate), domain.FormatDate(trip.EndDate), trip.Days, trip.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Trip name")
	cmd.Flags().StringVar(&icon, "icon", "", "Trip icon, e.g. a flag emoji")
	return cmd
}

func (a *app) tripsRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"remove"},
		Short:   "Delete a trip",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid trip id %q: %w", args[0], err)
			}
			if err := a.openStore(cmd.Context()); err != nil {
				return err
			}
			if err := a.trips.Delete(cmd.Context(), id); err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return fmt.Errorf("no trip with id %s", id)
				}
				return err
			}
			a.printf("Deleted %s\n", id)
			return nil
		},
	}
}

func (a *app) tripsClearCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every trip",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return errors.New("refusing to delete every trip without --yes")
			}
			if err := a.openStore(cmd.Context()); err != nil {
				return err
			}
			n, err := a.trips.Clear(cmd.Context())
			if err != nil {
				return err
			}
			a.printf("Deleted %d trips\n", n)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm deletion")
	return cmd
}

func (a *app) tripsImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE.yaml",
		Short: "Record every trip listed in a YAML file",
		Long: "Record every trip listed in a YAML file, in order. Import stops at the\n" +
			"first trip that fails validation; trips before it stay recorded.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			parsed, err := cli.ParseTripFile(f)
			if err != nil {
				return err
			}
			if err := a.openStore(cmd.Context()); err != nil {
				return err
			}
			n, err := a.trips.Import(cmd.Context(), parsed)
			a.printf("Imported %d of %d trips\n", n, len(parsed))
			return err
		},
	}
}
