package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pkordes/schengen-tracker/internal/domain"
	"github.com/pkordes/schengen-tracker/internal/schengen"
)

func (a *app) statusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show days used, days remaining and the reset date",
		Args:  cobra.NoArgs,
		RunE:  a.runStatus,
	}
	cmd.Flags().StringVar(&a.date, "date", "", "Evaluate on this date (YYYY-MM-DD, default today)")
	return cmd
}

func (a *app) runStatus(cmd *cobra.Command, _ []string) error {
	if err := a.openStore(cmd.Context()); err != nil {
		return err
	}
	date, err := a.dateOrToday(a.date)
	if err != nil {
		return err
	}

	st, err := a.compliance.Status(cmd.Context(), date)
	if err != nil {
		return err
	}
	a.printf("%s", a.render.RenderStatus(st))
	return nil
}

func (a *app) windowCmd() *cobra.Command {
	var raw string
	cmd := &cobra.Command{
		Use:   "window",
		Short: "Show the trailing 180-day window and its usage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.openStore(cmd.Context()); err != nil {
				return err
			}
			date, err := a.dateOrToday(raw)
			if err != nil {
				return err
			}
			w, err := a.compliance.Window(cmd.Context(), date)
			if err != nil {
				return err
			}
			a.printf("%s", a.render.RenderWindow(w))
			return nil
		},
	}
	cmd.Flags().StringVar(&raw, "date", "", "Window ending on this date (default today)")
	return cmd
}

func (a *app) checkCmd() *cobra.Command {
	var exclude string
	cmd := &cobra.Command{
		Use:   "check START END",
		Short: "Check whether a planned trip fits the 90/180 allowance",
		Long: "Check whether a planned trip from START to END (inclusive) would keep every\n" +
			"day within the allowance. Exits non-zero when it would not.",
		Args: cobra.ExactArgs(2),
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
			excludeID := uuid.Nil
			if exclude != "" {
				if excludeID, err = uuid.Parse(exclude); err != nil {
					return fmt.Errorf("--exclude: %w", err)
				}
			}

			v, err := a.compliance.ValidateTrip(cmd.Context(), start, end, excludeID)
			if err != nil {
				return err
			}
			a.printf("%s", a.render.RenderValidation(args[0], args[1], v))
			if !v.Valid {
				return fmt.Errorf("trip would exceed %d days", schengen.MaxStayDays)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&exclude, "exclude", "", "Leave this trip ID out, when re-checking an edit")
	return cmd
}

func (a *app) resetCmd() *cobra.Command {
	var raw string
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Find the first day with allowance left",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.openStore(cmd.Context()); err != nil {
				return err
			}
			date, err := a.dateOrToday(raw)
			if err != nil {
				return err
			}
			reset, found, err := a.compliance.ResetDate(cmd.Context(), date)
			if err != nil {
				return err
			}
			if !found {
				a.printf("No day with allowance left within %d days of %s\n",
					schengen.ResetHorizonDays, domain.FormatDate(date))
				return nil
			}
			a.printf("%s\n", domain.FormatDate(reset))
			return nil
		},
	}
	cmd.Flags().StringVar(&raw, "date", "", "Search from this date (default today)")
	return cmd
}

func (a *app) timelineCmd() *cobra.Command {
	var rawFrom, rawTo string
	cmd := &cobra.Command{
		Use:   "timeline",
		Short: "Show usage for every day of a range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.openStore(cmd.Context()); err != nil {
				return err
			}
			from, err := a.dateOrToday(rawFrom)
			if err != nil {
				return err
			}
			to := domain.AddDays(from, 29)
			if rawTo != "" {
				if to, err = domain.ParseDate(rawTo); err != nil {
					return err
				}
			}
			days, err := a.compliance.Timeline(cmd.Context(), from, to)
			if err != nil {
				return err
			}
			a.printf("%s", a.render.RenderTimeline(days))
			return nil
		},
	}
	cmd.Flags().StringVar(&rawFrom, "from", "", "First day (default today)")
	cmd.Flags().StringVar(&rawTo, "to", "", "Last day (default 30 days from --from)")
	return cmd
}
