package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	mongoMigration "seatrota/internal/migrations/mongo"
	postgresMigration "seatrota/internal/migrations/postgres"
	"seatrota/internal/schedule"
	"seatrota/pkg/client"
	"seatrota/pkg/config"
	"seatrota/pkg/model"
	"seatrota/pkg/sanitizer"

	"github.com/spf13/cobra"
)

func parseDay(s string) (time.Time, error) {
	d, err := model.ParseDay(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return d, nil
}

func todayUTC() time.Time {
	return model.Day(time.Now(), time.UTC)
}

// printResponse pretty-prints a JSON body, or returns the API error.
func printResponse(out io.Writer, resp *client.Response) error {
	if err := client.CheckStatus(resp); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, resp.Body, "", "  "); err != nil {
		_, werr := out.Write(resp.Body)
		return werr
	}
	buf.WriteByte('\n')
	_, err := buf.WriteTo(out)
	return err
}

func requireUser(opts *globalOptions) error {
	if opts.user == "" {
		return fmt.Errorf("--user is required for this command")
	}
	opts.user = sanitizer.UserID(opts.user)
	if opts.user == "" {
		return fmt.Errorf("--user is not a valid user id")
	}
	return nil
}

func newScheduleCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule [date]",
		Short: "Show which batch is scheduled on a date (default today, UTC)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date := todayUTC()
			if len(args) == 1 {
				var err error
				if date, err = parseDay(args[0]); err != nil {
					return err
				}
			}
			info := schedule.DescribeDay(date)
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s, week %d): %s\n", info.Date, info.DayOfWeek, info.WeekOfMonth, info.Message)
			return nil
		},
	}

	var batch int
	var from string
	next := &cobra.Command{
		Use:   "next",
		Short: "Show the next scheduled day for a batch, or for --user when --batch is omitted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if batch == 0 {
				if from != "" {
					return fmt.Errorf("--from requires --batch")
				}
				if err := requireUser(opts); err != nil {
					return err
				}
				resp, err := client.NewSeatClient(opts.server, opts.user).NextScheduled()
				if err != nil {
					return err
				}
				return printResponse(cmd.OutOrStdout(), resp)
			}
			if !schedule.Batch(batch).Valid() {
				return fmt.Errorf("--batch must be 1 or 2")
			}
			start := todayUTC()
			if from != "" {
				var err error
				if start, err = parseDay(from); err != nil {
					return err
				}
			}
			day, ok := schedule.NextScheduledDate(&model.User{BatchNumber: batch}, start)
			if !ok {
				fmt.Fprintf(cmd.OutOrStdout(), "Batch %d has no scheduled day within %d days\n", batch, schedule.MaxLookahead)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Batch %d is next scheduled on %s (%s)\n", batch, day.Format(model.DateLayout), day.Weekday())
			return nil
		},
	}
	next.Flags().IntVar(&batch, "batch", 0, "batch number (1 or 2)")
	next.Flags().StringVar(&from, "from", "", "start date YYYY-MM-DD (default today)")
	cmd.AddCommand(next)

	return cmd
}

func newSeatsCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seats <date>",
		Short: "Show the occupancy of all 50 seats on a date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(opts); err != nil {
				return err
			}
			resp, err := client.NewSeatClient(opts.server, opts.user).SeatStatus(args[0])
			if err != nil {
				return err
			}
			return printResponse(cmd.OutOrStdout(), resp)
		},
	}
}

func newBookCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "book <date>",
		Short: "Book a spare seat for --user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(opts); err != nil {
				return err
			}
			resp, err := client.NewSeatClient(opts.server, opts.user).BookSpare(args[0])
			if err != nil {
				return err
			}
			return printResponse(cmd.OutOrStdout(), resp)
		},
	}
}

func newReleaseCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "release <date>",
		Short: "Release --user's seat on a date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(opts); err != nil {
				return err
			}
			resp, err := client.NewSeatClient(opts.server, opts.user).Release(args[0])
			if err != nil {
				return err
			}
			return printResponse(cmd.OutOrStdout(), resp)
		},
	}
}

func newAutobookCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "autobook [date]",
		Short: "Run auto-booking now (admin --user required)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(opts); err != nil {
				return err
			}
			date := ""
			if len(args) == 1 {
				if _, err := parseDay(args[0]); err != nil {
					return err
				}
				date = args[0]
			}
			resp, err := client.NewSeatClient(opts.server, opts.user).TriggerAutoBooking(date)
			if err != nil {
				return err
			}
			return printResponse(cmd.OutOrStdout(), resp)
		},
	}
}

func newStatusCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show service uptime and the last auto-booking run (admin --user required)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(opts); err != nil {
				return err
			}
			resp, err := client.NewSeatClient(opts.server, opts.user).SystemStatus()
			if err != nil {
				return err
			}
			return printResponse(cmd.OutOrStdout(), resp)
		},
	}
}

func newMigrateCommand() *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create collections, tables and indexes for STORAGE_DRIVER",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			cfg := config.Load("seatctl")
			cfg.Connect()
			defer cfg.GracefulShutdown()

			switch cfg.StorageDriver {
			case config.StorageMongo:
				return mongoMigration.RunMigration(ctx, cfg.Client.Mongo, cfg.MongoDatabaseName, cfg.Log)
			case config.StoragePostgres:
				return postgresMigration.RunMigration(ctx, cfg.Client.Postgres, cfg.Log)
			default:
				return fmt.Errorf("storage driver %q has no schema", cfg.StorageDriver)
			}
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall migration timeout")
	return cmd
}
