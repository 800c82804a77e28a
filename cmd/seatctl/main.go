package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"
)

const (
	envServer = "SEATROTA_URL"
	envUser   = "SEATROTA_USER"

	defaultServer = "http://localhost:8080"
)

var exampleUsage = strings.TrimSpace(`
  seatctl schedule 2026-03-05
  seatctl schedule next --batch 1 --from 2026-03-05
  seatctl --user u-17 schedule next
  seatctl --user u-17 book 2026-03-05
  seatctl --user admin-1 autobook
  seatctl migrate
`)

type globalOptions struct {
	server string
	user   string
}

func addGlobalFlags(fs *pflag.FlagSet, opts *globalOptions) {
	fs.StringVar(&opts.server, "server", envOr(envServer, defaultServer), "bookings service base URL (env "+envServer+")")
	fs.StringVar(&opts.user, "user", os.Getenv(envUser), "user id sent as X-User-ID (env "+envUser+")")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func newRootCommand() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:           "seatctl",
		Short:         "Inspect the seat rotation and operate the bookings service",
		Example:       exampleUsage,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	addGlobalFlags(root.PersistentFlags(), opts)

	root.AddCommand(
		newScheduleCommand(opts),
		newSeatsCommand(opts),
		newBookCommand(opts),
		newReleaseCommand(opts),
		newAutobookCommand(opts),
		newStatusCommand(opts),
		newMigrateCommand(),
	)
	return root
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
