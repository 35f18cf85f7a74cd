package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/joho/godotenv"

	"github.com/shadowstrength/storefront/pkg/config"
	"github.com/shadowstrength/storefront/pkg/db"
	"github.com/shadowstrength/storefront/pkg/logger"
	"github.com/shadowstrength/storefront/pkg/migrate"
)

const usage = "up|down|status|current|version|create|validate"

type options struct {
	cmd     string
	dir     string
	name    string
	version string
}

func main() {
	_ = godotenv.Load()

	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if err := run(context.Background(), opts, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	fs.StringVar(&opts.cmd, "cmd", "up", "migration command: "+usage)
	fs.StringVar(&opts.dir, "dir", migrate.DefaultDir, "migrations directory on disk (create|validate)")
	fs.StringVar(&opts.name, "name", "", "migration name (create)")
	fs.StringVar(&opts.version, "version", "", "target version YYYYMMDDHHMMSS, or 0 (version)")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	switch opts.cmd {
	case "create":
		if opts.name == "" {
			return opts, errors.New("-cmd=create needs -name")
		}
	case "version":
		if opts.version == "" {
			return opts, errors.New("-cmd=version needs -version")
		}
	case "up", "down", "status", "current", "validate":
	default:
		return opts, fmt.Errorf("unknown -cmd %q (want %s)", opts.cmd, usage)
	}
	return opts, nil
}

// run handles create and validate offline; every other command needs the
// sql storage driver and its database.
func run(ctx context.Context, opts options, out io.Writer) error {
	switch opts.cmd {
	case "create":
		file, err := migrate.CreateSQLMigration(opts.dir, opts.name)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, "created migration:", file)
		return nil
	case "validate":
		if err := migrate.ValidateDir(opts.dir); err != nil {
			return fmt.Errorf("migration validation failed: %w", err)
		}
		fmt.Fprintln(out, "migration validation passed")
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.Storage.Driver != config.StorageDriverSQL {
		return fmt.Errorf("-cmd=%s requires %s=%s", opts.cmd, config.EnvStorageDriver, config.StorageDriverSQL)
	}
	logg := logger.New(logger.Options{
		ServiceName: "migrate",
		Env:         cfg.App.Env,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx = logg.WithField(ctx, "cmd", opts.cmd)

	client, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer client.Close()
	sqlDB, err := client.SQL()
	if err != nil {
		return err
	}
	migrator, err := migrate.New(sqlDB, client.Dialect())
	if err != nil {
		return err
	}

	var steps []migrate.Step
	switch opts.cmd {
	case "up":
		steps, err = migrator.Up(ctx)
	case "down":
		steps, err = migrator.Down(ctx)
	case "version":
		steps, err = migrator.To(ctx, opts.version)
	case "current":
		var current int64
		if current, err = migrator.Version(ctx); err == nil {
			fmt.Fprintln(out, "current version:", current)
		}
	case "status":
		var states []migrate.State
		if states, err = migrator.Status(ctx); err == nil {
			printStatus(out, states)
		}
	}
	migrate.LogSteps(ctx, logg, steps)
	return err
}

func printStatus(out io.Writer, states []migrate.State) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "VERSION\tAPPLIED AT\tFILE")
	for _, st := range states {
		applied := "pending"
		if st.Applied {
			applied = st.AppliedAt.UTC().Format("2006-01-02 15:04:05")
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\n", st.Version, applied, st.File)
	}
	tw.Flush()
}
