package command

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"

	"github.com/flatkv/flatkv-go/internal/telemetry/metric"
)

// DestroyCommand returns the destroy subcommand.
func DestroyCommand() *cli.Command {
	return &cli.Command{
		Name:  "destroy",
		Usage: "Delete the backing file from disk",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "force",
				Aliases: []string{"f"},
				Usage:   "Skip confirmation",
			},
		},
		Action: systemDestroy,
	}
}

// BackupCommand returns the backup subcommand.
func BackupCommand() *cli.Command {
	return &cli.Command{
		Name:  "backup",
		Usage: "Copy the backing file to a timestamped backup",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "keep",
				Aliases: []string{"k"},
				Value:   -1,
				Usage:   "After backing up, keep only the newest N backups",
			},
		},
		Action: systemBackup,
	}
}

// WatchCommand returns the watch subcommand.
func WatchCommand() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Follow external changes to the backing file until interrupted",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "metrics-addr",
				Usage: "Serve Prometheus metrics at this address while watching",
			},
		},
		Action: systemWatch,
	}
}

func systemDestroy(c *cli.Context) error {
	e, err := openStore(c)
	if err != nil {
		return err
	}

	if !c.Bool("force") {
		fmt.Fprintf(c.App.Writer, "Delete %s? [y/N]: ", e.Path())
		var answer string
		fmt.Fscanln(c.App.Reader, &answer)
		if answer != "y" && answer != "Y" {
			fmt.Fprintln(c.App.Writer, "aborted")
			return nil
		}
	}

	if err := e.Destroy(); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "removed %s\n", e.Path())
	return nil
}

func systemBackup(c *cli.Context) error {
	e, err := openStore(c)
	if err != nil {
		return err
	}

	path, err := e.Backup(c.Context)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, path)

	if keep := c.Int("keep"); keep >= 0 {
		removed, err := e.PruneBackups(keep)
		if err != nil {
			return err
		}
		if removed > 0 {
			fmt.Fprintf(c.App.Writer, "pruned %d old backups\n", removed)
		}
	}
	return nil
}

func systemWatch(c *cli.Context) error {
	registry := prometheus.NewRegistry()
	e, err := openStoreWithMetrics(c, metric.NewStore(registry))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if addr := c.String("metrics-addr"); addr != "" {
		go func() {
			handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
			if err := http.ListenAndServe(addr, handler); err != nil {
				fmt.Fprintf(c.App.ErrWriter, "metrics server: %v\n", err)
			}
		}()
	}

	fmt.Fprintf(c.App.Writer, "watching %s\n", e.Path())
	err = e.Watch(ctx, func() {
		fmt.Fprintf(c.App.Writer, "reloaded, %d entries\n", e.Count())
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
