package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/AdamBeresnev/matchday/internal/config"
	"github.com/AdamBeresnev/matchday/internal/db"
	"github.com/AdamBeresnev/matchday/internal/service"
	"github.com/AdamBeresnev/matchday/internal/store"
	"github.com/jmoiron/sqlx"
	"github.com/urfave/cli/v2"
)

const (
	phaseFlag        = "phase"
	championshipFlag = "championship"
	outputFlag       = "output"
	stdoutCLIName    = "-"
)

var build string
var semanticVersion = "v0.1.0-dev" + build

var phaseIDFlag = &cli.StringFlag{
	Name:     phaseFlag,
	Aliases:  []string{"p"},
	Usage:    "ID of the phase",
	Required: true,
}

type app struct {
	cfg *config.Config
}

// open connects to the configured database. Migrations are left to the
// migrate command.
func (a *app) open() (*sqlx.DB, *store.Collections, error) {
	database, err := db.InitDB(a.cfg.DatabaseDriver, a.cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	return database, store.NewCollections(store.NewSQLRecordStore(database)), nil
}

func (a *app) migrate(cCtx *cli.Context) error {
	database, err := db.InitDB(a.cfg.DatabaseDriver, a.cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := db.RunMigrations(database.DB, a.cfg.DatabaseDriver, a.cfg.MigrationsPath); err != nil {
		return err
	}
	fmt.Fprintln(cCtx.App.Writer, "Migrations applied")
	return nil
}

func (a *app) appendRound(cCtx *cli.Context) error {
	database, records, err := a.open()
	if err != nil {
		return err
	}
	defer database.Close()

	round, err := service.NewRoundRegistry(records).Append(cCtx.Context, cCtx.String(phaseFlag))
	if err != nil {
		return err
	}
	fmt.Fprintf(cCtx.App.Writer, "Round %d added\n", round)
	return nil
}

func (a *app) listRounds(cCtx *cli.Context) error {
	database, records, err := a.open()
	if err != nil {
		return err
	}
	defer database.Close()

	rounds, err := service.NewRoundRegistry(records).List(cCtx.Context, cCtx.String(phaseFlag))
	if err != nil {
		return err
	}
	if len(rounds) == 0 {
		fmt.Fprintln(cCtx.App.Writer, "No rounds")
		return nil
	}
	for _, r := range rounds {
		fmt.Fprintf(cCtx.App.Writer, "Round %d\n", r)
	}
	return nil
}

func (a *app) progress(cCtx *cli.Context) error {
	database, records, err := a.open()
	if err != nil {
		return err
	}
	defer database.Close()

	rounds := service.NewRoundRegistry(records)
	progress := service.NewProgressService(rounds, service.NewMatchService(records, rounds))
	pct, err := progress.PercentComplete(cCtx.Context, cCtx.String(phaseFlag))
	if err != nil {
		return err
	}
	fmt.Fprintf(cCtx.App.Writer, "%d%%\n", pct)
	return nil
}

func (a *app) export(cCtx *cli.Context) error {
	database, records, err := a.open()
	if err != nil {
		return err
	}
	defer database.Close()

	export, err := buildExport(cCtx.Context, records, cCtx.String(championshipFlag), cCtx.String(phaseFlag))
	if err != nil {
		return err
	}

	outputLocation := cCtx.String(outputFlag)
	var outputWriter io.WriteCloser = nopCloser{cCtx.App.Writer}
	if outputLocation != stdoutCLIName {
		outputWriter = newLazyWriteCloser(func() (io.WriteCloser, error) {
			return os.OpenFile(outputLocation, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
		})
	}
	if err := writeExport(outputWriter, export); err != nil {
		outputWriter.Close()
		return err
	}
	return outputWriter.Close()
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

func newApp() *cli.App {
	a := &app{}
	return &cli.App{
		Name:    "leaguectl",
		Usage:   "Operate on the league record store",
		Version: semanticVersion,
		Before: func(cCtx *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			a.cfg = cfg
			slog.SetDefault(slog.New(slog.NewTextHandler(cCtx.App.ErrWriter, &slog.HandlerOptions{Level: cfg.LogLevel})))
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:   "migrate",
				Usage:  "Apply pending database migrations",
				Action: a.migrate,
			},
			{
				Name:  "rounds",
				Usage: "Inspect or extend the rounds of a phase",
				Subcommands: []*cli.Command{
					{
						Name:   "append",
						Usage:  "Register the next round of a phase",
						Flags:  []cli.Flag{phaseIDFlag},
						Action: a.appendRound,
					},
					{
						Name:   "list",
						Usage:  "List the rounds of a phase",
						Flags:  []cli.Flag{phaseIDFlag},
						Action: a.listRounds,
					},
				},
			},
			{
				Name:   "progress",
				Usage:  "Print the percentage of finished matches in a phase",
				Flags:  []cli.Flag{phaseIDFlag},
				Action: a.progress,
			},
			{
				Name:  "export",
				Usage: "Dump a phase's rounds and matches as YAML",
				Flags: []cli.Flag{
					phaseIDFlag,
					&cli.StringFlag{
						Name:    championshipFlag,
						Aliases: []string{"c"},
						Usage:   "Championship of the phase, to include its name and groups",
					},
					&cli.StringFlag{
						Name:    outputFlag,
						Aliases: []string{"o"},
						Usage:   "The location to write the YAML result. Can be a file path or \"-\" (for stdout).",
						Value:   stdoutCLIName,
					},
				},
				Action: a.export,
			},
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
