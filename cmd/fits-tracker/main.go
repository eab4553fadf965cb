// Command fits-tracker collects daily Fights in Tight Spaces leaderboard
// snapshots from PlayFab, maintains weekly/monthly aggregates, serves the
// read API, and exports stored data.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/fits-community/fits-tracker/internal/api"
	"github.com/fits-community/fits-tracker/internal/cache"
	"github.com/fits-community/fits-tracker/internal/config"
	"github.com/fits-community/fits-tracker/internal/metrics"
	"github.com/fits-community/fits-tracker/internal/playfab"
	"github.com/fits-community/fits-tracker/internal/repository"
	"github.com/fits-community/fits-tracker/internal/service/aggregator"
	"github.com/fits-community/fits-tracker/internal/service/export"
	"github.com/fits-community/fits-tracker/internal/service/fetcher"
	"github.com/fits-community/fits-tracker/pkg/logger"
)

const dateLayout = "2006-01-02"

func main() {
	app := &cli.App{
		Name:  "fits-tracker",
		Usage: "Fights in Tight Spaces daily leaderboard tracker",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "path to config file",
			},
		},
		Commands: []*cli.Command{
			fetchCommand(),
			playerCommand(),
			aggregateCommand(),
			reportCommand(),
			exportCommand(),
			serveCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads config, initializes logging and opens the database. Fatal
// configuration problems surface here, before any work starts.
func setup(c *cli.Context, initDB bool) (*config.Config, *repository.DB, *logger.Logger, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, nil, nil, err
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	log := logger.Get()

	db, err := repository.NewDB(&cfg.Database, log)
	if err != nil {
		return nil, nil, nil, err
	}

	if initDB {
		if err := db.AutoMigrate(); err != nil {
			db.Close()
			return nil, nil, nil, fmt.Errorf("failed to initialize schema: %w", err)
		}
		log.Info().Msg("Database schema initialized")
	}

	return cfg, db, log, nil
}

func fetchCommand() *cli.Command {
	return &cli.Command{
		Name:  "fetch",
		Usage: "fetch daily leaderboard snapshots",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "date", Usage: "stat date (YYYY-MM-DD), defaults to today"},
			&cli.StringFlag{Name: "from", Usage: "range start (YYYY-MM-DD)"},
			&cli.StringFlag{Name: "to", Usage: "range end (YYYY-MM-DD)"},
			&cli.BoolFlag{Name: "execute", Usage: "perform real API calls (default is dry-run)"},
			&cli.BoolFlag{Name: "init-db", Usage: "initialize the database schema first"},
			&cli.BoolFlag{Name: "quiet", Usage: "suppress per-date summary lines"},
		},
		Action: func(c *cli.Context) error {
			dates, err := resolveDates(c)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}

			cfg, db, log, err := setup(c, c.Bool("init-db"))
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			defer db.Close()

			dryRun := !c.Bool("execute")
			if !dryRun && cfg.PlayFab.SecretKey == "" {
				return cli.Exit("PLAYFAB_SECRET_KEY is required with --execute", 1)
			}

			client := playfab.NewClient(&cfg.PlayFab, dryRun, log)
			playerRepo := repository.NewPlayerRepository(db)
			svc := fetcher.NewService(
				client,
				playerRepo,
				repository.NewScoreRepository(db),
				repository.NewRunRepository(db),
				cfg.Fetch.PageSize,
				cfg.Fetch.PageDelay(),
				cfg.Fetch.StatisticPrefix,
				log,
			)

			failed := 0
			for _, date := range dates {
				summary := svc.FetchDate(context.Background(), date)
				if !summary.Success {
					failed++
				}
				if !c.Bool("quiet") {
					printSummary(date, summary)
				}
			}

			if !dryRun {
				if n, err := playerRepo.Count(); err == nil {
					metrics.KnownPlayers.Set(float64(n))
				}
			}

			if failed > 0 {
				return cli.Exit(fmt.Sprintf("%d of %d dates failed", failed, len(dates)), 1)
			}
			return nil
		},
	}
}

func printSummary(date time.Time, s fetcher.Summary) {
	switch {
	case s.DryRun:
		fmt.Printf("%s: dry-run, nothing fetched\n", date.Format(dateLayout))
	case s.Success:
		fmt.Printf("%s: ok, %d entries (%d players, %d scores updated)\n",
			date.Format(dateLayout), s.TotalEntries, s.PlayersUpdated, s.ScoresUpdated)
	default:
		fmt.Printf("%s: FAILED, kept %d entries (%d players, %d scores updated)\n",
			date.Format(dateLayout), s.TotalEntries, s.PlayersUpdated, s.ScoresUpdated)
	}
}

func playerCommand() *cli.Command {
	return &cli.Command{
		Name:  "player",
		Usage: "show the leaderboard window around one player",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "id", Usage: "PlayFab ID of the player", Required: true},
			&cli.StringFlag{Name: "date", Usage: "stat date (YYYY-MM-DD), defaults to today"},
			&cli.IntFlag{Name: "window", Value: 10, Usage: "number of surrounding entries"},
			&cli.BoolFlag{Name: "execute", Usage: "perform real API calls (default is dry-run)"},
		},
		Action: func(c *cli.Context) error {
			date := time.Now().UTC()
			if raw := c.String("date"); raw != "" {
				parsed, err := time.ParseInLocation(dateLayout, raw, time.UTC)
				if err != nil {
					return cli.Exit(fmt.Sprintf("invalid --date: %s", raw), 1)
				}
				date = parsed
			}

			cfg, db, log, err := setup(c, false)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			defer db.Close()

			dryRun := !c.Bool("execute")
			if !dryRun && cfg.PlayFab.SecretKey == "" {
				return cli.Exit("PLAYFAB_SECRET_KEY is required with --execute", 1)
			}

			client := playfab.NewClient(&cfg.PlayFab, dryRun, log)
			svc := fetcher.NewService(
				client,
				repository.NewPlayerRepository(db),
				repository.NewScoreRepository(db),
				repository.NewRunRepository(db),
				cfg.Fetch.PageSize,
				cfg.Fetch.PageDelay(),
				cfg.Fetch.StatisticPrefix,
				log,
			)

			rows, wasDryRun, err := svc.AroundPlayer(context.Background(), c.String("id"), date, c.Int("window"))
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			if wasDryRun {
				fmt.Printf("%s: dry-run, nothing fetched\n", date.Format(dateLayout))
				return nil
			}

			for _, row := range rows {
				name := "(unknown)"
				if row.DisplayName != nil {
					name = *row.DisplayName
				}
				fmt.Printf("%4d. %10d  %s (%s)\n", row.Position+1, row.Score, name, row.PlayFabID)
			}
			return nil
		},
	}
}

func aggregateCommand() *cli.Command {
	return &cli.Command{
		Name:  "aggregate",
		Usage: "rebuild weekly/monthly aggregates",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "date", Usage: "anchor date (YYYY-MM-DD), defaults to today"},
			&cli.BoolFlag{Name: "week", Usage: "aggregate the week containing the anchor date"},
			&cli.BoolFlag{Name: "month", Usage: "aggregate the month containing the anchor date"},
			&cli.BoolFlag{Name: "all", Usage: "aggregate every stored week and month"},
		},
		Action: func(c *cli.Context) error {
			if !c.Bool("week") && !c.Bool("month") && !c.Bool("all") {
				return cli.Exit("one of --week, --month or --all is required", 1)
			}

			anchor := time.Now().UTC()
			if raw := c.String("date"); raw != "" {
				parsed, err := time.ParseInLocation(dateLayout, raw, time.UTC)
				if err != nil {
					return cli.Exit(fmt.Sprintf("invalid --date: %s", raw), 1)
				}
				anchor = parsed
			}

			_, db, log, err := setup(c, false)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			defer db.Close()

			svc := aggregator.NewService(
				repository.NewScoreRepository(db),
				repository.NewAggregateRepository(db),
				log,
			)

			if c.Bool("all") {
				if err := svc.AggregateAllWeeks(); err != nil {
					return cli.Exit(err.Error(), 1)
				}
				if err := svc.AggregateAllMonths(); err != nil {
					return cli.Exit(err.Error(), 1)
				}
				return nil
			}
			if c.Bool("week") {
				if err := svc.AggregateWeek(anchor); err != nil {
					return cli.Exit(err.Error(), 1)
				}
			}
			if c.Bool("month") {
				if err := svc.AggregateMonth(anchor); err != nil {
					return cli.Exit(err.Error(), 1)
				}
			}
			return nil
		},
	}
}

func reportCommand() *cli.Command {
	return &cli.Command{
		Name:  "report",
		Usage: "print period statistics (champion, podiums, consistency)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "date", Usage: "anchor date (YYYY-MM-DD), defaults to today"},
			&cli.BoolFlag{Name: "week", Usage: "report on the week containing the anchor date"},
			&cli.BoolFlag{Name: "month", Usage: "report on the month containing the anchor date"},
			&cli.StringFlag{Name: "output", Usage: "write the report as JSON to this file"},
		},
		Action: func(c *cli.Context) error {
			if c.Bool("week") == c.Bool("month") {
				return cli.Exit("exactly one of --week or --month is required", 1)
			}

			anchor := time.Now().UTC()
			if raw := c.String("date"); raw != "" {
				parsed, err := time.ParseInLocation(dateLayout, raw, time.UTC)
				if err != nil {
					return cli.Exit(fmt.Sprintf("invalid --date: %s", raw), 1)
				}
				anchor = parsed
			}

			_, db, log, err := setup(c, false)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			defer db.Close()

			svc := aggregator.NewService(
				repository.NewScoreRepository(db),
				repository.NewAggregateRepository(db),
				log,
			)

			var rpt *aggregator.PeriodReport
			if c.Bool("week") {
				rpt, err = svc.WeekReport(anchor)
			} else {
				rpt, err = svc.MonthReport(anchor)
			}
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}

			if path := c.String("output"); path != "" {
				payload, err := json.MarshalIndent(rpt, "", "  ")
				if err != nil {
					return cli.Exit(err.Error(), 1)
				}
				if err := os.WriteFile(path, payload, 0o644); err != nil {
					return cli.Exit(fmt.Sprintf("failed to write report: %v", err), 1)
				}
				fmt.Printf("report saved to %s\n", path)
				return nil
			}

			printReport(rpt)
			return nil
		},
	}
}

func printReport(rpt *aggregator.PeriodReport) {
	fmt.Printf("Period: %s to %s\n\n", rpt.PeriodStart.Format(dateLayout), rpt.PeriodEnd.Format(dateLayout))

	if rpt.Champion != nil {
		fmt.Printf("Champion: %s\n", displayName(rpt.Champion.DisplayName, rpt.Champion.PlayFabID))
		fmt.Printf("  First place wins: %d (%.1f%%)\n\n", rpt.Champion.FirstPlaces, rpt.Champion.WinPercentage)
	}

	if len(rpt.DailyWinners) > 0 {
		fmt.Println("Daily winners:")
		for _, w := range rpt.DailyWinners {
			fmt.Printf("  %s: %s (%d points)\n", w.StatDate.Format(dateLayout), displayName(w.DisplayName, w.PlayFabID), w.Score)
		}
		fmt.Println()
	}

	printCounts("First place finishes:", rpt.TopFirstPlaces, "wins")
	printCounts("Podium finishes (top 3):", rpt.TopPodiums, "podiums")
	printCounts("Top 10 finishes:", rpt.TopTens, "top 10s")

	if len(rpt.MostConsistent) > 0 {
		fmt.Println("Most consistent players:")
		for i, p := range rpt.MostConsistent {
			fmt.Printf("  %2d. %-30s - %d days, avg %d pts\n",
				i+1, displayName(p.DisplayName, p.PlayFabID), p.DaysPlayed, p.AverageScore)
		}
		fmt.Println()
	}

	fmt.Println("Participation:")
	fmt.Printf("  Unique players: %d\n", rpt.Participation.UniquePlayers)
	fmt.Printf("  Days tracked: %d\n", rpt.Participation.DaysTracked)
	fmt.Printf("  Average daily participants: %.1f\n", rpt.Participation.AvgDailyParticipants)

	if rpt.Scores != nil {
		fmt.Println()
		fmt.Println("Scores:")
		fmt.Printf("  Recorded: %d\n", rpt.Scores.ScoresRecorded)
		fmt.Printf("  Average: %d\n", rpt.Scores.AverageScore)
		fmt.Printf("  Highest: %d\n", rpt.Scores.HighestScore)
		fmt.Printf("  Lowest: %d\n", rpt.Scores.LowestScore)
	}
}

func printCounts(title string, stats []aggregator.CountStat, unit string) {
	if len(stats) == 0 {
		return
	}
	fmt.Println(title)
	for i, p := range stats {
		fmt.Printf("  %2d. %-30s - %d %s\n", i+1, displayName(p.DisplayName, p.PlayFabID), p.Count, unit)
	}
	fmt.Println()
}

func displayName(name *string, playfabID string) string {
	if name != nil {
		return *name
	}
	return playfabID
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "export daily scores as CSV or JSON",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "format", Value: export.FormatCSV, Usage: "csv or json"},
			&cli.StringFlag{Name: "from", Usage: "range start (YYYY-MM-DD)"},
			&cli.StringFlag{Name: "to", Usage: "range end (YYYY-MM-DD)"},
			&cli.StringFlag{Name: "output", Usage: "output file (default stdout)"},
		},
		Action: func(c *cli.Context) error {
			start, end, err := resolveRange(c.String("from"), c.String("to"))
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}

			_, db, log, err := setup(c, false)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			defer db.Close()

			var out *os.File = os.Stdout
			if path := c.String("output"); path != "" {
				f, err := os.Create(path)
				if err != nil {
					return cli.Exit(fmt.Sprintf("failed to create output file: %v", err), 1)
				}
				defer f.Close()
				out = f
			}

			svc := export.NewService(repository.NewScoreRepository(db), log)
			n, err := svc.Export(out, c.String("format"), start, end)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			if c.String("output") != "" {
				fmt.Printf("exported %d rows to %s\n", n, c.String("output"))
			}
			return nil
		},
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "serve the read API",
		Action: func(c *cli.Context) error {
			cfg, db, log, err := setup(c, false)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			defer db.Close()

			var responseCache cache.Cache = cache.Noop{}
			if cfg.Cache.Enabled {
				redisCache, err := cache.NewRedis(&cfg.Cache, log)
				if err != nil {
					return cli.Exit(err.Error(), 1)
				}
				defer redisCache.Close()
				responseCache = redisCache
			}

			handler := api.NewHandler(
				repository.NewScoreRepository(db),
				repository.NewAggregateRepository(db),
				repository.NewRunRepository(db),
				db,
				responseCache,
				cfg.Cache.CacheTTL(),
				log,
			)
			router := api.NewRouter(handler, cfg.Server.Environment)

			addr := fmt.Sprintf(":%d", cfg.Server.Port)
			log.Info().Str("addr", addr).Msg("Starting read API server")
			if err := router.Run(addr); err != nil {
				return cli.Exit(err.Error(), 1)
			}
			return nil
		},
	}
}

// resolveDates turns --date or --from/--to into a list of stat dates.
func resolveDates(c *cli.Context) ([]time.Time, error) {
	if c.String("date") != "" && (c.String("from") != "" || c.String("to") != "") {
		return nil, fmt.Errorf("--date and --from/--to are mutually exclusive")
	}

	if raw := c.String("date"); raw != "" {
		date, err := time.ParseInLocation(dateLayout, raw, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("invalid --date: %s", raw)
		}
		return []time.Time{date}, nil
	}

	if c.String("from") != "" || c.String("to") != "" {
		start, end, err := resolveRange(c.String("from"), c.String("to"))
		if err != nil {
			return nil, err
		}
		var dates []time.Time
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			dates = append(dates, d)
		}
		return dates, nil
	}

	now := time.Now().UTC()
	return []time.Time{time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)}, nil
}

// resolveRange parses an inclusive date range; both ends are required.
func resolveRange(from, to string) (time.Time, time.Time, error) {
	if from == "" || to == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("both --from and --to are required")
	}
	start, err := time.ParseInLocation(dateLayout, from, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid --from: %s", from)
	}
	end, err := time.ParseInLocation(dateLayout, to, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid --to: %s", to)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("--to is before --from")
	}
	return start, end, nil
}
