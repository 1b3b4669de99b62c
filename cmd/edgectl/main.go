// Package main provides edgectl, a command-line front end to the calibration and edge pipeline.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/edge-calibrator/internal/config"
	"github.com/yourusername/edge-calibrator/internal/datasource"
	"github.com/yourusername/edge-calibrator/internal/logger"
	"github.com/yourusername/edge-calibrator/internal/models"
	"github.com/yourusername/edge-calibrator/internal/odds"
	"github.com/yourusername/edge-calibrator/internal/pricing"
	"github.com/yourusername/edge-calibrator/internal/provider"
	"github.com/yourusername/edge-calibrator/internal/teams"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

// cli holds state shared by every subcommand
type cli struct {
	configFile string
	verbose    bool
	cfg        *config.Config
	logger     *logrus.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:     "edgectl",
		Short:   "Calibrate team stats and price moneyline edges",
		Long:    `Converts American odds to fair probabilities, measures model edge, sizes stakes with capped Kelly, and prices whole slates from recent team history.`,
		Version: fmt.Sprintf("%s (%s)", Version, GitCommit),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup()
		},
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&c.configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Log at debug level to stderr")

	root.AddCommand(
		c.novigCmd(),
		c.edgeCmd(),
		c.kellyCmd(),
		c.resolveCmd(),
		c.statsCmd(),
		c.priceCmd(),
	)
	return root
}

func (c *cli) setup() error {
	cfg, err := config.LoadWithDefaults(c.configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}
	c.cfg = cfg

	level := "warn"
	if c.verbose {
		level = "debug"
	}
	c.logger = logger.NewLoggerForEnvironment(level, cfg.App.Environment)
	c.logger.SetOutput(os.Stderr)
	return nil
}

func (c *cli) league(name string) (models.League, error) {
	if name == "" {
		return c.cfg.League(), nil
	}
	return models.ParseLeague(name)
}

func (c *cli) novigCmd() *cobra.Command {
	var a, b int
	cmd := &cobra.Command{
		Use:   "novig",
		Short: "Strip the vig from a two-way moneyline",
		RunE: func(cmd *cobra.Command, args []string) error {
			nv, err := odds.NoVigProbabilities(a, b)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Implied:  A %.4f  B %.4f\n", nv.RawA, nv.RawB)
			fmt.Fprintf(out, "Vig:      %.2f%%\n", nv.VigPercent)
			fmt.Fprintf(out, "Fair:     A %.4f  B %.4f\n", nv.ProbA, nv.ProbB)
			return nil
		},
	}
	cmd.Flags().IntVar(&a, "a", 0, "American odds for side A")
	cmd.Flags().IntVar(&b, "b", 0, "American odds for side B")
	cmd.MarkFlagRequired("a")
	cmd.MarkFlagRequired("b")
	return cmd
}

func (c *cli) edgeCmd() *cobra.Command {
	var (
		prob float64
		a, b int
	)
	cmd := &cobra.Command{
		Use:   "edge",
		Short: "Measure a model probability against the fair market price",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := c.cfg.Edge.TrueEdge(prob, a, b)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Fair prob:      %.4f\n", res.NoVigProb)
			fmt.Fprintf(out, "Edge:           %+.2f pts\n", res.Edge)
			fmt.Fprintf(out, "Has value:      %v\n", res.HasValue)
			fmt.Fprintf(out, "Recommendation: %s\n", res.Recommendation)
			fmt.Fprintf(out, "EV per 100:     %+.2f\n", odds.ExpectedValue(prob, a))
			return nil
		},
	}
	cmd.Flags().Float64VarP(&prob, "prob", "p", 0, "Model win probability for side A")
	cmd.Flags().IntVar(&a, "a", 0, "American odds for side A")
	cmd.Flags().IntVar(&b, "b", 0, "American odds for side B")
	cmd.MarkFlagRequired("prob")
	cmd.MarkFlagRequired("a")
	cmd.MarkFlagRequired("b")
	return cmd
}

func (c *cli) kellyCmd() *cobra.Command {
	var (
		prob     float64
		american int
		bankroll float64
	)
	cmd := &cobra.Command{
		Use:   "kelly",
		Short: "Size a stake with the capped fractional Kelly policy",
		RunE: func(cmd *cobra.Command, args []string) error {
			if bankroll <= 0 {
				bankroll = c.cfg.Pricing.Bankroll
			}
			stake := c.cfg.Staking.Size(prob, american, decimal.NewFromFloat(bankroll))
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Odds used:  %d\n", stake.SanitizedOdds)
			fmt.Fprintf(out, "Raw Kelly:  %.4f\n", stake.KellyRaw)
			fmt.Fprintf(out, "Multiplier: %.3f\n", stake.Multiplier)
			fmt.Fprintf(out, "Fraction:   %.4f\n", stake.Fraction)
			fmt.Fprintf(out, "Stake:      %s\n", stake.Amount.StringFixed(2))
			return nil
		},
	}
	cmd.Flags().Float64VarP(&prob, "prob", "p", 0, "Model win probability")
	cmd.Flags().IntVarP(&american, "odds", "o", 0, "American odds")
	cmd.Flags().Float64Var(&bankroll, "bankroll", 0, "Bankroll (defaults to pricing.bankroll)")
	cmd.MarkFlagRequired("prob")
	cmd.MarkFlagRequired("odds")
	return cmd
}

func (c *cli) resolveCmd() *cobra.Command {
	var leagueName string
	cmd := &cobra.Command{
		Use:   "resolve <team name>",
		Short: "Resolve a team name to its upstream id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			league, err := c.league(leagueName)
			if err != nil {
				return err
			}
			table, err := teams.DefaultTable()
			if err != nil {
				return err
			}
			res, ok := teams.NewTableResolver(table).ResolveDetailed(args[0], league)
			if !ok {
				return fmt.Errorf("%w: %q in %s", models.ErrTeamNotFound, args[0], league)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s (id %s, %s, score %.2f)\n", args[0], res.Name, res.ID, res.Strategy, res.Score)
			return nil
		},
	}
	cmd.Flags().StringVarP(&leagueName, "league", "l", "", "League (defaults to pricing.league)")
	return cmd
}

func (c *cli) newProvider() (*provider.Provider, error) {
	source, err := datasource.NewFactory(c.logger).NewScheduleSource(c.cfg.Provider)
	if err != nil {
		return nil, err
	}
	table, err := teams.DefaultTable()
	if err != nil {
		return nil, err
	}
	return provider.New(source, teams.NewTableResolver(table), provider.OptionsFromConfig(c.cfg, c.logger)...), nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func (c *cli) statsCmd() *cobra.Command {
	var leagueName string
	cmd := &cobra.Command{
		Use:   "stats <team name>",
		Short: "Fetch recent games and print a team's calibration stats",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			league, err := c.league(leagueName)
			if err != nil {
				return err
			}
			prov, err := c.newProvider()
			if err != nil {
				return err
			}
			teamID, ok := prov.ResolveTeamID(args[0], league)
			if !ok {
				return fmt.Errorf("%w: %q in %s", models.ErrTeamNotFound, args[0], league)
			}

			ctx, cancel := signalContext()
			defer cancel()

			stats, ok := prov.GetCalibrationStats(ctx, teamID, league)
			if !ok {
				return fmt.Errorf("%w for %s", models.ErrNoData, args[0])
			}
			return writeJSON(cmd.OutOrStdout(), summarizeStats(stats))
		},
	}
	cmd.Flags().StringVarP(&leagueName, "league", "l", "", "League (defaults to pricing.league)")
	return cmd
}

func (c *cli) priceCmd() *cobra.Command {
	var (
		slatePath  string
		leagueName string
		asJSON     bool
	)
	cmd := &cobra.Command{
		Use:   "price",
		Short: "Warm the cache for a slate and price every game",
		RunE: func(cmd *cobra.Command, args []string) error {
			if slatePath == "" {
				slatePath = c.cfg.Pricing.SlateFile
			}
			if slatePath == "" {
				return fmt.Errorf("no slate file: pass --slate or set pricing.slate_file")
			}
			slate, err := pricing.LoadSlateFile(slatePath)
			if err != nil {
				return err
			}
			if leagueName == "" {
				leagueName = slate.League
			}
			league, err := c.league(leagueName)
			if err != nil {
				return err
			}
			prov, err := c.newProvider()
			if err != nil {
				return err
			}

			ctx, cancel := signalContext()
			defer cancel()

			svc := pricing.NewService(prov, pricing.NormalApproxModel{}, pricing.ConfigFrom(c.cfg), c.logger)
			res := svc.PriceSlate(ctx, league, slate.Games)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), res)
			}
			printSlate(cmd.OutOrStdout(), res)
			return nil
		},
	}
	cmd.Flags().StringVarP(&slatePath, "slate", "s", "", "Path to a YAML slate (defaults to pricing.slate_file)")
	cmd.Flags().StringVarP(&leagueName, "league", "l", "", "League override")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full result as JSON")
	return cmd
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printSlate(w io.Writer, res *pricing.SlateResult) {
	fmt.Fprintf(w, "Slate %s (%s) priced at %s\n\n", res.RequestID, res.League, time.Now().UTC().Format(time.RFC3339))
	for _, g := range res.Games {
		fmt.Fprintf(w, "%s vs %s  [%s]  home win %.1f%%\n", g.AwayTeam, g.HomeTeam, g.Stats.DataSource, g.HomeWinProb*100)
		if g.Error != "" {
			fmt.Fprintf(w, "  error: %s\n", g.Error)
			continue
		}
		for _, side := range []*pricing.SideEvaluation{g.Home, g.Away} {
			if side == nil {
				continue
			}
			fmt.Fprintf(w, "  %-28s %+6d  edge %+6.2f  %-8s stake %s\n",
				side.Team, side.Odds, side.Edge.Edge, side.Edge.Recommendation, side.Stake.Amount.StringFixed(2))
		}
	}
	for _, f := range res.Failures {
		fmt.Fprintf(w, "warm failure: %s (%s)\n", f.Team, f.Reason)
	}
}

// summarizeStats drops the per-game rows from a copy; stats may be shared with the cache
func summarizeStats(stats *models.TeamCalibrationStats) models.TeamCalibrationStats {
	out := *stats
	out.Games = nil
	return out
}
