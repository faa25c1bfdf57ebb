package terminal

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"ecommerce-dashboard/internal/services"
)

const envPrefix = "DASHBOARD"

// CLI is the command-line entry point for printing reports.
type CLI struct {
	reporter *Reporter
	logger   *slog.Logger
	rootCmd  *cobra.Command
}

type Options struct {
	Output io.Writer
	Logger *slog.Logger
}

func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	}

	cli := &CLI{
		reporter: NewReporter(opts.Output),
		logger:   opts.Logger,
	}
	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

// SetArgs overrides os.Args for the next Execute.
func (cli *CLI) SetArgs(args []string) {
	cli.rootCmd.SetArgs(args)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "dashboard",
		Short:         "E-commerce sales reporting",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(cli.newReportCmd())
	return cmd
}

// reportSettings are resolved from flags first, then DASHBOARD_* environment
// variables, then defaults.
type reportSettings struct {
	CSV     string        `mapstructure:"csv"`
	Start   string        `mapstructure:"start"`
	End     string        `mapstructure:"end"`
	Locale  string        `mapstructure:"locale"`
	Format  string        `mapstructure:"format"`
	Timeout time.Duration `mapstructure:"timeout"`
}

func (cli *CLI) newReportCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the dashboard summaries for a date range",
		RunE: func(cmd *cobra.Command, args []string) error {
			var s reportSettings
			if err := v.Unmarshal(&s); err != nil {
				return fmt.Errorf("parse settings: %w", err)
			}
			return cli.runReport(cmd.Context(), s)
		},
	}

	flags := cmd.Flags()
	flags.String("csv", "all_data.csv", "Path to the orders CSV file")
	flags.String("start", "", "First day to include (YYYY-MM-DD), defaults to the first purchase")
	flags.String("end", "", "Last day to include (YYYY-MM-DD), defaults to the last purchase")
	flags.String("locale", services.DefaultCurrencyLocale, "Locale used for currency formatting")
	flags.String("format", "table", "Output format: table or json")
	flags.Duration("timeout", 30*time.Second, "Maximum time to spend loading the CSV")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	_ = v.BindPFlags(flags)

	return cmd
}

func (cli *CLI) runReport(ctx context.Context, s reportSettings) error {
	if s.Format != "table" && s.Format != "json" {
		return fmt.Errorf("unsupported format %q, must be table or json", s.Format)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	currency, err := services.NewCurrencyFormatter(s.Locale)
	if err != nil {
		return err
	}

	loadCtx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	d, err := services.LoadDashboard(loadCtx, s.CSV,
		services.WithLogger(cli.logger),
		services.WithCurrency(currency),
	)
	if err != nil {
		return err
	}

	dateRange, err := d.ResolveRange(s.Start, s.End)
	if err != nil {
		return err
	}

	rep := d.Report(ctx, dateRange)
	if s.Format == "json" {
		return cli.reporter.JSON(rep)
	}
	return cli.reporter.Tables(rep, currency)
}
