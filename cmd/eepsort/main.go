// Command eepsort sorts a list of non-negative integers by sleeping on them.
//
// Usage:
//
//	eepsort [-env file] [-i] [-metrics] [--] [value ...]
//
// Values come from the arguments, else from the -i prompt, else from
// SLEEPSORT_INPUT, else a built-in list. SLEEPSORT_UNIT sets how long one
// step of a value sleeps (default 1ms). The sorted list goes to stdout;
// logs go to stderr unless LOG_OUTPUT says otherwise.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/amp-labs/eepsort/cli"
	"github.com/amp-labs/eepsort/envutil"
	"github.com/amp-labs/eepsort/logger"
	"github.com/amp-labs/eepsort/shutdown"
	"github.com/amp-labs/eepsort/sleepsort"
	"github.com/amp-labs/eepsort/telemetry"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	appName       = "eepsort"
	flushTimeout  = 5 * time.Second
	metricsPrefix = "sleepsort_"
)

var defaultValues = []int64{1, 6, 10, 273, 562, 1269, 1236, 1237, 1471, 12783} //nolint:gochecknoglobals

type cliFlags struct {
	envFile     string
	interactive bool
	showMetrics bool
	args        []string
}

func main() {
	flags, err := parseFlags(os.Args[1:])

	switch {
	case errors.Is(err, flag.ErrHelp):
		os.Exit(0)
	case errors.Is(err, sleepsort.ErrInvalidDuration):
		logger.ConfigureLogging(appName)
		logger.Fatal("invalid input", "invariant", failedInvariant(err), "error", err)
	case err != nil:
		fmt.Fprintf(os.Stderr, "eepsort: %v\n", err)
		os.Exit(2) //nolint:mnd
	}

	if flags.envFile != "" {
		if err := envutil.Apply(flags.envFile); err != nil {
			fmt.Fprintf(os.Stderr, "eepsort: loading %s: %v\n", flags.envFile, err)
			os.Exit(1)
		}
	}

	ctx := shutdown.SetupHandler()

	logger.ConfigureLogging(appName)
	setupTelemetry(ctx)

	values, err := readValues(flags.args, flags.interactive)
	if err != nil {
		logger.Fatal("unable to read input values", "error", err)
	}

	unit := envutil.Duration("SLEEPSORT_UNIT", envutil.Default(sleepsort.DefaultUnit)).ValueOrFatal()

	sorted, err := sleepsort.SortCtx(ctx, values, sleepsort.WithUnit(unit))
	if err != nil {
		logger.Fatal("sort failed", "invariant", failedInvariant(err), "error", err)
	}

	fmt.Println(formatValues(sorted)) //nolint:forbidigo

	if flags.showMetrics {
		logMetrics(ctx)
	}

	flushTelemetry()
}

// parseFlags parses the command line. A negative number where a flag was
// expected is reported as ErrInvalidDuration rather than an unknown flag.
func parseFlags(args []string) (*cliFlags, error) {
	flags := &cliFlags{}

	set := flag.NewFlagSet(appName, flag.ContinueOnError)
	set.SetOutput(io.Discard)
	set.StringVar(&flags.envFile, "env", "", "load configuration from a .env, .json or .yaml file")
	set.BoolVar(&flags.interactive, "i", false, "prompt for the values to sort")
	set.BoolVar(&flags.showMetrics, "metrics", false, "log the sort metrics when done")

	if err := set.Parse(args); err != nil {
		if value, found := firstNegative(args); found {
			return nil, fmt.Errorf("%w: value %d is negative (use -- before values)",
				sleepsort.ErrInvalidDuration, value)
		}

		if errors.Is(err, flag.ErrHelp) {
			set.SetOutput(os.Stderr)
			set.Usage()
		}

		return nil, err
	}

	flags.args = set.Args()

	return flags, nil
}

// firstNegative finds a negative integer among the arguments before "--".
func firstNegative(args []string) (int64, bool) {
	for _, arg := range args {
		if arg == "--" {
			break
		}

		if value, err := strconv.ParseInt(arg, 10, 64); err == nil && value < 0 {
			return value, true
		}
	}

	return 0, false
}

func setupTelemetry(ctx context.Context) {
	env := envutil.String("ENVIRONMENT", envutil.Default("local")).ValueOrElse("local")

	config, err := telemetry.LoadConfigFromEnv(env)
	if err != nil {
		logger.Fatal("invalid telemetry configuration", "error", err)
	}

	if err := telemetry.Initialize(ctx, config); err != nil {
		logger.Fatal("unable to initialize telemetry", "error", err)
	}

	if provider := telemetry.LoggerProvider(); provider != nil {
		logger.ConfigureLogging(appName, logger.WithLoggerProvider(provider))
	}

	shutdown.BeforeShutdown(flushTelemetry)
}

func flushTelemetry() {
	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()

	if err := telemetry.Shutdown(ctx); err != nil {
		logger.Get(ctx).Warn("unable to flush telemetry", "error", err)
	}
}

func readValues(args []string, interactive bool) ([]int64, error) {
	switch {
	case len(args) > 0:
		return envutil.ParseInt64List(strings.Join(args, ","))
	case interactive:
		return cli.PromptValues("Values to sort (comma separated)")
	default:
		return envutil.Int64List("SLEEPSORT_INPUT", envutil.Default(defaultValues)).Value()
	}
}

// failedInvariant names the broken invariant for the fatal diagnostic.
func failedInvariant(err error) string {
	switch {
	case errors.Is(err, sleepsort.ErrInvalidDuration):
		return "invalid duration"
	case errors.Is(err, sleepsort.ErrChannelClosed):
		return "closed channel"
	case errors.Is(err, sleepsort.ErrWorkerFailed):
		return "task failure"
	default:
		return "unknown"
	}
}

// formatValues renders values as [a, b, c].
func formatValues(values []int64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatInt(v, 10)
	}

	return "[" + strings.Join(parts, ", ") + "]"
}

func logMetrics(ctx context.Context) {
	log := logger.Get(ctx)

	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		log.Warn("unable to gather metrics", "error", err)

		return
	}

	for _, family := range families {
		if !strings.HasPrefix(family.GetName(), metricsPrefix) {
			continue
		}

		for _, metric := range family.GetMetric() {
			args := []any{"metric", family.GetName()}

			for _, label := range metric.GetLabel() {
				args = append(args, label.GetName(), label.GetValue())
			}

			switch {
			case metric.GetCounter() != nil:
				args = append(args, "value", metric.GetCounter().GetValue())
			case metric.GetHistogram() != nil:
				args = append(args,
					"count", metric.GetHistogram().GetSampleCount(),
					"sum", metric.GetHistogram().GetSampleSum())
			}

			log.Info("metric", args...)
		}
	}
}
