// Command loancalc prints the monthly payment of a fixed-rate loan and,
// optionally, its amortization schedule and a balance chart.
//
//	loancalc -principal 100000 -rate 6 -term 30 -chart
//	loancalc -loan 50000,5,15 -loan 20000,4,5
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"unburyme/config"
	"unburyme/logger"
	"unburyme/presentation"
	"unburyme/repository"
	"unburyme/service"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type options struct {
	form      presentation.FormInput
	loans     []presentation.FormInput
	chart     bool
	schedule  bool
	chartStep int
	logLevel  string
	config    string
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("loancalc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.form.Principal, "principal", "", "amount borrowed")
	fs.StringVar(&opts.form.InterestRate, "rate", "", "annual interest rate in percent")
	fs.StringVar(&opts.form.Term, "term", "", "term in whole years")
	fs.BoolVar(&opts.chart, "chart", false, "draw the remaining balance chart")
	fs.BoolVar(&opts.schedule, "schedule", false, "print the amortization schedule")
	fs.IntVar(&opts.chartStep, "chart-step", 12, "draw every n-th month in the chart")
	fs.StringVar(&opts.logLevel, "log-level", "warn", "log level written to stderr")
	fs.StringVar(&opts.config, "config", "", "path to a YAML config file")
	fs.Func("loan", "principal,rate,term of a loan to total (repeatable)", func(v string) error {
		parts := strings.Split(v, ",")
		if len(parts) != 3 {
			return fmt.Errorf("want principal,rate,term, got %q", v)
		}
		opts.loans = append(opts.loans, presentation.FormInput{
			Principal:    parts[0],
			InterestRate: parts[1],
			Term:         parts[2],
		})
		return nil
	})

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if len(opts.loans) == 0 && opts.form == (presentation.FormInput{}) {
		fs.Usage()
		return options{}, fmt.Errorf("either -principal/-rate/-term or -loan is required")
	}
	return opts, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	cfg, err := config.Load(opts.config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.Setup(logger.Config{Level: opts.logLevel, Format: "text", Output: stderr})

	limits := service.Limits{
		MaxPrincipal:     cfg.Limits.MaxPrincipal,
		MaxInterestRate:  cfg.Limits.MaxInterestRate,
		MaxTermYears:     cfg.Limits.MaxTermYears,
		MaxLoansPerTotal: cfg.Limits.MaxLoansPerTotal,
	}
	loanService := service.NewLoanService(repository.NewLoanRepositoryMemory(), nil, limits, log)

	renderer := presentation.NewTextRenderer(stdout)
	renderer.Step = opts.chartStep
	if !opts.chart {
		renderer = presentation.NewTextRenderer(io.Discard)
	}

	calc := presentation.NewCalculator(
		cfg.App.Name,
		loanService,
		service.NewPortfolioService(loanService, log),
		renderer,
		presentation.NewWriterDisplay(stdout),
		log,
	)
	if err := calc.Initialize(); err != nil {
		return err
	}

	if len(opts.loans) > 0 {
		_, err := calc.ShowTotal(ctx, opts.loans)
		return err
	}

	if _, err := calc.Calculate(ctx, opts.form); err != nil {
		return err
	}
	if opts.schedule {
		return printSchedule(ctx, stdout, loanService, opts.form)
	}
	return nil
}

func printSchedule(ctx context.Context, w io.Writer, loans *service.LoanService, form presentation.FormInput) error {
	loan, err := presentation.ParseForm(form)
	if err != nil {
		return err
	}
	entries, err := loans.Schedule(ctx, loan)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Month\tPrincipal\tInterest\tBalance\t")
	for _, e := range entries {
		fmt.Fprintf(tw, "%d\t%.2f\t%.2f\t%.2f\t\n", e.Month, e.PrincipalPortion, e.InterestPortion, e.RemainingBalance)
	}
	return tw.Flush()
}
