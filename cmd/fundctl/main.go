// Command fundctl resolves fund quotes and NAV history from the terminal, without the database or queue.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"fundquote/internal/config"
	"fundquote/internal/fund"
	"fundquote/internal/history"
	"fundquote/internal/provider"
	"fundquote/internal/service"
)

// serviceFactory builds the lookup service on demand so --help never touches config.
type serviceFactory func(verbose bool) (service.FundServiceInterface, error)

func main() {
	root := newRootCmd(newLocalService, os.Stdout)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(newService serviceFactory, out io.Writer) *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "fundctl",
		Short:         "Look up mutual fund quotes and NAV history",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log provider attempts to stderr")

	var source string
	quoteCmd := &cobra.Command{
		Use:   "quote CODE",
		Short: "Resolve the current quote, trying providers in order",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			svc, err := newService(verbose)
			if err != nil {
				return err
			}
			q, err := svc.ResolveQuote(c.Context(), args[0], source)
			if err != nil {
				var agg *fund.AggregateFailure
				if errors.As(err, &agg) {
					_ = printJSON(c.ErrOrStderr(), agg.Attempts)
				}
				return err
			}
			return printJSON(out, q)
		},
	}
	quoteCmd.Flags().StringVar(&source, "source", "", "preferred provider id (see 'fundctl providers')")

	var days int
	historyCmd := &cobra.Command{
		Use:   "history CODE",
		Short: "Show NAV history and trailing returns",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			if days < 0 || (c.Flags().Changed("days") && days == 0) {
				return fmt.Errorf("--days must be a positive integer, got %d", days)
			}
			svc, err := newService(verbose)
			if err != nil {
				return err
			}
			res, err := svc.FetchHistory(c.Context(), args[0], days)
			if err != nil {
				return err
			}
			return printJSON(out, res)
		},
	}
	historyCmd.Flags().IntVar(&days, "days", 0, "number of records (default from config, 30)")

	providersCmd := &cobra.Command{
		Use:   "providers",
		Short: "List data providers in default trial order",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			svc, err := newService(verbose)
			if err != nil {
				return err
			}
			return printJSON(out, svc.ListProviders())
		},
	}

	root.AddCommand(quoteCmd, historyCmd, providersCmd)
	return root
}

// newLocalService wires providers from config. Names are not cached and resolution jobs are unavailable.
func newLocalService(verbose bool) (service.FundServiceInterface, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := zap.NewNop()
	if verbose {
		if logger, err = zap.NewDevelopment(); err != nil {
			return nil, fmt.Errorf("init logger: %w", err)
		}
	}
	sugar := logger.Sugar()

	p := cfg.Providers
	failover, f10, err := provider.Build(provider.Options{
		Timeout:   p.Timeout(),
		UserAgent: p.UserAgent,
		Referer:   p.Referer,
		Endpoints: provider.Endpoints{
			Tiantian:        p.Tiantian.BaseURL,
			EastmoneyMobile: p.EastmoneyMobile.BaseURL,
			EastmoneyLSJZ:   p.EastmoneyLSJZ.BaseURL,
			Danjuan:         p.Danjuan.BaseURL,
			EastmoneyF10:    p.EastmoneyF10.BaseURL,
		},
		Logger: sugar,
	})
	if err != nil {
		return nil, err
	}

	return service.NewFundService(failover, history.NewEngine(f10, sugar), nil, nil,
		service.NewValidator(), sugar, cfg.History.DefaultDays), nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
