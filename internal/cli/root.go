package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Zhima-Mochi/minishop-checkout/internal/config"
)

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	configPath  string
	logLevel    string
	dumpMetrics bool
}

// NewRootCommand builds the checkout command tree.
func NewRootCommand(version string) *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "checkout",
		Short: "Pay retail orders through pluggable payment methods",
		Long: `checkout builds an order and pays it with a debit card, a credit card or PayPal.

Debit and PayPal need a prior authorization (SMS code or not-a-robot check).
Settings come from defaults, an optional YAML file (--config) and CHECKOUT_* variables.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "YAML config file")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Override app.log_level")
	root.PersistentFlags().BoolVar(&opts.dumpMetrics, "metrics", false, "Print collected metrics on exit")

	root.AddCommand(newPayCommand(opts))
	root.AddCommand(newDemoCommand(opts))
	return root
}

// Execute runs the root command
func Execute(version string) error {
	if err := NewRootCommand(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

// load reads config and applies the global flags. Callers validate after
// applying their own overrides.
func (o *globalOptions) load() (config.Config, error) {
	cfg, err := config.Read(o.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if o.logLevel != "" {
		cfg.App.LogLevel = o.logLevel
	}
	if o.dumpMetrics {
		cfg.Metrics.Dump = true
	}
	return cfg, nil
}
