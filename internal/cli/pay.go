package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Zhima-Mochi/minishop-checkout/internal/config"
	"github.com/Zhima-Mochi/minishop-checkout/internal/domain/payment"
)

type payOptions struct {
	method        string
	authorizer    string
	securityCode  string
	email         string
	smsCode       string
	skipChallenge bool
}

func newPayCommand(global *globalOptions) *cobra.Command {
	opts := &payOptions{}

	cmd := &cobra.Command{
		Use:   "pay",
		Short: "Create the configured order and pay it",
		Long: `Creates an order from order.items and pays it with the selected method.

The authorizer challenge (SMS code or not-a-robot) runs before payment
unless --skip-challenge is set, in which case debit and PayPal are refused.`,
		Example: `  checkout pay --method paypal --authorizer robot
  checkout pay --method credit --authorizer none --security-code 78910`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := global.load()
			if err != nil {
				return err
			}
			opts.apply(cmd, &cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runPay(cmd.Context(), cfg, opts.skipChallenge, cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.method, "method", "m", "", "Payment method: debit, credit or paypal")
	f.StringVarP(&opts.authorizer, "authorizer", "a", "", "Authorizer: none, sms or robot")
	f.StringVar(&opts.securityCode, "security-code", "", "Card security code")
	f.StringVar(&opts.email, "email", "", "PayPal account email")
	f.StringVar(&opts.smsCode, "sms-code", "", "Code sent to the SMS authorizer")
	f.BoolVar(&opts.skipChallenge, "skip-challenge", false, "Do not complete the authorizer challenge")
	return cmd
}

// apply overrides config values with the flags the user actually set.
func (o *payOptions) apply(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("method") {
		cfg.Payment.Method = o.method
	}
	if f.Changed("authorizer") {
		cfg.Payment.Authorizer = o.authorizer
	}
	if f.Changed("security-code") {
		cfg.Payment.SecurityCode = o.securityCode
	}
	if f.Changed("email") {
		cfg.Payment.Email = o.email
	}
	if f.Changed("sms-code") {
		cfg.Payment.SMSCode = o.smsCode
	}
}

func runPay(ctx context.Context, cfg config.Config, skipChallenge bool, out io.Writer) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	method := payment.Method(cfg.Payment.Method)

	// Composition errors surface before anything is created or paid.
	c, err := buildAuthorizer(method, cfg.Payment.Authorizer)
	if err != nil {
		return err
	}

	rt, err := start(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if serr := rt.shutdown(context.WithoutCancel(ctx), out); err == nil {
			err = serr
		}
	}()

	processor, err := buildProcessor(method, credentials{
		securityCode: cfg.Payment.SecurityCode,
		email:        cfg.Payment.Email,
	}, c, rt.recorder())
	if err != nil {
		return err
	}

	o, err := rt.newOrder(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "order %s: %d items, total %.2f\n", o.ID, len(o.Items()), o.TotalPrice())

	if c != nil && !skipChallenge {
		c.complete(cfg.Payment.SMSCode)
		fmt.Fprintf(out, "%s authorization completed\n", c.kind)
	}

	res, err := rt.payments(method, processor).Execute(ctx, payInput(o))
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "order %s paid via %s (%.2f)\n", res.OrderID, res.Method, res.Amount)
	return nil
}
