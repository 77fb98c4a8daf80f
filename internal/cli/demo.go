package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Zhima-Mochi/minishop-checkout/internal/config"
	"github.com/Zhima-Mochi/minishop-checkout/internal/domain/order"
	"github.com/Zhima-Mochi/minishop-checkout/internal/domain/payment"
)

const (
	demoDebitCode  = "123456"
	demoCreditCode = "78910"
	demoEmail      = "quaerendo@invenietis.com"
)

func newDemoCommand(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Walk through every payment and authorization combination",
		Long: `Replays the checkout walkthrough with fresh orders:
a shared SMS authorizer unlocking debit and PayPal, a not-a-robot check for
PayPal, a credit payment without authorization, an MFA request on credit,
and a second payment of an order that is already paid.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := global.load()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runDemo(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}
}

type demo struct {
	rt  *runtime
	out io.Writer
}

func runDemo(ctx context.Context, cfg config.Config, out io.Writer) (err error) {
	if ctx == nil {
		ctx = context.Background()
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

	d := &demo{rt: rt, out: out}
	for _, step := range []func(context.Context) error{
		d.sharedSMS,
		d.notARobot,
		d.credit,
		d.creditMFA,
		d.repay,
	} {
		if err := step(ctx); err != nil {
			return err
		}
	}
	return nil
}

// sharedSMS: one SMS authorizer composed into debit and PayPal. Verifying
// the code once unlocks both.
func (d *demo) sharedSMS(ctx context.Context) error {
	d.section("shared SMS authorizer")

	sms, err := buildAuthorizer(payment.MethodDebit, config.AuthorizerSMS)
	if err != nil {
		return err
	}
	debit, err := buildProcessor(payment.MethodDebit, credentials{securityCode: demoDebitCode}, sms, d.rt.recorder())
	if err != nil {
		return err
	}
	paypal, err := buildProcessor(payment.MethodPaypal, credentials{email: demoEmail}, sms, d.rt.recorder())
	if err != nil {
		return err
	}

	o, err := d.order(ctx)
	if err != nil {
		return err
	}
	if err := d.expect(ctx, payment.MethodDebit, debit, o, payment.ErrNotAuthorized); err != nil {
		return err
	}

	sms.complete("12345")
	d.printf("sms code verified")
	if err := d.expect(ctx, payment.MethodDebit, debit, o, nil); err != nil {
		return err
	}

	o, err = d.order(ctx)
	if err != nil {
		return err
	}
	return d.expect(ctx, payment.MethodPaypal, paypal, o, nil)
}

func (d *demo) notARobot(ctx context.Context) error {
	d.section("not-a-robot authorizer")

	robot, err := buildAuthorizer(payment.MethodPaypal, config.AuthorizerRobot)
	if err != nil {
		return err
	}
	paypal, err := buildProcessor(payment.MethodPaypal, credentials{email: demoEmail}, robot, d.rt.recorder())
	if err != nil {
		return err
	}

	o, err := d.order(ctx)
	if err != nil {
		return err
	}
	if err := d.expect(ctx, payment.MethodPaypal, paypal, o, payment.ErrNotAuthorized); err != nil {
		return err
	}
	robot.complete("")
	d.printf("human confirmed")
	return d.expect(ctx, payment.MethodPaypal, paypal, o, nil)
}

func (d *demo) credit(ctx context.Context) error {
	d.section("credit without authorization")

	credit, err := buildProcessor(payment.MethodCredit, credentials{securityCode: demoCreditCode}, nil, d.rt.recorder())
	if err != nil {
		return err
	}
	o, err := d.order(ctx)
	if err != nil {
		return err
	}
	return d.expect(ctx, payment.MethodCredit, credit, o, nil)
}

func (d *demo) creditMFA(context.Context) error {
	d.section("SMS authorization requested for credit")

	_, err := buildAuthorizer(payment.MethodCredit, config.AuthorizerSMS)
	if !payment.IsUnsupported(err) {
		return fmt.Errorf("credit accepted an authorizer: %v", err)
	}
	d.printf("refused: %v", err)
	return nil
}

func (d *demo) repay(ctx context.Context) error {
	d.section("paying a paid order")

	credit, err := buildProcessor(payment.MethodCredit, credentials{securityCode: demoCreditCode}, nil, d.rt.recorder())
	if err != nil {
		return err
	}
	o, err := d.order(ctx)
	if err != nil {
		return err
	}
	if err := d.expect(ctx, payment.MethodCredit, credit, o, nil); err != nil {
		return err
	}
	return d.expect(ctx, payment.MethodCredit, credit, o, order.ErrAlreadyPaid)
}

func (d *demo) order(ctx context.Context) (*order.Order, error) {
	o, err := d.rt.newOrder(ctx)
	if err != nil {
		return nil, err
	}
	d.printf("order %s: total %.2f", o.ID, o.TotalPrice())
	return o, nil
}

// expect pays o and checks the outcome against want (nil for success).
func (d *demo) expect(ctx context.Context, method payment.Method, p payment.Processor, o *order.Order, want error) error {
	_, err := d.rt.payments(method, p).Execute(ctx, payInput(o))
	switch {
	case want == nil && err == nil:
		d.printf("%s payment accepted, order %s", method, o.Status())
	case want != nil && errors.Is(err, want):
		d.printf("%s payment refused: %v (order %s)", method, err, o.Status())
	default:
		return fmt.Errorf("%s payment: got %v, want %v", method, err, want)
	}
	return nil
}

func (d *demo) section(title string) {
	fmt.Fprintf(d.out, "\n== %s\n", title)
}

func (d *demo) printf(format string, args ...any) {
	fmt.Fprintf(d.out, "  "+format+"\n", args...)
}
