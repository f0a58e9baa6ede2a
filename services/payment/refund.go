package payment

import (
	"context"
	"fmt"
	"math"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/refund"
	"go.uber.org/zap"
)

// RefundProcessor executes the monetary side of a cancellation. The
// booking is cancelled with the provider regardless of refund outcome;
// a failed refund is surfaced for manual processing, never rolled back.
type RefundProcessor interface {
	Refund(ctx context.Context, paymentRef string, amount float64, currency string) error
}

// StripeRefundProcessor refunds against the payment intent recorded on
// the booking. Requires stripe.Key to be set at startup.
type StripeRefundProcessor struct{}

func (p *StripeRefundProcessor) Refund(ctx context.Context, paymentRef string, amount float64, currency string) error {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(paymentRef),
		Amount:        stripe.Int64(int64(math.Round(amount * 100))),
	}
	params.Context = ctx
	if _, err := refund.New(params); err != nil {
		return fmt.Errorf("stripe refund failed for %s: %w", paymentRef, err)
	}
	return nil
}

// LogRefundProcessor records the refund intent without moving money.
// Active when no Stripe key is configured.
type LogRefundProcessor struct {
	Logger *zap.Logger
}

func (p *LogRefundProcessor) Refund(ctx context.Context, paymentRef string, amount float64, currency string) error {
	p.Logger.Info("refund recorded (no payment processor configured)",
		zap.String("paymentRef", paymentRef),
		zap.Float64("amount", amount),
		zap.String("currency", currency),
	)
	return nil
}
