package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"

	"github.com/Eursukkul/coaching-service/internal/lifecycle"
	"github.com/Eursukkul/coaching-service/internal/service"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	OutcomeSucceeded = "succeeded"
	OutcomeFailed    = "failed"
)

// ProviderResult is the body of a payment.provider.* message.
type ProviderResult struct {
	Reference string `json:"reference"`
	Outcome   string `json:"outcome"`
}

// PaymentApplier settles a payment by its reference.
type PaymentApplier interface {
	ApplyProviderResult(ctx context.Context, reference string, succeeded bool) (*lifecycle.PaymentOutcome, error)
}

type PaymentConsumer struct {
	payments PaymentApplier
}

func NewPaymentConsumer(payments PaymentApplier) *PaymentConsumer {
	return &PaymentConsumer{payments: payments}
}

// Start applies provider results until msgs is closed or ctx is cancelled.
func (pc *PaymentConsumer) Start(ctx context.Context, msgs <-chan amqp.Delivery) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				log.Println("[PaymentConsumer] context cancelled, stopping consumer")
				return
			case msg, ok := <-msgs:
				if !ok {
					log.Println("[PaymentConsumer] channel closed, stopping consumer")
					return
				}
				pc.handleMessage(ctx, msg)
			}
		}
	}()
}

func (pc *PaymentConsumer) handleMessage(ctx context.Context, msg amqp.Delivery) {
	result, err := decode(msg.Body)
	if err != nil {
		log.Printf("[PaymentConsumer] dropping message %s: %v", msg.MessageId, err)
		msg.Nack(false, false)
		return
	}

	out, err := pc.payments.ApplyProviderResult(ctx, result.Reference, result.Outcome == OutcomeSucceeded)
	switch {
	case err == nil:
		log.Printf("[PaymentConsumer] payment %s is now %s", result.Reference, out.Payment.Status)
		msg.Ack(false)
	case permanent(err):
		// Duplicates and stale callbacks land here; retrying cannot change the answer.
		log.Printf("[PaymentConsumer] ignoring result for %s: %v", result.Reference, err)
		msg.Ack(false)
	default:
		log.Printf("[PaymentConsumer] failed to apply result for %s: %v", result.Reference, err)
		msg.Nack(false, true) // requeue
	}
}

func decode(body []byte) (ProviderResult, error) {
	var result ProviderResult
	if err := json.Unmarshal(body, &result); err != nil {
		return result, err
	}
	result.Reference = strings.TrimSpace(result.Reference)
	if result.Reference == "" {
		return result, errors.New("missing reference")
	}
	if result.Outcome != OutcomeSucceeded && result.Outcome != OutcomeFailed {
		return result, errors.New("unknown outcome " + result.Outcome)
	}
	return result, nil
}

func permanent(err error) bool {
	return errors.Is(err, lifecycle.ErrInvalidStateTransition) ||
		errors.Is(err, lifecycle.ErrIneligiblePurchase) ||
		errors.Is(err, lifecycle.ErrValidation) ||
		errors.Is(err, service.ErrPaymentNotFound) ||
		errors.Is(err, service.ErrSubscriptionNotFound) ||
		errors.Is(err, service.ErrBookingNotFound)
}
