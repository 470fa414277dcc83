package payment

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Info is what the gateway needs to capture a charge. The backend never sees
// a full card number.
type Info struct {
	CardName   string
	CardLast4  string
	CardExpiry string
}

type Result struct {
	Provider  string
	Reference string
}

// Gateway captures a charge or rejects it with a reason. A rejection error is
// surfaced verbatim to the client as a 400.
type Gateway interface {
	Charge(ctx context.Context, info Info, amount decimal.Decimal) (Result, error)
}

const demoProvider = "DEMO_PAYMENT"

// DemoGateway is the deterministic stand-in for a real payment network.
type DemoGateway struct{}

func (DemoGateway) Charge(_ context.Context, info Info, _ decimal.Decimal) (Result, error) {
	if info.CardName == "" {
		return Result{}, fmt.Errorf("Invalid card name")
	}
	if info.CardLast4 == "" {
		return Result{}, fmt.Errorf("Invalid card number")
	}

	return Result{
		Provider:  demoProvider,
		Reference: "demo_" + uuid.NewString()[:8],
	}, nil
}
