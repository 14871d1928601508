package pricing

import (
	"github.com/shopspring/decimal"

	pkgerrors "github.com/feastly-app/feastly-backend/pkg/errors"
)

// LineInput is one priced cart line fed into the quote.
type LineInput struct {
	Quantity       int
	UnitPriceCents int
}

// QuoteInput carries everything needed to price an order.
type QuoteInput struct {
	Lines              []LineInput
	DeliveryFeeCents   int
	TipCents           int
	TaxRateBasisPoints int
}

// Quote is the fully computed price breakdown, all amounts in cents.
type Quote struct {
	SubtotalCents    int
	DeliveryFeeCents int
	TaxCents         int
	TipCents         int
	TotalCents       int
}

// Compute prices the order. Tax applies to the item subtotal only and is
// rounded half away from zero to whole cents.
func Compute(input QuoteInput) (Quote, error) {
	if len(input.Lines) == 0 {
		return Quote{}, pkgerrors.New(pkgerrors.CodeValidation, "quote requires at least one line")
	}
	if input.DeliveryFeeCents < 0 || input.TipCents < 0 {
		return Quote{}, pkgerrors.New(pkgerrors.CodeValidation, "fees must be non-negative")
	}
	if input.TaxRateBasisPoints < 0 {
		return Quote{}, pkgerrors.New(pkgerrors.CodeValidation, "tax rate must be non-negative")
	}

	var subtotal int64
	for _, line := range input.Lines {
		if line.Quantity <= 0 {
			return Quote{}, pkgerrors.New(pkgerrors.CodeValidation, "line quantity must be positive")
		}
		if line.UnitPriceCents < 0 {
			return Quote{}, pkgerrors.New(pkgerrors.CodeValidation, "unit price cannot be negative")
		}
		subtotal += int64(line.Quantity) * int64(line.UnitPriceCents)
	}

	tax := taxFor(subtotal, input.TaxRateBasisPoints)
	total := subtotal + int64(input.DeliveryFeeCents) + tax + int64(input.TipCents)

	return Quote{
		SubtotalCents:    int(subtotal),
		DeliveryFeeCents: input.DeliveryFeeCents,
		TaxCents:         int(tax),
		TipCents:         input.TipCents,
		TotalCents:       int(total),
	}, nil
}

func taxFor(subtotalCents int64, basisPoints int) int64 {
	if subtotalCents == 0 || basisPoints == 0 {
		return 0
	}
	rate := decimal.New(int64(basisPoints), -4)
	return decimal.NewFromInt(subtotalCents).Mul(rate).Round(0).IntPart()
}
