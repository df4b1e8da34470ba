package plans

import (
	"context"

	"github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/client"
)

// Price is the part of a Stripe price the catalog sync reads.
type Price struct {
	ID         string
	ProductID  string
	Name       string
	UnitAmount int64
	Currency   string
	Metadata   map[string]string
}

type PriceSource interface {
	RecurringPrices(ctx context.Context) ([]Price, error)
}

// StripePrices lists active recurring EUR prices of one product.
type StripePrices struct {
	api       *client.API
	productID string
}

func NewStripePrices(secretKey, productID string) *StripePrices {
	return &StripePrices{api: client.New(secretKey, nil), productID: productID}
}

func (s *StripePrices) RecurringPrices(ctx context.Context) ([]Price, error) {
	params := &stripe.PriceListParams{}
	params.Context = ctx
	params.Active = stripe.Bool(true)
	params.Type = stripe.String("recurring")
	if s.productID != "" {
		params.Product = stripe.String(s.productID)
	}
	params.AddExpand("data.product")

	var out []Price
	it := s.api.Prices.List(params)
	for it.Next() {
		p := it.Price()
		if !p.Active || p.Recurring == nil || p.Product == nil || !p.Product.Active {
			continue
		}
		if string(p.Currency) != "eur" {
			continue
		}
		if p.Metadata != nil && p.Metadata["visible"] == "false" {
			continue
		}

		name := p.Product.Name
		if v := p.Metadata["plan"]; v != "" {
			name = v
		}
		out = append(out, Price{
			ID:         p.ID,
			ProductID:  p.Product.ID,
			Name:       name,
			UnitAmount: p.UnitAmount,
			Currency:   string(p.Currency),
			Metadata:   p.Metadata,
		})
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
