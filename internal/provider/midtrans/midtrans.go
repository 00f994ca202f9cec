package midtrans

import (
	"context"
	"fmt"

	"zakat-service/internal/domain"
	"zakat-service/pkg/xerrors"
)

// Provider adapts the Snap client to the payment orchestrator's gateway
// interface.
type Provider struct {
	client *Client
}

func NewProvider(client *Client) *Provider {
	return &Provider{client: client}
}

func (p *Provider) Name() string {
	return "midtrans"
}

func (p *Provider) CreateSession(ctx context.Context, req domain.SessionRequest) (domain.PaymentSession, error) {
	res, err := p.client.CreateSnapTransaction(ctx, snapRequest{
		TransactionDetails: snapTransactionDetails{
			OrderID:     req.OrderID,
			GrossAmount: req.GrossAmount,
		},
		CustomerDetails: snapCustomerDetails{
			FirstName: req.Customer.FullName,
			Email:     req.Customer.Email,
			Phone:     req.Customer.Phone,
		},
		ItemDetails: []snapItemDetail{{
			ID:       req.ItemID,
			Name:     req.ItemName,
			Price:    req.GrossAmount,
			Quantity: 1,
		}},
		Expiry: &snapExpiry{Duration: 24, Unit: "hour"},
	})
	if err != nil {
		return domain.PaymentSession{}, fmt.Errorf("%w: %v", xerrors.ErrPaymentGateway, err)
	}
	return domain.PaymentSession{Token: res.Token, RedirectURL: res.RedirectURL}, nil
}
