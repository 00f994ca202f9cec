package domain

// SessionRequest is what the orchestrator hands the payment gateway when a
// method needs a hosted payment session.
type SessionRequest struct {
	OrderID     string
	GrossAmount int64
	Customer    Owner
	ItemID      string
	ItemName    string
}

// PaymentSession is the gateway's answer: a token plus the redirect URL the
// client finishes payment on.
type PaymentSession struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
}

// PaymentNotification is the raw webhook payload delivered by Midtrans.
// StatusCode and GrossAmount stay strings: the signature is computed over
// the exact bytes the gateway sent.
type PaymentNotification struct {
	OrderID           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
	TransactionID     string `json:"transaction_id"`
	PaymentType       string `json:"payment_type"`
}
