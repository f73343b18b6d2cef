package models

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

// Argentine bank account format: XXXX-XXXX-XXXX-XXXXXXXX.
var accountPattern = regexp.MustCompile(`^\d{4}-\d{4}-\d{4}-\d{8}$`)

var allowedCurrencies = map[string]bool{
	"ARS": true,
	"USD": true,
	"EUR": true,
}

// Transfer is an immutable record of a bank transfer made by a company.
// Referential integrity of CompanyID is the caller's responsibility.
type Transfer struct {
	id                 string
	companyID          string
	amount             float64
	currency           string
	destinationAccount string
	description        string
	transferDate       time.Time
}

// NewTransfer builds and validates a transfer. A zero transferDate defaults to
// the current time.
func NewTransfer(id, companyID string, amount float64, currency, destinationAccount, description string, transferDate time.Time) (*Transfer, error) {
	switch {
	case strings.TrimSpace(id) == "":
		return nil, errors.New("Transfer ID is required")
	case strings.TrimSpace(companyID) == "":
		return nil, errors.New("Company ID is required")
	case amount <= 0:
		return nil, errors.New("Transfer amount must be positive")
	case strings.TrimSpace(currency) == "":
		return nil, errors.New("Currency is required")
	case !allowedCurrencies[currency]:
		return nil, errors.New("Currency must be ARS, USD, or EUR")
	case strings.TrimSpace(destinationAccount) == "":
		return nil, errors.New("Destination account is required")
	case !accountPattern.MatchString(destinationAccount):
		return nil, errors.New("Invalid destination account format")
	case strings.TrimSpace(description) == "":
		return nil, errors.New("Transfer description is required")
	}
	if transferDate.IsZero() {
		transferDate = time.Now()
	}
	return &Transfer{
		id:                 id,
		companyID:          companyID,
		amount:             amount,
		currency:           currency,
		destinationAccount: destinationAccount,
		description:        description,
		transferDate:       transferDate,
	}, nil
}

func (t *Transfer) ID() string                 { return t.id }
func (t *Transfer) CompanyID() string          { return t.companyID }
func (t *Transfer) Amount() float64            { return t.amount }
func (t *Transfer) Currency() string           { return t.currency }
func (t *Transfer) DestinationAccount() string { return t.destinationAccount }
func (t *Transfer) Description() string        { return t.description }
func (t *Transfer) TransferDate() time.Time    { return t.transferDate }

// JSON returns the serialization view of the transfer.
func (t *Transfer) JSON() map[string]interface{} {
	return map[string]interface{}{
		"id":                 t.id,
		"companyId":          t.companyID,
		"amount":             t.amount,
		"currency":           t.currency,
		"destinationAccount": t.destinationAccount,
		"description":        t.description,
		"transferDate":       t.transferDate,
	}
}
