package handler

import (
	"bytes"
	"encoding/json"

	"github.com/fintrack/expense-api/internal/core/domain"
	"github.com/fintrack/expense-api/internal/core/ports"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Request types ---

// amount and date accept either a JSON number or a string, so they are kept
// raw and normalised to a string before reaching the service.
type createTransactionRequest struct {
	Title    string          `json:"title"`
	Amount   json.RawMessage `json:"amount" swaggertype:"number"`
	Type     string          `json:"type" enums:"income,expense"`
	Category string          `json:"category"`
	Date     json.RawMessage `json:"date" swaggertype:"string"`
	Notes    string          `json:"notes"`
}

// updateTransactionRequest distinguishes absent fields (nil) from present
// ones. A JSON null counts as absent.
type updateTransactionRequest struct {
	Title    *string         `json:"title"`
	Amount   json.RawMessage `json:"amount" swaggertype:"number"`
	Type     *string         `json:"type" enums:"income,expense"`
	Category *string         `json:"category"`
	Date     json.RawMessage `json:"date" swaggertype:"string"`
	Notes    *string         `json:"notes"`
}

func (r createTransactionRequest) toInput() (ports.CreateTransactionInput, error) {
	amount, err := scalar("amount", r.Amount)
	if err != nil {
		return ports.CreateTransactionInput{}, err
	}
	date, err := scalar("date", r.Date)
	if err != nil {
		return ports.CreateTransactionInput{}, err
	}
	return ports.CreateTransactionInput{
		Title:    r.Title,
		Amount:   amount,
		Type:     r.Type,
		Category: r.Category,
		Date:     date,
		Notes:    r.Notes,
	}, nil
}

func (r updateTransactionRequest) toPatch() (ports.TransactionPatch, error) {
	patch := ports.TransactionPatch{
		Title:    r.Title,
		Type:     r.Type,
		Category: r.Category,
		Notes:    r.Notes,
	}
	if present(r.Amount) {
		amount, err := scalar("amount", r.Amount)
		if err != nil {
			return ports.TransactionPatch{}, err
		}
		patch.Amount = &amount
	}
	if present(r.Date) {
		date, err := scalar("date", r.Date)
		if err != nil {
			return ports.TransactionPatch{}, err
		}
		patch.Date = &date
	}
	return patch, nil
}

func present(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

// scalar returns the text of a JSON string or number. Absent and null give "".
func scalar(field string, raw json.RawMessage) (string, error) {
	if !present(raw) {
		return "", nil
	}
	trimmed := bytes.TrimSpace(raw)
	switch {
	case trimmed[0] == '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", domain.NewValidationError(field, field+" must be a string or number")
		}
		return s, nil
	case trimmed[0] == '-' || (trimmed[0] >= '0' && trimmed[0] <= '9'):
		return string(trimmed), nil
	default:
		return "", domain.NewValidationError(field, field+" must be a string or number")
	}
}
