// Модели HTTP API. Числовые денежные поля передаются как JSON-числа,
// отрендеренные из decimal с ровно двумя знаками после запятой.
package rest

import "encoding/json"

// BidRequest принимает числа и строки с числами, поэтому поля нетипизированы.
type BidRequest struct {
	ProductID  any `json:"product_id"`
	CurrentCPC any `json:"current_cpc"`
	TargetROAS any `json:"target_roas"`
}

type BidResponse struct {
	AdjustedCPC json.Number `json:"adjusted_cpc"`
	BidID       int64       `json:"bid_id"`
}

type Bid struct {
	ID           int64       `json:"id"`
	ProductID    int64       `json:"product_id"`
	CurrentCPC   json.Number `json:"current_cpc"`
	TargetROAS   json.Number `json:"target_roas"`
	AdjustedCPC  json.Number `json:"adjusted_cpc"`
	CalculatedAt string      `json:"calculated_at"`
	CreatedAt    string      `json:"created_at"`
	UpdatedAt    string      `json:"updated_at"`
}

// ValidationErrors Список ошибок валидации, в порядке product_id, current_cpc, target_roas
type ValidationErrors struct {
	Errors []string `json:"errors"`
}

type AuditSummary struct {
	TotalBids      int    `json:"total_bids"`
	FlaggedBids    int    `json:"flagged_bids"`
	AuditTimestamp string `json:"audit_timestamp"`
}

type AuditTask struct {
	TaskID  string        `json:"task_id"`
	Queue   string        `json:"queue,omitempty"`
	State   string        `json:"state,omitempty"`
	Summary *AuditSummary `json:"summary,omitempty"`
	Error   string        `json:"error,omitempty"`
}

// Error Модель ошибок
type Error struct {
	// Code Код ошибки
	Code ErrorCode `json:"code"`

	// Error Сообщение об ошибке
	Error string `json:"error"`

	// SupportID Идентификатор запроса для поддержки
	SupportID string `json:"supportId"`
}

// ErrorCode Код ошибки
type ErrorCode string
