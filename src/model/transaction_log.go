package model

import "time"

// Transaction actions and statuses recorded in the audit log.
const (
	ActionClaim = "claim"
	ActionClose = "close"

	TxStatusBuilt     = "built"
	TxStatusSubmitted = "submitted"
	TxStatusConfirmed = "confirmed"
	TxStatusFailed    = "failed"
)

// TransactionRecord is an audit entry for a claim or close action, from the
// transaction build through submission.
type TransactionRecord struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	WalletPubkey   string    `gorm:"size:64;index" json:"wallet_pubkey"`
	PositionPubkey string    `gorm:"size:64;index" json:"position_pubkey"`
	Action         string    `gorm:"size:20;not null" json:"action"`
	Signature      string    `gorm:"size:128" json:"signature,omitempty"`
	Attempts       int       `json:"attempts"`
	Status         string    `gorm:"size:20;index" json:"status"`
	Message        string    `gorm:"size:1024" json:"message,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
