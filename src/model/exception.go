package model

import "time"

// Exception is a persisted upstream or proxy failure, kept for auditing and
// debugging.
type Exception struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// Where the error happened
	Origin    string `gorm:"size:100;index" json:"origin"`    // e.g. "handler"
	Operation string `gorm:"size:100;index" json:"operation"` // e.g. "portfolio"

	Message string `gorm:"type:text" json:"message"`
	Stack   string `gorm:"type:text" json:"stack"`
	Level   string `gorm:"size:20;index" json:"level"`

	// Extra context stored as JSON (optional)
	Context string `json:"context,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
