package model

import "time"

// Exception is a failed job run persisted for auditing when failure recording is enabled.
type Exception struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// Where the error happened
	Service string `gorm:"size:100;index" json:"service"` // e.g. "swiftjobs"
	Module  string `gorm:"size:100;index" json:"module"`  // job kind, e.g. "backfill"
	Method  string `gorm:"size:100" json:"method"`        // e.g. "Run"

	Message string `gorm:"type:text" json:"message"`
	RunID   string `gorm:"size:36;index" json:"run_id"`

	// debug | info | warn | error | fatal
	Level string `gorm:"size:20;index" json:"level"`

	CreatedAt time.Time `json:"created_at"`
}

func (Exception) TableName() string {
	return "job_exception"
}
