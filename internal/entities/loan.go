package entities

import "time"

type LoanStatus string

const (
	LoanStatusActive   LoanStatus = "ACTIVE"
	LoanStatusReturned LoanStatus = "RETURNED"
	// LoanStatusOverdue is never persisted. Overdue is derived from an
	// active loan whose due date has passed.
	LoanStatusOverdue LoanStatus = "OVERDUE"
)

// Valid reports whether s is one of the known statuses.
func (s LoanStatus) Valid() bool {
	switch s {
	case LoanStatusActive, LoanStatusReturned, LoanStatusOverdue:
		return true
	}
	return false
}

type Loan struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	BookID        uint       `gorm:"index;not null" json:"book_id"`
	BorrowerName  string     `gorm:"size:256;not null" json:"borrower_name"`
	BorrowerEmail string     `gorm:"index;size:255;not null" json:"borrower_email"`
	BorrowerPhone string     `gorm:"size:64" json:"borrower_phone,omitempty"`
	LoanedAt      time.Time  `gorm:"not null" json:"loaned_at"`
	DueAt         time.Time  `gorm:"index;not null" json:"due_at"`
	ReturnedAt    *time.Time `json:"returned_at,omitempty"`
	Status        LoanStatus `gorm:"index;size:16;not null" json:"status"`
	Notes         string     `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (Loan) TableName() string {
	return "loans"
}

// IsOverdue reports whether the loan is still active past its due date.
func (l *Loan) IsOverdue(now time.Time) bool {
	return l.Status == LoanStatusActive && now.After(l.DueAt)
}

// LoanStats summarizes lending activity.
type LoanStats struct {
	Active   int64 `json:"active"`
	Overdue  int64 `json:"overdue"`
	Returned int64 `json:"returned"`
	Total    int64 `json:"total"`
}
