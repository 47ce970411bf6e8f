package models

import "time"

// Company represents a tenant row.
type Company struct {
	CompanyID   string `json:"companyID" db:"company_id"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`
	IsActive    bool   `json:"isActive" db:"is_active"`
	AuditFields
}

// UserCompany represents a membership row linking a user to a company.
type UserCompany struct {
	UserID    string    `db:"user_id"`
	CompanyID string    `db:"company_id"`
	Role      string    `db:"role"`
	JoinedAt  time.Time `db:"joined_at"`
	AuditFields
}
