package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Package types offered to students.
const (
	PackageIndividual = "Individual"
	PackageWeekly     = "Weekly"
	PackageIntensive  = "Intensive"
)

// PackageTypes lists the package types in display order.
var PackageTypes = []string{PackageIndividual, PackageWeekly, PackageIntensive}

// Student represents a tutored student and their billing terms.
type Student struct {
	ID          int64           `db:"id" json:"id"`
	Name        string          `db:"name" json:"name"`
	Email       string          `db:"email" json:"email"`
	Phone       *string         `db:"phone" json:"phone,omitempty"`
	ParentName  *string         `db:"parent_name" json:"parent_name,omitempty"`
	ParentEmail *string         `db:"parent_email" json:"parent_email,omitempty"`
	PackageType string          `db:"package_type" json:"package_type"`
	HourlyRate  decimal.Decimal `db:"hourly_rate" json:"hourly_rate"`
	IsActive    bool            `db:"is_active" json:"is_active"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}

// StudentFilter encapsulates allowed parameters for listing students.
type StudentFilter struct {
	ActiveOnly bool
}
