package models

import "github.com/shopspring/decimal"

// Conventional payment methods offered by the forms. Any string is accepted.
var PaymentMethods = []string{"Cash", "Check", "Venmo", "Zelle", "Bank Transfer", "Other"}

// Payment is money received from a student, credited against their balance.
type Payment struct {
	ID              int64           `db:"id" json:"id"`
	StudentID       int64           `db:"student_id" json:"student_id"`
	PaymentDate     Date            `db:"payment_date" json:"payment_date"`
	Amount          decimal.Decimal `db:"amount" json:"amount"`
	PaymentMethod   string          `db:"payment_method" json:"payment_method"`
	ReferenceNumber *string         `db:"reference_number" json:"reference_number,omitempty"`
	Notes           *string         `db:"notes" json:"notes,omitempty"`
}

// PaymentDetail extends a payment with the paying student's contact fields.
type PaymentDetail struct {
	Payment
	StudentName  string `db:"student_name" json:"student_name"`
	StudentEmail string `db:"student_email" json:"student_email"`
}

// PaymentFilter narrows payment listings; every set field is ANDed.
type PaymentFilter struct {
	StudentID *int64
	StartDate *Date
	EndDate   *Date
}
