package models

import (
	"strings"

	"golang.org/x/text/currency"
	"gorm.io/gorm"
)

// Family is a household. It is the highest level of organization in Payday,
// all other resources reference it directly or transitively.
type Family struct {
	DefaultModel
	Name     string `json:"name"`
	Currency string `json:"currency"` // ISO 4217 code, e.g. "EUR"
}

func (Family) Self() string {
	return "family"
}

func (f *Family) BeforeSave(_ *gorm.DB) error {
	f.Name = strings.TrimSpace(f.Name)
	f.Currency = strings.TrimSpace(f.Currency)

	if f.Currency == "" {
		return nil
	}

	unit, err := currency.ParseISO(f.Currency)
	if err != nil {
		return ErrCurrencyInvalid
	}
	f.Currency = unit.String()

	return nil
}
