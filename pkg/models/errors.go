package models

import (
	"errors"
	"fmt"

	"github.com/envelope-zero/payday/pkg/ledger"
	"github.com/google/uuid"
)

var (
	ErrGeneral          = errors.New("an error occurred on the server during your request")
	ErrResourceNotFound = errors.New("there is no")
	ErrCapacityExceeded = errors.New("the amount exceeds the available capacity")
	ErrAmountMismatch   = errors.New("the amounts do not add up")
	ErrConflict         = errors.New("the request conflicts with the current state")
	ErrInvalidArgument  = errors.New("invalid argument")
)

var (
	ErrAttributionAmountNotPositive = errors.New("attribution amounts must be larger than zero")
	ErrAttributionTypeInvalid       = errors.New("the attribution type must be one of 'manual' or 'automatic'")
	ErrIncomeEventUnbalanced        = errors.New("allocated and remaining amount of an income event must add up to its amount")
	ErrIncomeEventOverallocated     = errors.New("the remaining amount of an income event must not be negative")
	ErrAuditRecordImmutable         = errors.New("audit records cannot be modified or deleted")
	ErrAllocationCategoryNotUnique  = errors.New("a budget category can only be allocated once per income event")
	ErrReferenceNotFound            = errors.New("there is no resource for the ID you specified in the reference to another resource")
	ErrCurrencyInvalid              = errors.New("the currency must be a valid ISO 4217 code")
)

// NotFoundError is returned when a resource does not exist
// or does not belong to the family of the request.
type NotFoundError struct {
	Entity string
	ID     uuid.UUID
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %s with ID %s", ErrResourceNotFound, e.Entity, e.ID)
}

func (e NotFoundError) Is(target error) bool {
	return target == ErrResourceNotFound
}

// CapacityScope identifies which side of an attribution would be overdrawn.
type CapacityScope string

const (
	CapacityPayment CapacityScope = "payment"
	CapacityIncome  CapacityScope = "income"
)

// CapacityError is returned when an amount would exceed the payment
// total or the remaining amount of an income event.
type CapacityError struct {
	Scope     CapacityScope
	Requested ledger.Money
	Available ledger.Money
}

func (e CapacityError) Error() string {
	return fmt.Sprintf("%s: %s requested, but only %s available on the %s", ErrCapacityExceeded, e.Requested, e.Available, e.Scope)
}

func (e CapacityError) Is(target error) bool {
	return target == ErrCapacityExceeded
}

// AmountMismatchError is returned when split amounts do not add up to the payment amount.
type AmountMismatchError struct {
	Expected ledger.Money
	Actual   ledger.Money
}

func (e AmountMismatchError) Error() string {
	return fmt.Sprintf("%s: expected a total of %s, got %s", ErrAmountMismatch, e.Expected, e.Actual)
}

func (e AmountMismatchError) Is(target error) bool {
	return target == ErrAmountMismatch
}

// ConflictError is returned when the operation is not possible in the current state of a resource.
type ConflictError struct {
	Reason string
}

func (e ConflictError) Error() string {
	return fmt.Sprintf("%s: %s", ErrConflict, e.Reason)
}

func (e ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// InvalidArgumentError is returned for malformed requests.
type InvalidArgumentError struct {
	Field  string
	Reason string
}

func (e InvalidArgumentError) Error() string {
	return fmt.Sprintf("%s %s: %s", ErrInvalidArgument, e.Field, e.Reason)
}

func (e InvalidArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}
