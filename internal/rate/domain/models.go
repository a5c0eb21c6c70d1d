// Package domain contains the interpreting rate table model and lookup contract.
package domain

import (
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// RateRow is one row of the interpreting rate table. Rows are reference data
// and are never mutated by pricing.
type RateRow struct {
	ID                snowflake.ID       `json:"id" gorm:"primaryKey"`
	Code              string             `json:"code" gorm:"type:text;not null;uniqueIndex"`
	InterpreterType   InterpreterType    `json:"interpreter_type" gorm:"type:varchar(64);not null;index:idx_interpreting_rates_lookup"`
	SchedulingType    SchedulingType     `json:"scheduling_type" gorm:"type:varchar(64);not null;index:idx_interpreting_rates_lookup"`
	CommunicationType CommunicationType  `json:"communication_type" gorm:"type:varchar(64);not null;index:idx_interpreting_rates_lookup"`
	InterpretingType  InterpretingType   `json:"interpreting_type" gorm:"type:varchar(64);not null;index:idx_interpreting_rates_lookup"`
	Qualifier         RateQualifier      `json:"qualifier" gorm:"type:varchar(32);not null;index:idx_interpreting_rates_lookup"`
	DetailSequence    RateDetailSequence `json:"details_sequence" gorm:"column:details_sequence;type:varchar(32);not null;index:idx_interpreting_rates_lookup"`
	DetailsTime       *int               `json:"details_time" gorm:"column:details_time"`

	PaidByClientGeneralWithGst         decimal.NullDecimal `json:"paid_by_client_general_with_gst" gorm:"type:numeric(12,2)"`
	PaidByClientGeneralWithoutGst      decimal.NullDecimal `json:"paid_by_client_general_without_gst" gorm:"type:numeric(12,2)"`
	PaidByClientSpecialWithGst         decimal.NullDecimal `json:"paid_by_client_special_with_gst" gorm:"type:numeric(12,2)"`
	PaidByClientSpecialWithoutGst      decimal.NullDecimal `json:"paid_by_client_special_without_gst" gorm:"type:numeric(12,2)"`
	PaidToInterpreterGeneralWithGst    decimal.NullDecimal `json:"paid_to_interpreter_general_with_gst" gorm:"type:numeric(12,2)"`
	PaidToInterpreterGeneralWithoutGst decimal.NullDecimal `json:"paid_to_interpreter_general_without_gst" gorm:"type:numeric(12,2)"`
	PaidToInterpreterSpecialWithGst    decimal.NullDecimal `json:"paid_to_interpreter_special_with_gst" gorm:"type:numeric(12,2)"`
	PaidToInterpreterSpecialWithoutGst decimal.NullDecimal `json:"paid_to_interpreter_special_without_gst" gorm:"type:numeric(12,2)"`

	CreatedAt time.Time `json:"created_at" gorm:"not null"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null"`
}

// TableName sets the database table name.
func (RateRow) TableName() string { return "interpreting_rates" }

// Price returns the value of a monetary column. An unknown column reads as absent.
func (r *RateRow) Price(col Column) decimal.NullDecimal {
	if r == nil {
		return decimal.NullDecimal{}
	}
	switch col {
	case ColumnPaidByClientGeneralWithGst:
		return r.PaidByClientGeneralWithGst
	case ColumnPaidByClientGeneralWithoutGst:
		return r.PaidByClientGeneralWithoutGst
	case ColumnPaidByClientSpecialWithGst:
		return r.PaidByClientSpecialWithGst
	case ColumnPaidByClientSpecialWithoutGst:
		return r.PaidByClientSpecialWithoutGst
	case ColumnPaidToInterpreterGeneralWithGst:
		return r.PaidToInterpreterGeneralWithGst
	case ColumnPaidToInterpreterGeneralWithoutGst:
		return r.PaidToInterpreterGeneralWithoutGst
	case ColumnPaidToInterpreterSpecialWithGst:
		return r.PaidToInterpreterSpecialWithGst
	case ColumnPaidToInterpreterSpecialWithoutGst:
		return r.PaidToInterpreterSpecialWithoutGst
	default:
		return decimal.NullDecimal{}
	}
}

// SetPrice assigns a monetary column.
func (r *RateRow) SetPrice(col Column, value decimal.Decimal) {
	v := decimal.NewNullDecimal(value)
	switch col {
	case ColumnPaidByClientGeneralWithGst:
		r.PaidByClientGeneralWithGst = v
	case ColumnPaidByClientGeneralWithoutGst:
		r.PaidByClientGeneralWithoutGst = v
	case ColumnPaidByClientSpecialWithGst:
		r.PaidByClientSpecialWithGst = v
	case ColumnPaidByClientSpecialWithoutGst:
		r.PaidByClientSpecialWithoutGst = v
	case ColumnPaidToInterpreterGeneralWithGst:
		r.PaidToInterpreterGeneralWithGst = v
	case ColumnPaidToInterpreterGeneralWithoutGst:
		r.PaidToInterpreterGeneralWithoutGst = v
	case ColumnPaidToInterpreterSpecialWithGst:
		r.PaidToInterpreterSpecialWithGst = v
	case ColumnPaidToInterpreterSpecialWithoutGst:
		r.PaidToInterpreterSpecialWithoutGst = v
	}
}

// Discriminators selects rate rows. Empty fields do not constrain the lookup.
type Discriminators struct {
	InterpreterType   InterpreterType
	SchedulingType    SchedulingType
	CommunicationType CommunicationType
	InterpretingType  InterpretingType
	Qualifier         RateQualifier
	DetailSequence    RateDetailSequence
}

func (d Discriminators) String() string {
	return fmt.Sprintf("%s/%s/%s/%s/%s/%s",
		d.InterpreterType,
		d.SchedulingType,
		d.CommunicationType,
		d.InterpretingType,
		d.Qualifier,
		d.DetailSequence,
	)
}

// With returns a copy scoped to one qualifier and detail sequence.
func (d Discriminators) With(q RateQualifier, seq RateDetailSequence) Discriminators {
	d.Qualifier = q
	d.DetailSequence = seq
	return d
}

// ColumnSet lists the monetary columns a lookup should load.
type ColumnSet []Column

// Validate checks the key fields of a row before it is written.
func (r *RateRow) Validate() error {
	if r.InterpreterType == "" || r.SchedulingType == "" || r.CommunicationType == "" || r.InterpretingType == "" {
		return fmt.Errorf("%w: discriminators are required", ErrInvalidRate)
	}
	switch r.Qualifier {
	case RateQualifierStandardHours, RateQualifierAfterHours:
	default:
		return fmt.Errorf("%w: unknown qualifier %q", ErrInvalidRate, r.Qualifier)
	}
	switch r.DetailSequence {
	case RateDetailSequenceFirstMinutes, RateDetailSequenceAdditionalBlock:
	default:
		return fmt.Errorf("%w: unknown details sequence %q", ErrInvalidRate, r.DetailSequence)
	}
	if r.DetailsTime != nil && *r.DetailsTime <= 0 {
		return fmt.Errorf("%w: details time must be positive", ErrInvalidRate)
	}
	for _, col := range AllColumns {
		if p := r.Price(col); p.Valid && p.Decimal.IsNegative() {
			return fmt.Errorf("%w: %s must not be negative", ErrInvalidRate, col)
		}
	}
	return nil
}
