// Package domain describes the interpreting price calculation contract.
package domain

import (
	"time"

	ratedomain "github.com/linguahub/linguahub/internal/rate/domain"
	"github.com/shopspring/decimal"
)

// PriceRequest carries the appointment attributes that select rate rows.
type PriceRequest struct {
	InterpreterType   ratedomain.InterpreterType   `json:"interpreter_type"`
	SchedulingType    ratedomain.SchedulingType    `json:"scheduling_type"`
	CommunicationType ratedomain.CommunicationType `json:"communication_type"`
	InterpretingType  ratedomain.InterpretingType  `json:"interpreting_type"`
	Topic             ratedomain.Topic             `json:"topic"`

	// InterpreterTimezone takes precedence over ClientTimezone when
	// evaluating standard hours. Both are IANA names.
	InterpreterTimezone string `json:"interpreter_timezone,omitempty"`
	ClientTimezone      string `json:"client_timezone,omitempty"`
}

// Discriminators returns the rate lookup key without window or tier.
func (r PriceRequest) Discriminators() ratedomain.Discriminators {
	return ratedomain.Discriminators{
		InterpreterType:   r.InterpreterType,
		SchedulingType:    r.SchedulingType,
		CommunicationType: r.CommunicationType,
		InterpretingType:  r.InterpretingType,
	}
}

// OneDayParams prices one day of an appointment.
type OneDayParams struct {
	// Duration in minutes.
	Duration        int                 `json:"duration"`
	ScheduleInstant time.Time           `json:"schedule_instant"`
	GstPayer        bool                `json:"gst_payer"`
	PriceFor        ratedomain.PriceFor `json:"price_for"`

	// ForceNormalTime and ForceOvertime move the start to just after the
	// opening or closing of standard hours. They are used when pricing the
	// second day of a multi-day or overtime appointment.
	ForceNormalTime bool `json:"force_normal_time"`
	ForceOvertime   bool `json:"force_overtime"`
}

// AdditionalBlockParams prices one more block of an existing appointment.
type AdditionalBlockParams struct {
	BlockDuration        int                 `json:"block_duration"`
	BlockScheduleInstant time.Time           `json:"block_schedule_instant"`
	GstPayer             bool                `json:"gst_payer"`
	PriceFor             ratedomain.PriceFor `json:"price_for"`
}

// PriceBlock is one priced unit of the audit trail.
type PriceBlock struct {
	Price    decimal.Decimal `json:"price"`
	Duration int             `json:"duration"`
}

// CalculationResult is the output of a price calculation. The block durations
// minus AddedDurationToLastBlockWhenRounding equal the requested duration.
type CalculationResult struct {
	Price                                decimal.Decimal `json:"price"`
	PriceByBlocks                        []PriceBlock    `json:"price_by_blocks"`
	AddedDurationToLastBlockWhenRounding int             `json:"added_duration_to_last_block_when_rounding"`
}

// CoveredDuration sums the durations of all blocks.
func (r *CalculationResult) CoveredDuration() int {
	total := 0
	for _, b := range r.PriceByBlocks {
		total += b.Duration
	}
	return total
}
