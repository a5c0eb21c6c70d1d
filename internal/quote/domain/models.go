// Package domain holds persisted price quotes.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	pricingdomain "github.com/linguahub/linguahub/internal/pricing/domain"
	ratedomain "github.com/linguahub/linguahub/internal/rate/domain"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type QuoteKind string

const (
	QuoteKindOneDay          QuoteKind = "one_day"
	QuoteKindAdditionalBlock QuoteKind = "additional_block"
)

// QuoteRequest is everything a quote is calculated from. Two requests with
// the same fields produce the same quote.
type QuoteRequest struct {
	Kind            QuoteKind                  `json:"kind"`
	Request         pricingdomain.PriceRequest `json:"request"`
	Duration        int                        `json:"duration"`
	ScheduleInstant time.Time                  `json:"schedule_instant"`
	GstPayer        bool                       `json:"gst_payer"`
	PriceFor        ratedomain.PriceFor        `json:"price_for"`
	ForceNormalTime bool                       `json:"force_normal_time,omitempty"`
	ForceOvertime   bool                       `json:"force_overtime,omitempty"`
}

// PriceQuote is a stored calculation result together with its inputs.
type PriceQuote struct {
	ID       snowflake.ID `json:"id" gorm:"primaryKey"`
	Checksum string       `json:"checksum" gorm:"type:varchar(64);not null;uniqueIndex"`
	Kind     QuoteKind    `json:"kind" gorm:"type:varchar(32);not null"`

	InterpreterType     ratedomain.InterpreterType   `json:"interpreter_type" gorm:"type:varchar(64);not null;index"`
	SchedulingType      ratedomain.SchedulingType    `json:"scheduling_type" gorm:"type:varchar(64)"`
	CommunicationType   ratedomain.CommunicationType `json:"communication_type" gorm:"type:varchar(64)"`
	InterpretingType    ratedomain.InterpretingType  `json:"interpreting_type" gorm:"type:varchar(64);not null"`
	Topic               ratedomain.Topic             `json:"topic" gorm:"type:varchar(64);not null"`
	InterpreterTimezone string                       `json:"interpreter_timezone,omitempty" gorm:"type:varchar(64)"`
	ClientTimezone      string                       `json:"client_timezone,omitempty" gorm:"type:varchar(64)"`

	Duration        int                 `json:"duration" gorm:"not null"`
	ScheduledAt     time.Time           `json:"scheduled_at" gorm:"not null"`
	GstPayer        bool                `json:"gst_payer" gorm:"not null"`
	PriceFor        ratedomain.PriceFor `json:"price_for" gorm:"type:varchar(32);not null"`
	ForceNormalTime bool                `json:"force_normal_time" gorm:"not null"`
	ForceOvertime   bool                `json:"force_overtime" gorm:"not null"`

	Price                                decimal.Decimal `json:"price" gorm:"type:numeric(12,2);not null"`
	Blocks                               datatypes.JSON  `json:"blocks" gorm:"type:json;not null"`
	AddedDurationToLastBlockWhenRounding int             `json:"added_duration_to_last_block_when_rounding" gorm:"not null"`

	CreatedAt time.Time `json:"created_at" gorm:"not null;index"`
}

func (PriceQuote) TableName() string { return "price_quotes" }

// ListFilter narrows quote listings and exports. Zero values do not filter.
type ListFilter struct {
	Kind            QuoteKind
	InterpreterType ratedomain.InterpreterType
	From            time.Time
	To              time.Time
	Limit           int
}

type ExportFormat string

const (
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatJSON ExportFormat = "json"
)

type ExportRequest struct {
	Filter ListFilter
	Format ExportFormat
}

// ExportResult contains the exported data and a sha256 checksum of it.
type ExportResult struct {
	Data     []byte
	Checksum string
	Format   ExportFormat
	Count    int
}
