// Package seed loads the default interpreting rate table.
package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gosimple/slug"
	ratedomain "github.com/linguahub/linguahub/internal/rate/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	gstRate            = decimal.RequireFromString("1.10")
	specialTopicFactor = decimal.RequireFromString("1.25")
	interpreterShare   = decimal.RequireFromString("0.65")
	afterHoursFactor   = decimal.RequireFromString("1.5")
	onDemandFactor     = decimal.RequireFromString("1.15")
	sixty              = decimal.NewFromInt(60)
)

// hourly client rates excluding GST, general topics, standard hours, booked
// ahead, remote.
var hourlyRates = map[ratedomain.InterpreterType]decimal.Decimal{
	ratedomain.InterpreterTypeProfessional:   decimal.NewFromInt(90),
	ratedomain.InterpreterTypeLanguageBuddy:  decimal.NewFromInt(55),
	ratedomain.InterpreterTypeCorporateStaff: decimal.NewFromInt(70),
}

var communicationFactors = map[ratedomain.CommunicationType]decimal.Decimal{
	ratedomain.CommunicationTypeAudio:  decimal.NewFromInt(1),
	ratedomain.CommunicationTypeVideo:  decimal.RequireFromString("1.05"),
	ratedomain.CommunicationTypeOnSite: decimal.RequireFromString("1.2"),
}

// flatRates are the escort and simultaneous prices for a professional
// interpreter, client-paid with GST, before the special-topic loading.
var flatRates = map[ratedomain.InterpretingType]decimal.Decimal{
	ratedomain.InterpretingTypeEscort:       decimal.NewFromInt(480),
	ratedomain.InterpretingTypeSimultaneous: decimal.NewFromInt(1200),
}

var (
	interpreterTypes = []ratedomain.InterpreterType{
		ratedomain.InterpreterTypeProfessional,
		ratedomain.InterpreterTypeLanguageBuddy,
		ratedomain.InterpreterTypeCorporateStaff,
	}
	schedulingTypes = []ratedomain.SchedulingType{
		ratedomain.SchedulingTypeOnDemand,
		ratedomain.SchedulingTypePreBooked,
	}
	communicationTypes = []ratedomain.CommunicationType{
		ratedomain.CommunicationTypeAudio,
		ratedomain.CommunicationTypeVideo,
		ratedomain.CommunicationTypeOnSite,
	}
	timedInterpretingTypes = []ratedomain.InterpretingType{
		ratedomain.InterpretingTypeConsecutive,
		ratedomain.InterpretingTypeSignLanguage,
	}
	qualifiers = []ratedomain.RateQualifier{
		ratedomain.RateQualifierStandardHours,
		ratedomain.RateQualifierAfterHours,
	}
)

// RateCode builds the stable code of a rate row from its discriminators.
// Enum underscores become dashes like every other separator.
func RateCode(parts ...string) string {
	return slug.Make(strings.ReplaceAll(strings.Join(parts, " "), "_", " "))
}

// CodeFor derives the code of a row from its discriminators, the same way
// the default table names its rows.
func CodeFor(row ratedomain.RateRow) string {
	if row.InterpretingType.IsFlatRate() {
		return RateCode(string(row.InterpreterType), string(row.InterpretingType), "flat")
	}
	return RateCode(
		string(row.InterpreterType),
		string(row.SchedulingType),
		string(row.CommunicationType),
		string(row.InterpretingType),
		string(row.Qualifier),
		string(row.DetailSequence),
	)
}

// DefaultRates returns the full default rate table.
func DefaultRates() []ratedomain.RateRow {
	var rows []ratedomain.RateRow
	for _, it := range interpreterTypes {
		for _, st := range schedulingTypes {
			for _, ct := range communicationTypes {
				for _, pt := range timedInterpretingTypes {
					for _, q := range qualifiers {
						rows = append(rows,
							timedRow(it, st, ct, pt, q, ratedomain.RateDetailSequenceFirstMinutes),
							timedRow(it, st, ct, pt, q, ratedomain.RateDetailSequenceAdditionalBlock),
						)
					}
				}
			}
		}
		for pt := range flatRates {
			rows = append(rows, flatRow(it, pt))
		}
	}
	return rows
}

func timedRow(it ratedomain.InterpreterType, st ratedomain.SchedulingType, ct ratedomain.CommunicationType, pt ratedomain.InterpretingType, q ratedomain.RateQualifier, seq ratedomain.RateDetailSequence) ratedomain.RateRow {
	minutes := tierMinutes(ct, seq)

	hourly := hourlyRates[it].Mul(communicationFactors[ct])
	if st == ratedomain.SchedulingTypeOnDemand {
		hourly = hourly.Mul(onDemandFactor)
	}
	if q == ratedomain.RateQualifierAfterHours {
		hourly = hourly.Mul(afterHoursFactor)
	}

	row := ratedomain.RateRow{
		InterpreterType:   it,
		SchedulingType:    st,
		CommunicationType: ct,
		InterpretingType:  pt,
		Qualifier:         q,
		DetailSequence:    seq,
		DetailsTime:       &minutes,
	}
	row.Code = CodeFor(row)
	setPrices(&row, hourly.Mul(decimal.NewFromInt(int64(minutes))).Div(sixty))
	return row
}

// tierMinutes: on-site bookings carry a two-hour minimum and half-hour
// blocks, remote ones one hour and quarter-hour blocks.
func tierMinutes(ct ratedomain.CommunicationType, seq ratedomain.RateDetailSequence) int {
	onSite := ct == ratedomain.CommunicationTypeOnSite
	switch {
	case seq == ratedomain.RateDetailSequenceFirstMinutes && onSite:
		return 120
	case seq == ratedomain.RateDetailSequenceFirstMinutes:
		return 60
	case onSite:
		return 30
	default:
		return 15
	}
}

func flatRow(it ratedomain.InterpreterType, pt ratedomain.InterpretingType) ratedomain.RateRow {
	row := ratedomain.RateRow{
		InterpreterType:   it,
		SchedulingType:    ratedomain.SchedulingTypePreBooked,
		CommunicationType: ratedomain.CommunicationTypeOnSite,
		InterpretingType:  pt,
		Qualifier:         ratedomain.RateQualifierStandardHours,
		DetailSequence:    ratedomain.RateDetailSequenceFirstMinutes,
	}
	row.Code = CodeFor(row)
	scale := hourlyRates[it].Div(hourlyRates[ratedomain.InterpreterTypeProfessional])
	setPrices(&row, flatRates[pt].Mul(scale).Div(gstRate))
	return row
}

// setPrices fills all eight columns from the client price excluding GST for
// general topics.
func setPrices(row *ratedomain.RateRow, clientGeneral decimal.Decimal) {
	for _, special := range []bool{false, true} {
		client := clientGeneral
		if special {
			client = client.Mul(specialTopicFactor)
		}
		interpreter := client.Mul(interpreterShare)
		topic := ratedomain.TopicGeneral
		if special {
			topic = ratedomain.TopicLegal
		}
		for _, gst := range []bool{false, true} {
			c, i := client, interpreter
			if gst {
				c, i = c.Mul(gstRate), i.Mul(gstRate)
			}
			clientCol, _ := ratedomain.SelectColumn(topic, ratedomain.PriceForClient, gst)
			interpreterCol, _ := ratedomain.SelectColumn(topic, ratedomain.PriceForInterpreter, gst)
			row.SetPrice(clientCol, c.Round(2))
			row.SetPrice(interpreterCol, i.Round(2))
		}
	}
}

// EnsureDefaultRates upserts the default table. Existing rows with the same
// code are overwritten.
func EnsureDefaultRates(ctx context.Context, repo ratedomain.Repository, log *zap.Logger) (int, error) {
	if repo == nil {
		return 0, errors.New("seed rate repository is required")
	}

	rows := DefaultRates()
	for i := range rows {
		if err := repo.Upsert(ctx, &rows[i]); err != nil {
			return i, fmt.Errorf("seed rate %s: %w", rows[i].Code, err)
		}
	}
	log.Info("default rates seeded", zap.Int("rows", len(rows)))
	return len(rows), nil
}
