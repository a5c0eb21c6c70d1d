package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	pricingdomain "github.com/linguahub/linguahub/internal/pricing/domain"
	quotedomain "github.com/linguahub/linguahub/internal/quote/domain"
)

var (
	labelText = props.Text{Size: 9, Style: fontstyle.Bold}
	valueText = props.Text{Size: 9}
	moneyText = props.Text{Size: 9, Align: align.Right}
)

// RenderReceipt lays out a stored quote as a one-page PDF.
func (s *Service) RenderReceipt(ctx context.Context, id snowflake.ID) ([]byte, error) {
	q, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	var blocks []pricingdomain.PriceBlock
	if err := json.Unmarshal(q.Blocks, &blocks); err != nil {
		return nil, fmt.Errorf("decode quote blocks: %w", err)
	}

	m := maroto.New(config.NewBuilder().
		WithLeftMargin(15).
		WithTopMargin(15).
		WithRightMargin(15).
		Build())

	m.AddRows(text.NewRow(12, "Interpreting price quote", props.Text{Size: 16, Style: fontstyle.Bold, Align: align.Center}))
	m.AddRows(text.NewRow(6, "Quote "+q.ID.String(), props.Text{Size: 8, Align: align.Center}))
	m.AddRows(line.NewRow(4))

	m.AddRows(receiptFields(q)...)
	m.AddRows(line.NewRow(4))

	m.AddRow(7,
		text.NewCol(2, "#", labelText),
		text.NewCol(6, "Minutes", labelText),
		text.NewCol(4, "Price", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
	)
	for i, b := range blocks {
		m.AddRow(6,
			text.NewCol(2, strconv.Itoa(i+1), valueText),
			text.NewCol(6, strconv.Itoa(b.Duration), valueText),
			text.NewCol(4, b.Price.StringFixed(2), moneyText),
		)
	}
	m.AddRows(line.NewRow(4))
	m.AddRow(8,
		text.NewCol(8, "Total", props.Text{Size: 11, Style: fontstyle.Bold}),
		text.NewCol(4, q.Price.StringFixed(2), props.Text{Size: 11, Style: fontstyle.Bold, Align: align.Right}),
	)
	if q.AddedDurationToLastBlockWhenRounding > 0 {
		m.AddRows(text.NewRow(6,
			fmt.Sprintf("Includes %d minutes added by rounding up to whole blocks.", q.AddedDurationToLastBlockWhenRounding),
			props.Text{Size: 8, Style: fontstyle.Italic},
		))
	}
	m.AddRows(text.NewRow(6, "Checksum "+q.Checksum, props.Text{Size: 7, Top: 2}))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("render receipt %s: %w", q.ID, err)
	}
	return doc.GetBytes(), nil
}

func receiptFields(q *quotedomain.PriceQuote) []core.Row {
	gst := "no"
	if q.GstPayer {
		gst = "yes"
	}
	fields := [][2]string{
		{"Issued", q.CreatedAt.UTC().Format(time.RFC1123)},
		{"Quote type", string(q.Kind)},
		{"Interpreter", string(q.InterpreterType)},
		{"Scheduling", string(q.SchedulingType)},
		{"Communication", string(q.CommunicationType)},
		{"Interpreting", string(q.InterpretingType)},
		{"Topic", string(q.Topic)},
		{"Scheduled at", q.ScheduledAt.UTC().Format(time.RFC1123)},
		{"Duration", strconv.Itoa(q.Duration) + " minutes"},
		{"Price for", string(q.PriceFor)},
		{"GST payer", gst},
	}

	rows := make([]core.Row, 0, len(fields))
	for _, f := range fields {
		rows = append(rows, fieldRow(f[0], f[1]))
	}
	return rows
}

func fieldRow(label, value string) core.Row {
	return row.New(6).Add(
		text.NewCol(4, label, labelText),
		text.NewCol(8, value, valueText),
	)
}
