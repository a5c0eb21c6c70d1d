package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	quotedomain "github.com/linguahub/linguahub/internal/quote/domain"
)

// exportLimit caps one export.
const exportLimit = 10000

func (s *Service) Export(ctx context.Context, req quotedomain.ExportRequest) (*quotedomain.ExportResult, error) {
	filter := req.Filter
	if !filter.From.IsZero() && !filter.To.IsZero() && !filter.From.Before(filter.To) {
		return nil, quotedomain.ErrInvalidExportPeriod
	}
	if filter.Limit <= 0 || filter.Limit > exportLimit {
		filter.Limit = exportLimit
	}

	quotes, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	var data []byte
	switch req.Format {
	case quotedomain.ExportFormatCSV, "":
		req.Format = quotedomain.ExportFormatCSV
		data, err = formatCSV(quotes)
	case quotedomain.ExportFormatJSON:
		data, err = json.MarshalIndent(quotes, "", "  ")
	default:
		return nil, fmt.Errorf("%w: %s", quotedomain.ErrUnsupportedFormat, req.Format)
	}
	if err != nil {
		return nil, err
	}

	return &quotedomain.ExportResult{
		Data:     data,
		Checksum: calculateChecksum(data),
		Format:   req.Format,
		Count:    len(quotes),
	}, nil
}

var csvHeader = []string{
	"id",
	"created_at",
	"kind",
	"interpreter_type",
	"scheduling_type",
	"communication_type",
	"interpreting_type",
	"topic",
	"scheduled_at",
	"duration",
	"gst_payer",
	"price_for",
	"price",
	"added_duration_to_last_block_when_rounding",
	"blocks",
	"checksum",
}

func formatCSV(quotes []quotedomain.PriceQuote) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, q := range quotes {
		row := []string{
			q.ID.String(),
			q.CreatedAt.UTC().Format(time.RFC3339),
			string(q.Kind),
			string(q.InterpreterType),
			string(q.SchedulingType),
			string(q.CommunicationType),
			string(q.InterpretingType),
			string(q.Topic),
			q.ScheduledAt.UTC().Format(time.RFC3339),
			strconv.Itoa(q.Duration),
			strconv.FormatBool(q.GstPayer),
			string(q.PriceFor),
			q.Price.StringFixed(2),
			strconv.Itoa(q.AddedDurationToLastBlockWhenRounding),
			string(q.Blocks),
			q.Checksum,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
