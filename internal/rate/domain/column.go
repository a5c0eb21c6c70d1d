package domain

import "fmt"

// Column identifies one of the eight monetary columns of a rate row.
type Column int

const (
	ColumnUnknown Column = iota
	ColumnPaidByClientGeneralWithGst
	ColumnPaidByClientGeneralWithoutGst
	ColumnPaidByClientSpecialWithGst
	ColumnPaidByClientSpecialWithoutGst
	ColumnPaidToInterpreterGeneralWithGst
	ColumnPaidToInterpreterGeneralWithoutGst
	ColumnPaidToInterpreterSpecialWithGst
	ColumnPaidToInterpreterSpecialWithoutGst
)

var columnNames = map[Column]string{
	ColumnPaidByClientGeneralWithGst:         "paid_by_client_general_with_gst",
	ColumnPaidByClientGeneralWithoutGst:      "paid_by_client_general_without_gst",
	ColumnPaidByClientSpecialWithGst:         "paid_by_client_special_with_gst",
	ColumnPaidByClientSpecialWithoutGst:      "paid_by_client_special_without_gst",
	ColumnPaidToInterpreterGeneralWithGst:    "paid_to_interpreter_general_with_gst",
	ColumnPaidToInterpreterGeneralWithoutGst: "paid_to_interpreter_general_without_gst",
	ColumnPaidToInterpreterSpecialWithGst:    "paid_to_interpreter_special_with_gst",
	ColumnPaidToInterpreterSpecialWithoutGst: "paid_to_interpreter_special_without_gst",
}

// AllColumns lists every monetary column in storage order.
var AllColumns = []Column{
	ColumnPaidByClientGeneralWithGst,
	ColumnPaidByClientGeneralWithoutGst,
	ColumnPaidByClientSpecialWithGst,
	ColumnPaidByClientSpecialWithoutGst,
	ColumnPaidToInterpreterGeneralWithGst,
	ColumnPaidToInterpreterGeneralWithoutGst,
	ColumnPaidToInterpreterSpecialWithGst,
	ColumnPaidToInterpreterSpecialWithoutGst,
}

// DBName returns the storage column name, or "" for ColumnUnknown.
func (c Column) DBName() string {
	return columnNames[c]
}

func (c Column) String() string {
	if name, ok := columnNames[c]; ok {
		return name
	}
	return fmt.Sprintf("column(%d)", int(c))
}

type topicClass int

const (
	topicClassGeneral topicClass = iota
	topicClassSpecial
	topicClassCount
)

const (
	priceForClientIdx = iota
	priceForInterpreterIdx
	priceForCount
)

const (
	withoutGstIdx = iota
	withGstIdx
	gstCount
)

// columnTable is indexed by [topic class][price for][gst payer].
var columnTable = [topicClassCount][priceForCount][gstCount]Column{
	topicClassGeneral: {
		priceForClientIdx: {
			withoutGstIdx: ColumnPaidByClientGeneralWithoutGst,
			withGstIdx:    ColumnPaidByClientGeneralWithGst,
		},
		priceForInterpreterIdx: {
			withoutGstIdx: ColumnPaidToInterpreterGeneralWithoutGst,
			withGstIdx:    ColumnPaidToInterpreterGeneralWithGst,
		},
	},
	topicClassSpecial: {
		priceForClientIdx: {
			withoutGstIdx: ColumnPaidByClientSpecialWithoutGst,
			withGstIdx:    ColumnPaidByClientSpecialWithGst,
		},
		priceForInterpreterIdx: {
			withoutGstIdx: ColumnPaidToInterpreterSpecialWithoutGst,
			withGstIdx:    ColumnPaidToInterpreterSpecialWithGst,
		},
	},
}

// IsSpecial reports whether the topic is billed from the special columns.
func (t Topic) IsSpecial() (bool, error) {
	switch t {
	case TopicLegal, TopicMedical:
		return true, nil
	case TopicGeneral, TopicBusiness, TopicEducation, TopicGovernment,
		TopicSocialServices, TopicCommunity, TopicOther:
		return false, nil
	default:
		return false, fmt.Errorf("%w: %q", ErrUnknownTopic, string(t))
	}
}

// SelectColumn picks the monetary column for a topic, payer role and GST flag.
func SelectColumn(topic Topic, priceFor PriceFor, gstPayer bool) (Column, error) {
	special, err := topic.IsSpecial()
	if err != nil {
		return ColumnUnknown, err
	}

	class := topicClassGeneral
	if special {
		class = topicClassSpecial
	}

	var role int
	switch priceFor {
	case PriceForClient:
		role = priceForClientIdx
	case PriceForInterpreter:
		role = priceForInterpreterIdx
	default:
		return ColumnUnknown, fmt.Errorf("%w: %q", ErrUnknownPriceFor, string(priceFor))
	}

	gst := withoutGstIdx
	if gstPayer {
		gst = withGstIdx
	}

	return columnTable[class][role][gst], nil
}
