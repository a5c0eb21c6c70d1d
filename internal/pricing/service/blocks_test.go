package service

import (
	"testing"

	pricingdomain "github.com/linguahub/linguahub/internal/pricing/domain"
	ratedomain "github.com/linguahub/linguahub/internal/rate/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTier(minutes int, price string) tier {
	return tier{price: decimal.NewNullDecimal(dec(price)), duration: &minutes}
}

func TestCalculateBaseRate(t *testing.T) {
	base := testTier(60, "50")
	additional := testTier(30, "20")

	cases := []struct {
		name     string
		duration int
		price    string
		blocks   int
		added    int
	}{
		{name: "one minute", duration: 1, price: "50", blocks: 1, added: 59},
		{name: "exactly the first tier", duration: 60, price: "50", blocks: 1, added: 0},
		{name: "one extra minute", duration: 61, price: "70", blocks: 2, added: 29},
		{name: "one extra block", duration: 90, price: "70", blocks: 2, added: 0},
		{name: "partial second block", duration: 100, price: "90", blocks: 3, added: 20},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := calculateBaseRate(tc.duration, base, additional)
			require.NoError(t, err)
			assert.True(t, dec(tc.price).Equal(res.Price), "price %s", res.Price)
			assert.Len(t, res.PriceByBlocks, tc.blocks)
			assert.Equal(t, tc.added, res.AddedDurationToLastBlockWhenRounding)
			assert.Equal(t, tc.duration, res.CoveredDuration()-res.AddedDurationToLastBlockWhenRounding)
		})
	}
}

func TestCalculateBaseRateMissingTiers(t *testing.T) {
	_, err := calculateBaseRate(30, tier{}, tier{})
	assert.ErrorIs(t, err, pricingdomain.ErrIncorrectRateConfiguration)

	// The additional tier is only needed past the first tier.
	res, err := calculateBaseRate(30, testTier(60, "50"), tier{})
	require.NoError(t, err)
	assert.True(t, dec("50").Equal(res.Price))

	_, err = calculateBaseRate(90, testTier(60, "50"), tier{})
	assert.ErrorIs(t, err, pricingdomain.ErrIncorrectRateConfiguration)

	noDuration := tier{price: decimal.NewNullDecimal(dec("20"))}
	_, err = calculateBaseRate(90, testTier(60, "50"), noDuration)
	assert.ErrorIs(t, err, pricingdomain.ErrIncorrectRateConfiguration)
}

func TestTierProrateRoundsToCents(t *testing.T) {
	assert.True(t, dec("13.33").Equal(testTier(30, "40").prorate(10)))
	assert.True(t, dec("25").Equal(testTier(60, "50").prorate(30)))
	assert.True(t, dec("0.83").Equal(testTier(60, "50").prorate(1)))
}

func straddleBook() rateBook {
	return rateBook{
		ratedomain.RateQualifierStandardHours: {first: testTier(60, "50"), additional: testTier(30, "20")},
		ratedomain.RateQualifierAfterHours:    {first: testTier(30, "40"), additional: testTier(30, "40")},
	}
}

func TestCalculateStraddleIntoStandardHours(t *testing.T) {
	res, err := calculateStraddle(at(6, 50), 40, testHours(t), straddleBook())
	require.NoError(t, err)

	require.Len(t, res.PriceByBlocks, 2)
	assert.True(t, dec("13.33").Equal(res.PriceByBlocks[0].Price))
	assert.Equal(t, 10, res.PriceByBlocks[0].Duration)
	assert.True(t, dec("25").Equal(res.PriceByBlocks[1].Price))
	assert.Equal(t, 30, res.PriceByBlocks[1].Duration)
	assert.True(t, dec("38.33").Equal(res.Price))
	assert.Equal(t, 0, res.AddedDurationToLastBlockWhenRounding)
}

func TestCalculateStraddleFirstTierFitsBeforeBoundary(t *testing.T) {
	// 17:30 + 120: full standard first tier to 18:30, a standard block
	// ending on 19:00, then an after-hours block.
	res, err := calculateStraddle(at(17, 30), 120, testHours(t), straddleBook())
	require.NoError(t, err)

	require.Len(t, res.PriceByBlocks, 3)
	assert.Equal(t, 60, res.PriceByBlocks[0].Duration)
	assert.True(t, dec("50").Equal(res.PriceByBlocks[0].Price))
	assert.True(t, dec("20").Equal(res.PriceByBlocks[1].Price))
	assert.True(t, dec("40").Equal(res.PriceByBlocks[2].Price))
	assert.True(t, dec("110").Equal(res.Price))
	assert.Equal(t, 0, res.AddedDurationToLastBlockWhenRounding)
}

func TestCalculateStraddleSplitsCrossingBlock(t *testing.T) {
	// 17:45 + 90: first tier to 18:45, then a standard block 18:45-19:15
	// split 15 standard / 15 after hours.
	res, err := calculateStraddle(at(17, 45), 90, testHours(t), straddleBook())
	require.NoError(t, err)

	require.Len(t, res.PriceByBlocks, 3)
	assert.True(t, dec("10").Equal(res.PriceByBlocks[1].Price))
	assert.Equal(t, 15, res.PriceByBlocks[1].Duration)
	assert.True(t, dec("20").Equal(res.PriceByBlocks[2].Price))
	assert.Equal(t, 15, res.PriceByBlocks[2].Duration)
	assert.True(t, dec("80").Equal(res.Price))
}

func TestCalculateStraddleMissingOtherWindow(t *testing.T) {
	book := straddleBook()
	delete(book, ratedomain.RateQualifierStandardHours)

	_, err := calculateStraddle(at(6, 50), 40, testHours(t), book)
	assert.ErrorIs(t, err, pricingdomain.ErrIncorrectRateConfiguration)
}

func TestCalculateAdditionalBlock(t *testing.T) {
	hours := testHours(t)

	w, err := resolveWindow(at(9, 0), 30, hours, false, false)
	require.NoError(t, err)
	res, err := calculateAdditionalBlock(w, 30, straddleBook())
	require.NoError(t, err)
	require.Len(t, res.PriceByBlocks, 1)
	assert.True(t, dec("20").Equal(res.Price))

	w, err = resolveWindow(at(18, 50), 30, hours, false, false)
	require.NoError(t, err)
	res, err = calculateAdditionalBlock(w, 30, straddleBook())
	require.NoError(t, err)
	require.Len(t, res.PriceByBlocks, 2)
	assert.True(t, dec("6.67").Equal(res.PriceByBlocks[0].Price))
	assert.Equal(t, 10, res.PriceByBlocks[0].Duration)
	assert.True(t, dec("26.67").Equal(res.PriceByBlocks[1].Price))
	assert.Equal(t, 20, res.PriceByBlocks[1].Duration)
	assert.True(t, dec("33.34").Equal(res.Price))
	assert.Equal(t, 0, res.AddedDurationToLastBlockWhenRounding)
}
