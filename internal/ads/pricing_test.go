package ads

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/babydeals-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/babydeals-backend/pkg/errors"
)

var testPricing = Pricing{DayRateCents: 1000, MaxDays: 30, Currency: "usd"}

func date(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := ParseDate(value)
	require.NoError(t, err)
	return d
}

func TestQuoteCountsBothEndpoints(t *testing.T) {
	today := time.Date(2026, 10, 1, 15, 30, 0, 0, time.UTC)

	q, err := testPricing.Quote("2026-10-01", "2026-10-01", today)
	require.NoError(t, err)
	require.Equal(t, 1, q.Days)
	require.EqualValues(t, 1000, q.AmountCents)
	require.Equal(t, "10", q.Amount.String())

	q, err = testPricing.Quote("2026-10-05", "2026-10-11", today)
	require.NoError(t, err)
	require.Equal(t, 7, q.Days)
	require.EqualValues(t, 7000, q.AmountCents)
	require.Equal(t, "usd", q.Currency)
}

func TestQuoteHandlesOddDayRates(t *testing.T) {
	p := Pricing{DayRateCents: 1999, Currency: "usd"}
	q, err := p.Quote("2026-10-01", "2026-10-03", time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.EqualValues(t, 5997, q.AmountCents)
	require.Equal(t, "59.97", q.Amount.StringFixed(2))
}

func TestQuoteValidation(t *testing.T) {
	today := time.Date(2026, 10, 10, 8, 0, 0, 0, time.UTC)
	cases := []struct {
		name  string
		start string
		end   string
		field string
	}{
		{name: "end before start", start: "2026-10-12", end: "2026-10-11", field: "end_date"},
		{name: "start in the past", start: "2026-10-09", end: "2026-10-12", field: "start_date"},
		{name: "too long", start: "2026-10-10", end: "2026-11-20", field: "end_date"},
		{name: "bad start format", start: "10/10/2026", end: "2026-10-12", field: "start_date"},
		{name: "bad end format", start: "2026-10-10", end: "", field: "end_date"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := testPricing.Quote(tc.start, tc.end, today)
			require.Error(t, err)
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			require.Equal(t, pkgerrors.CodeValidation, typed.Code())
			details, ok := typed.Details().(map[string]string)
			require.True(t, ok)
			require.Contains(t, details, tc.field)
		})
	}
}

func TestStatusOfUsesInclusiveBounds(t *testing.T) {
	start := date(t, "2026-10-05")
	end := date(t, "2026-10-07")

	require.Equal(t, enums.AdStatusUnpaid, StatusOf(false, start, end, date(t, "2026-10-06")))
	require.Equal(t, enums.AdStatusScheduled, StatusOf(true, start, end, date(t, "2026-10-04")))
	require.Equal(t, enums.AdStatusActive, StatusOf(true, start, end, start))
	require.Equal(t, enums.AdStatusActive, StatusOf(true, start, end, end.Add(23*time.Hour)))
	require.Equal(t, enums.AdStatusExpired, StatusOf(true, start, end, date(t, "2026-10-08")))

	require.True(t, IsActive(true, start, end, date(t, "2026-10-06")))
	require.False(t, IsActive(false, start, end, date(t, "2026-10-06")))
}
