package normalize

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name         string
		raw          string
		decimalComma bool
		want         string
		blank        bool
		wantErr      bool
	}{
		{name: "plain", raw: "100", want: "100"},
		{name: "thousands and currency", raw: "$1,234.50", want: "1234.5"},
		{name: "euro format", raw: "1.234,50 €", want: "1234.5"},
		{name: "decimal comma option", raw: "12,5", decimalComma: true, want: "12.5"},
		{name: "comma as thousands", raw: "12,500", want: "12500"},
		{name: "currency code", raw: "USD 42.10", want: "42.1"},
		{name: "nbsp grouping", raw: "1 000", want: "1000"},
		{name: "accounting negative", raw: "(3.5)", want: "-3.5"},
		{name: "exponent", raw: "1.5E+3", want: "1500"},
		{name: "blank", raw: "  ", want: "0", blank: true},
		{name: "nan", raw: "NaN", want: "0", blank: true},
		{name: "garbage", raw: "abc", wantErr: true},
		{name: "symbol only", raw: "$", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, blank, err := ParseAmount(tc.raw, tc.decimalComma)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.blank, blank)
			assert.Equal(t, tc.want, got.String())
		})
	}
}

func TestParseNonNegativeRejectsNegative(t *testing.T) {
	t.Parallel()

	_, err := ParseNonNegative("-1", false)
	require.ErrorIs(t, err, errNegative)
}

func TestParseCount(t *testing.T) {
	t.Parallel()

	n, err := ParseCount("1,200", false)
	require.NoError(t, err)
	assert.Equal(t, int64(1200), n)

	n, err = ParseCount("50.0", false)
	require.NoError(t, err)
	assert.Equal(t, int64(50), n)

	n, err = ParseCount("", false)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = ParseCount("2.5", false)
	require.Error(t, err)

	n, err = ParseCount("9223372036854775807", false)
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), n)

	for _, raw := range []string{"1e20", "99999999999999999999", "9223372036854775808"} {
		_, err = ParseCount(raw, false)
		require.Error(t, err, raw)
	}
}
