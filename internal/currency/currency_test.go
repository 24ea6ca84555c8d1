package currency_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/budgetbuddy/internal/currency"
)

func TestParseMajor(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		code    string
		want    int64
		wantErr bool
	}{
		{name: "Whole", in: "250", code: "USD", want: 25000},
		{name: "Cents", in: "12.34", code: "USD", want: 1234},
		{name: "Padded", in: " 7.5 ", code: "EUR", want: 750},
		{name: "NoMinorUnit", in: "1500", code: "JPY", want: 1500},
		{name: "TooPrecise", in: "1.234", code: "USD", wantErr: true},
		{name: "FractionalYen", in: "1.5", code: "JPY", wantErr: true},
		{name: "Garbage", in: "ten", code: "USD", wantErr: true},
		{name: "UnknownCurrency", in: "1", code: "ZZZ", wantErr: true},
		{name: "Overflow", in: "99999999999999999999", code: "USD", wantErr: true},
		{name: "OverflowWraps", in: "184467440737095516.17", code: "USD", wantErr: true},
		{name: "NegativeOverflow", in: "-99999999999999999999", code: "USD", wantErr: true},
		{name: "Negative", in: "-3.00", code: "USD", want: -300},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := currency.ParseMajor(tt.in, tt.code)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatMajor(t *testing.T) {
	got, err := currency.FormatMajor(123456, "USD")
	require.NoError(t, err)
	assert.Equal(t, "1234.56", got)

	got, err = currency.FormatMajor(-5, "EUR")
	require.NoError(t, err)
	assert.Equal(t, "-0.05", got)

	got, err = currency.FormatMajor(1500, "JPY")
	require.NoError(t, err)
	assert.Equal(t, "1500", got)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "$1,234.56", currency.Format(123456, "USD"))
	assert.Equal(t, "+$1.00", currency.Signed(100, "usd"))
	assert.Equal(t, "42 ZZZ", currency.Format(42, "ZZZ"))
	assert.True(t, currency.Valid("IDR"))
	assert.False(t, currency.Valid("ZZZ"))
}
