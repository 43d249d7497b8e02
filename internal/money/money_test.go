package money_test

import (
	"strings"
	"testing"

	"github.com/ginjaninja78/challan-generator/internal/apperror"
	"github.com/ginjaninja78/challan-generator/internal/money"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatIndian(t *testing.T) {
	tests := []struct {
		name         string
		amount       string
		keepDecimals bool
		want         string
	}{
		{"zero", "0", false, "0"},
		{"three digits", "999", false, "999"},
		{"thousand", "1000", false, "1,000"},
		{"ten thousand", "10000", false, "10,000"},
		{"lakh", "123456", false, "1,23,456"},
		{"ten lakh", "1234567", false, "12,34,567"},
		{"crore", "123456789", false, "12,34,56,789"},
		{"truncates not rounds", "1999.99", false, "1,999"},
		{"keeps decimals", "1234.5", true, "1,234.50"},
		{"small with decimals", "7", true, "7.00"},
		{"negative", "-1234567", false, "-12,34,567"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := money.FormatIndian(decimal.RequireFromString(tt.amount), tt.keepDecimals)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatIndianString(t *testing.T) {
	got, err := money.FormatIndianString(" 1,500 ", false)
	require.NoError(t, err)
	assert.Equal(t, "1,500", got)

	_, err = money.FormatIndianString("N/A", false)
	require.Error(t, err)
	assert.True(t, apperror.IsFormat(err))

	assert.Equal(t, "N/A", money.FormatOrRaw(" N/A ", false))
	assert.Equal(t, "12,34,567", money.FormatOrRaw("1234567", false))
}

func TestToWords(t *testing.T) {
	tests := []struct {
		amount int64
		want   string
	}{
		{0, "Zero"},
		{5, "Five"},
		{21, "Twenty-One"},
		{100, "One Hundred"},
		{105, "One Hundred and Five"},
		{1000, "One Thousand"},
		{1005, "One Thousand and Five"},
		{1150, "One Thousand One Hundred and Fifty"},
		{123456, "One Lakh Twenty-Three Thousand Four Hundred and Fifty-Six"},
		{100005, "One Lakh and Five"},
		{12345678, "One Crore Twenty-Three Lakh Forty-Five Thousand Six Hundred and Seventy-Eight"},
		{1050000000, "One Hundred and Five Crore"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got, err := money.ToWords(decimal.NewFromInt(tt.amount))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToWords_NeverCapitalAndOrComma(t *testing.T) {
	for n := int64(0); n < 300000; n += 37 {
		got, err := money.ToWords(decimal.NewFromInt(n))
		require.NoError(t, err)
		assert.NotContains(t, got, "And", "n=%d", n)
		assert.NotContains(t, got, ",", "n=%d", n)
	}
}

func TestToWords_RejectsNegative(t *testing.T) {
	_, err := money.ToWords(decimal.NewFromInt(-1))
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestFormatter_Words(t *testing.T) {
	f := money.Formatter{OnlySuffix: true}
	got, err := f.Words(decimal.RequireFromString("1500.75"))
	require.NoError(t, err)
	assert.Equal(t, "One Thousand Five Hundred Only", got)

	f = money.Formatter{KeepDecimals: true}
	got, err = f.Words(decimal.RequireFromString("1500.75"))
	require.NoError(t, err)
	assert.Equal(t, "One Thousand Five Hundred Rupees and Seventy-Five Paise", got)

	got, err = f.Words(decimal.RequireFromString("0.50"))
	require.NoError(t, err)
	assert.Equal(t, "Fifty Paise", got)

	got, err = f.Words(decimal.RequireFromString("1200.75"))
	require.NoError(t, err)
	assert.Equal(t, "One Thousand Two Hundred Rupees and Seventy-Five Paise", got)

	got, err = f.Words(decimal.RequireFromString("1200.00"))
	require.NoError(t, err)
	assert.Equal(t, "One Thousand Two Hundred", got)

	f = money.Formatter{KeepDecimals: true, OnlySuffix: true}
	got, err = f.Words(decimal.RequireFromString("12.5"))
	require.NoError(t, err)
	assert.Equal(t, "Twelve Rupees and Fifty Paise Only", got)
}

func TestFormatter_RenderAgrees(t *testing.T) {
	f := money.Formatter{}
	r, err := f.Render(decimal.RequireFromString("1234567.89"))
	require.NoError(t, err)

	assert.True(t, r.Amount.Equal(decimal.NewFromInt(1234567)))
	assert.Equal(t, money.FormatIndian(r.Amount, false), r.Display)

	words, err := money.ToWords(r.Amount)
	require.NoError(t, err)
	assert.Equal(t, words, r.Words)
	assert.True(t, strings.HasPrefix(r.Words, "Twelve Lakh"))
}

func TestFormatter_ParseAmount(t *testing.T) {
	whole := money.Formatter{}
	dec := money.Formatter{KeepDecimals: true}

	tests := []struct {
		name     string
		f        money.Formatter
		raw      string
		wantRule string
	}{
		{"whole ok", whole, "1,500", ""},
		{"whole rejects fraction", whole, "10.5", "whole"},
		{"decimal ok", dec, "10.50", ""},
		{"decimal rejects three places", dec, "10.505", "decimals"},
		{"negative", whole, "-3", "min"},
		{"non numeric", whole, "abc", "numeric"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.f.ParseAmount(tt.raw)
			if tt.wantRule == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			vs := apperror.ViolationsOf(err)
			require.Len(t, vs, 1)
			assert.Equal(t, tt.wantRule, vs[0].Rule)
		})
	}
}
