package services

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestOrderClause(t *testing.T) {
	cases := []struct {
		ordering string
		want     string
	}{
		{"created_at", "created_at ASC"},
		{"-created_at", "created_at DESC"},
		{"rental_amount", "rental_amount ASC"},
		{"-rental_amount", "rental_amount DESC"},
		{"", "created_at ASC"},
		{"  id ", "created_at ASC"},
		{"name; DROP TABLE properties", "created_at ASC"},
		{"-unknown", "created_at DESC"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, orderClause(tc.ordering), "ordering %q", tc.ordering)
	}
}

func TestValidatePropertyInput(t *testing.T) {
	str := func(s string) *string { return &s }
	dec := func(s string) *decimal.Decimal {
		d := decimal.RequireFromString(s)
		return &d
	}

	t.Run("create requires core fields", func(t *testing.T) {
		vErr := validatePropertyInput(PropertyInput{}, true)
		if assert.NotNil(t, vErr) {
			assert.Contains(t, vErr.Fields, "area")
			assert.Contains(t, vErr.Fields, "district")
			assert.Contains(t, vErr.Fields, "rental_amount")
		}
	})

	t.Run("update allows sparse input", func(t *testing.T) {
		assert.Nil(t, validatePropertyInput(PropertyInput{}, false))
	})

	t.Run("rental amount must be positive", func(t *testing.T) {
		vErr := validatePropertyInput(PropertyInput{RentalAmount: dec("0")}, false)
		if assert.NotNil(t, vErr) {
			assert.Contains(t, vErr.Fields, "rental_amount")
		}
	})

	t.Run("deposit and viewing fee allow zero", func(t *testing.T) {
		in := PropertyInput{Deposit: dec("0"), ViewingFee: dec("0")}
		assert.Nil(t, validatePropertyInput(in, false))
	})

	t.Run("negative fees rejected", func(t *testing.T) {
		in := PropertyInput{Deposit: dec("-1"), ViewingFee: dec("-0.5")}
		vErr := validatePropertyInput(in, false)
		if assert.NotNil(t, vErr) {
			assert.Contains(t, vErr.Fields, "deposit")
			assert.Contains(t, vErr.Fields, "viewing_fee")
		}
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		vErr := validatePropertyInput(PropertyInput{Status: str("condemned")}, false)
		if assert.NotNil(t, vErr) {
			assert.Contains(t, vErr.Fields, "status")
		}
	})

	t.Run("valid create input", func(t *testing.T) {
		in := PropertyInput{
			Area:         str("Ha Abia"),
			District:     str("Maseru"),
			RentalAmount: dec("1500"),
			Status:       str("occupied"),
		}
		assert.Nil(t, validatePropertyInput(in, true))
	})
}

func TestMediaURL(t *testing.T) {
	assert.Equal(t, "http://localhost:8000/media/property_images/a.jpg",
		MediaURL("http://localhost:8000", "property_images/a.jpg"))
	assert.Equal(t, "http://localhost:8000/media/a.jpg",
		MediaURL("http://localhost:8000/", "a.jpg"))
	assert.Equal(t, "", MediaURL("http://localhost:8000", ""))
}

func TestTruncateBody(t *testing.T) {
	assert.Equal(t, "short", truncateBody("short", 50))
	long := "aaaaaaaaaabbbbbbbbbbccccccccccddddddddddeeeeeeeeeeX"
	got := truncateBody(long, 50)
	assert.Len(t, got, 53)
	assert.Equal(t, long[:50]+"...", got)

	// counts characters, not bytes: 30 CJK runes are 90 bytes but fit
	cjk := strings.Repeat("文", 30)
	assert.Equal(t, cjk, truncateBody(cjk, 50))

	wide := strings.Repeat("文", 60)
	got = truncateBody(wide, 50)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("文", 50)+"...", got)
}
