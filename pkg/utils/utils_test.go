package utils

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNights(t *testing.T) {
	from := time.Date(2030, 2, 27, 15, 30, 0, 0, time.UTC)
	to := time.Date(2030, 3, 2, 0, 0, 0, 0, time.UTC)

	nights := Nights(from, to)
	require.Len(t, nights, 3)
	require.Equal(t, "2030-02-27", nights[0].Format(time.DateOnly))
	require.Equal(t, "2030-03-01", nights[2].Format(time.DateOnly))

	require.Empty(t, Nights(to, to))
	require.Empty(t, Nights(to, from))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2030-12-31")
	require.NoError(t, err)
	require.Equal(t, time.Date(2030, 12, 31, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("31/12/2030")
	require.Error(t, err)
}

func TestParseInt(t *testing.T) {
	require.Equal(t, 5, ParseInt("", 5))
	require.Equal(t, 5, ParseInt("abc", 5))
	require.Equal(t, 5, ParseInt("0", 5))
	require.Equal(t, 12, ParseInt("12", 5))
}

func TestGeneratePaymentReference(t *testing.T) {
	now := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	ref := GeneratePaymentReference(now)
	require.Regexp(t, regexp.MustCompile(`^PAY-20300102-030405-\d{6}$`), ref)
}

func TestValidateStruct(t *testing.T) {
	type sample struct {
		Name  string `validate:"required"`
		Count int    `validate:"min=1"`
		Date  string `validate:"datetime=2006-01-02"`
	}

	require.Nil(t, ValidateStruct(sample{Name: "x", Count: 1, Date: "2030-01-01"}))

	errs := ValidateStruct(sample{Date: "tomorrow"})
	require.Equal(t, map[string]string{
		"Name":  "This field is required",
		"Count": "Minimum is 1",
		"Date":  "Must be a date formatted 2006-01-02",
	}, errs)
	require.Equal(t,
		"Count: Minimum is 1; Date: Must be a date formatted 2006-01-02; Name: This field is required",
		FormatValidationErrors(errs))
}

func TestCalculateTotalPages(t *testing.T) {
	require.Equal(t, 0, CalculateTotalPages(0, 10))
	require.Equal(t, 1, CalculateTotalPages(10, 10))
	require.Equal(t, 3, CalculateTotalPages(21, 10))
}
