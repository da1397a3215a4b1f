package parser

import (
	"errors"
	"testing"
	"time"

	"NewsChecker/internal/domain"
)

func TestParseLocalizedDate(t *testing.T) {
	t.Parallel()

	got, err := ParseLocalizedDate("15 Марта 2023", RussianMonths)
	if err != nil {
		t.Fatalf("ParseLocalizedDate error: %v", err)
	}
	want := time.Date(2023, time.March, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	got, err = ParseLocalizedDate("  1   декабря   2022 ", RussianMonths)
	if err != nil {
		t.Fatalf("case-insensitive month: %v", err)
	}
	if got.Year() != 2022 || got.Month() != time.December || got.Day() != 1 {
		t.Fatalf("unexpected date %v", got)
	}
}

func TestParseLocalizedDateErrors(t *testing.T) {
	t.Parallel()

	cases := []string{
		"15 Марта",
		"15 Foo 2023",
		"",
		"15 Марта 2023 года",
		"xx Марта 2023",
		"15 Марта 20x3",
		"31 Февраля 2023",
		"0 Мая 2023",
	}

	for _, text := range cases {
		if _, err := ParseLocalizedDate(text, RussianMonths); !errors.Is(err, domain.ErrDateFormat) {
			t.Fatalf("%q: expected ErrDateFormat, got %v", text, err)
		}
	}
}

func TestMonthTableValidate(t *testing.T) {
	t.Parallel()

	if err := RussianMonths.Validate(); err != nil {
		t.Fatalf("default table invalid: %v", err)
	}

	broken := MonthTable{}
	for name, month := range RussianMonths {
		broken[name] = month
	}
	broken["Мая"] = time.January
	if err := broken.Validate(); err == nil {
		t.Fatalf("expected duplicate month to fail validation")
	}

	if err := (MonthTable{"Jan": time.January}).Validate(); err == nil {
		t.Fatalf("expected short table to fail validation")
	}
}
