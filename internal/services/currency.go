package services

import (
	"fmt"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DefaultCurrencyLocale matches the Brazilian source data.
const DefaultCurrencyLocale = "pt-BR"

// CurrencyFormatter renders monetary totals with the grouping and decimal
// separators of a locale.
type CurrencyFormatter struct {
	printer *message.Printer
	unit    currency.Unit
}

func NewCurrencyFormatter(locale string) (*CurrencyFormatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("parse locale %q: %w", locale, err)
	}

	unit, confidence := currency.FromTag(tag)
	if confidence == language.No {
		return nil, fmt.Errorf("no currency known for locale %q", locale)
	}

	return &CurrencyFormatter{
		printer: message.NewPrinter(tag),
		unit:    unit,
	}, nil
}

// Format returns v with two fraction digits, e.g. 1.234,50 for pt-BR.
func (f *CurrencyFormatter) Format(v float64) string {
	return f.printer.Sprintf("%v", number.Decimal(v, number.Scale(2)))
}

// Code is the ISO 4217 code of the locale's currency.
func (f *CurrencyFormatter) Code() string {
	return f.unit.String()
}
