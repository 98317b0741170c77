package recommendation

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// CurrencyFormatter renders whole currency amounts as symbol + locale-grouped
// digits with no decimals: "$540,000", "$-5,000".
type CurrencyFormatter struct {
	tag     language.Tag
	symbol  string
	printer *message.Printer
}

// DefaultFormatter formats US dollars.
func DefaultFormatter() CurrencyFormatter {
	return NewCurrencyFormatter(language.AmericanEnglish, "$")
}

func NewCurrencyFormatter(tag language.Tag, symbol string) CurrencyFormatter {
	return CurrencyFormatter{tag: tag, symbol: symbol, printer: message.NewPrinter(tag)}
}

// ParseCurrencyFormatter builds a formatter from a BCP 47 locale string.
func ParseCurrencyFormatter(locale, symbol string) (CurrencyFormatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return CurrencyFormatter{}, err
	}
	return NewCurrencyFormatter(tag, symbol), nil
}

// Format renders amount with the currency symbol prefixed.
func (f CurrencyFormatter) Format(amount int64) string {
	return f.symbol + f.Group(amount)
}

// Group renders an integer with locale thousands separators.
func (f CurrencyFormatter) Group(amount int64) string {
	return f.p().Sprint(number.Decimal(amount))
}

// GroupDecimal renders a plain number with locale separators and up to three
// fraction digits, trailing zeros dropped.
func (f CurrencyFormatter) GroupDecimal(v float64) string {
	return f.p().Sprint(number.Decimal(v, number.MaxFractionDigits(3)))
}

func (f CurrencyFormatter) Tag() language.Tag {
	return f.tag
}

func (f CurrencyFormatter) p() *message.Printer {
	if f.printer == nil {
		return message.NewPrinter(language.AmericanEnglish)
	}
	return f.printer
}
