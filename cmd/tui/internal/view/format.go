package view

import (
	"context"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const dbTimeout = 5 * time.Second

var printer = message.NewPrinter(language.Italian)

// FormatKwh renders a kWh quantity with Italian separators.
func FormatKwh(d decimal.Decimal) string {
	return printer.Sprintf("%.2f", d.InexactFloat64())
}

// FormatNullKwh renders an optional quantity, or a dash when unset.
func FormatNullKwh(d decimal.NullDecimal) string {
	if !d.Valid {
		return "-"
	}

	return FormatKwh(d.Decimal)
}

// FormatMoney renders a euro amount rounded half-up to the cent.
func FormatMoney(d decimal.Decimal) string {
	return printer.Sprintf("%.2f", d.Round(2).InexactFloat64())
}

// FormatNullMoney renders an optional amount, or a dash when unset.
func FormatNullMoney(d decimal.NullDecimal) string {
	if !d.Valid {
		return "-"
	}

	return FormatMoney(d.Decimal)
}

// FormatDate formats a time.Time as a short local timestamp.
func FormatDate(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04")
}

// DbCtx returns a context with a standard timeout for database operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func errorStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(s)
}
