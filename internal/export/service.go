package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/MrJamesThe3rd/kwhmarket/internal/transaction"
)

// Lister is the part of the transaction service the exporter reads from.
type Lister interface {
	List(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error)
}

type Service struct {
	transactions Lister
}

func NewService(transactions Lister) *Service {
	return &Service{transactions: transactions}
}

// Filter narrows an export. A zero time leaves that end of the range open.
type Filter struct {
	UserID    *int64
	Status    *transaction.Status
	StartDate time.Time
	EndDate   time.Time
}

type Totals struct {
	Count  int
	Kwh    decimal.Decimal
	Amount decimal.Decimal
}

var header = []string{
	"id", "offer_id", "seller_id", "buyer_id", "kwh", "unit_price", "total_amount",
	"payment_method", "status", "created_at",
}

// Transactions loads the transactions matching f, oldest first. EndDate is
// exclusive.
func (s *Service) Transactions(ctx context.Context, f Filter) ([]*transaction.Transaction, error) {
	txs, err := s.transactions.List(ctx, transaction.ListFilter{UserID: f.UserID, Status: f.Status})
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	out := make([]*transaction.Transaction, 0, len(txs))

	for _, t := range txs {
		if !f.StartDate.IsZero() && t.CreatedAt.Before(f.StartDate) {
			continue
		}

		if !f.EndDate.IsZero() && !t.CreatedAt.Before(f.EndDate) {
			continue
		}

		out = append(out, t)
	}

	slices.SortStableFunc(out, func(a, b *transaction.Transaction) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})

	return out, nil
}

// WriteCSV writes txs to w after a header row. Decimals use a dot separator
// whatever the reader's locale.
func WriteCSV(w io.Writer, txs []*transaction.Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, t := range txs {
		record := []string{
			t.ID.String(),
			t.OfferID.String(),
			strconv.FormatInt(t.SellerID, 10),
			strconv.FormatInt(t.BuyerID, 10),
			t.KwhAmount.StringFixed(2),
			t.UnitPrice.StringFixed(4),
			t.TotalAmount.StringFixed(2),
			t.PaymentMethod,
			string(t.Status),
			t.CreatedAt.UTC().Format(time.RFC3339),
		}

		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing transaction %s: %w", t.ID, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}

	return nil
}

func Sum(txs []*transaction.Transaction) Totals {
	tot := Totals{Kwh: decimal.Zero, Amount: decimal.Zero}

	for _, t := range txs {
		tot.Count++
		tot.Kwh = tot.Kwh.Add(t.KwhAmount)
		tot.Amount = tot.Amount.Add(t.TotalAmount)
	}

	return tot
}

var printer = message.NewPrinter(language.Italian)

// Report renders one line per transaction and a closing total, ready to be
// pasted into a chat message.
func Report(txs []*transaction.Transaction) string {
	var sb strings.Builder

	for _, t := range txs {
		fmt.Fprintf(&sb, "* %s | %d → %d | %s | %s | %s\n",
			t.CreatedAt.Format("02/01/2006"), t.SellerID, t.BuyerID,
			printer.Sprintf("%.2f kWh", t.KwhAmount.InexactFloat64()),
			printer.Sprintf("%.2f €", t.TotalAmount.InexactFloat64()),
			t.PaymentMethod)
	}

	tot := Sum(txs)
	fmt.Fprintf(&sb, "Totale: %d scambi, %s, %s\n", tot.Count,
		printer.Sprintf("%.2f kWh", tot.Kwh.InexactFloat64()),
		printer.Sprintf("%.2f €", tot.Amount.InexactFloat64()))

	return sb.String()
}
