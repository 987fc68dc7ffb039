package view

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/kwhmarket/internal/export"
	"github.com/MrJamesThe3rd/kwhmarket/internal/transaction"
)

type txState int

const (
	txStateList txState = iota
	txStateConfirm
)

// txItem wraps a transaction to implement list.Item.
type txItem struct {
	tx *transaction.Transaction
}

func (i txItem) Title() string {
	status := lipgloss.NewStyle().Faint(true).Render(fmt.Sprintf("[%s]", i.tx.Status))

	return fmt.Sprintf("%s  %s kWh  %s €  %s", FormatDate(i.tx.CreatedAt), FormatKwh(i.tx.KwhAmount),
		FormatMoney(i.tx.TotalAmount), status)
}

func (i txItem) Description() string {
	return fmt.Sprintf("seller %d → buyer %d | %s | offer %s", i.tx.SellerID, i.tx.BuyerID, i.tx.PaymentMethod, i.tx.OfferID)
}

func (i txItem) FilterValue() string {
	return fmt.Sprintf("%d %d %s", i.tx.SellerID, i.tx.BuyerID, i.tx.OfferID)
}

type TransactionsModel struct {
	CommonModel
	txService *transaction.Service

	state    txState
	txs      []*transaction.Transaction
	list     list.Model
	form     *huh.Form
	selected *transaction.Transaction
	confirm  bool

	loading bool
	status  string
}

func NewTransactionsModel(svc *transaction.Service) TransactionsModel {
	l := list.New(nil, list.NewDefaultDelegate(), 80, 20)
	l.Title = "Completed exchanges"
	l.SetShowHelp(false)

	return TransactionsModel{
		txService: svc,
		list:      l,
		loading:   true,
	}
}

func (m TransactionsModel) Title() string { return "Transactions" }

func (m TransactionsModel) ShortHelp() string {
	if m.state == txStateConfirm {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | /: search | d: mark disputed | e: export csv | r: refresh"
}

func (m TransactionsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m TransactionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadTxsMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.txs = msg.txs
		items := make([]list.Item, len(msg.txs))
		for i, tx := range msg.txs {
			items[i] = txItem{tx: tx}
		}

		return m, m.list.SetItems(items)

	case disputeMsg:
		m.state = txStateList
		m.form = nil

		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.status = "Transaction marked as disputed"

		return m, m.loadCmd()

	case exportMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		tot := export.Sum(m.txs)
		m.status = fmt.Sprintf("Exported %d transactions (%s kWh) to %s", tot.Count, FormatKwh(tot.Kwh), msg.path)

		return m, nil

	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-4, msg.Height-8)
		return m, nil
	}

	if m.state == txStateConfirm {
		return m.updateConfirm(msg)
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "d":
			return m.enterConfirm()
		case "e":
			return m, exportCmd(m.txs)
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

func (m TransactionsModel) enterConfirm() (tea.Model, tea.Cmd) {
	item, ok := m.list.SelectedItem().(txItem)
	if !ok {
		return m, nil
	}

	if item.tx.Status == transaction.StatusDisputed {
		m.status = "Transaction is already disputed"
		return m, nil
	}

	m.selected = item.tx
	m.confirm = false
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("confirm").
				Title(fmt.Sprintf("Mark offer %s as disputed?", item.tx.OfferID)).
				Affirmative("Dispute").
				Negative("Cancel").
				Value(&m.confirm),
		),
	).WithWidth(60).WithShowHelp(false)
	m.state = txStateConfirm

	return m, m.form.Init()
}

func (m TransactionsModel) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = txStateList
		m.form = nil

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if !m.form.GetBool("confirm") {
		m.state = txStateList
		m.form = nil

		return m, nil
	}

	return m, m.disputeCmd(m.selected)
}

func (m TransactionsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading transactions...")
	}

	content := m.list.View()

	if m.state == txStateConfirm && m.form != nil {
		content = lipgloss.JoinVertical(lipgloss.Left, content,
			lipgloss.NewStyle().
				Padding(1, 2).
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("63")).
				Render(m.form.View()),
		)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

// Messages

type loadTxsMsg struct {
	txs []*transaction.Transaction
	err error
}

func (m TransactionsModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		txs, err := m.txService.List(ctx, transaction.ListFilter{})

		return loadTxsMsg{txs: txs, err: err}
	}
}

type disputeMsg struct {
	err error
}

func (m TransactionsModel) disputeCmd(tx *transaction.Transaction) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		return disputeMsg{err: m.txService.MarkDisputed(ctx, tx.ID)}
	}
}

type exportMsg struct {
	path string
	err  error
}

// exportCmd writes txs to a dated CSV file in the working directory.
func exportCmd(txs []*transaction.Transaction) tea.Cmd {
	return func() tea.Msg {
		path := fmt.Sprintf("transactions_%s.csv", time.Now().Format("20060102_150405"))

		f, err := os.Create(path)
		if err != nil {
			return exportMsg{err: fmt.Errorf("creating %s: %w", path, err)}
		}
		defer f.Close()

		if err := export.WriteCSV(f, txs); err != nil {
			return exportMsg{err: err}
		}

		return exportMsg{path: path}
	}
}
