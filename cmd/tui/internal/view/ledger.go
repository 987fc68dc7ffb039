package view

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/kwhmarket/internal/ledger"
)

type ledgerState int

const (
	ledgerStateBrowse ledgerState = iota
	ledgerStateDonate
)

// LedgerModel shows the admin's donated credit per donor and records
// donations received outside the bot.
type LedgerModel struct {
	CommonModel
	ledger  *ledger.Service
	adminID int64

	state ledgerState
	table table.Model
	rows  []ledger.DonorSummary
	form  *huh.Form

	loading bool
	err     error
	status  string

	// Form bindings
	formDonor string
	formKwh   string
}

func NewLedgerModel(svc *ledger.Service, adminID int64) LedgerModel {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Donor", Width: 14},
			{Title: "Available kWh", Width: 14},
			{Title: "Used kWh", Width: 12},
			{Title: "Records", Width: 8},
		}),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	t.SetStyles(s)

	return LedgerModel{
		ledger:  svc,
		adminID: adminID,
		table:   t,
		loading: true,
	}
}

func (m LedgerModel) Title() string { return "Donations" }

func (m LedgerModel) ShortHelp() string {
	if m.state == ledgerStateDonate {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | n: record donation | r: refresh"
}

func (m LedgerModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m LedgerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadLedgerMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.rows = msg.rows
		m.refreshTable()

		return m, nil

	case donatedMsg:
		m.state = ledgerStateBrowse
		m.form = nil
		m.table.Focus()

		if msg.err != nil {
			m.status = fmt.Sprintf("Error recording donation: %v", msg.err)
			return m, nil
		}

		m.status = fmt.Sprintf("Recorded %s kWh from %d", FormatKwh(msg.donation.KwhAmount), msg.donation.DonorID)

		return m, m.loadCmd()
	}

	if m.state == ledgerStateDonate {
		return m.updateDonate(msg)
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "n":
			return m.enterDonate()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m LedgerModel) enterDonate() (tea.Model, tea.Cmd) {
	m.formDonor = ""
	m.formKwh = ""

	if idx := m.table.Cursor(); idx >= 0 && idx < len(m.rows) {
		m.formDonor = strconv.FormatInt(m.rows[idx].DonorID, 10)
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("donor").
				Title("Donor user id").
				Value(&m.formDonor).
				Validate(func(s string) error {
					if _, err := parseUserID(s); err != nil {
						return err
					}

					return nil
				}),

			huh.NewInput().
				Key("kwh").
				Title("kWh donated").
				Placeholder("10,5").
				Value(&m.formKwh).
				Validate(func(s string) error {
					_, err := parseKwh(s)
					return err
				}),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = ledgerStateDonate
	m.table.Blur()

	return m, m.form.Init()
}

func (m LedgerModel) updateDonate(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = ledgerStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.donateCmd()
}

func (m *LedgerModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.rows))
	for _, r := range m.rows {
		rows = append(rows, table.Row{
			strconv.FormatInt(r.DonorID, 10),
			FormatKwh(r.Available),
			FormatKwh(r.Used),
			strconv.Itoa(r.Donations),
		})
	}

	m.table.SetRows(rows)
}

func (m LedgerModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading donations...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle(fmt.Sprintf("Error: %v", m.err)))
	}

	available, used := decimal.Zero, decimal.Zero
	for _, r := range m.rows {
		available = available.Add(r.Available)
		used = used.Add(r.Used)
	}

	header := fmt.Sprintf("Available: %s kWh | Used: %s kWh",
		activeStyle(FormatKwh(available)), activeStyle(FormatKwh(used)))

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			Render(m.table.View()),
	)

	if m.state == ledgerStateDonate && m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render("Record Donation\n\n" + m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func parseUserID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("enter a positive numeric user id")
	}

	return id, nil
}

// parseKwh accepts both decimal separators.
func parseKwh(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(s), ",", "."))
	if err != nil || !d.IsPositive() {
		return decimal.Zero, errors.New("enter a positive amount, e.g. 10,5")
	}

	return d, nil
}

// Messages

type loadLedgerMsg struct {
	rows []ledger.DonorSummary
	err  error
}

func (m LedgerModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		rows, err := m.ledger.Summary(ctx, m.adminID)

		return loadLedgerMsg{rows: rows, err: err}
	}
}

type donatedMsg struct {
	donation *ledger.Donation
	err      error
}

func (m LedgerModel) donateCmd() tea.Cmd {
	donor, err := parseUserID(m.form.GetString("donor"))
	if err != nil {
		return func() tea.Msg { return donatedMsg{err: err} }
	}

	kwh, err := parseKwh(m.form.GetString("kwh"))
	if err != nil {
		return func() tea.Msg { return donatedMsg{err: err} }
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		d, err := m.ledger.Donate(ctx, donor, m.adminID, kwh)

		return donatedMsg{donation: d, err: err}
	}
}
