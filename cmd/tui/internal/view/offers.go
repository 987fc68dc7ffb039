package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/kwhmarket/internal/offer"
)

type OffersModel struct {
	CommonModel
	engine *offer.Engine

	table  table.Model
	offers []*offer.Offer

	// statusIdx 0 means no filter, otherwise offer.Statuses[statusIdx-1].
	statusIdx int

	filter  offer.ListFilter
	loading bool
	err     error
	status  string
}

func NewOffersModel(engine *offer.Engine) OffersModel {
	columns := []table.Column{
		{Title: "Scheduled", Width: 17},
		{Title: "Status", Width: 18},
		{Title: "Buyer", Width: 12},
		{Title: "Seller", Width: 12},
		{Title: "kWh", Width: 8},
		{Title: "Total €", Width: 9},
		{Title: "Location", Width: 30},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return OffersModel{
		engine:  engine,
		table:   t,
		loading: true,
		filter:  offer.ListFilter{Limit: 200},
	}
}

func (m OffersModel) Title() string { return "Offers" }

func (m OffersModel) ShortHelp() string {
	return "Esc: back | s: status filter | x: expire stale | r: refresh"
}

func (m OffersModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m OffersModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadOffersMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.offers = msg.offers
		m.refreshTable()

		return m, nil

	case expiredMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Expiry sweep failed: %v", msg.err)
			return m, nil
		}

		m.status = fmt.Sprintf("Expired %d offers", msg.count)

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "s":
			m.statusIdx = (m.statusIdx + 1) % (len(offer.Statuses) + 1)
			m.applyFilter()

			return m, m.loadCmd()
		case "x":
			m.status = "Expiring stale offers..."
			return m, m.expireCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m *OffersModel) applyFilter() {
	if m.statusIdx == 0 {
		m.filter.Status = nil
		return
	}

	m.filter.Status = new(offer.Statuses[m.statusIdx-1])
}

func (m OffersModel) statusLabel() string {
	if m.statusIdx == 0 {
		return "All"
	}

	return string(offer.Statuses[m.statusIdx-1])
}

func (m *OffersModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.offers))
	for _, o := range m.offers {
		rows = append(rows, table.Row{
			FormatDate(o.ScheduledAt),
			string(o.Status),
			fmt.Sprint(o.BuyerID),
			fmt.Sprint(o.SellerID),
			FormatNullKwh(o.KwhCharged),
			FormatNullMoney(o.TotalAmount),
			o.Location,
		})
	}

	m.table.SetRows(rows)
}

func (m OffersModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading offers...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle(fmt.Sprintf("Error: %v", m.err)))
	}

	header := fmt.Sprintf("Filter: [s] Status: %s | %d offers", activeStyle(m.statusLabel()), len(m.offers))

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if idx := m.table.Cursor(); idx >= 0 && idx < len(m.offers) {
		o := m.offers[idx]
		content = lipgloss.JoinVertical(lipgloss.Left, content, lipgloss.NewStyle().Faint(true).Render(
			fmt.Sprintf("%s | next: %v", o.ID, offer.Actions(o.Status)),
		))
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

// Messages

type loadOffersMsg struct {
	offers []*offer.Offer
	err    error
}

func (m OffersModel) loadCmd() tea.Cmd {
	filter := m.filter

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		offers, err := m.engine.List(ctx, filter)

		return loadOffersMsg{offers: offers, err: err}
	}
}

type expiredMsg struct {
	count int
	err   error
}

func (m OffersModel) expireCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		n, err := m.engine.ExpireStale(ctx)

		return expiredMsg{count: n, err: err}
	}
}
