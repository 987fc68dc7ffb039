package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/kwhmarket/internal/ledger"
	"github.com/MrJamesThe3rd/kwhmarket/internal/offer"
)

type settleState int

const (
	settleStateForm settleState = iota
	settleStateRunning
	settleStateResult
)

// SettleModel retries covering a completed admin purchase with donations,
// for when the automatic settlement after completion failed.
type SettleModel struct {
	CommonModel
	engine  *offer.Engine
	ledger  *ledger.Service
	adminID int64

	state   settleState
	form    *huh.Form
	offerID string
	spinner spinner.Model

	result settleResultMsg
}

func NewSettleModel(engine *offer.Engine, svc *ledger.Service, adminID int64) SettleModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	m := SettleModel{
		engine:  engine,
		ledger:  svc,
		adminID: adminID,
		state:   settleStateForm,
		spinner: s,
	}
	m.form = m.buildForm()

	return m
}

func (m SettleModel) Title() string { return "Settle Offer" }

func (m SettleModel) ShortHelp() string {
	switch m.state {
	case settleStateResult:
		return "Esc: back to menu"
	case settleStateRunning:
		return "Settling..."
	}

	return "Esc: back | Enter: confirm"
}

func (m SettleModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m SettleModel) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("offer").
				Title("Offer ID").
				Description("A completed offer the admin bought").
				Value(&m.offerID).
				Validate(func(s string) error {
					if _, err := uuid.Parse(strings.TrimSpace(s)); err != nil {
						return fmt.Errorf("not a valid offer id")
					}

					return nil
				}),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m SettleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.state {
	case settleStateForm:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
			return m, Back
		}

		form, cmd := m.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			m.form = f
		}

		if m.form.State != huh.StateCompleted {
			return m, cmd
		}

		m.state = settleStateRunning

		return m, tea.Batch(m.spinner.Tick, m.settleCmd(strings.TrimSpace(m.form.GetString("offer"))))

	case settleStateRunning:
		if result, ok := msg.(settleResultMsg); ok {
			m.state = settleStateResult
			m.result = result

			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd

	case settleStateResult:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	return m, nil
}

func (m SettleModel) View() string {
	switch m.state {
	case settleStateForm:
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())

	case settleStateRunning:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("%s Consuming donations...", m.spinner.View()),
		)
	}

	if m.result.err != nil {
		return lipgloss.NewStyle().Padding(1).Render(errorStyle(fmt.Sprintf("Error: %v", m.result.err)))
	}

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("46")).
		Render("Offer settled")

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header,
			"",
			fmt.Sprintf("Offer:    %s", m.result.offerID),
			fmt.Sprintf("Donor:    %d", m.result.donorID),
			fmt.Sprintf("Charged:  %s kWh", FormatKwh(m.result.charged)),
			fmt.Sprintf("Left:     %s kWh of credit from this donor", FormatKwh(m.result.remaining)),
		),
	)
}

type settleResultMsg struct {
	offerID   uuid.UUID
	donorID   int64
	charged   decimal.Decimal
	remaining decimal.Decimal
	err       error
}

func (m SettleModel) settleCmd(raw string) tea.Cmd {
	return func() tea.Msg {
		id, err := uuid.Parse(raw)
		if err != nil {
			return settleResultMsg{err: err}
		}

		ctx, cancel := DbCtx()
		defer cancel()

		o, err := m.engine.Get(ctx, id)
		if err != nil {
			return settleResultMsg{err: err}
		}

		if o.BuyerID != m.adminID {
			return settleResultMsg{err: fmt.Errorf("offer %s was bought by %d, not the admin", o.ID, o.BuyerID)}
		}

		if err := m.ledger.Settle(ctx, o); err != nil {
			return settleResultMsg{err: err}
		}

		remaining, err := m.ledger.Available(ctx, m.adminID, o.SellerID)
		if err != nil {
			return settleResultMsg{err: err}
		}

		return settleResultMsg{
			offerID:   o.ID,
			donorID:   o.SellerID,
			charged:   o.KwhCharged.Decimal,
			remaining: remaining,
		}
	}
}
