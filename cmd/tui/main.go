package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/kwhmarket/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/kwhmarket/internal/config"
	"github.com/MrJamesThe3rd/kwhmarket/internal/database"
	"github.com/MrJamesThe3rd/kwhmarket/internal/ledger"
	ledgerStore "github.com/MrJamesThe3rd/kwhmarket/internal/ledger/store"
	"github.com/MrJamesThe3rd/kwhmarket/internal/notify"
	"github.com/MrJamesThe3rd/kwhmarket/internal/offer"
	offerStore "github.com/MrJamesThe3rd/kwhmarket/internal/offer/store"
	"github.com/MrJamesThe3rd/kwhmarket/internal/transaction"
	txStore "github.com/MrJamesThe3rd/kwhmarket/internal/transaction/store"
)

type model struct {
	engine        *offer.Engine
	ledgerService *ledger.Service
	txService     *transaction.Service
	adminID       int64

	currentView View

	offersView       view.OffersModel
	transactionsView view.TransactionsModel
	ledgerView       view.LedgerModel
	settleView       view.SettleModel
}

type View int

const (
	ViewMenu         View = 0
	ViewOffers       View = 1
	ViewTransactions View = 2
	ViewLedger       View = 3
	ViewSettle       View = 4
)

func fatal(msg string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
	os.Exit(1)
}

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fatal("failed to load config", err)
	}

	if cfg.Auth.AdminUserID == 0 {
		fatal("failed to start console", fmt.Errorf("ADMIN_USER_ID is not set"))
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		fatal("failed to connect to database", err)
	}

	// Logging to stdout would garble the terminal UI.
	log := zap.NewNop()

	var notifier notify.Notifier = notify.NewLogNotifier(log)

	if cfg.NATS.URL != "" {
		nc, err := notify.Connect(cfg.NATS.URL, log)
		if err != nil {
			fatal("failed to connect to nats", err)
		}

		notifier = notify.NewNATSNotifier(nc, cfg.NATS.SubjectPrefix, log)
	}

	ledgerSvc := ledger.NewService(ledgerStore.New(db), notifier, log,
		ledger.WithNegativeBalance(cfg.Ledger.AllowNegativeBalance),
	)
	engine := offer.NewEngine(offerStore.New(db), notifier, log,
		offer.WithSettler(ledgerSvc),
		offer.WithAdmin(cfg.Auth.AdminUserID),
	)
	txSvc := transaction.NewService(txStore.New(db))

	return model{
		engine:        engine,
		ledgerService: ledgerSvc,
		txService:     txSvc,
		adminID:       cfg.Auth.AdminUserID,
		currentView:   ViewMenu,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewOffers
				m.offersView = view.NewOffersModel(m.engine)

				return m, m.offersView.Init()
			case "2":
				m.currentView = ViewTransactions
				m.transactionsView = view.NewTransactionsModel(m.txService)

				return m, m.transactionsView.Init()
			case "3":
				m.currentView = ViewLedger
				m.ledgerView = view.NewLedgerModel(m.ledgerService, m.adminID)

				return m, m.ledgerView.Init()
			case "4":
				m.currentView = ViewSettle
				m.settleView = view.NewSettleModel(m.engine, m.ledgerService, m.adminID)

				return m, m.settleView.Init()
			}
		}

		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewOffers:
		var newModel tea.Model
		newModel, cmd = m.offersView.Update(msg)
		m.offersView = newModel.(view.OffersModel)
	case ViewTransactions:
		var newModel tea.Model
		newModel, cmd = m.transactionsView.Update(msg)
		m.transactionsView = newModel.(view.TransactionsModel)
	case ViewLedger:
		var newModel tea.Model
		newModel, cmd = m.ledgerView.Update(msg)
		m.ledgerView = newModel.(view.LedgerModel)
	case ViewSettle:
		var newModel tea.Model
		newModel, cmd = m.settleView.Update(msg)
		m.settleView = newModel.(view.SettleModel)
	}

	return m, cmd
}

func (m model) current() view.View {
	switch m.currentView {
	case ViewOffers:
		return m.offersView
	case ViewTransactions:
		return m.transactionsView
	case ViewLedger:
		return m.ledgerView
	case ViewSettle:
		return m.settleView
	}

	return nil
}

func (m model) View() string {
	v := m.current()
	if v == nil {
		return lipgloss.NewStyle().Padding(2).Render(
			"kWh Market admin console\n\n" +
				"1. Offers\n" +
				"2. Transactions\n" +
				"3. Donations\n" +
				"4. Settle Offer\n\n" +
				"q. Quit",
		)
	}

	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")).Render(v.Title())
	help := lipgloss.NewStyle().Faint(true).Render(v.ShortHelp())

	return lipgloss.JoinVertical(lipgloss.Left, title, v.View(), help)
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		fatal("failed to run TUI", err)
	}
}
