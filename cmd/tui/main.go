package main

import (
	"context"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/centsperpoint/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/centsperpoint/internal/config"
	"github.com/MrJamesThe3rd/centsperpoint/internal/database"
	"github.com/MrJamesThe3rd/centsperpoint/internal/export"
	"github.com/MrJamesThe3rd/centsperpoint/internal/importer"
	"github.com/MrJamesThe3rd/centsperpoint/internal/migration"
	"github.com/MrJamesThe3rd/centsperpoint/internal/redemption"
	redemptionStore "github.com/MrJamesThe3rd/centsperpoint/internal/redemption/store"
)

type model struct {
	redemptionService *redemption.Service
	importService     *importer.Service
	exportService     *export.Service
	migrationManager  *migration.Manager
	prepareSchema     func(ctx context.Context) error

	currentView View

	calculatorView view.CalculatorModel
	listView       view.ListModel
	importView     view.ImportModel
	exportView     view.ExportModel
	migrationView  view.MigrationModel
}

type View int

const (
	ViewMenu       View = 0
	ViewCalculator View = 1
	ViewList       View = 2
	ViewImport     View = 3
	ViewExport     View = 4
	ViewMigration  View = 5
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString(), cfg.DB.MaxOpenConns)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	redemptionSvc := redemption.NewService(redemptionStore.New(db))
	importSvc := importer.NewService(redemptionSvc)
	exportSvc := export.NewService(redemptionSvc)

	// the TUI owns the terminal, so manager logs are dropped
	manager := migration.NewManager(
		migration.NewFileStateStore(cfg.FlagPath()),
		migration.NewPostgresTarget(db),
		cfg.LegacyPaths(),
		migration.WithLogger(slog.New(slog.DiscardHandler)),
	)

	return model{
		redemptionService: redemptionSvc,
		importService:     importSvc,
		exportService:     exportSvc,
		migrationManager:  manager,
		prepareSchema:     func(ctx context.Context) error { return database.Migrate(ctx, db) },
		currentView:       ViewMenu,
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
				m.currentView = ViewCalculator
				m.calculatorView = view.NewCalculatorModel()

				return m, m.calculatorView.Init()
			case "2":
				m.currentView = ViewList
				m.listView = view.NewListModel(m.redemptionService)

				return m, m.listView.Init()
			case "3":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.importService)

				return m, m.importView.Init()
			case "4":
				m.currentView = ViewExport
				m.exportView = view.NewExportModel(m.exportService)

				return m, m.exportView.Init()
			case "5":
				m.currentView = ViewMigration
				m.migrationView = view.NewMigrationModel(m.migrationManager, m.prepareSchema)

				return m, m.migrationView.Init()
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
	case ViewCalculator:
		var newModel tea.Model
		newModel, cmd = m.calculatorView.Update(msg)
		m.calculatorView = newModel.(view.CalculatorModel)
	case ViewList:
		var newModel tea.Model
		newModel, cmd = m.listView.Update(msg)
		m.listView = newModel.(view.ListModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewExport:
		var newModel tea.Model
		newModel, cmd = m.exportView.Update(msg)
		m.exportView = newModel.(view.ExportModel)
	case ViewMigration:
		var newModel tea.Model
		newModel, cmd = m.migrationView.Update(msg)
		m.migrationView = newModel.(view.MigrationModel)
	}

	return m, cmd
}

func (m model) current() view.View {
	switch m.currentView {
	case ViewCalculator:
		return m.calculatorView
	case ViewList:
		return m.listView
	case ViewImport:
		return m.importView
	case ViewExport:
		return m.exportView
	case ViewMigration:
		return m.migrationView
	}

	return nil
}

func (m model) View() string {
	if m.currentView == ViewMenu {
		return lipgloss.NewStyle().Padding(2).Render(
			"Cents Per Point\n\n" +
				"1. Should I Book It?\n" +
				"2. Redemptions\n" +
				"3. Import CSV\n" +
				"4. Export CSV\n" +
				"5. Legacy Migration\n\n" +
				"q. Quit",
		)
	}

	v := m.current()
	if v == nil {
		return "Unknown View"
	}

	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).PaddingLeft(1).Render(v.Title())
	help := lipgloss.NewStyle().Faint(true).PaddingLeft(1).Render(v.ShortHelp())

	return lipgloss.JoinVertical(lipgloss.Left, title, v.View(), help)
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
