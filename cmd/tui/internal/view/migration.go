package view

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/centsperpoint/internal/migration"
)

const migrationTimeout = 5 * time.Minute

type MigrationModel struct {
	CommonModel
	manager *migration.Manager
	prepare func(ctx context.Context) error

	state   migration.State
	loaded  bool
	running bool
}

// NewMigrationModel runs prepare, normally the schema migration, before every
// legacy import attempt.
func NewMigrationModel(manager *migration.Manager, prepare func(ctx context.Context) error) MigrationModel {
	return MigrationModel{manager: manager, prepare: prepare}
}

func (m MigrationModel) Title() string { return "Legacy Migration" }

func (m MigrationModel) ShortHelp() string {
	if m.state.Status == migration.StatusPending {
		return "Esc: back | m: migrate now | r: refresh"
	}

	return "Esc: back | r: refresh"
}

func (m MigrationModel) Init() tea.Cmd {
	return m.statusCmd()
}

func (m MigrationModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case migrationStateMsg:
		m.state = msg.state
		m.loaded = true
		m.running = false

		return m, nil

	case tea.KeyMsg:
		if m.running {
			return m, nil
		}

		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			return m, m.statusCmd()
		case "m":
			if m.state.Status != migration.StatusPending {
				return m, nil
			}

			m.running = true

			return m, m.runCmd()
		}
	}

	return m, nil
}

func statusColor(s migration.Status) lipgloss.Color {
	switch s {
	case migration.StatusCompleted, migration.StatusNoSQLiteFound, migration.StatusEmptySQLite:
		return lipgloss.Color("46")
	case migration.StatusFailed, migration.StatusUnknown:
		return lipgloss.Color("196")
	}

	return lipgloss.Color("214")
}

// describeState lists the populated fields of st as "label: value" lines.
func describeState(st migration.State) []string {
	lines := []string{"Status: " + string(st.Status)}

	add := func(label, value string) {
		if value != "" {
			lines = append(lines, label+": "+value)
		}
	}

	add("Recorded", st.Timestamp)
	add("Message", st.Message)
	add("Error", st.Error)

	if st.MigratedCount != nil {
		add("Migrated", fmt.Sprint(*st.MigratedCount))
	}

	if st.ExistingCount != nil {
		add("Already in PostgreSQL", fmt.Sprint(*st.ExistingCount))
	}

	add("SQLite file", st.SQLiteLocation)
	add("Backup", st.BackupLocation)

	return lines
}

func (m MigrationModel) View() string {
	if !m.loaded {
		return lipgloss.NewStyle().Padding(2).Render("Loading migration state...")
	}

	if m.running {
		return lipgloss.NewStyle().Padding(2).Render("Migrating legacy SQLite data...")
	}

	lines := describeState(m.state)
	lines[0] = lipgloss.NewStyle().Bold(true).Foreground(statusColor(m.state.Status)).Render(lines[0])

	return lipgloss.NewStyle().
		Padding(1, 2).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Render(strings.Join(lines, "\n"))
}

type migrationStateMsg struct {
	state migration.State
}

func (m MigrationModel) statusCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		return migrationStateMsg{state: m.manager.Status(ctx)}
	}
}

func (m MigrationModel) runCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), migrationTimeout)
		defer cancel()

		if m.prepare != nil {
			if err := m.prepare(ctx); err != nil {
				return migrationStateMsg{state: migration.State{
					Status: migration.StatusPending,
					Error:  fmt.Sprintf("schema not ready: %v", err),
				}}
			}
		}

		return migrationStateMsg{state: m.manager.Run(ctx)}
	}
}
