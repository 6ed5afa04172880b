package reports

import (
	"os"
	"os/exec"
	"path"
	"strings"

	"github.com/Anon10214/cypherc/scheduler"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wrap"
	"github.com/sirupsen/logrus"
)

type inspectState int

const (
	// Looking at the list of reports
	main inspectState = iota
	// Renaming a report
	renaming
	// Looking at MD
	inspecting
	// Rerunning a report
	running
)

// The model when inspecting all reports
type inspectModel struct {
	state            inspectState
	width            int
	height           int
	reportsDirectory string
	table            table.Model
	renameInput      textinput.Model
	viewport         viewport.Model
	help             help.Model
	keys             inspectModelKeyMap
	// Path to the file being inspected
	inspectPath string
}

type inspectModelKeyMap struct {
	Refresh key.Binding
	Inspect key.Binding
	Rename  key.Binding
	Rerun   key.Binding
	RegenMd key.Binding
	Status  key.Binding
	Delete  key.Binding
	Quit    key.Binding
}

func (k inspectModelKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Refresh, k.Inspect, k.Rename, k.Rerun, k.RegenMd, k.Status, k.Delete}
}

func (k inspectModelKeyMap) FullHelp() [][]key.Binding {
	return nil
}

func createInspectModel(reportsDirectory string) inspectModel {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Name", Width: 30},
			{Title: "Target", Width: 12},
			{Title: "Found", Width: 20},
			{Title: "Strategy", Width: 20},
			{Title: "Result", Width: 9},
			{Title: "Status", Width: 12},
			{Title: "Has MD", Width: 6},
		}),
		table.WithFocused(true),
	)

	s := table.DefaultStyles()
	t.SetStyles(s)

	model := inspectModel{
		reportsDirectory: reportsDirectory,
		table:            t,
		help:             help.New(),
		keys: inspectModelKeyMap{
			Refresh: key.NewBinding(
				key.WithKeys("f"),
				key.WithHelp("f", "refresh"),
			),
			Inspect: key.NewBinding(
				key.WithKeys("i"),
				key.WithHelp("i", "inspect MD"),
			),
			Rename: key.NewBinding(
				key.WithKeys("n", "f2"),
				key.WithHelp("n/f2", "rename"),
			),
			Rerun: key.NewBinding(
				key.WithKeys("r"),
				key.WithHelp("r", "rerun"),
			),
			RegenMd: key.NewBinding(
				key.WithKeys("m"),
				key.WithHelp("m", "regenerate MD"),
			),
			Status: key.NewBinding(
				key.WithKeys("s"),
				key.WithHelp("s", "cycle status"),
			),
			Delete: key.NewBinding(
				key.WithKeys("x"),
				key.WithHelp("x", "delete"),
			),
			Quit: key.NewBinding(
				key.WithKeys("q", "esc", "ctrl+c"),
				key.WithHelp("q", "quit"),
			),
		},
	}

	return model.refreshReports()
}

func (m inspectModel) refreshReports() inspectModel {
	files, err := os.ReadDir(m.reportsDirectory)
	if err != nil {
		logrus.Errorf("Couldn't read in reports - %v", err)
		return m
	}

	var rows []table.Row
	for _, file := range files {
		name, isReport := strings.CutSuffix(file.Name(), ".yml")
		if !file.Type().IsRegular() || !isReport {
			continue
		}

		report, err := scheduler.ReadReport(path.Join(m.reportsDirectory, file.Name()))
		if err != nil {
			// Just display the error next to the report name
			rows = append(rows, table.Row{name, err.Error(), "", "", "", "", ""})
			continue
		}

		found := report.TimeFound
		if len(found) > 19 {
			found = found[:19]
		}
		row := table.Row{name, report.Target, found, report.Strategy, report.Result, report.ReportStatus}
		// Check if the corresponding MD exists
		if _, err := os.Stat(path.Join(m.reportsDirectory, name+".md")); err == nil {
			row = append(row, "✔")
		} else {
			row = append(row, "❌")
		}
		rows = append(rows, row)
	}

	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}

	return m
}

// selected returns the name of the selected report and false if there is none
func (m inspectModel) selected() (string, bool) {
	row := m.table.SelectedRow()
	if len(row) == 0 {
		return "", false
	}
	return row[0], true
}

// rerun executes the rerun command for the passed report in a shell, waiting for a key press once it is done
func (m inspectModel) rerun(name string, flags ...string) (tea.Model, tea.Cmd) {
	executable, err := os.Executable()
	if err != nil {
		return m, nil
	}
	m.state = running

	args := append([]string{executable, "rerun", path.Join(m.reportsDirectory, name+".yml")}, flags...)
	args = append(args, ";", "read", "-n1")
	return m, tea.Batch(tea.ClearScreen, tea.ExecProcess(exec.Command("/bin/sh", "-c", strings.Join(args, " ")), nil))
}

func (m inspectModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m inspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.state {

	case main:
		switch msg := msg.(type) {

		case tea.WindowSizeMsg:
			m.width = msg.Width
			m.height = msg.Height
			m.help.Width = msg.Width
			m.table.SetHeight(m.height - 2)

		case tea.KeyMsg:
			if key.Matches(msg, m.keys.Quit) {
				return m, tea.Quit
			}
			if key.Matches(msg, m.keys.Refresh) {
				return m.refreshReports(), nil
			}

			name, ok := m.selected()
			if !ok {
				break
			}

			switch {
			case key.Matches(msg, m.keys.Inspect):
				m.inspectPath = path.Join(m.reportsDirectory, name+".md")

				buf, err := os.ReadFile(m.inspectPath)
				if err != nil {
					logrus.Warnf("Couldn't read report markdown - %v", err)
					return m, nil
				}

				m.viewport = viewport.New(m.width, m.height-2)
				m.viewport.SetContent(wrap.String(string(buf), m.width))

				m.state = inspecting

				var cmd tea.Cmd
				m.viewport, cmd = m.viewport.Update(msg)

				return m, cmd
			case key.Matches(msg, m.keys.Rename):
				m.state = renaming

				ti := textinput.New()
				ti.SetValue(name)
				ti.Prompt = "$ "
				ti.Focus()
				ti.CharLimit = 30
				m.renameInput = ti

				return m.Update(nil)
			case key.Matches(msg, m.keys.Rerun):
				return m.rerun(name)
			case key.Matches(msg, m.keys.RegenMd):
				return m.rerun(name, "-r")
			case key.Matches(msg, m.keys.Status):
				reportPath := path.Join(m.reportsDirectory, name+".yml")
				report, err := scheduler.ReadReport(reportPath)
				if err != nil {
					logrus.Warnf("Couldn't read report - %v", err)
					return m, nil
				}
				if err := scheduler.SetReportStatus(reportPath, scheduler.NextReportStatus(report.ReportStatus)); err != nil {
					logrus.Warnf("Couldn't update report status - %v", err)
				}
				return m.refreshReports(), nil
			case key.Matches(msg, m.keys.Delete):
				os.Remove(path.Join(m.reportsDirectory, name+".yml"))
				os.Remove(path.Join(m.reportsDirectory, name+".md"))

				return m.refreshReports(), nil
			}
		}
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd

	case renaming:
		switch msg := msg.(type) {
		case tea.KeyMsg:
			switch msg.Type {
			case tea.KeyEnter:
				m.state = main

				name, ok := m.selected()
				if !ok || m.renameInput.Value() == "" {
					return m, nil
				}
				old := path.Join(m.reportsDirectory, name)
				new := path.Join(m.reportsDirectory, m.renameInput.Value())

				os.Rename(old+".yml", new+".yml")
				os.Rename(old+".md", new+".md")

				return m.refreshReports(), nil
			case tea.KeyEscape:
				m.state = main
				return m, nil
			}
		}

		var cmd tea.Cmd
		m.renameInput, cmd = m.renameInput.Update(msg)
		return m, cmd

	case inspecting:
		switch msg := msg.(type) {
		case tea.KeyMsg:
			switch msg.Type {
			case tea.KeyEscape:
				m.state = main
				return m, nil
			}
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case running:
		m.state = main
	}
	return m, nil
}

func (m inspectModel) View() string {
	switch m.state {
	case main, renaming:
		reportsView := m.table.View()

		helpView := m.help.View(m.keys)

		var renameView string
		if m.state == renaming {
			renameView = m.renameInput.View()
		}

		height := max(m.height-strings.Count(reportsView, "\n")-strings.Count(renameView, "\n")-strings.Count(helpView, "\n")-2, 0)

		return reportsView + "\n" + renameView + strings.Repeat("\n", height) + helpView
	case inspecting:
		return m.viewport.View()
	}
	return ""
}
