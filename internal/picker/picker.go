// Copyright (c) 2025 specctl contributors.
// SPDX-License-Identifier: Apache-2.0

// Package picker implements the interactive asset chooser used by fetch when
// no asset names are given on the command line.
package picker

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/obskit/specctlgo/internal/cache"
)

// ErrAborted is returned when the user leaves the picker without choosing.
var ErrAborted = errors.New("selection aborted")

type item struct {
	asset cache.Asset
}

func (i item) Title() string { return i.asset.Name }

func (i item) Description() string {
	return fmt.Sprintf("%s  %s", i.asset.Subdir, humanize.Bytes(uint64(i.asset.Size)))
}

func (i item) FilterValue() string { return i.asset.Name }

type model struct {
	list   list.Model
	choice *cache.Asset
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "enter":
			if it, ok := m.list.SelectedItem().(item); ok {
				m.choice = &it.asset
			}
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m model) View() string {
	return lipgloss.NewStyle().Margin(1, 2).Render(m.list.View())
}

// Pick presents the assets in a scrollable list and returns the one the
// user selects. ErrAborted is returned when the picker is dismissed.
func Pick(title string, assets []cache.Asset) (*cache.Asset, error) {
	items := make([]list.Item, len(assets))
	for i, a := range assets {
		items[i] = item{asset: a}
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 14)
	l.Title = title
	l.SetShowStatusBar(false)

	final, err := tea.NewProgram(model{list: l}).Run()
	if err != nil {
		return nil, err
	}

	m := final.(model)
	if m.choice == nil {
		return nil, ErrAborted
	}
	return m.choice, nil
}
