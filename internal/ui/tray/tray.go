package tray

import (
	"fmt"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"timerdeck/internal/core/model"
)

const menuTitle = "timerdeck"

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnAddTimer      func()
	OnPreferences   func()
	OnStartCategory func(category string)
	OnPauseCategory func(category string)
	OnResetCategory func(category string)
	OnStartTimer    func(id string)
	OnPauseTimer    func(id string)
	OnResetTimer    func(id string)
	OnToggleHalfway func(id string, enabled bool)
	OnDeleteTimer   func(id string)
	OnQuit          func()
}

// Manager handles system tray state.
type Manager struct {
	app       desktop.App
	callbacks Callbacks

	mu          sync.Mutex
	timers      []model.Timer
	statusLabel string
	warning     string
}

// New creates a tray manager with the provided callbacks.
// A nil app builds menus without installing them, which tests rely on.
func New(app desktop.App, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:         app,
		callbacks:   callbacks,
		statusLabel: "starting...",
	}
	manager.refreshMenu()
	return manager
}

// SetTimers replaces the timers shown in the menu.
func (manager *Manager) SetTimers(timers []model.Timer) {
	manager.mu.Lock()
	manager.timers = append([]model.Timer(nil), timers...)
	manager.statusLabel = StatusLine(timers)
	manager.mu.Unlock()
	manager.refreshMenu()
}

// SetWarning shows a storage warning under the status line. Empty clears it.
func (manager *Manager) SetWarning(warning string) {
	manager.mu.Lock()
	manager.warning = warning
	manager.mu.Unlock()
	manager.refreshMenu()
}

// Menu builds the current tray menu.
func (manager *Manager) Menu() *fyne.Menu {
	manager.mu.Lock()
	timers := manager.timers
	status := manager.statusLabel
	warning := manager.warning
	manager.mu.Unlock()

	statusItem := fyne.NewMenuItem(fmt.Sprintf("Status: %s", status), nil)
	statusItem.Disabled = true
	items := []*fyne.MenuItem{statusItem}
	if warning != "" {
		warningItem := fyne.NewMenuItem("Not saved: "+warning, nil)
		warningItem.Disabled = true
		items = append(items, warningItem)
	}

	items = append(items,
		fyne.NewMenuItem("Add timer...", func() {
			if manager.callbacks.OnAddTimer != nil {
				manager.callbacks.OnAddTimer()
			}
		}),
		fyne.NewMenuItemSeparator(),
	)

	for _, category := range categoriesOf(timers) {
		items = append(items, manager.categoryItem(category, timers))
	}
	if len(timers) > 0 {
		items = append(items, fyne.NewMenuItemSeparator())
	}

	items = append(items,
		fyne.NewMenuItem("Preferences", func() {
			if manager.callbacks.OnPreferences != nil {
				manager.callbacks.OnPreferences()
			}
		}),
		fyne.NewMenuItem("Quit", func() {
			if manager.callbacks.OnQuit != nil {
				manager.callbacks.OnQuit()
			}
		}),
	)
	return fyne.NewMenu(menuTitle, items...)
}

func (manager *Manager) categoryItem(category string, timers []model.Timer) *fyne.MenuItem {
	children := []*fyne.MenuItem{
		fyne.NewMenuItem("Start all", func() {
			if manager.callbacks.OnStartCategory != nil {
				manager.callbacks.OnStartCategory(category)
			}
		}),
		fyne.NewMenuItem("Pause all", func() {
			if manager.callbacks.OnPauseCategory != nil {
				manager.callbacks.OnPauseCategory(category)
			}
		}),
		fyne.NewMenuItem("Reset all", func() {
			if manager.callbacks.OnResetCategory != nil {
				manager.callbacks.OnResetCategory(category)
			}
		}),
		fyne.NewMenuItemSeparator(),
	}

	running := 0
	for _, timer := range timers {
		if timer.Category != category {
			continue
		}
		if timer.Status == model.StatusRunning {
			running++
		}
		children = append(children, manager.timerItem(timer))
	}

	item := fyne.NewMenuItem(fmt.Sprintf("%s (%d running)", category, running), nil)
	item.ChildMenu = fyne.NewMenu("", children...)
	return item
}

func (manager *Manager) timerItem(timer model.Timer) *fyne.MenuItem {
	id := timer.ID

	var toggle *fyne.MenuItem
	if timer.Status == model.StatusRunning {
		toggle = fyne.NewMenuItem("Pause", func() {
			if manager.callbacks.OnPauseTimer != nil {
				manager.callbacks.OnPauseTimer(id)
			}
		})
	} else {
		toggle = fyne.NewMenuItem("Start", func() {
			if manager.callbacks.OnStartTimer != nil {
				manager.callbacks.OnStartTimer(id)
			}
		})
		toggle.Disabled = timer.Status == model.StatusCompleted
	}

	halfway := fyne.NewMenuItem("Halfway alert", func() {
		if manager.callbacks.OnToggleHalfway != nil {
			manager.callbacks.OnToggleHalfway(id, !timer.HalfwayAlert)
		}
	})
	halfway.Checked = timer.HalfwayAlert

	item := fyne.NewMenuItem(TimerLabel(timer), nil)
	item.ChildMenu = fyne.NewMenu("",
		toggle,
		fyne.NewMenuItem("Reset", func() {
			if manager.callbacks.OnResetTimer != nil {
				manager.callbacks.OnResetTimer(id)
			}
		}),
		halfway,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Delete", func() {
			if manager.callbacks.OnDeleteTimer != nil {
				manager.callbacks.OnDeleteTimer(id)
			}
		}),
	)
	return item
}

func (manager *Manager) refreshMenu() {
	if manager.app != nil {
		manager.app.SetSystemTrayMenu(manager.Menu())
	}
}

// TimerLabel renders one timer for the menu.
func TimerLabel(timer model.Timer) string {
	switch timer.Status {
	case model.StatusCompleted:
		return fmt.Sprintf("%s  done", timer.Name)
	case model.StatusPaused:
		return fmt.Sprintf("%s  %s (paused)", timer.Name, model.FormatClock(timer.RemainingTime))
	default:
		return fmt.Sprintf("%s  %s", timer.Name, model.FormatClock(timer.RemainingTime))
	}
}

// StatusLine summarizes timers for the status item.
func StatusLine(timers []model.Timer) string {
	if len(timers) == 0 {
		return "no timers"
	}
	running, completed := 0, 0
	for _, timer := range timers {
		switch timer.Status {
		case model.StatusRunning:
			running++
		case model.StatusCompleted:
			completed++
		}
	}
	return fmt.Sprintf("%d running, %d done, %d total", running, completed, len(timers))
}

func categoriesOf(timers []model.Timer) []string {
	seen := make(map[string]bool)
	var categories []string
	for _, timer := range timers {
		if !seen[timer.Category] {
			seen[timer.Category] = true
			categories = append(categories, timer.Category)
		}
	}
	return categories
}
