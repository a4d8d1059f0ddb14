// Package timerform is the desktop form for creating timers.
package timerform

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"timerdeck/internal/core/model"
)

// SubmitFunc creates a timer. A returned error is shown in the form.
type SubmitFunc func(name string, seconds int, category string, halfwayAlert bool) error

// Window collects name, duration, category and the halfway flag.
type Window struct {
	window   fyne.Window
	onSubmit SubmitFunc

	name     *widget.Entry
	duration *widget.Entry
	category *widget.SelectEntry
	halfway  *widget.Check
	errLabel *widget.Label
}

// New creates the add-timer window.
func New(app fyne.App, onSubmit SubmitFunc) *Window {
	window := app.NewWindow("Add timer")

	form := &Window{
		window:   window,
		onSubmit: onSubmit,
		name:     widget.NewEntry(),
		duration: widget.NewEntry(),
		category: widget.NewSelectEntry(nil),
		halfway:  widget.NewCheck("Alert at halfway", nil),
		errLabel: widget.NewLabel(""),
	}
	form.name.SetPlaceHolder("Tea")
	form.duration.SetPlaceHolder("5m or 300")
	form.category.SetPlaceHolder("Kitchen")
	form.errLabel.Importance = widget.DangerImportance
	form.errLabel.Hide()

	fields := container.NewVBox(
		widget.NewLabel("Name"),
		form.name,
		widget.NewLabel("Duration"),
		form.duration,
		widget.NewLabel("Category"),
		form.category,
		form.halfway,
		form.errLabel,
	)

	addButton := widget.NewButton("Add", form.handleSubmit)
	addButton.Importance = widget.HighImportance
	cancelButton := widget.NewButton("Cancel", func() {
		window.Hide()
	})
	buttons := container.NewHBox(addButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, fields))
	window.Resize(fyne.NewSize(360, 320))
	window.SetCloseIntercept(func() {
		window.Hide()
	})
	return form
}

// Show clears the form, offers known categories and displays it.
func (form *Window) Show(categories []string) {
	form.name.SetText("")
	form.duration.SetText("")
	form.category.SetOptions(categories)
	form.category.SetText("")
	form.halfway.SetChecked(false)
	form.errLabel.Hide()
	form.window.Show()
	form.window.RequestFocus()
}

func (form *Window) handleSubmit() {
	seconds, err := model.ParseSeconds(form.duration.Text)
	if err != nil {
		form.showError(err)
		return
	}
	if form.onSubmit != nil {
		err = form.onSubmit(form.name.Text, seconds, form.category.Text, form.halfway.Checked)
		if err != nil {
			form.showError(err)
			return
		}
	}
	form.errLabel.Hide()
	form.window.Hide()
}

func (form *Window) showError(err error) {
	form.errLabel.SetText(err.Error())
	form.errLabel.Show()
}

