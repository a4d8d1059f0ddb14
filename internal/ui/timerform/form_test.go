package timerform

import (
	"errors"
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
)

type submission struct {
	name     string
	seconds  int
	category string
	halfway  bool
}

func TestFormSubmits(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	var got []submission
	form := New(app, func(name string, seconds int, category string, halfwayAlert bool) error {
		got = append(got, submission{name, seconds, category, halfwayAlert})
		return nil
	})
	form.Show([]string{"Kitchen", "Desk"})

	test.Type(form.name, "Tea")
	test.Type(form.duration, "3m")
	form.category.SetText("Kitchen")
	form.halfway.SetChecked(true)
	form.handleSubmit()

	assert.Equal(t, []submission{{"Tea", 180, "Kitchen", true}}, got)
	assert.False(t, form.errLabel.Visible())
}

func TestFormShowsErrors(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	calls := 0
	form := New(app, func(name string, seconds int, category string, halfwayAlert bool) error {
		calls++
		return errors.New("validation failed: name is required")
	})
	form.Show(nil)

	form.duration.SetText("later")
	form.handleSubmit()
	assert.Equal(t, 0, calls)
	assert.True(t, form.errLabel.Visible())
	assert.Contains(t, form.errLabel.Text, "invalid duration")

	form.duration.SetText("60")
	form.handleSubmit()
	assert.Equal(t, 1, calls)
	assert.Equal(t, "validation failed: name is required", form.errLabel.Text)

	form.Show(nil)
	assert.False(t, form.errLabel.Visible())
	assert.Empty(t, form.duration.Text)
}
