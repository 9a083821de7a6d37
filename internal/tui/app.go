// Package tui renders the intake wizard in the terminal with bubbletea.
// Input flows Key -> Update -> wizard.Wizard -> View; network calls run as tea.Cmds.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ikkim/license-backend/internal/app/model"
	"github.com/ikkim/license-backend/internal/wizard"
)

type mode int

const (
	modeForm mode = iota
	modeUpload
	modeSubmitted
)

const requestTimeout = 30 * time.Second

type draftSavedMsg struct {
	err    error
	silent bool
}

type submittedMsg struct {
	reference string
	err       error
}

type uploadedMsg struct {
	results []wizard.UploadResult
}

// App is the bubbletea model wrapping a wizard.
type App struct {
	wizard *wizard.Wizard

	mode        mode
	fields      []wizard.StepField
	inputs      []textinput.Model
	focus       int
	uploadInput textinput.Model

	status    string
	errs      map[string][]string
	busy      bool
	width     int
	reference string
}

// NewApp builds the model for the wizard's current step.
func NewApp(w *wizard.Wizard) *App {
	upload := textinput.New()
	upload.Placeholder = "path/to/document.pdf, another.png"
	upload.Prompt = "Files: "
	upload.CharLimit = 1024

	a := &App{
		wizard:      w,
		uploadInput: upload,
	}
	a.loadStep()
	return a
}

func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

// loadStep rebuilds the inputs of the current step from the wizard's data.
func (a *App) loadStep() {
	data := a.wizard.Data()
	a.fields = wizard.Fields(a.wizard.Step(), &data)
	a.inputs = make([]textinput.Model, len(a.fields))
	for i, f := range a.fields {
		in := textinput.New()
		in.Prompt = ""
		in.CharLimit = 200
		if f.Type == model.FieldTypeDate {
			in.Placeholder = "YYYY-MM-DD"
		}
		value, _ := data.Value(f.Name)
		in.SetValue(value)
		a.inputs[i] = in
	}
	a.focus = 0
	a.focusInput()
}

func (a *App) focusInput() {
	for i := range a.inputs {
		if i == a.focus {
			a.inputs[i].Focus()
		} else {
			a.inputs[i].Blur()
		}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		return a, nil

	case draftSavedMsg:
		a.busy = false
		switch {
		case msg.err != nil && !msg.silent:
			a.status = errorStyle.Render("Failed to save draft")
		case msg.err == nil && !msg.silent:
			a.status = successStyle.Render("Draft saved successfully")
		}
		return a, nil

	case submittedMsg:
		a.busy = false
		if msg.err != nil {
			var stepErr *wizard.StepError
			if errors.As(msg.err, &stepErr) {
				a.errs = stepErr.Errors
				a.status = errorStyle.Render("Please fix: " + strings.Join(stepErr.Labels(), ", "))
			} else {
				a.status = errorStyle.Render("Failed to submit application. Please try again.")
			}
			return a, nil
		}
		a.mode = modeSubmitted
		a.reference = msg.reference
		return a, nil

	case uploadedMsg:
		a.busy = false
		a.status = renderUploadResults(msg.results)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a.updateFocused(msg)
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		if a.mode == modeUpload {
			a.mode = modeForm
			a.uploadInput.Blur()
			a.focusInput()
			return a, nil
		}
		return a, tea.Quit
	}

	if a.mode == modeSubmitted {
		if msg.String() == "ctrl+r" {
			return a, a.reset()
		}
		return a, nil
	}

	if a.mode == modeUpload {
		if msg.Type == tea.KeyEnter {
			return a, a.startUpload()
		}
		var cmd tea.Cmd
		a.uploadInput, cmd = a.uploadInput.Update(msg)
		return a, cmd
	}

	switch msg.String() {
	case "tab", "down":
		if len(a.inputs) > 0 {
			a.focus = (a.focus + 1) % len(a.inputs)
			a.focusInput()
		}
		return a, nil
	case "shift+tab", "up":
		if len(a.inputs) > 0 {
			a.focus = (a.focus - 1 + len(a.inputs)) % len(a.inputs)
			a.focusInput()
		}
		return a, nil
	case "ctrl+n", "pgdown":
		return a, a.next()
	case "ctrl+b", "pgup":
		a.wizard.Prev()
		a.errs = nil
		a.loadStep()
		return a, nil
	case "f1", "f2", "f3", "f4", "f5":
		step := wizard.Step(msg.String()[1] - '0')
		if err := a.wizard.GoTo(step); err != nil {
			a.status = errorStyle.Render("Complete the current step first")
			return a, nil
		}
		a.errs = nil
		a.loadStep()
		return a, nil
	case "ctrl+s":
		return a, a.saveDraft(false)
	case "ctrl+r":
		return a, a.reset()
	case "ctrl+t":
		if a.wizard.Step() == wizard.StepAccountType {
			next := a.wizard.Data().AccountType%3 + 1
			a.setErr(a.wizard.SetAccountType(next))
			a.loadStep()
		}
		return a, nil
	case "ctrl+l":
		if a.wizard.Step() == wizard.StepLicense {
			a.setErr(a.wizard.SetHasPreviousLicense(!a.wizard.Data().HasPreviousLicense))
			a.loadStep()
		}
		return a, nil
	case "ctrl+u":
		if a.wizard.Step() == wizard.StepLicense {
			a.mode = modeUpload
			a.uploadInput.SetValue("")
			a.uploadInput.Focus()
		}
		return a, nil
	case "ctrl+a":
		if a.wizard.Step() == wizard.StepReview {
			a.setErr(a.wizard.SetAgreeToTerms(!a.wizard.Data().AgreeToTerms))
		}
		return a, nil
	case "enter":
		if a.wizard.Step() == wizard.StepReview {
			return a, a.submit()
		}
		return a, a.next()
	}

	return a.updateFocused(msg)
}

// updateFocused forwards input to the focused field and writes changes through the wizard.
func (a *App) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.mode != modeForm || len(a.inputs) == 0 {
		return a, nil
	}
	before := a.inputs[a.focus].Value()
	var cmd tea.Cmd
	a.inputs[a.focus], cmd = a.inputs[a.focus].Update(msg)
	if value := a.inputs[a.focus].Value(); value != before {
		a.setErr(a.wizard.Set(a.fields[a.focus].Name, value))
	}
	return a, cmd
}

func (a *App) setErr(err error) {
	if err != nil {
		a.status = errorStyle.Render(err.Error())
	}
}

func (a *App) next() tea.Cmd {
	err := a.wizard.Next()
	var stepErr *wizard.StepError
	if errors.As(err, &stepErr) {
		a.errs = stepErr.Errors
		a.status = errorStyle.Render("Please fix: " + strings.Join(stepErr.Labels(), ", "))
		return nil
	}
	a.setErr(err)
	a.errs = nil
	a.status = ""
	a.loadStep()
	return nil
}

func (a *App) saveDraft(silent bool) tea.Cmd {
	if a.busy {
		return nil
	}
	a.busy = true
	if !silent {
		a.status = "Saving..."
	}
	w := a.wizard
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return draftSavedMsg{err: w.SaveDraft(ctx, silent), silent: silent}
	}
}

func (a *App) submit() tea.Cmd {
	if a.busy {
		return nil
	}
	a.busy = true
	a.status = "Submitting..."
	w := a.wizard
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		ref, err := w.Submit(ctx)
		return submittedMsg{reference: ref, err: err}
	}
}

func (a *App) startUpload() tea.Cmd {
	a.mode = modeForm
	a.uploadInput.Blur()
	a.focusInput()

	var files []wizard.LocalFile
	var problems []string
	for _, path := range strings.Split(a.uploadInput.Value(), ",") {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		f, err := wizard.LocalFileFromPath(path)
		if err != nil {
			problems = append(problems, err.Error())
			continue
		}
		files = append(files, f)
	}
	if len(problems) > 0 {
		a.status = errorStyle.Render(strings.Join(problems, "; "))
	}
	if len(files) == 0 {
		return nil
	}

	a.busy = true
	w := a.wizard
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*requestTimeout)
		defer cancel()
		return uploadedMsg{results: w.UploadFiles(ctx, files)}
	}
}

func (a *App) reset() tea.Cmd {
	a.setErr(a.wizard.Reset())
	a.mode = modeForm
	a.errs = nil
	a.reference = ""
	a.status = "Form cleared"
	a.loadStep()
	return nil
}

func renderUploadResults(results []wizard.UploadResult) string {
	lines := make([]string, 0, len(results))
	for _, r := range results {
		if r.Err != nil {
			lines = append(lines, errorStyle.Render(fmt.Sprintf("✗ %s: %v", r.FileName, r.Err)))
			continue
		}
		lines = append(lines, successStyle.Render(fmt.Sprintf("✓ %s uploaded", r.FileName)))
	}
	return strings.Join(lines, "\n")
}

func (a *App) View() string {
	if a.mode == modeSubmitted {
		return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
			successStyle.Render("Application submitted successfully"),
			"",
			"Reference number: "+titleStyle.Render(a.reference),
			footerStyle.Render("ctrl+r new application · esc quit"),
		))
	}

	step := a.wizard.Step()
	sections := []string{
		titleStyle.Render("License Application"),
		a.renderProgress(step),
		"",
	}

	switch step {
	case wizard.StepAccountType:
		sections = append(sections, fmt.Sprintf("%s %s  (ctrl+t to change)",
			labelStyle.Render("Account Type *"), a.wizard.Data().AccountType))
	case wizard.StepLicense:
		data := a.wizard.Data()
		hasPrevious := "No"
		if data.HasPreviousLicense {
			hasPrevious = "Yes"
		}
		sections = append(sections, fmt.Sprintf("%s %s  (ctrl+l to toggle)", labelStyle.Render("Previous License"), hasPrevious))
	}

	if step == wizard.StepReview {
		sections = append(sections, a.renderReview())
	} else {
		sections = append(sections, a.renderInputs())
	}

	if step == wizard.StepLicense {
		files := a.wizard.Data().UploadedFiles
		names := make([]string, 0, len(files))
		for _, f := range files {
			names = append(names, f.FileName)
		}
		if len(names) == 0 {
			names = append(names, "none")
		}
		sections = append(sections, "", labelStyle.Render("Documents")+" "+strings.Join(names, ", "))
		if a.mode == modeUpload {
			sections = append(sections, a.uploadInput.View())
		}
	}

	if a.status != "" {
		sections = append(sections, "", a.status)
	}
	sections = append(sections, footerStyle.Render(a.help(step)))

	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (a *App) renderProgress(current wizard.Step) string {
	parts := make([]string, 0, wizard.TotalSteps)
	for s := wizard.StepAccountType; s <= wizard.StepReview; s++ {
		label := fmt.Sprintf("%d %s", s, s.Title())
		switch {
		case s == current:
			parts = append(parts, stepActiveStyle.Render(label))
		case s < current:
			parts = append(parts, stepDoneStyle.Render(label))
		default:
			parts = append(parts, stepTodoStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (a *App) renderInputs() string {
	lines := make([]string, 0, len(a.inputs))
	for i, f := range a.fields {
		label := f.Label
		if f.Required {
			label += " *"
		}
		line := labelStyle.Render(label) + " " + a.inputs[i].View()
		if msgs := a.errs[f.Name]; len(msgs) > 0 {
			line += "  " + errorStyle.Render(msgs[0])
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (a *App) renderReview() string {
	var lines []string
	section := ""
	for _, item := range a.wizard.Review() {
		if item.Section != section {
			section = item.Section
			lines = append(lines, titleStyle.Render(section))
		}
		lines = append(lines, labelStyle.Render(item.Label)+" "+item.Value)
	}

	agree := "[ ]"
	if a.wizard.Data().AgreeToTerms {
		agree = "[x]"
	}
	lines = append(lines, "", agree+" I agree to the terms and conditions (ctrl+a)")
	return strings.Join(lines, "\n")
}

func (a *App) help(step wizard.Step) string {
	keys := []string{"tab next field", "ctrl+n next", "ctrl+b back", "ctrl+s save draft", "ctrl+r reset", "esc quit"}
	switch step {
	case wizard.StepLicense:
		keys = append(keys, "ctrl+u upload")
	case wizard.StepReview:
		keys = []string{"enter submit", "ctrl+a agree", "ctrl+b back", "f1-f5 jump", "esc quit"}
	}
	saved := a.wizard.LastSaved()
	if !saved.IsZero() {
		keys = append(keys, "saved "+saved.Format("15:04:05"))
	}
	return strings.Join(keys, " · ")
}
