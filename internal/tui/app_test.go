package tui

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ikkim/license-backend/internal/app/dto"
	"github.com/ikkim/license-backend/internal/app/model"
	"github.com/ikkim/license-backend/internal/wizard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAPI struct {
	submitErr error
	uploaded  []string
}

func (s *stubAPI) CreateDraft(ctx context.Context, req *dto.ApplicationRequest) (*model.Application, error) {
	return &model.Application{ID: "draft-1"}, nil
}

func (s *stubAPI) UpdateDraft(ctx context.Context, id string, req *dto.ApplicationRequest) (*model.Application, error) {
	return &model.Application{ID: id}, nil
}

func (s *stubAPI) CreateApplication(ctx context.Context, req *dto.ApplicationRequest) (*model.Application, error) {
	if s.submitErr != nil {
		return nil, s.submitErr
	}
	return &model.Application{ID: "app-1", ReferenceNumber: "LIC-20240601120000-4321"}, nil
}

func (s *stubAPI) UploadFile(ctx context.Context, applicationID, fileName string, content io.Reader) (*model.FileMetadata, error) {
	s.uploaded = append(s.uploaded, fileName)
	return &model.FileMetadata{ID: fileName, FileName: fileName}, nil
}

func newTestApp(t *testing.T) (*App, *wizard.Wizard, *stubAPI) {
	api := &stubAPI{}
	w := wizard.New(api, wizard.NewMemoryStore())
	return NewApp(w), w, api
}

// send delivers msg and drops any resulting command.
func send(t *testing.T, a *App, msg tea.Msg) *App {
	t.Helper()
	m, _ := a.Update(msg)
	return m.(*App)
}

// run delivers msg, executes the returned command and feeds its result back.
func run(t *testing.T, a *App, msg tea.Msg) *App {
	t.Helper()
	m, cmd := a.Update(msg)
	app := m.(*App)
	require.NotNil(t, cmd)
	m, _ = app.Update(cmd())
	return m.(*App)
}

func typeText(t *testing.T, a *App, text string) *App {
	t.Helper()
	return send(t, a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

func key(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

func TestApp_TypingWritesThroughWizard(t *testing.T) {
	app, w, _ := newTestApp(t)

	app = typeText(t, app, "Priya Sharma")
	app = send(t, app, key(tea.KeyTab))
	typeText(t, app, "priya@example.in")

	data := w.Data()
	assert.Equal(t, "Priya Sharma", data.AccountName)
	assert.Equal(t, "priya@example.in", data.Email)
	assert.True(t, w.Dirty())
}

func TestApp_NextShowsFailingLabels(t *testing.T) {
	app, w, _ := newTestApp(t)

	app = send(t, app, key(tea.KeyCtrlN))

	assert.Equal(t, wizard.StepAccountType, w.Step())
	assert.Contains(t, app.status, "Account Name")
	assert.Contains(t, app.View(), "This field is required")
}

func TestApp_AccountTypeCycles(t *testing.T) {
	app, w, _ := newTestApp(t)

	app = send(t, app, key(tea.KeyCtrlT))
	assert.Equal(t, model.AccountTypeBusiness, w.Data().AccountType)
	app = send(t, app, key(tea.KeyCtrlT))
	send(t, app, key(tea.KeyCtrlT))
	assert.Equal(t, model.AccountTypeIndividual, w.Data().AccountType)
}

func fillToReview(t *testing.T, w *wizard.Wizard) {
	for field, value := range map[string]string{
		"accountName":  "Priya",
		"email":        "priya@example.in",
		"firstName":    "Priya",
		"lastName":     "Sharma",
		"dateOfBirth":  "1990-01-01",
		"addressLine1": "12 MG Road",
		"city":         "Bengaluru",
		"state":        "Karnataka",
		"zipCode":      "560001",
	} {
		require.NoError(t, w.Set(field, value))
	}
	for w.Step() < wizard.StepReview {
		require.NoError(t, w.Next())
	}
}

func TestApp_SubmitFlow(t *testing.T) {
	app, w, _ := newTestApp(t)
	fillToReview(t, w)
	app.loadStep()

	app = run(t, app, key(tea.KeyEnter))
	assert.Contains(t, app.status, "Terms and Conditions")
	assert.False(t, w.Submitted())

	app = send(t, app, key(tea.KeyCtrlA))
	assert.Contains(t, app.View(), "[x]")
	app = run(t, app, key(tea.KeyEnter))

	assert.Equal(t, modeSubmitted, app.mode)
	assert.Contains(t, app.View(), "LIC-20240601120000-4321")

	app = send(t, app, key(tea.KeyCtrlR))
	assert.Equal(t, modeForm, app.mode)
	assert.Equal(t, wizard.StepAccountType, w.Step())
}

func TestApp_SubmitFailureIsGeneric(t *testing.T) {
	app, w, api := newTestApp(t)
	api.submitErr = errors.New("connection refused")
	fillToReview(t, w)
	require.NoError(t, w.SetAgreeToTerms(true))
	app.loadStep()

	app = run(t, app, key(tea.KeyEnter))

	assert.Equal(t, modeForm, app.mode)
	assert.Contains(t, app.status, "Failed to submit application")
	assert.NotContains(t, app.status, "connection refused")
}

func TestApp_UploadFromPaths(t *testing.T) {
	app, w, api := newTestApp(t)
	fillToReview(t, w)
	require.NoError(t, w.GoTo(wizard.StepLicense))
	app.loadStep()

	dir := t.TempDir()
	good := filepath.Join(dir, "licence.pdf")
	require.NoError(t, os.WriteFile(good, []byte("pdf"), 0o600))

	app = send(t, app, key(tea.KeyCtrlU))
	require.Equal(t, modeUpload, app.mode)
	app = typeText(t, app, good+", "+filepath.Join(dir, "missing.pdf"))
	app = run(t, app, key(tea.KeyEnter))

	assert.Equal(t, modeForm, app.mode)
	assert.Equal(t, []string{"licence.pdf"}, api.uploaded)
	assert.Contains(t, app.status, "licence.pdf uploaded")
	assert.Equal(t, "draft-1", w.ApplicationID())
	assert.True(t, strings.Contains(app.View(), "licence.pdf"))
}

func TestApp_SaveDraftStatus(t *testing.T) {
	app, w, _ := newTestApp(t)

	app = run(t, app, key(tea.KeyCtrlS))

	assert.Contains(t, app.status, "Draft saved successfully")
	assert.Equal(t, "draft-1", w.ApplicationID())
	assert.False(t, app.busy)
}

func TestApp_GoToAheadRejected(t *testing.T) {
	app, w, _ := newTestApp(t)

	app = send(t, app, key(tea.KeyF3))

	assert.Equal(t, wizard.StepAccountType, w.Step())
	assert.Contains(t, app.status, "Complete the current step first")
}
