package wizard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ikkim/license-backend/internal/app/dto"
	"github.com/ikkim/license-backend/internal/app/model"
	"github.com/ikkim/license-backend/pkg/logger"
	"github.com/ikkim/license-backend/internal/validation"
)

var (
	ErrUnknownField     = errors.New("unknown form field")
	ErrStepNotReachable = errors.New("step not reachable yet")
	ErrNotOnReview      = errors.New("applications are submitted from the review step")
	ErrAlreadySubmitted = errors.New("application already submitted")
	ErrSubmitFailed     = errors.New("failed to submit application, please try again")
	ErrNoApplication    = errors.New("please fill in required fields before uploading files")
	ErrFileType         = errors.New("file type not allowed")
	ErrFileTooLarge     = errors.New("file exceeds the maximum size")
)

// API is the subset of the license API the wizard drives.
type API interface {
	CreateDraft(ctx context.Context, req *dto.ApplicationRequest) (*model.Application, error)
	UpdateDraft(ctx context.Context, id string, req *dto.ApplicationRequest) (*model.Application, error)
	CreateApplication(ctx context.Context, req *dto.ApplicationRequest) (*model.Application, error)
	UploadFile(ctx context.Context, applicationID, fileName string, content io.Reader) (*model.FileMetadata, error)
}

// Wizard owns the state of one application being filled in. Every form
// mutation goes through Update, which also persists to the Store.
type Wizard struct {
	api   API
	store Store
	now   func() time.Time

	mu              sync.Mutex
	step            Step
	data            FormData
	applicationID   string
	dirty           bool
	version         uint64
	submitted       bool
	referenceNumber string
	lastSaved       time.Time

	saving atomic.Bool
}

type Option func(*Wizard)

// WithClock replaces time.Now for age checks and save timestamps.
func WithClock(now func() time.Time) Option {
	return func(w *Wizard) {
		w.now = now
	}
}

// New restores any persisted form data and starts at the first step.
func New(api API, store Store, opts ...Option) *Wizard {
	w := &Wizard{
		api:   api,
		store: store,
		now:   time.Now,
		step:  StepAccountType,
		data:  NewFormData(),
	}
	for _, opt := range opts {
		opt(w)
	}

	saved, err := store.Load()
	if err != nil {
		logger.Warn("Discarding unreadable saved form data", map[string]interface{}{
			"error": err.Error(),
		})
	}
	if saved != nil {
		w.data = *saved
		if w.data.UploadedFiles == nil {
			w.data.UploadedFiles = []UploadedFile{}
		}
		logger.Info("Restored saved form data")
	}
	return w
}

// Update applies fn to the form, marks it dirty and persists it.
// A submitted form is read-only until Reset.
func (w *Wizard) Update(fn func(*FormData)) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.submitted {
		return ErrAlreadySubmitted
	}
	fn(&w.data)
	w.dirty = true
	w.version++

	if err := w.store.Save(w.data.clone()); err != nil {
		logger.Error("Failed to persist form data", err)
		return err
	}
	return nil
}

// Set writes a named text or date field.
func (w *Wizard) Set(field, value string) error {
	if _, ok := formFields[field]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	return w.Update(func(f *FormData) {
		f.SetValue(field, value)
	})
}

func (w *Wizard) SetAccountType(t model.AccountType) error {
	return w.Update(func(f *FormData) {
		f.AccountType = t
	})
}

func (w *Wizard) SetHasPreviousLicense(v bool) error {
	return w.Update(func(f *FormData) {
		f.HasPreviousLicense = v
	})
}

func (w *Wizard) SetAgreeToTerms(v bool) error {
	return w.Update(func(f *FormData) {
		f.AgreeToTerms = v
	})
}

func (w *Wizard) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// Data returns a copy of the current form.
func (w *Wizard) Data() FormData {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.data.clone()
}

func (w *Wizard) ApplicationID() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.applicationID
}

func (w *Wizard) Dirty() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.dirty
}

func (w *Wizard) Saving() bool {
	return w.saving.Load()
}

func (w *Wizard) Submitted() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.submitted
}

func (w *Wizard) ReferenceNumber() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.referenceNumber
}

func (w *Wizard) LastSaved() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastSaved
}

// Next advances one step when the current step validates.
// On failure the step does not change and a *StepError is returned.
func (w *Wizard) Next() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.submitted {
		return ErrAlreadySubmitted
	}
	if w.step >= StepReview {
		return nil
	}
	if errs := ValidateStep(w.step, &w.data, w.now()); errs.HasErrors() {
		return &StepError{Step: w.step, Errors: errs}
	}
	w.step++
	return nil
}

func (w *Wizard) Prev() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step > StepAccountType {
		w.step--
	}
}

// GoTo jumps back to a step already reached.
func (w *Wizard) GoTo(s Step) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if s < StepAccountType || s > w.step {
		return fmt.Errorf("%w: %d", ErrStepNotReachable, s)
	}
	w.step = s
	return nil
}

// ReviewItem is one row of the read-only summary.
type ReviewItem struct {
	Section string
	Label   string
	Value   string
}

// Review renders the collected data. The SSN is masked to its last four digits.
func (w *Wizard) Review() []ReviewItem {
	data := w.Data()

	items := []ReviewItem{
		{stepTitles[StepAccountType], "Account Type", data.AccountType.String()},
	}
	for s := StepAccountType; s <= StepLicense; s++ {
		if s == StepLicense {
			hasPrevious := "No"
			if data.HasPreviousLicense {
				hasPrevious = "Yes"
			}
			items = append(items, ReviewItem{stepTitles[s], "Previous License", hasPrevious})
		}
		for _, field := range Fields(s, &data) {
			value, _ := data.Value(field.Name)
			if field.Name == "socialSecurityNumber" {
				value = MaskSSN(value)
			}
			items = append(items, ReviewItem{stepTitles[s], field.Label, displayValue(value)})
		}
	}

	files := make([]string, 0, len(data.UploadedFiles))
	for _, f := range data.UploadedFiles {
		files = append(files, f.FileName)
	}
	items = append(items, ReviewItem{stepTitles[StepLicense], "Documents", displayValue(strings.Join(files, ", "))})
	return items
}

// MaskSSN keeps only the last four characters.
func MaskSSN(ssn string) string {
	ssn = strings.TrimSpace(ssn)
	if ssn == "" {
		return ""
	}
	if len(ssn) > 4 {
		ssn = ssn[len(ssn)-4:]
	}
	return "***-**-" + ssn
}

func displayValue(v string) string {
	if strings.TrimSpace(v) == "" {
		return "N/A"
	}
	return v
}

// Submit sends the final application from the review step. On success local
// state is cleared and the reference number is returned.
func (w *Wizard) Submit(ctx context.Context) (string, error) {
	w.mu.Lock()
	if w.submitted {
		w.mu.Unlock()
		return "", ErrAlreadySubmitted
	}
	if w.step != StepReview {
		w.mu.Unlock()
		return "", ErrNotOnReview
	}
	errs := ValidateStep(w.step, &w.data, w.now())
	if !w.data.AgreeToTerms {
		errs.Add("agreeToTerms", "You must agree to the terms and conditions")
	}
	if errs.HasErrors() {
		w.mu.Unlock()
		return "", &StepError{Step: StepReview, Errors: errs}
	}
	req := w.data.Request()
	w.mu.Unlock()

	app, err := w.api.CreateApplication(ctx, req)
	if err != nil {
		logger.Error("Application submission failed", err)
		return "", ErrSubmitFailed
	}

	w.mu.Lock()
	w.submitted = true
	w.referenceNumber = app.ReferenceNumber
	w.applicationID = app.ID
	w.dirty = false
	w.mu.Unlock()

	if err := w.store.Clear(); err != nil {
		logger.Error("Failed to clear saved form data", err)
	}

	logger.Info("Application submitted", map[string]interface{}{
		"reference_number": app.ReferenceNumber,
	})
	return app.ReferenceNumber, nil
}

// SaveDraft creates the draft on first use and updates it afterwards.
// A call made while another save is in flight returns immediately.
// Silent saves log their own failures.
func (w *Wizard) SaveDraft(ctx context.Context, silent bool) error {
	if !w.saving.CompareAndSwap(false, true) {
		return nil
	}
	defer w.saving.Store(false)

	w.mu.Lock()
	if w.submitted {
		w.mu.Unlock()
		return nil
	}
	req := w.data.Request()
	id := w.applicationID
	version := w.version
	w.mu.Unlock()

	var (
		app *model.Application
		err error
	)
	if id == "" {
		app, err = w.api.CreateDraft(ctx, req)
	} else {
		app, err = w.api.UpdateDraft(ctx, id, req)
	}
	if err != nil {
		if silent {
			logger.Warn("Draft save failed", map[string]interface{}{
				"application_id": id,
				"error":          err.Error(),
			})
		}
		return fmt.Errorf("failed to save draft: %w", err)
	}

	w.mu.Lock()
	w.applicationID = app.ID
	w.lastSaved = w.now()
	if w.version == version {
		w.dirty = false
	}
	w.mu.Unlock()

	logger.Debug("Draft saved", map[string]interface{}{
		"application_id": app.ID,
	})
	return nil
}

// LocalFile is a document picked for upload.
type LocalFile struct {
	Name string
	Size int64
	Open func() (io.ReadCloser, error)
}

// LocalFileFromPath describes a file on disk.
func LocalFileFromPath(path string) (LocalFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return LocalFile{}, err
	}
	if info.IsDir() {
		return LocalFile{}, fmt.Errorf("%s is a directory", path)
	}
	return LocalFile{
		Name: filepath.Base(path),
		Size: info.Size(),
		Open: func() (io.ReadCloser, error) { return os.Open(path) },
	}, nil
}

// UploadResult is the outcome of one file in a batch.
type UploadResult struct {
	FileName string
	File     *UploadedFile
	Err      error
}

// UploadFiles uploads a batch one file at a time. A draft is saved first
// when no application id exists yet. Each file succeeds or fails on its own.
func (w *Wizard) UploadFiles(ctx context.Context, files []LocalFile) []UploadResult {
	results := make([]UploadResult, len(files))
	for i, f := range files {
		results[i].FileName = f.Name
	}

	if w.ApplicationID() == "" {
		if err := w.SaveDraft(ctx, true); err != nil {
			logger.Error("Failed to save draft before uploading files", err)
		}
	}
	appID := w.ApplicationID()
	if appID == "" {
		for i := range results {
			results[i].Err = ErrNoApplication
		}
		return results
	}

	for i, f := range files {
		uploaded, err := w.uploadOne(ctx, appID, f)
		results[i].File = uploaded
		results[i].Err = err
	}
	return results
}

func (w *Wizard) uploadOne(ctx context.Context, appID string, f LocalFile) (*UploadedFile, error) {
	if !model.IsAllowedExtension(f.Name) {
		return nil, fmt.Errorf("%w: %s (allowed: %s)", ErrFileType, f.Name, strings.Join(model.AllowedExtensions, ", "))
	}
	if f.Size > model.MaxFileSize {
		return nil, fmt.Errorf("%w: %s is larger than %dMB", ErrFileTooLarge, f.Name, model.MaxFileSize/(1024*1024))
	}

	content, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", f.Name, err)
	}
	defer content.Close()

	meta, err := w.api.UploadFile(ctx, appID, f.Name, content)
	if err != nil {
		logger.Warn("File upload failed", map[string]interface{}{
			"file_name": f.Name,
			"error":     err.Error(),
		})
		return nil, err
	}

	uploaded := UploadedFile{ID: meta.ID, FileName: meta.FileName, FileSize: meta.FileSize}
	if err := w.Update(func(d *FormData) {
		d.UploadedFiles = append(d.UploadedFiles, uploaded)
	}); err != nil {
		logger.Warn("Uploaded file not persisted locally", map[string]interface{}{
			"file_id": uploaded.ID,
		})
	}
	return &uploaded, nil
}

// RemoveFile forgets an uploaded file locally. The server copy is kept.
func (w *Wizard) RemoveFile(fileID string) error {
	return w.Update(func(d *FormData) {
		kept := d.UploadedFiles[:0]
		for _, f := range d.UploadedFiles {
			if f.ID != fileID {
				kept = append(kept, f)
			}
		}
		d.UploadedFiles = kept
	})
}

// Reset clears persisted state and starts over at step one.
func (w *Wizard) Reset() error {
	w.mu.Lock()
	w.step = StepAccountType
	w.data = NewFormData()
	w.applicationID = ""
	w.dirty = false
	w.version++
	w.submitted = false
	w.referenceNumber = ""
	w.lastSaved = time.Time{}
	w.mu.Unlock()

	if err := w.store.Clear(); err != nil {
		return fmt.Errorf("failed to reset form: %w", err)
	}
	return nil
}

// CurrentErrors validates the current step without moving.
func (w *Wizard) CurrentErrors() validation.Errors {
	w.mu.Lock()
	defer w.mu.Unlock()
	return ValidateStep(w.step, &w.data, w.now())
}
