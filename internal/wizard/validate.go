package wizard

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ikkim/license-backend/internal/app/model"
	"github.com/ikkim/license-backend/internal/validation"
)

type Step int

const (
	StepAccountType   Step = 1
	StepAccountFields Step = 2
	StepAddress       Step = 3
	StepLicense       Step = 4
	StepReview        Step = 5

	TotalSteps = 5
)

var stepTitles = map[Step]string{
	StepAccountType:   "Account Type",
	StepAccountFields: "Account Details",
	StepAddress:       "Address",
	StepLicense:       "License History & Documents",
	StepReview:        "Review",
}

func (s Step) Title() string {
	return stepTitles[s]
}

// StepField is one input rendered on a step.
type StepField struct {
	Name     string
	Label    string
	Type     model.FieldType
	Required bool
}

var (
	accountStepFields = []StepField{
		{Name: "accountName", Label: "Account Name", Type: model.FieldTypeText, Required: true},
		{Name: "email", Label: "Email", Type: model.FieldTypeText, Required: true},
		{Name: "phone", Label: "Phone", Type: model.FieldTypeText},
	}
	addressStepFields = []StepField{
		{Name: "addressLine1", Label: "Address Line 1", Type: model.FieldTypeText, Required: true},
		{Name: "addressLine2", Label: "Address Line 2", Type: model.FieldTypeText},
		{Name: "city", Label: "City", Type: model.FieldTypeText, Required: true},
		{Name: "state", Label: "State", Type: model.FieldTypeText, Required: true},
		{Name: "zipCode", Label: "PIN Code", Type: model.FieldTypeText, Required: true},
		{Name: "country", Label: "Country", Type: model.FieldTypeText, Required: true},
	}
)

// Fields lists the text and date inputs of step s for the given form.
// Account-type fields come from the catalog; license history fields are
// required only when a previous license is declared.
func Fields(s Step, data *FormData) []StepField {
	switch s {
	case StepAccountType:
		return accountStepFields
	case StepAccountFields:
		info, ok := model.LookupAccountType(data.AccountType)
		if !ok {
			return nil
		}
		fields := make([]StepField, 0, len(info.Fields))
		for _, f := range info.Fields {
			fields = append(fields, StepField{Name: f.Name, Label: f.Label, Type: f.Type, Required: f.Required})
		}
		return fields
	case StepAddress:
		return addressStepFields
	case StepLicense:
		return []StepField{
			{Name: "previousLicenseNumber", Label: "Previous License Number", Type: model.FieldTypeText, Required: data.HasPreviousLicense},
			{Name: "previousLicenseExpiry", Label: "Previous License Expiry", Type: model.FieldTypeDate, Required: data.HasPreviousLicense},
			{Name: "notes", Label: "Notes", Type: model.FieldTypeText},
		}
	default:
		return nil
	}
}

// StepError reports the fields that blocked a transition.
type StepError struct {
	Step   Step
	Errors validation.Errors
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d is incomplete: %s", e.Step, strings.Join(e.Labels(), ", "))
}

// Labels returns the display labels of the failing fields, sorted.
func (e *StepError) Labels() []string {
	labels := make([]string, 0, len(e.Errors))
	for name := range e.Errors {
		labels = append(labels, model.FieldLabel(name))
	}
	sort.Strings(labels)
	return labels
}

// ValidateStep checks the required and filled fields of step s.
func ValidateStep(s Step, data *FormData, now time.Time) validation.Errors {
	errs := validation.Errors{}

	if s == StepAccountType && !data.AccountType.Valid() {
		errs.Add("accountType", "Account Type is required")
	}

	for _, field := range Fields(s, data) {
		value, _ := data.Value(field.Name)
		value = strings.TrimSpace(value)
		if value == "" {
			if field.Required {
				errs.Add(field.Name, "This field is required")
			}
			continue
		}
		if msg := checkFormat(field.Name, value, now); msg != "" {
			errs.Add(field.Name, msg)
		}
	}
	return errs
}

func checkFormat(name, value string, now time.Time) string {
	switch name {
	case "email":
		if !validation.IsEmail(value) {
			return "Please enter a valid email address"
		}
	case "phone":
		if !validation.IsPhone(value) {
			return "Please enter a valid phone number"
		}
	case "zipCode":
		if !validation.IsPinCode(value) {
			return "Please enter a valid PIN code (6 digits, e.g., 110001)"
		}
	}

	if dateFieldNames[name] {
		t, ok := ParseDate(value)
		if !ok {
			return "Please enter a date as YYYY-MM-DD"
		}
		if name == "dateOfBirth" && !validation.IsAdult(t, now) {
			return fmt.Sprintf("You must be at least %d years old", validation.MinimumAge)
		}
	}
	return ""
}
