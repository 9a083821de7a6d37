package dto

import (
	"strings"
	"time"

	"github.com/ikkim/license-backend/internal/app/model"
)

// ApplicationRequest is the body of create, draft, update-draft and validate calls.
// Nil and absent fields are equivalent on the wire.
type ApplicationRequest struct {
	AccountType *model.AccountType `json:"accountType,omitempty" validate:"omitempty,oneof=1 2 3"`
	AccountName *string            `json:"accountName,omitempty" validate:"omitempty,max=200"`
	Email       *string            `json:"email,omitempty" validate:"omitempty,max=100,email"`
	Phone       *string            `json:"phone,omitempty" validate:"omitempty,max=20,phone"`

	AddressLine1 *string `json:"addressLine1,omitempty" validate:"omitempty,max=100"`
	AddressLine2 *string `json:"addressLine2,omitempty" validate:"omitempty,max=100"`
	City         *string `json:"city,omitempty" validate:"omitempty,max=100"`
	State        *string `json:"state,omitempty" validate:"omitempty,max=100"`
	ZipCode      *string `json:"zipCode,omitempty" validate:"omitempty,pincode"`
	Country      *string `json:"country,omitempty" validate:"omitempty,max=100"`

	FirstName            *string    `json:"firstName,omitempty" validate:"omitempty,max=100"`
	MiddleName           *string    `json:"middleName,omitempty" validate:"omitempty,max=100"`
	LastName             *string    `json:"lastName,omitempty" validate:"omitempty,max=100"`
	DateOfBirth          *time.Time `json:"dateOfBirth,omitempty"`
	SocialSecurityNumber *string    `json:"socialSecurityNumber,omitempty" validate:"omitempty,max=20"`

	BusinessName               *string    `json:"businessName,omitempty" validate:"omitempty,max=200"`
	BusinessRegistrationNumber *string    `json:"businessRegistrationNumber,omitempty" validate:"omitempty,max=50"`
	TaxIdentificationNumber    *string    `json:"taxIdentificationNumber,omitempty" validate:"omitempty,max=50"`
	BusinessEstablishedDate    *time.Time `json:"businessEstablishedDate,omitempty"`
	BusinessType               *string    `json:"businessType,omitempty" validate:"omitempty,max=100"`

	AgencyName         *string `json:"agencyName,omitempty" validate:"omitempty,max=200"`
	DepartmentName     *string `json:"departmentName,omitempty" validate:"omitempty,max=100"`
	AuthorizedOfficer  *string `json:"authorizedOfficer,omitempty" validate:"omitempty,max=200"`
	OfficerDesignation *string `json:"officerDesignation,omitempty" validate:"omitempty,max=100"`
	GovernmentIDNumber *string `json:"governmentIdNumber,omitempty" validate:"omitempty,max=50"`

	HasPreviousLicense    *bool      `json:"hasPreviousLicense,omitempty"`
	PreviousLicenseNumber *string    `json:"previousLicenseNumber,omitempty" validate:"omitempty,max=50"`
	PreviousLicenseExpiry *time.Time `json:"previousLicenseExpiry,omitempty"`
	Notes                 *string    `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

// StatusUpdateRequest moves an application along the review chain.
type StatusUpdateRequest struct {
	Status model.ApplicationStatus `json:"status" binding:"required"`
}

// ValidationResult is returned by the dry-run validation endpoint.
type ValidationResult struct {
	IsValid bool                `json:"isValid"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

var textFields = map[string]func(r *ApplicationRequest) *string{
	"accountName":                func(r *ApplicationRequest) *string { return r.AccountName },
	"email":                      func(r *ApplicationRequest) *string { return r.Email },
	"phone":                      func(r *ApplicationRequest) *string { return r.Phone },
	"addressLine1":               func(r *ApplicationRequest) *string { return r.AddressLine1 },
	"addressLine2":               func(r *ApplicationRequest) *string { return r.AddressLine2 },
	"city":                       func(r *ApplicationRequest) *string { return r.City },
	"state":                      func(r *ApplicationRequest) *string { return r.State },
	"zipCode":                    func(r *ApplicationRequest) *string { return r.ZipCode },
	"country":                    func(r *ApplicationRequest) *string { return r.Country },
	"firstName":                  func(r *ApplicationRequest) *string { return r.FirstName },
	"middleName":                 func(r *ApplicationRequest) *string { return r.MiddleName },
	"lastName":                   func(r *ApplicationRequest) *string { return r.LastName },
	"socialSecurityNumber":       func(r *ApplicationRequest) *string { return r.SocialSecurityNumber },
	"businessName":               func(r *ApplicationRequest) *string { return r.BusinessName },
	"businessRegistrationNumber": func(r *ApplicationRequest) *string { return r.BusinessRegistrationNumber },
	"taxIdentificationNumber":    func(r *ApplicationRequest) *string { return r.TaxIdentificationNumber },
	"businessType":               func(r *ApplicationRequest) *string { return r.BusinessType },
	"agencyName":                 func(r *ApplicationRequest) *string { return r.AgencyName },
	"departmentName":             func(r *ApplicationRequest) *string { return r.DepartmentName },
	"authorizedOfficer":          func(r *ApplicationRequest) *string { return r.AuthorizedOfficer },
	"officerDesignation":         func(r *ApplicationRequest) *string { return r.OfficerDesignation },
	"governmentIdNumber":         func(r *ApplicationRequest) *string { return r.GovernmentIDNumber },
	"previousLicenseNumber":      func(r *ApplicationRequest) *string { return r.PreviousLicenseNumber },
	"notes":                      func(r *ApplicationRequest) *string { return r.Notes },
}

var dateFields = map[string]func(r *ApplicationRequest) *time.Time{
	"dateOfBirth":             func(r *ApplicationRequest) *time.Time { return r.DateOfBirth },
	"businessEstablishedDate": func(r *ApplicationRequest) *time.Time { return r.BusinessEstablishedDate },
	"previousLicenseExpiry":   func(r *ApplicationRequest) *time.Time { return r.PreviousLicenseExpiry },
}

// HasValue reports whether the named field carries a non-blank value.
func (r *ApplicationRequest) HasValue(field string) bool {
	if get, ok := textFields[field]; ok {
		v := get(r)
		return v != nil && strings.TrimSpace(*v) != ""
	}
	if get, ok := dateFields[field]; ok {
		v := get(r)
		return v != nil && !v.IsZero()
	}
	switch field {
	case "accountType":
		return r.AccountType != nil
	case "hasPreviousLicense":
		return r.HasPreviousLicense != nil
	}
	return false
}

// NewApplication maps the request onto a fresh entity. Identity and status are left to the caller.
func (r *ApplicationRequest) NewApplication() *model.Application {
	app := &model.Application{}
	if r.AccountType != nil {
		app.AccountType = *r.AccountType
	}
	if r.HasPreviousLicense != nil {
		app.HasPreviousLicense = *r.HasPreviousLicense
	}
	r.applyOptional(app)
	return app
}

// ApplyDraftUpdate overwrites every optional field of app, clearing those
// that are nil. Account type and hasPreviousLicense change only when given.
func (r *ApplicationRequest) ApplyDraftUpdate(app *model.Application) {
	if r.AccountType != nil {
		app.AccountType = *r.AccountType
	}
	if r.HasPreviousLicense != nil {
		app.HasPreviousLicense = *r.HasPreviousLicense
	}
	r.applyOptional(app)
}

func (r *ApplicationRequest) applyOptional(app *model.Application) {
	app.AccountName = clean(r.AccountName)
	app.Email = clean(r.Email)
	app.Phone = clean(r.Phone)
	app.AddressLine1 = clean(r.AddressLine1)
	app.AddressLine2 = clean(r.AddressLine2)
	app.City = clean(r.City)
	app.State = clean(r.State)
	app.ZipCode = clean(r.ZipCode)
	app.Country = clean(r.Country)

	app.FirstName = clean(r.FirstName)
	app.MiddleName = clean(r.MiddleName)
	app.LastName = clean(r.LastName)
	app.DateOfBirth = cleanDate(r.DateOfBirth)
	app.SocialSecurityNumber = clean(r.SocialSecurityNumber)

	app.BusinessName = clean(r.BusinessName)
	app.BusinessRegistrationNumber = clean(r.BusinessRegistrationNumber)
	app.TaxIdentificationNumber = clean(r.TaxIdentificationNumber)
	app.BusinessEstablishedDate = cleanDate(r.BusinessEstablishedDate)
	app.BusinessType = clean(r.BusinessType)

	app.AgencyName = clean(r.AgencyName)
	app.DepartmentName = clean(r.DepartmentName)
	app.AuthorizedOfficer = clean(r.AuthorizedOfficer)
	app.OfficerDesignation = clean(r.OfficerDesignation)
	app.GovernmentIDNumber = clean(r.GovernmentIDNumber)

	app.PreviousLicenseNumber = clean(r.PreviousLicenseNumber)
	app.PreviousLicenseExpiry = cleanDate(r.PreviousLicenseExpiry)
	app.Notes = clean(r.Notes)
}

// clean trims s and maps blank to nil.
func clean(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func cleanDate(t *time.Time) *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	utc := t.UTC()
	return &utc
}
