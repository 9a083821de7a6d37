package wizard

import (
	"strings"
	"time"

	"github.com/ikkim/license-backend/internal/app/dto"
	"github.com/ikkim/license-backend/internal/app/model"
)

// DateLayout is the input format of date fields.
const DateLayout = "2006-01-02"

// FormData is the locally persisted wizard input. Text and date fields hold
// raw user input; conversion happens in Request.
type FormData struct {
	AccountType model.AccountType `json:"accountType"`
	AccountName string            `json:"accountName"`
	Email       string            `json:"email"`
	Phone       string            `json:"phone"`

	FirstName            string `json:"firstName"`
	MiddleName           string `json:"middleName"`
	LastName             string `json:"lastName"`
	DateOfBirth          string `json:"dateOfBirth"`
	SocialSecurityNumber string `json:"socialSecurityNumber"`

	BusinessName               string `json:"businessName"`
	BusinessRegistrationNumber string `json:"businessRegistrationNumber"`
	TaxIdentificationNumber    string `json:"taxIdentificationNumber"`
	BusinessEstablishedDate    string `json:"businessEstablishedDate"`
	BusinessType               string `json:"businessType"`

	AgencyName         string `json:"agencyName"`
	DepartmentName     string `json:"departmentName"`
	AuthorizedOfficer  string `json:"authorizedOfficer"`
	OfficerDesignation string `json:"officerDesignation"`
	GovernmentIDNumber string `json:"governmentIdNumber"`

	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2"`
	City         string `json:"city"`
	State        string `json:"state"`
	ZipCode      string `json:"zipCode"`
	Country      string `json:"country"`

	HasPreviousLicense    bool   `json:"hasPreviousLicense"`
	PreviousLicenseNumber string `json:"previousLicenseNumber"`
	PreviousLicenseExpiry string `json:"previousLicenseExpiry"`
	Notes                 string `json:"notes"`
	AgreeToTerms          bool   `json:"agreeToTerms"`

	UploadedFiles []UploadedFile `json:"uploadedFiles"`
}

// UploadedFile is a document the server accepted for this application.
type UploadedFile struct {
	ID       string `json:"id"`
	FileName string `json:"fileName"`
	FileSize int64  `json:"fileSize"`
}

// NewFormData returns the blank form.
func NewFormData() FormData {
	return FormData{
		AccountType:   model.AccountTypeIndividual,
		Country:       "India",
		UploadedFiles: []UploadedFile{},
	}
}

type textField struct {
	get func(*FormData) string
	set func(*FormData, string)
}

var formFields = map[string]textField{
	"accountName":                {func(f *FormData) string { return f.AccountName }, func(f *FormData, v string) { f.AccountName = v }},
	"email":                      {func(f *FormData) string { return f.Email }, func(f *FormData, v string) { f.Email = v }},
	"phone":                      {func(f *FormData) string { return f.Phone }, func(f *FormData, v string) { f.Phone = v }},
	"firstName":                  {func(f *FormData) string { return f.FirstName }, func(f *FormData, v string) { f.FirstName = v }},
	"middleName":                 {func(f *FormData) string { return f.MiddleName }, func(f *FormData, v string) { f.MiddleName = v }},
	"lastName":                   {func(f *FormData) string { return f.LastName }, func(f *FormData, v string) { f.LastName = v }},
	"dateOfBirth":                {func(f *FormData) string { return f.DateOfBirth }, func(f *FormData, v string) { f.DateOfBirth = v }},
	"socialSecurityNumber":       {func(f *FormData) string { return f.SocialSecurityNumber }, func(f *FormData, v string) { f.SocialSecurityNumber = v }},
	"businessName":               {func(f *FormData) string { return f.BusinessName }, func(f *FormData, v string) { f.BusinessName = v }},
	"businessRegistrationNumber": {func(f *FormData) string { return f.BusinessRegistrationNumber }, func(f *FormData, v string) { f.BusinessRegistrationNumber = v }},
	"taxIdentificationNumber":    {func(f *FormData) string { return f.TaxIdentificationNumber }, func(f *FormData, v string) { f.TaxIdentificationNumber = v }},
	"businessEstablishedDate":    {func(f *FormData) string { return f.BusinessEstablishedDate }, func(f *FormData, v string) { f.BusinessEstablishedDate = v }},
	"businessType":               {func(f *FormData) string { return f.BusinessType }, func(f *FormData, v string) { f.BusinessType = v }},
	"agencyName":                 {func(f *FormData) string { return f.AgencyName }, func(f *FormData, v string) { f.AgencyName = v }},
	"departmentName":             {func(f *FormData) string { return f.DepartmentName }, func(f *FormData, v string) { f.DepartmentName = v }},
	"authorizedOfficer":          {func(f *FormData) string { return f.AuthorizedOfficer }, func(f *FormData, v string) { f.AuthorizedOfficer = v }},
	"officerDesignation":         {func(f *FormData) string { return f.OfficerDesignation }, func(f *FormData, v string) { f.OfficerDesignation = v }},
	"governmentIdNumber":         {func(f *FormData) string { return f.GovernmentIDNumber }, func(f *FormData, v string) { f.GovernmentIDNumber = v }},
	"addressLine1":               {func(f *FormData) string { return f.AddressLine1 }, func(f *FormData, v string) { f.AddressLine1 = v }},
	"addressLine2":               {func(f *FormData) string { return f.AddressLine2 }, func(f *FormData, v string) { f.AddressLine2 = v }},
	"city":                       {func(f *FormData) string { return f.City }, func(f *FormData, v string) { f.City = v }},
	"state":                      {func(f *FormData) string { return f.State }, func(f *FormData, v string) { f.State = v }},
	"zipCode":                    {func(f *FormData) string { return f.ZipCode }, func(f *FormData, v string) { f.ZipCode = v }},
	"country":                    {func(f *FormData) string { return f.Country }, func(f *FormData, v string) { f.Country = v }},
	"previousLicenseNumber":      {func(f *FormData) string { return f.PreviousLicenseNumber }, func(f *FormData, v string) { f.PreviousLicenseNumber = v }},
	"previousLicenseExpiry":      {func(f *FormData) string { return f.PreviousLicenseExpiry }, func(f *FormData, v string) { f.PreviousLicenseExpiry = v }},
	"notes":                      {func(f *FormData) string { return f.Notes }, func(f *FormData, v string) { f.Notes = v }},
}

var dateFieldNames = map[string]bool{
	"dateOfBirth":             true,
	"businessEstablishedDate": true,
	"previousLicenseExpiry":   true,
}

// Value returns the raw text of a named field and whether the name is known.
func (f *FormData) Value(name string) (string, bool) {
	field, ok := formFields[name]
	if !ok {
		return "", false
	}
	return field.get(f), true
}

// SetValue writes a named text field. Unknown names are ignored and reported.
func (f *FormData) SetValue(name, value string) bool {
	field, ok := formFields[name]
	if !ok {
		return false
	}
	field.set(f, value)
	return true
}

func (f FormData) clone() FormData {
	f.UploadedFiles = append([]UploadedFile{}, f.UploadedFiles...)
	return f
}

// ParseDate accepts DateLayout or RFC 3339 input.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t.UTC(), true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), true
	}
	return time.Time{}, false
}

// Request converts the form into the API payload. Blank text becomes null
// and unparseable dates are dropped.
func (f *FormData) Request() *dto.ApplicationRequest {
	accountType := f.AccountType
	hasPrevious := f.HasPreviousLicense
	return &dto.ApplicationRequest{
		AccountType:                &accountType,
		AccountName:                text(f.AccountName),
		Email:                      text(f.Email),
		Phone:                      text(f.Phone),
		AddressLine1:               text(f.AddressLine1),
		AddressLine2:               text(f.AddressLine2),
		City:                       text(f.City),
		State:                      text(f.State),
		ZipCode:                    text(f.ZipCode),
		Country:                    text(f.Country),
		FirstName:                  text(f.FirstName),
		MiddleName:                 text(f.MiddleName),
		LastName:                   text(f.LastName),
		DateOfBirth:                date(f.DateOfBirth),
		SocialSecurityNumber:       text(f.SocialSecurityNumber),
		BusinessName:               text(f.BusinessName),
		BusinessRegistrationNumber: text(f.BusinessRegistrationNumber),
		TaxIdentificationNumber:    text(f.TaxIdentificationNumber),
		BusinessEstablishedDate:    date(f.BusinessEstablishedDate),
		BusinessType:               text(f.BusinessType),
		AgencyName:                 text(f.AgencyName),
		DepartmentName:             text(f.DepartmentName),
		AuthorizedOfficer:          text(f.AuthorizedOfficer),
		OfficerDesignation:         text(f.OfficerDesignation),
		GovernmentIDNumber:         text(f.GovernmentIDNumber),
		HasPreviousLicense:         &hasPrevious,
		PreviousLicenseNumber:      text(f.PreviousLicenseNumber),
		PreviousLicenseExpiry:      date(f.PreviousLicenseExpiry),
		Notes:                      text(f.Notes),
	}
}

func text(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func date(s string) *time.Time {
	t, ok := ParseDate(s)
	if !ok {
		return nil
	}
	return &t
}
