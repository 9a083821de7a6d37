package model

type FieldType string

const (
	FieldTypeText   FieldType = "text"
	FieldTypeDate   FieldType = "date"
	FieldTypeSelect FieldType = "select"
)

// FieldDescriptor describes one account-type specific form field.
type FieldDescriptor struct {
	Name     string    `json:"name"`
	Label    string    `json:"label"`
	Type     FieldType `json:"type"`
	Required bool      `json:"required"`
	Step     int       `json:"step"`
	Options  []string  `json:"options,omitempty"`
}

type AccountTypeInfo struct {
	ID          AccountType       `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Fields      []FieldDescriptor `json:"fields"`
}

var accountTypeCatalog = []AccountTypeInfo{
	{
		ID:          AccountTypeIndividual,
		Name:        "Individual",
		Description: "Personal license for individual applicants",
		Fields: []FieldDescriptor{
			{Name: "firstName", Label: "First Name", Type: FieldTypeText, Required: true, Step: 2},
			{Name: "middleName", Label: "Middle Name", Type: FieldTypeText, Step: 2},
			{Name: "lastName", Label: "Last Name", Type: FieldTypeText, Required: true, Step: 2},
			{Name: "dateOfBirth", Label: "Date of Birth", Type: FieldTypeDate, Required: true, Step: 2},
			{Name: "socialSecurityNumber", Label: "SSN/Aadhaar", Type: FieldTypeText, Step: 2},
		},
	},
	{
		ID:          AccountTypeBusiness,
		Name:        "Business",
		Description: "Commercial license for registered businesses",
		Fields: []FieldDescriptor{
			{Name: "businessName", Label: "Business Name", Type: FieldTypeText, Required: true, Step: 2},
			{Name: "businessRegistrationNumber", Label: "Registration Number", Type: FieldTypeText, Required: true, Step: 2},
			{Name: "taxIdentificationNumber", Label: "Tax ID (GST/PAN)", Type: FieldTypeText, Required: true, Step: 2},
			{Name: "businessEstablishedDate", Label: "Established Date", Type: FieldTypeDate, Required: true, Step: 2},
			{Name: "businessType", Label: "Business Type", Type: FieldTypeText, Required: true, Step: 2},
		},
	},
	{
		ID:          AccountTypeGovernment,
		Name:        "Government",
		Description: "License for government agencies and departments",
		Fields: []FieldDescriptor{
			{Name: "agencyName", Label: "Agency Name", Type: FieldTypeText, Required: true, Step: 2},
			{Name: "departmentName", Label: "Department Name", Type: FieldTypeText, Required: true, Step: 2},
			{Name: "authorizedOfficer", Label: "Authorized Officer", Type: FieldTypeText, Required: true, Step: 2},
			{Name: "officerDesignation", Label: "Officer Designation", Type: FieldTypeText, Required: true, Step: 2},
			{Name: "governmentIdNumber", Label: "Government ID", Type: FieldTypeText, Required: true, Step: 2},
		},
	},
}

// AccountTypes returns a copy of the static catalog.
func AccountTypes() []AccountTypeInfo {
	out := make([]AccountTypeInfo, len(accountTypeCatalog))
	for i, info := range accountTypeCatalog {
		info.Fields = append([]FieldDescriptor(nil), info.Fields...)
		out[i] = info
	}
	return out
}

// LookupAccountType returns the catalog entry for id.
func LookupAccountType(id AccountType) (AccountTypeInfo, bool) {
	for _, info := range accountTypeCatalog {
		if info.ID == id {
			info.Fields = append([]FieldDescriptor(nil), info.Fields...)
			return info, true
		}
	}
	return AccountTypeInfo{}, false
}

// RequiredFields lists the required catalog fields of an account type.
func RequiredFields(id AccountType) []FieldDescriptor {
	info, ok := LookupAccountType(id)
	if !ok {
		return nil
	}
	var required []FieldDescriptor
	for _, f := range info.Fields {
		if f.Required {
			required = append(required, f)
		}
	}
	return required
}

var commonFieldLabels = map[string]string{
	"accountType":           "Account Type",
	"accountName":           "Account Name",
	"email":                 "Email",
	"phone":                 "Phone",
	"addressLine1":          "Address Line 1",
	"addressLine2":          "Address Line 2",
	"city":                  "City",
	"state":                 "State",
	"zipCode":               "PIN Code",
	"country":               "Country",
	"hasPreviousLicense":    "Previous License",
	"previousLicenseNumber": "Previous License Number",
	"previousLicenseExpiry": "Previous License Expiry",
	"notes":                 "Notes",
	"agreeToTerms":          "Terms and Conditions",
}

// FieldLabel returns the display label of a form field, falling back to name.
func FieldLabel(name string) string {
	if label, ok := commonFieldLabels[name]; ok {
		return label
	}
	for _, info := range accountTypeCatalog {
		for _, f := range info.Fields {
			if f.Name == name {
				return f.Label
			}
		}
	}
	return name
}
