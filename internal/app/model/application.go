package model

import (
	"time"
)

type AccountType int          // account type discriminator, matches catalog ids
type ApplicationStatus string // application lifecycle status

const (
	AccountTypeIndividual AccountType = 1 // natural person
	AccountTypeBusiness   AccountType = 2 // registered business entity
	AccountTypeGovernment AccountType = 3 // government agency

	StatusDraft       ApplicationStatus = "Draft"       // saved but not submitted
	StatusSubmitted   ApplicationStatus = "Submitted"   // submitted by the applicant
	StatusUnderReview ApplicationStatus = "UnderReview" // picked up by a reviewer
	StatusApproved    ApplicationStatus = "Approved"    // final: approved
	StatusRejected    ApplicationStatus = "Rejected"    // final: rejected
)

// Valid reports whether t is one of the known account types.
func (t AccountType) Valid() bool {
	return t >= AccountTypeIndividual && t <= AccountTypeGovernment
}

func (t AccountType) String() string {
	switch t {
	case AccountTypeIndividual:
		return "Individual"
	case AccountTypeBusiness:
		return "Business"
	case AccountTypeGovernment:
		return "Government"
	default:
		return "Unknown"
	}
}

var statusTransitions = map[ApplicationStatus][]ApplicationStatus{
	StatusSubmitted:   {StatusUnderReview},
	StatusUnderReview: {StatusApproved, StatusRejected},
}

// CanTransitionTo reports whether the one-way lifecycle allows moving from s to next.
// Draft -> Submitted only happens on creation and is not listed here.
func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Valid reports whether s is a known status.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusUnderReview, StatusApproved, StatusRejected:
		return true
	}
	return false
}

type Application struct {
	ID              string            `gorm:"type:varchar(36);primaryKey" json:"id"`                        // application ID (UUID)
	ReferenceNumber string            `gorm:"size:50;not null;uniqueIndex" json:"referenceNumber"`          // LIC-<timestamp>-<random>
	AccountType     AccountType       `gorm:"not null" json:"accountType"`                                  // account type discriminator
	Status          ApplicationStatus `gorm:"type:varchar(20);not null;default:'Draft';index" json:"status"` // lifecycle status

	AccountName  *string `gorm:"size:200" json:"accountName,omitempty"`  // display name of the account
	Email        *string `gorm:"size:100" json:"email,omitempty"`        // contact email
	Phone        *string `gorm:"size:20" json:"phone,omitempty"`         // contact phone
	AddressLine1 *string `gorm:"size:100" json:"addressLine1,omitempty"` // street address
	AddressLine2 *string `gorm:"size:100" json:"addressLine2,omitempty"` // street address (cont.)
	City         *string `gorm:"size:100" json:"city,omitempty"`         // city
	State        *string `gorm:"size:100" json:"state,omitempty"`        // state / province
	ZipCode      *string `gorm:"size:10" json:"zipCode,omitempty"`       // 6-digit PIN code
	Country      *string `gorm:"size:100" json:"country,omitempty"`      // country

	FirstName            *string    `gorm:"size:100" json:"firstName,omitempty"`            // individual: first name
	MiddleName           *string    `gorm:"size:100" json:"middleName,omitempty"`           // individual: middle name
	LastName             *string    `gorm:"size:100" json:"lastName,omitempty"`             // individual: last name
	DateOfBirth          *time.Time `json:"dateOfBirth,omitempty"`                          // individual: date of birth
	SocialSecurityNumber *string    `gorm:"size:20" json:"socialSecurityNumber,omitempty"` // individual: SSN / Aadhaar

	BusinessName               *string    `gorm:"size:200" json:"businessName,omitempty"`              // business: legal name
	BusinessRegistrationNumber *string    `gorm:"size:50" json:"businessRegistrationNumber,omitempty"` // business: registration number
	TaxIdentificationNumber    *string    `gorm:"size:50" json:"taxIdentificationNumber,omitempty"`    // business: GST / PAN
	BusinessEstablishedDate    *time.Time `json:"businessEstablishedDate,omitempty"`                   // business: established date
	BusinessType               *string    `gorm:"size:100" json:"businessType,omitempty"`              // business: type

	AgencyName         *string `gorm:"size:200" json:"agencyName,omitempty"`        // government: agency
	DepartmentName     *string `gorm:"size:100" json:"departmentName,omitempty"`    // government: department
	AuthorizedOfficer  *string `gorm:"size:200" json:"authorizedOfficer,omitempty"` // government: officer name
	OfficerDesignation *string `gorm:"size:100" json:"officerDesignation,omitempty"`
	GovernmentIDNumber *string `gorm:"column:government_id_number;size:50" json:"governmentIdNumber,omitempty"`

	HasPreviousLicense    bool       `gorm:"not null;default:false" json:"hasPreviousLicense"` // held a license before
	PreviousLicenseNumber *string    `gorm:"size:50" json:"previousLicenseNumber,omitempty"`   // previous license number
	PreviousLicenseExpiry *time.Time `json:"previousLicenseExpiry,omitempty"`                  // previous license expiry
	Notes                 *string    `gorm:"size:1000" json:"notes,omitempty"`                 // free-text notes

	CreatedAt   time.Time  `json:"createdAt"`             // created
	UpdatedAt   time.Time  `json:"updatedAt"`             // last modified
	SubmittedAt *time.Time `json:"submittedAt,omitempty"` // set once on submission

	Files []FileMetadata `gorm:"foreignKey:ApplicationID;constraint:OnDelete:CASCADE" json:"files"` // uploaded documents
}

func (Application) TableName() string {
	return "applications"
}
