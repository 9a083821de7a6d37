package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplicationStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from ApplicationStatus
		to   ApplicationStatus
		want bool
	}{
		{StatusSubmitted, StatusUnderReview, true},
		{StatusUnderReview, StatusApproved, true},
		{StatusUnderReview, StatusRejected, true},
		{StatusDraft, StatusSubmitted, false},
		{StatusSubmitted, StatusApproved, false},
		{StatusApproved, StatusRejected, false},
		{StatusRejected, StatusUnderReview, false},
		{StatusUnderReview, StatusDraft, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestAccountType_Valid(t *testing.T) {
	assert.True(t, AccountTypeIndividual.Valid())
	assert.True(t, AccountTypeGovernment.Valid())
	assert.False(t, AccountType(0).Valid())
	assert.False(t, AccountType(4).Valid())
	assert.Equal(t, "Business", AccountTypeBusiness.String())
	assert.Equal(t, "Unknown", AccountType(9).String())
}

func TestAccountTypeCatalog(t *testing.T) {
	types := AccountTypes()
	assert.Len(t, types, 3)

	types[0].Fields[0].Label = "changed"
	info, ok := LookupAccountType(AccountTypeIndividual)
	assert.True(t, ok)
	assert.Equal(t, "First Name", info.Fields[0].Label)

	_, ok = LookupAccountType(AccountType(7))
	assert.False(t, ok)

	var names []string
	for _, f := range RequiredFields(AccountTypeIndividual) {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"firstName", "lastName", "dateOfBirth"}, names)
	assert.Len(t, RequiredFields(AccountTypeGovernment), 5)
	assert.Nil(t, RequiredFields(AccountType(0)))
}

func TestFieldLabel(t *testing.T) {
	assert.Equal(t, "PIN Code", FieldLabel("zipCode"))
	assert.Equal(t, "Tax ID (GST/PAN)", FieldLabel("taxIdentificationNumber"))
	assert.Equal(t, "unknownField", FieldLabel("unknownField"))
}

func TestIsAllowedExtension(t *testing.T) {
	assert.True(t, IsAllowedExtension("a.DOCX"))
	assert.True(t, IsAllowedExtension("scan.jpeg"))
	assert.False(t, IsAllowedExtension("archive.zip"))
	assert.False(t, IsAllowedExtension("pdf"))
}
