package service

import (
	"testing"

	"github.com/ikkim/license-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountTypeService_ListAccountTypes(t *testing.T) {
	svc := NewAccountTypeService()

	types := svc.ListAccountTypes()
	require.Len(t, types, 3)
	assert.Equal(t, "Individual", types[0].Name)
	assert.Equal(t, "Business", types[1].Name)
	assert.Equal(t, "Government", types[2].Name)

	for _, info := range types {
		assert.Len(t, info.Fields, 5)
		for _, f := range info.Fields {
			assert.Equal(t, 2, f.Step)
		}
	}

	// callers cannot mutate the shared catalog
	types[0].Fields[0].Label = "changed"
	assert.Equal(t, "First Name", svc.ListAccountTypes()[0].Fields[0].Label)
}

func TestAccountTypeService_GetAccountType(t *testing.T) {
	svc := NewAccountTypeService()

	info, ok := svc.GetAccountType(model.AccountTypeGovernment)
	require.True(t, ok)
	assert.Equal(t, "Government", info.Name)

	_, ok = svc.GetAccountType(model.AccountType(9))
	assert.False(t, ok)

	required := model.RequiredFields(model.AccountTypeIndividual)
	names := make([]string, 0, len(required))
	for _, f := range required {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"firstName", "lastName", "dateOfBirth"}, names)
}
