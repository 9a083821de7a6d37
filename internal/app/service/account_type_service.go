package service

import "github.com/ikkim/license-backend/internal/app/model"

type AccountTypeService interface {
	ListAccountTypes() []model.AccountTypeInfo
	GetAccountType(id model.AccountType) (*model.AccountTypeInfo, bool)
}

type accountTypeService struct{}

func NewAccountTypeService() AccountTypeService {
	return &accountTypeService{}
}

func (s *accountTypeService) ListAccountTypes() []model.AccountTypeInfo {
	return model.AccountTypes()
}

func (s *accountTypeService) GetAccountType(id model.AccountType) (*model.AccountTypeInfo, bool) {
	info, ok := model.LookupAccountType(id)
	if !ok {
		return nil, false
	}
	return &info, true
}
