package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/license-backend/internal/app/service"
)

type AccountTypeController struct {
	accountTypeService service.AccountTypeService
}

func NewAccountTypeController(accountTypeService service.AccountTypeService) *AccountTypeController {
	return &AccountTypeController{
		accountTypeService: accountTypeService,
	}
}

// ListAccountTypes returns the account type catalog
// GET /api/accounttypes
func (ctrl *AccountTypeController) ListAccountTypes(c *gin.Context) {
	c.JSON(http.StatusOK, ctrl.accountTypeService.ListAccountTypes())
}
