package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ppldoc/superadmin-console/internal/utils"
	"github.com/ppldoc/superadmin-console/internal/validation"
)

// ValidateHandler runs a form's rules without submitting it, for live
// feedback while the user types.
type ValidateHandler struct{}

// NewValidateHandler creates a new ValidateHandler.
func NewValidateHandler() *ValidateHandler {
	return &ValidateHandler{}
}

// Validate handles POST /console/validate/:form. The body is form-encoded
// or JSON.
func (h *ValidateHandler) Validate(c *gin.Context) {
	form, ok := validation.New(c.Param("form"))
	if !ok {
		utils.Error(c, http.StatusNotFound, utils.CodeNotFound, "Unknown form")
		return
	}
	if err := c.ShouldBind(form); err != nil {
		utils.Error(c, http.StatusBadRequest, utils.CodeBadRequest, "Invalid form body")
		return
	}
	errs := validation.Check(form)
	if errs == nil {
		errs = validation.Errors{}
	}
	utils.Success(c, http.StatusOK, "OK", gin.H{
		"valid":  len(errs) == 0,
		"errors": errs,
	})
}
