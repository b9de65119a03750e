package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/consolahealth/studenthealth/internal/app/models/dto"
	"github.com/consolahealth/studenthealth/internal/middleware"
	"github.com/consolahealth/studenthealth/internal/pkg/helpers"
)

const htmlContentType = "text/html; charset=utf-8"

// parseID reads a positive numeric path parameter. On failure the 400 response is
// already written and ok is false.
func parseID(ctx *gin.Context, param, label string) (id int64, ok bool) {
	id, err := strconv.ParseInt(ctx.Param(param), 10, 64)
	if err != nil || id < 1 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeBadRequest, "Invalid "+label+" ID").
			WithField(param).
			WithDetails(label + " ID must be a positive number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

// bindBody binds a JSON or form-encoded body depending on the Content-Type
func bindBody(ctx *gin.Context, obj interface{}) bool {
	if err := ctx.ShouldBind(obj); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeBadRequest, "Invalid request body").
			WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return false
	}
	return true
}

// bindListQuery binds filter parameters and fills the page fields
func bindListQuery(ctx *gin.Context, obj interface{}, page, size *int) bool {
	if err := ctx.ShouldBindQuery(obj); err != nil {
		middleware.HandleAPIError(ctx, err)
		return false
	}
	*page, *size = helpers.ParsePaginationParams(ctx)
	return true
}
