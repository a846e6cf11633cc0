package handler

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/Sabharish-Varshaan/Inventory-management/internal/apierror"
	"github.com/Sabharish-Varshaan/Inventory-management/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails;
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(apierror.CodeInvalidRequest, "invalid JSON: "+err.Error()))
		return false
	}
	return validateStruct(c, req)
}

// bindQuery is bindAndValidate for query-string filters.
func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(apierror.CodeInvalidRequest, "invalid query: "+err.Error()))
		return false
	}
	return validateStruct(c, req)
}

func validateStruct(c *gin.Context, req interface{}) bool {
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			c.JSON(http.StatusBadRequest, apierror.New(apierror.CodeInvalidRequest, err.Error()))
			return false
		}
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// pathID parses the :id path parameter. Writes a 422 and returns false when it
// is not a UUID.
func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(map[string]string{"id": "must be a UUID"}))
		return uuid.Nil, false
	}
	return id, true
}

// writeError maps service error kinds to status codes. Anything unexpected is
// logged through c.Error and answered with a bare 500.
func writeError(c *gin.Context, err error) {
	var (
		validation *service.ValidationError
		notFound   *service.NotFoundError
		stock      *service.InsufficientStockError
		auth       *service.AuthError
		perm       *service.PermissionError
		store      *service.StoreError
	)
	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(map[string]string{validation.Field: validation.Reason}))
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, apierror.New(apierror.CodeNotFound, notFound.Error()))
	case errors.As(err, &stock):
		c.JSON(http.StatusConflict, apierror.NewInsufficientStock(stock.Available.String(), stock.Requested.String()))
	case errors.As(err, &auth):
		c.JSON(http.StatusUnauthorized, apierror.New(apierror.CodeUnauthorized, auth.Error()))
	case errors.As(err, &perm):
		c.JSON(http.StatusForbidden, apierror.New(apierror.CodeForbidden, perm.Error()))
	case errors.As(err, &store) && store.Retryable:
		_ = c.Error(err)
		resp := apierror.New(apierror.CodeUnavailable, "store temporarily unavailable, retry")
		resp.Retryable = true
		c.JSON(http.StatusServiceUnavailable, resp)
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, apierror.New(apierror.CodeInternal, "internal server error"))
	}
}
