package response

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	errs "github.com/techagentng/citypulse/errors"
)

// JSON writes the standard response envelope
func JSON(c *gin.Context, message string, status int, data interface{}, err error) {
	errMessage := ""
	if err != nil {
		errMessage = errorMessage(err)
	}
	responseData := gin.H{
		"message":   message,
		"data":      data,
		"errors":    errMessage,
		"status":    http.StatusText(status),
		"timestamp": time.Now().Format(time.RFC850),
	}

	c.JSON(status, responseData)
}

// HandleErrors answers with the status carried by err
func HandleErrors(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		JSON(c, "", http.StatusBadRequest, nil, err)
		return
	}

	status := errs.Status(err)
	if status >= http.StatusInternalServerError {
		log.Printf("request %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	JSON(c, "", status, nil, err)
}

// errorMessage keeps causes of API errors out of the response body
func errorMessage(err error) string {
	var apiErr *errs.Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
