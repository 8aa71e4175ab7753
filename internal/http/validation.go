package http

import (
	"bytes"
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"

	"devconnector/internal/service"
)

const bodyKey = "request_body"

var (
	jsonCodec        = jsoniter.ConfigCompatibleWithStandardLibrary
	errMalformedBody = errors.New("malformed json body")
)

// fieldError mirrors one entry of an {"errors": [...]} response.
type fieldError struct {
	Msg      string `json:"msg"`
	Param    string `json:"param,omitempty"`
	Location string `json:"location,omitempty"`
}

// validatedRequest is a request DTO with a human message per JSON field.
type validatedRequest interface {
	fieldMessages() map[string]string
}

// requestValidator checks `binding` tags and reports JSON field names. It is
// private to this package so gin's shared binding.Validator is untouched.
var requestValidator = newRequestValidator()

func newRequestValidator() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// bindBody decodes and validates the JSON body into T before the handler runs.
// Handlers read the result with body[T].
func bindBody[T any, PT interface {
	*T
	validatedRequest
}]() gin.HandlerFunc {
	return func(c *gin.Context) {
		req := PT(new(T))
		err := decodeBody(c, req)
		if err == nil {
			err = requestValidator.Struct(req)
		}
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"errors": fieldErrors(err, req.fieldMessages())})
			return
		}
		c.Set(bodyKey, req)
		c.Next()
	}
}

// decodeBody leaves req zero for an empty body so validation reports the
// missing fields rather than a decode error.
func decodeBody(c *gin.Context, req any) error {
	raw, err := c.GetRawData()
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if !jsonCodec.Valid(raw) {
		return errMalformedBody
	}
	return jsonCodec.Unmarshal(raw, req)
}

func body[T any](c *gin.Context) *T {
	return c.MustGet(bodyKey).(*T)
}

func fieldErrors(err error, messages map[string]string) []fieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []fieldError{{Msg: "Invalid request body", Location: "body"}}
	}

	out := make([]fieldError, 0, len(verrs))
	for _, fe := range verrs {
		msg, ok := messages[fe.Field()]
		if !ok {
			msg = "Invalid value"
		}
		out = append(out, fieldError{Msg: msg, Param: fe.Field(), Location: "body"})
	}
	return out
}

func errorList(msg string) gin.H {
	return gin.H{"errors": []fieldError{{Msg: msg}}}
}

// rejectedInput answers 400 when the service refused a field and reports whether it did.
func rejectedInput(c *gin.Context, err error) bool {
	var verr *service.ValidationError
	if !errors.As(err, &verr) {
		return false
	}
	c.JSON(http.StatusBadRequest, gin.H{"errors": []fieldError{{Msg: verr.Msg, Param: verr.Field, Location: "body"}}})
	return true
}
