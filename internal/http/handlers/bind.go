package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const msgInvalidBody = "Invalid request body"

type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Param   string `json:"param,omitempty"`
	Message string `json:"message,omitempty"`
}

// BindJSON binds and validates the body. Missing required fields and an empty body
// are reported with missingMsg; anything else is an invalid body.
func BindJSON(ctx *gin.Context, out interface{}, missingMsg string) bool {
	err := ctx.ShouldBindJSON(out)

	if err != nil {
		msg := msgInvalidBody

		var validatorError validator.ValidationErrors
		if errors.As(err, &validatorError) || errors.Is(err, io.EOF) {
			msg = missingMsg
		}

		RespondBadRequest(ctx, msg, bindErrorDetails(err, reflect.TypeOf(out)))

		return false
	}

	return true
}

// bindErrorDetails describes a bind failure using the body's JSON key names.
func bindErrorDetails(err error, target reflect.Type) interface{} {
	for target != nil && target.Kind() == reflect.Pointer {
		target = target.Elem()
	}

	var validatorError validator.ValidationErrors

	if errors.As(err, &validatorError) {
		fields := make([]FieldError, 0, len(validatorError))

		for _, fe := range validatorError {
			fields = append(fields, FieldError{
				Field:   jsonKey(target, fe.StructField()),
				Rule:    fe.Tag(),
				Param:   fe.Param(),
				Message: ruleMessage(fe.Tag(), fe.Param()),
			})
		}
		return gin.H{"fields": fields}
	}

	var syntaxError *json.SyntaxError
	if errors.As(err, &syntaxError) {
		return gin.H{"json": "invalid_json_syntax"}
	}

	var typeError *json.UnmarshalTypeError
	if errors.As(err, &typeError) {
		field := jsonKey(target, strings.TrimSpace(typeError.Field))

		return gin.H{
			"json":  "invalid_json_type",
			"field": field,
			"fields": []FieldError{{
				Field:   field,
				Rule:    "type",
				Message: fmt.Sprintf("must be of type %s", typeError.Type.String()),
			}},
		}
	}

	if errors.Is(err, io.EOF) {
		return gin.H{"json": "empty_body"}
	}

	var maxBytesError *http.MaxBytesError
	if errors.As(err, &maxBytesError) {
		return gin.H{"json": "body_too_large", "limit": maxBytesError.Limit}
	}

	return gin.H{"reason": err.Error()}
}

// jsonKey maps a Go field name (or an already-JSON key) on a flat request struct
// to its json tag name.
func jsonKey(target reflect.Type, name string) string {
	if target == nil || target.Kind() != reflect.Struct || name == "" {
		return name
	}

	for i := 0; i < target.NumField(); i++ {
		sf := target.Field(i)

		tag, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
		if tag == "" || tag == "-" {
			tag = sf.Name
		}

		if sf.Name == name || tag == name {
			return tag
		}
	}

	return name
}

func ruleMessage(rule, param string) string {
	switch rule {
	case "required":
		return "is required"
	default:
		if param != "" {
			return fmt.Sprintf("failed %s validation (%s)", rule, param)
		}
		return "failed " + rule + " validation"
	}
}
