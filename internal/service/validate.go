package service

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var fieldValidator = validator.New()

func validEmail(value string) bool {
	return fieldValidator.Var(value, "required,email") == nil
}

func validHTTPURL(value string) bool {
	return fieldValidator.Var(value, "required,http_url") == nil
}

func validHexColor(value string) bool {
	return fieldValidator.Var(strings.TrimSpace(value), "required,hexcolor") == nil
}
