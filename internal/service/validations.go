package service

import (
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Package for custom validations
var (
	validate *validator.Validate
	once     sync.Once
)

func InitValidator() {
	once.Do(func() {
		validate = validator.New()
		// Passwords literally containing "password" are rejected
		validate.RegisterValidation("no_password_word", func(fl validator.FieldLevel) bool {
			return !strings.Contains(strings.ToLower(fl.Field().String()), "password")
		})
	})
}
