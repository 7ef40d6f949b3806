package models

import "errors"

var (
	ErrNoRecord           = errors.New("models: no matching record found")
	ErrInvalidCredentials = errors.New("models: invalid credentials")
	ErrInvalidDate        = errors.New("models: invalid due date")
	ErrInvalidFilter      = errors.New("models: invalid filter value")
	ErrPaymentNotFound    = errors.New("payment not found")
	ErrClientNotFound     = errors.New("client not found")
	ErrCompanyNotFound    = errors.New("company not found")
	ErrSettingsNotFound   = errors.New("notification settings not found")
	ErrNotificationFinal  = errors.New("notification already in terminal state")
	ErrPaymentFinal       = errors.New("payment already paid or cancelled")
	ErrDuplicateEmail     = errors.New("models: duplicate email")
)
