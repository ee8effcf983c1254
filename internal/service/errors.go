package service

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
	ErrSessionExists      = errors.New("session already exists")
	ErrInvalidAccessToken = errors.New("invalid access token")
)
