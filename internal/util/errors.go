package util

import "errors"

var (
	ErrStudentNotFound = errors.New("student not found in tenant")
	ErrThemeNotFound   = errors.New("theme not found")
)
