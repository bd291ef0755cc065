package domain

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidState   = errors.New("invalid state")
	ErrAnalysis       = errors.New("analysis failed")
	ErrGeneration     = errors.New("generation failed")
	ErrParse          = errors.New("parse failed")
	ErrNoSourceImage  = errors.New("no source image")
	ErrUnknownStyle   = errors.New("unknown style")
	ErrTooManySources = errors.New("too many source images")
)
