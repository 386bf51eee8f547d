package util

import "errors"

var (
	ErrSessionNotFound   = errors.New("quiz session not found")
	ErrQuestionNotFound  = errors.New("quiz question not found")
	ErrEmptyCatalog      = errors.New("no quiz questions for requested difficulty")
	ErrInvalidDifficulty = errors.New("invalid difficulty")
	ErrAdminDisabled     = errors.New("admin not configured")
	ErrInvalidAdminToken = errors.New("invalid admin token")
	ErrNoLyricsFound     = errors.New("no lyrics found for track")
)
