package util

import "errors"

var (
	ErrSkillNotFound           = errors.New("skill not found")
	ErrQuestionPoolEmpty       = errors.New("no questions available for this skill and level")
	ErrAttemptNotFound         = errors.New("attempt not found")
	ErrAttemptExpired          = errors.New("attempt has expired")
	ErrAttemptAlreadySubmitted = errors.New("attempt already submitted")
	ErrAttemptNotSubmitted     = errors.New("attempt not yet submitted")
	ErrNotRegistered           = errors.New("user is not registered for this skill")
	ErrInvalidLevel            = errors.New("invalid skill level")
	ErrUpstreamGeneration      = errors.New("question generation provider failed")
)
