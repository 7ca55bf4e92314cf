package errorvalues

import "errors"

var (
	ErrUserExists       = errors.New("such user already exists")
	ErrUserNotFound     = errors.New("user doesn't exists")
	ErrWrongCredentials = errors.New("wrong name or password")
	ErrInvalidToken     = errors.New("invalid token")
	ErrStreakNotFound   = errors.New("no streak record for user and category")
	ErrInvalidCategory  = errors.New("invalid category name")
)
