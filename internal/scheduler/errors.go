package scheduler

import "errors"

// Ошибки очереди.
var (
	// ErrNotEnoughCompetitors — заезд требует больше участников,
	// чем есть в турнире.
	ErrNotEnoughCompetitors = errors.New("not enough competitors")
)
