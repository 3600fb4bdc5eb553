package tournament

import "errors"

// Ошибки контроллера турнира.
var (
	// ErrUnknownCompetitor — токен не входит в состав турнира.
	ErrUnknownCompetitor = errors.New("unknown competitor token")

	// ErrDuplicateCompetitor — участник указан в заезде дважды.
	ErrDuplicateCompetitor = errors.New("competitor listed twice")
)
