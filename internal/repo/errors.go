package repo

import "errors"

// Ошибки файла рейтингов.
var (
	// ErrMalformedRow — строка файла рейтингов не разбирается.
	ErrMalformedRow = errors.New("malformed ratings row")

	// ErrDuplicateToken — токен встречается в файле дважды.
	ErrDuplicateToken = errors.New("duplicate token in ratings file")

	// ErrUnknownToken — токен из файла отсутствует в составе турнира.
	ErrUnknownToken = errors.New("unknown token in ratings file")
)
