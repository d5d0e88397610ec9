package domain

import "errors"

// Бизнес-ошибки (маппятся на HTTP коды в transport/web/v1)
var (
	ErrBadParams        = errors.New("bad_params")         // 400
	ErrNotFound         = errors.New("not_found")          // наружу отдаём 403, чтобы не раскрывать существование
	ErrForbidden        = errors.New("forbidden")          // 403
	ErrConflict         = errors.New("conflict")           // нарушение уникальности (email, членство, private-группа); наружу 500
	ErrIntegrity        = errors.New("integrity")          // инвариант графа нарушен при чтении; наружу 500
	ErrMethodNotAllowed = errors.New("method_not_allowed") // 405
	ErrUnexpected       = errors.New("unexpected")         // 500
)

// Коды ошибок в конверте ответа
const (
	ErrCodeBadParams        = 1000
	ErrCodeForbidden        = 1003
	ErrCodeMethodNotAllowed = 1005
	ErrCodeUnexpected       = 1500
)
