package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Общие категории ошибок. Конкретные ошибки ниже оборачивают одну из них,
// поэтому обработчик HTTP проверяет только категорию.
var (
	ErrNotFound         = errors.New("requested resource not found")
	ErrValidationFailed = errors.New("validation failed")
	ErrDuplicate        = errors.New("resource already exists")
	ErrBadRequest       = errors.New("bad request")
	ErrUnauthorized     = errors.New("authentication failed")
	ErrForbidden        = errors.New("operation not allowed for the current user")
)

// Ресурс не найден
var (
	ErrTournamentNotFound   = kindError(ErrNotFound, "tournament not found")
	ErrPlayerNotFound       = kindError(ErrNotFound, "player not found")
	ErrStandingNotFound     = kindError(ErrNotFound, "standing not found")
	ErrNewsNotFound         = kindError(ErrNotFound, "news article not found")
	ErrVideoNotFound        = kindError(ErrNotFound, "video highlight not found")
	ErrSponsorNotFound      = kindError(ErrNotFound, "sponsor not found")
	ErrGalleryNotFound      = kindError(ErrNotFound, "gallery not found")
	ErrPhotoNotFound        = kindError(ErrNotFound, "gallery photo not found")
	ErrContactNotFound      = kindError(ErrNotFound, "contact submission not found")
	ErrSubscriptionNotFound = kindError(ErrNotFound, "email not found in subscription list")
	ErrUserNotFound         = kindError(ErrNotFound, "user not found")
	ErrFileNotFound         = kindError(ErrNotFound, "file not found")
)

// Конфликты (отдаются как 400)
var (
	ErrStandingExists    = kindError(ErrDuplicate, "standing for this player already exists in the tournament")
	ErrAlreadySubscribed = kindError(ErrDuplicate, "email is already subscribed")
	ErrEmailTaken        = kindError(ErrDuplicate, "email is already registered")
	ErrLevelDuplicated   = kindError(ErrDuplicate, "structure level is listed more than once")
)

// Нарушения бизнес-правил
var (
	ErrPlayersNotFound     = kindError(ErrBadRequest, "one or more players not found")
	ErrAlreadyUnsubscribed = kindError(ErrBadRequest, "email is already unsubscribed")
	ErrPhotoNotInGallery   = kindError(ErrBadRequest, "one or more photos do not belong to the gallery")
	ErrInvalidFileType     = kindError(ErrBadRequest, "only image files are allowed (jpg, jpeg, png, gif, webp)")
	ErrFileTooLarge        = kindError(ErrBadRequest, "file must not be larger than 10MB")
	ErrInvalidFilename     = kindError(ErrBadRequest, "invalid filename")
)

// Аутентификация и доступ
var (
	ErrInvalidCredentials = kindError(ErrUnauthorized, "invalid email or password")
	ErrAccountDisabled    = kindError(ErrUnauthorized, "account is disabled")
	ErrInvalidToken       = kindError(ErrUnauthorized, "invalid or expired token")
	ErrSelfModification   = kindError(ErrForbidden, "you cannot delete or demote your own account")
)

type categorizedError struct {
	kind error
	msg  string
}

func kindError(kind error, msg string) error {
	return &categorizedError{kind: kind, msg: msg}
}

func (e *categorizedError) Error() string { return e.msg }
func (e *categorizedError) Unwrap() error { return e.kind }

// ValidationError lists every violated field of an input.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s: %s", k, e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidationFailed }
