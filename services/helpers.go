package services

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/Dosada05/poker-dream-api/repositories"
)

// repositoryErrors translates repository sentinels into the errors handlers understand.
var repositoryErrors = map[error]error{
	repositories.ErrTournamentNotFound:      ErrTournamentNotFound,
	repositories.ErrTournamentLevelTaken:    ErrLevelDuplicated,
	repositories.ErrPlayerNotFound:          ErrPlayerNotFound,
	repositories.ErrStandingNotFound:        ErrStandingNotFound,
	repositories.ErrStandingExists:          ErrStandingExists,
	repositories.ErrStandingReference:       ErrPlayersNotFound,
	repositories.ErrNewsNotFound:            ErrNewsNotFound,
	repositories.ErrVideoNotFound:           ErrVideoNotFound,
	repositories.ErrVideoTournamentNotFound: ErrTournamentNotFound,
	repositories.ErrSponsorNotFound:         ErrSponsorNotFound,
	repositories.ErrGalleryNotFound:         ErrGalleryNotFound,
	repositories.ErrPhotoNotFound:           ErrPhotoNotFound,
	repositories.ErrPhotoNotInGallery:       ErrPhotoNotInGallery,
	repositories.ErrContactNotFound:         ErrContactNotFound,
	repositories.ErrSubscriptionNotFound:    ErrSubscriptionNotFound,
	repositories.ErrSubscriptionExists:      ErrAlreadySubscribed,
	repositories.ErrUserNotFound:            ErrUserNotFound,
	repositories.ErrUserEmailConflict:       ErrEmailTaken,
}

// handleRepositoryError maps known repository errors and wraps the rest with op.
func handleRepositoryError(err error, op string) error {
	if err == nil {
		return nil
	}
	for repoErr, svcErr := range repositoryErrors {
		if errors.Is(err, repoErr) {
			return svcErr
		}
	}
	var ve *ValidationError
	if errors.As(err, &ve) || errors.Is(err, ErrNotFound) || errors.Is(err, ErrBadRequest) || errors.Is(err, ErrDuplicate) {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// emptyToNil treats blank optional strings as absent.
func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
