package services

import (
	"context"

	"github.com/Dosada05/poker-dream-api/models"
	"github.com/Dosada05/poker-dream-api/repositories"
	"golang.org/x/sync/errgroup"
)

const defaultUserLimit = 20

type UserUpdateInput struct {
	Name     *string          `json:"name"`
	Role     *models.UserRole `json:"role"`
	IsActive *bool            `json:"isActive"`
}

// AdminUserService is the SUPER_ADMIN view over accounts.
type AdminUserService interface {
	ListUsers(ctx context.Context, filter models.UserFilter) (models.Page[models.User], error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	UpdateUser(ctx context.Context, actorID, id string, input UserUpdateInput) (*models.User, error)
	DeleteUser(ctx context.Context, actorID, id string) error
}

type adminUserService struct {
	userRepo repositories.UserRepository
}

func NewAdminUserService(userRepo repositories.UserRepository) AdminUserService {
	return &adminUserService{userRepo: userRepo}
}

func (s *adminUserService) ListUsers(ctx context.Context, filter models.UserFilter) (models.Page[models.User], error) {
	page, limit, err := normalizePage(filter.Page, filter.Limit, defaultUserLimit)
	if err != nil {
		return models.Page[models.User]{}, err
	}
	if filter.Role != nil && !filter.Role.Valid() {
		return models.Page[models.User]{}, &ValidationError{Fields: map[string]string{"role": "unknown role"}}
	}
	filter.Page, filter.Limit = page, limit

	var (
		users []models.User
		total int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		users, err = s.userRepo.List(gctx, filter)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.userRepo.Count(gctx, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return models.Page[models.User]{}, handleRepositoryError(err, "list users")
	}
	return models.NewPage(users, page, limit, total), nil
}

func (s *adminUserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	if !isUUID(id) {
		return nil, ErrUserNotFound
	}
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, handleRepositoryError(err, "get user")
	}
	return user, nil
}

// UpdateUser changes name, role or active flag. An admin cannot demote or
// disable their own account.
func (s *adminUserService) UpdateUser(ctx context.Context, actorID, id string, in UserUpdateInput) (*models.User, error) {
	v := newValidator()
	if in.Name != nil {
		v.minLen(in.Name, false, "name", 2)
	}
	if in.Role != nil {
		v.check(in.Role.Valid(), "role", "must be one of SUPER_ADMIN, ADMIN, EDITOR, USER")
	}
	if err := v.err(); err != nil {
		return nil, err
	}
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if actorID == user.ID {
		if (in.Role != nil && *in.Role != user.Role) || (in.IsActive != nil && !*in.IsActive) {
			return nil, ErrSelfModification
		}
	}

	if in.Name != nil {
		user.Name = emptyToNil(in.Name)
	}
	if in.Role != nil {
		user.Role = *in.Role
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, handleRepositoryError(err, "update user")
	}
	return user, nil
}

func (s *adminUserService) DeleteUser(ctx context.Context, actorID, id string) error {
	if !isUUID(id) {
		return ErrUserNotFound
	}
	if actorID == id {
		return ErrSelfModification
	}
	return handleRepositoryError(s.userRepo.Delete(ctx, id), "delete user")
}
