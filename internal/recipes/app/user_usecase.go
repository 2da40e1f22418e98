// Package app содержит бизнес-логику сервиса рецептов.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"recetario/internal/recipes/domain/entities"
	"recetario/internal/recipes/ports/api"
	"recetario/internal/recipes/ports/repositories"
	svc "recetario/internal/recipes/ports/services"
	"recetario/pkg/logger"
)

const (
	methodRegister    = "Register"
	methodListUsers   = "ListUsers"
	methodGetUser     = "GetUser"
	methodUpdateUser  = "UpdateUser"
	methodDeleteUser  = "DeleteUser"
	methodUserRecipes = "ListUserRecipes"

	msgStartRegistration = "starting user registration"
	msgInvalidUserInput  = "invalid user input"
	msgEmailExists       = "user with this email already exists"
	msgUserRegistered    = "user registered successfully"
	msgUserUpdated       = "user updated successfully"

	msgErrCheckExistingUser = "failed to check existing user"
	msgErrHashPassword      = "failed to hash password"
	msgErrCreateUser        = "failed to create user"
	msgErrUpdateUser        = "failed to update user"

	errCtxCheckingUser    = "checking existing user"
	errCtxHashingPassword = "hashing password"
	errCtxCreatingUser    = "creating user"
	errCtxFindingUser     = "finding user"
	errCtxListingUsers    = "listing users"
	errCtxUpdatingUser    = "updating user"
	errCtxListingRecipes  = "listing recipes"
)

// UserUseCase реализует api.UserService.
type UserUseCase struct {
	users       repositories.UserRepository
	recipes     repositories.RecipeRepository
	passwordSvc svc.PasswordService
	cascade     *Cascade
}

// NewUserUseCase создает новый экземпляр UserUseCase.
func NewUserUseCase(
	users repositories.UserRepository,
	recipes repositories.RecipeRepository,
	passwordSvc svc.PasswordService,
	cascade *Cascade,
) *UserUseCase {
	return &UserUseCase{
		users:       users,
		recipes:     recipes,
		passwordSvc: passwordSvc,
		cascade:     cascade,
	}
}

var _ api.UserService = (*UserUseCase)(nil)

// Register создает пользователя. Email нормализуется и должен быть уникальным.
func (uc *UserUseCase) Register(ctx context.Context, req api.RegisterUserRequest) (*entities.User, error) {
	email := entities.NormalizeEmail(req.Email)
	nombre := strings.TrimSpace(req.Nombre)

	log := logger.Log(ctx).With(zap.String("method", methodRegister), zap.String("email", email))
	log.Debug(ctx, msgStartRegistration)

	if nombre == "" || email == "" || req.Password == "" {
		log.Debug(ctx, msgInvalidUserInput)
		return nil, entities.ErrUserFieldsRequired
	}
	if err := entities.ValidateEmail(email); err != nil {
		log.Debug(ctx, msgInvalidUserInput, zap.Error(err))
		return nil, err
	}
	if err := entities.ValidatePassword(req.Password); err != nil {
		log.Debug(ctx, msgInvalidUserInput, zap.Error(err))
		return nil, err
	}

	if err := uc.ensureEmailFree(ctx, email, ""); err != nil {
		return nil, err
	}

	hash, err := uc.passwordSvc.Hash(ctx, req.Password)
	if err != nil {
		log.Debug(ctx, msgErrHashPassword, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxHashingPassword, err)
	}

	created, err := uc.users.Create(ctx, &entities.User{
		ID:           entities.NewID(),
		Nombre:       nombre,
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, entities.ErrEmailTaken) {
			log.Debug(ctx, msgEmailExists)
			return nil, err
		}
		log.Error(ctx, msgErrCreateUser, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxCreatingUser, err)
	}

	log.Info(ctx, msgUserRegistered, zap.String("userID", created.ID))
	return created, nil
}

// ensureEmailFree возвращает ErrEmailTaken, если email принадлежит другому пользователю.
func (uc *UserUseCase) ensureEmailFree(ctx context.Context, email, ownerID string) error {
	log := logger.Log(ctx)

	existing, err := uc.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			return nil
		}
		log.Error(ctx, msgErrCheckExistingUser, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxCheckingUser, err)
	}
	if existing.ID != ownerID {
		log.Debug(ctx, msgEmailExists, zap.String("email", email))
		return entities.ErrEmailTaken
	}
	return nil
}

// List возвращает всех пользователей.
func (uc *UserUseCase) List(ctx context.Context) ([]*entities.User, error) {
	logger.Log(ctx).Debug(ctx, methodListUsers)

	users, err := uc.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxListingUsers, err)
	}
	return users, nil
}

// Get возвращает пользователя по идентификатору.
func (uc *UserUseCase) Get(ctx context.Context, id string) (*entities.User, error) {
	logger.Log(ctx).Debug(ctx, methodGetUser, zap.String("userID", id))

	id, err := entities.ParseID(id)
	if err != nil {
		return nil, err
	}

	user, err := uc.users.FindByID(ctx, id)
	if err != nil {
		return nil, wrapLookup(errCtxFindingUser, err, entities.ErrUserNotFound)
	}
	return user, nil
}

// Update применяет переданные поля. Пароль хешируется заново, новый email проверяется на уникальность.
func (uc *UserUseCase) Update(ctx context.Context, id string, update entities.UserUpdate) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("method", methodUpdateUser), zap.String("userID", id))

	id, err := entities.ParseID(id)
	if err != nil {
		return nil, err
	}

	update, err = normalizeUserUpdate(update)
	if err != nil {
		log.Debug(ctx, msgInvalidUserInput, zap.Error(err))
		return nil, err
	}

	user, err := uc.users.FindByID(ctx, id)
	if err != nil {
		return nil, wrapLookup(errCtxFindingUser, err, entities.ErrUserNotFound)
	}
	if update.IsEmpty() {
		return user, nil
	}

	if update.Nombre != nil {
		user.Nombre = *update.Nombre
	}
	if update.Email != nil && *update.Email != user.Email {
		if err := uc.ensureEmailFree(ctx, *update.Email, user.ID); err != nil {
			return nil, err
		}
		user.Email = *update.Email
	}
	if update.Password != nil {
		hash, err := uc.passwordSvc.Hash(ctx, *update.Password)
		if err != nil {
			log.Debug(ctx, msgErrHashPassword, zap.Error(err))
			return nil, fmt.Errorf("%s: %w", errCtxHashingPassword, err)
		}
		user.PasswordHash = hash
	}

	updated, err := uc.users.Update(ctx, user)
	if err != nil {
		if errors.Is(err, entities.ErrEmailTaken) || errors.Is(err, entities.ErrUserNotFound) {
			return nil, err
		}
		log.Error(ctx, msgErrUpdateUser, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxUpdatingUser, err)
	}

	log.Info(ctx, msgUserUpdated)
	return updated, nil
}

func normalizeUserUpdate(update entities.UserUpdate) (entities.UserUpdate, error) {
	if update.Nombre != nil {
		nombre := strings.TrimSpace(*update.Nombre)
		if nombre == "" {
			return update, entities.ErrEmptyField("nombre")
		}
		update.Nombre = &nombre
	}
	if update.Email != nil {
		email := entities.NormalizeEmail(*update.Email)
		if email == "" {
			return update, entities.ErrEmptyField("email")
		}
		if err := entities.ValidateEmail(email); err != nil {
			return update, err
		}
		update.Email = &email
	}
	if update.Password != nil {
		if *update.Password == "" {
			return update, entities.ErrEmptyField("password")
		}
		if err := entities.ValidatePassword(*update.Password); err != nil {
			return update, err
		}
	}
	return update, nil
}

// Delete удаляет пользователя и его рецепты.
func (uc *UserUseCase) Delete(ctx context.Context, id string) (*entities.CascadeResult, error) {
	logger.Log(ctx).Debug(ctx, methodDeleteUser, zap.String("userID", id))

	id, err := entities.ParseID(id)
	if err != nil {
		return nil, err
	}

	return uc.cascade.DeleteUser(ctx, id)
}

// ListRecipes возвращает рецепты пользователя. Для неизвестного пользователя список пуст.
func (uc *UserUseCase) ListRecipes(ctx context.Context, id string) ([]*entities.Recipe, error) {
	logger.Log(ctx).Debug(ctx, methodUserRecipes, zap.String("userID", id))

	id, err := entities.ParseID(id)
	if err != nil {
		return nil, err
	}

	recipes, err := uc.recipes.List(ctx, entities.RecipeFilter{Autor: id})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxListingRecipes, err)
	}
	return recipes, nil
}

// wrapLookup оставляет ошибку "не найдено" без обертки, остальные снабжает контекстом.
func wrapLookup(errCtx string, err, notFound error) error {
	if errors.Is(err, notFound) {
		return notFound
	}
	return fmt.Errorf("%s: %w", errCtx, err)
}
