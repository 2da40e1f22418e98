package memory

import (
	"context"
	"time"

	"recetario/internal/recipes/domain/entities"
	"recetario/internal/recipes/ports/repositories"
)

// UserRepository реализует repositories.UserRepository в памяти.
type UserRepository struct {
	store *Store
}

// NewUserRepository создает новый экземпляр репозитория пользователей.
func NewUserRepository(store *Store) repositories.UserRepository {
	return &UserRepository{store: store}
}

func (r *UserRepository) emailTaken(email, exceptID string) bool {
	for id, u := range r.store.users {
		if u.Email == email && id != exceptID {
			return true
		}
	}
	return false
}

// Create сохраняет пользователя.
func (r *UserRepository) Create(ctx context.Context, user *entities.User) (*entities.User, error) {
	defer r.store.lock(ctx)()

	if r.emailTaken(user.Email, "") {
		return nil, entities.ErrEmailTaken
	}

	stored := cloneUser(user)
	if stored.ID == "" {
		stored.ID = entities.NewID()
	}
	now := time.Now().UTC()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = stored.CreatedAt

	r.store.users[stored.ID] = stored
	r.store.userOrder = append(r.store.userOrder, stored.ID)

	return cloneUser(stored), nil
}

// FindByID находит пользователя по ID.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*entities.User, error) {
	defer r.store.lock(ctx)()

	u, ok := r.store.users[id]
	if !ok {
		return nil, entities.ErrUserNotFound
	}
	return cloneUser(u), nil
}

// FindByEmail находит пользователя по email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	defer r.store.lock(ctx)()

	for _, id := range r.store.userOrder {
		if u := r.store.users[id]; u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, entities.ErrUserNotFound
}

// List возвращает всех пользователей в порядке создания.
func (r *UserRepository) List(ctx context.Context) ([]*entities.User, error) {
	defer r.store.lock(ctx)()

	users := make([]*entities.User, 0, len(r.store.userOrder))
	for _, id := range r.store.userOrder {
		users = append(users, cloneUser(r.store.users[id]))
	}
	return users, nil
}

// Update сохраняет изменения пользователя.
func (r *UserRepository) Update(ctx context.Context, user *entities.User) (*entities.User, error) {
	defer r.store.lock(ctx)()

	current, ok := r.store.users[user.ID]
	if !ok {
		return nil, entities.ErrUserNotFound
	}
	if r.emailTaken(user.Email, user.ID) {
		return nil, entities.ErrEmailTaken
	}

	stored := cloneUser(user)
	stored.CreatedAt = current.CreatedAt
	stored.UpdatedAt = time.Now().UTC()
	r.store.users[user.ID] = stored

	return cloneUser(stored), nil
}

// Delete удаляет пользователя.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	defer r.store.lock(ctx)()

	if _, ok := r.store.users[id]; !ok {
		return entities.ErrUserNotFound
	}
	delete(r.store.users, id)
	r.store.userOrder = removeID(r.store.userOrder, id)
	return nil
}

// Count возвращает количество пользователей.
func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	defer r.store.lock(ctx)()
	return int64(len(r.store.users)), nil
}

// DeleteAll удаляет всех пользователей.
func (r *UserRepository) DeleteAll(ctx context.Context) error {
	defer r.store.lock(ctx)()

	r.store.users = make(map[string]*entities.User)
	r.store.userOrder = nil
	return nil
}
