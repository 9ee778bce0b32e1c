package docrepo

import (
	"context"
	"strings"
	"sync"

	"github.com/fsdevblog/groph-eats/internal/domain"
	"github.com/fsdevblog/groph-eats/internal/repository/repoargs"
	"github.com/fsdevblog/groph-eats/internal/storage/jsonstore"
)

type UserRepository struct {
	mu    sync.RWMutex
	store *jsonstore.Store
	users []domain.User
}

func NewUserRepository(ctx context.Context, store *jsonstore.Store) *UserRepository {
	return &UserRepository{
		store: store,
		users: jsonstore.Load(ctx, store, repoargs.UsersResource, func() []domain.User { return []domain.User{} }),
	}
}

// CreateUser создает пользователя. Email сравнивается без учета регистра, дубликат - domain.ErrDuplicateKey.
func (r *UserRepository) CreateUser(ctx context.Context, args repoargs.CreateUser) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexByEmail(args.Email) >= 0 {
		return nil, duplicateErr("creating user with email `%s`", args.Email)
	}

	createdAt := now()
	user := domain.User{
		ID:        newID(),
		Email:     args.Email,
		Password:  args.Password,
		Name:      args.Name,
		Phone:     args.Phone,
		Addresses: []domain.Address{},
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	r.users = append(r.users, user)
	persist(ctx, r.store, repoargs.UsersResource, r.users)

	return cloneUser(user), nil
}

func (r *UserRepository) FindUserByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexByEmail(email)
	if i < 0 {
		return nil, notFoundErr("finding user by email `%s`", email)
	}
	return cloneUser(r.users[i]), nil
}

func (r *UserRepository) FindUserByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexByID(id)
	if i < 0 {
		return nil, notFoundErr("finding user by id `%s`", id)
	}
	return cloneUser(r.users[i]), nil
}

func (r *UserRepository) UpdateProfile(
	ctx context.Context,
	id string,
	args repoargs.UpdateProfile,
) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexByID(id)
	if i < 0 {
		return nil, notFoundErr("updating profile of user `%s`", id)
	}

	user := &r.users[i]
	if args.Name != nil {
		user.Name = *args.Name
	}
	if args.Phone != nil {
		user.Phone = *args.Phone
	}
	if args.Avatar != nil {
		user.Avatar = *args.Avatar
	}
	user.UpdatedAt = now()
	persist(ctx, r.store, repoargs.UsersResource, r.users)

	return cloneUser(*user), nil
}

// SaveAddresses заменяет список адресов пользователя целиком. Соблюдение единственного адреса по умолчанию -
// ответственность вызывающего.
func (r *UserRepository) SaveAddresses(
	ctx context.Context,
	userID string,
	addresses []domain.Address,
) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexByID(userID)
	if i < 0 {
		return nil, notFoundErr("saving addresses of user `%s`", userID)
	}

	r.users[i].Addresses = append([]domain.Address{}, addresses...)
	r.users[i].UpdatedAt = now()
	persist(ctx, r.store, repoargs.UsersResource, r.users)

	return cloneUser(r.users[i]), nil
}

func (r *UserRepository) indexByEmail(email string) int {
	for i := range r.users {
		if strings.EqualFold(r.users[i].Email, email) {
			return i
		}
	}
	return -1
}

func (r *UserRepository) indexByID(id string) int {
	for i := range r.users {
		if r.users[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneUser(user domain.User) *domain.User {
	user.Addresses = append([]domain.Address{}, user.Addresses...)
	return &user
}
