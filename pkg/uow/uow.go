// Package uow реестр репозиториев и единица работы поверх них.
//
// Хранилище документов не умеет транзакций, поэтому Do не откатывает изменения. Do гарантирует только то, что
// функции, выполняемые через него, не пересекаются друг с другом: чтение-проверка-запись над несколькими
// репозиториями выполняется целиком.
package uow

import (
	"context"
	"sync"
)

type RepositoryName string
type Repository any

type UnitOfWork struct {
	// mu сериализует вызовы Do, regMu защищает реестр.
	mu           sync.Mutex
	regMu        sync.RWMutex
	repositories map[RepositoryName]Repository
}

func NewUnitOfWork() *UnitOfWork {
	return &UnitOfWork{
		repositories: make(map[RepositoryName]Repository),
	}
}

// Register регистрирует репозиторий у себя в мапе. Если репозиторий уже зарегистрирован, возвращает
// ошибку ErrRepositoryAlreadyRegistered.
func (u *UnitOfWork) Register(name RepositoryName, repo Repository) error {
	u.regMu.Lock()
	defer u.regMu.Unlock()

	if _, ok := u.repositories[name]; ok {
		return ErrRepositoryAlreadyRegistered
	}
	u.repositories[name] = repo
	return nil
}

// Do выполняет функцию fn эксклюзивно относительно других вызовов Do. Если контекст отменен до получения
// блокировки, fn не вызывается.
func (u *UnitOfWork) Do(ctx context.Context, fn func(context.Context, TX) error) error {
	if err := ctx.Err(); err != nil {
		return err //nolint:wrapcheck
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	return fn(ctx, transaction{u: u})
}

// GetRepository возвращает репозиторий или ошибку ErrRepositoryNotRegistered.
func (u *UnitOfWork) GetRepository(name RepositoryName) (Repository, error) {
	u.regMu.RLock()
	defer u.regMu.RUnlock()

	if repo, ok := u.repositories[name]; ok {
		return repo, nil
	}
	return nil, ErrRepositoryNotRegistered
}

// GetRepositoryAs возвращает репозиторий по имени name и приводит его к типу T. Возвращает ошибки
// ErrRepositoryNotRegistered и ErrInvalidRepositoryType.
func GetRepositoryAs[T any](u UOW, name RepositoryName) (T, error) {
	var res T
	repo, err := u.GetRepository(name)
	if err != nil {
		return res, err //nolint:wrapcheck
	}
	r, ok := repo.(T)

	if !ok {
		return res, ErrInvalidRepositoryType
	}

	return r, nil
}

// transaction представление реестра внутри Do.
type transaction struct {
	u *UnitOfWork
}

// Get возвращает репозиторий или ошибку ErrRepositoryNotRegistered.
func (t transaction) Get(name RepositoryName) (Repository, error) {
	return t.u.GetRepository(name)
}

// GetAs возвращает зарегистрированный репозиторий с именем name приведенный к типу T
// или ошибки ErrRepositoryNotRegistered в случае не найденного репозитория с указанным name, ErrInvalidRepositoryType.
func GetAs[T any](t TX, name RepositoryName) (T, error) {
	repo, err := t.Get(name)
	var res T
	if err != nil {
		return res, err //nolint:wrapcheck
	}
	res, ok := repo.(T)
	if !ok {
		return res, ErrInvalidRepositoryType
	}
	return res, nil
}
