// Package psswd хэширует пароли пользователей.
package psswd

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes bcrypt учитывает только первые 72 байта пароля.
const MaxPasswordBytes = 72

var ErrPasswordTooLong = errors.New("password is too long")

// Bcrypt хэшер паролей. Нулевой Cost означает bcrypt.DefaultCost.
type Bcrypt struct {
	Cost int
}

func (b Bcrypt) HashPassword(password string) (string, error) {
	if len(password) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %s", err.Error())
	}
	return string(hash), nil
}

// ComparePassword false и для неверного пароля, и для битого хэша.
func (b Bcrypt) ComparePassword(password, hashedPassword string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}
