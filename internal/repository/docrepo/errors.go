package docrepo

import (
	"fmt"

	"github.com/fsdevblog/groph-eats/internal/domain"
)

// convertErr приводит ошибку к стандартному виду для слоя репозитория: контекст операции и тип бизнес-ошибки
// из domain, по которому выше принимается решение (errors.Is).
func convertErr(errType error, format string, formatArgs ...any) error {
	msg := fmt.Sprintf(format, formatArgs...)
	return fmt.Errorf("[repository/%s] %w", msg, errType)
}

func notFoundErr(format string, formatArgs ...any) error {
	return convertErr(domain.ErrRecordNotFound, format, formatArgs...)
}

func duplicateErr(format string, formatArgs ...any) error {
	return convertErr(domain.ErrDuplicateKey, format, formatArgs...)
}
