package api

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/fsdevblog/groph-eats/internal/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// validateMaxBytes в отличии от тэга max который проверяет длину рун, - проверят длину байт в поле.
func validateMaxBytes(fl validator.FieldLevel) bool {
	param := fl.Param() // получаем значение из тега
	maxBytes, err := strconv.Atoi(param)
	if err != nil {
		return false
	}

	// нужно убедится что значение поля - строка.
	str, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}

	return len([]byte(str)) <= maxBytes
}

func validatePaymentMethod(fl validator.FieldLevel) bool {
	switch domain.PaymentMethodType(fl.Field().String()) {
	case domain.PaymentMethodCard, domain.PaymentMethodCash, domain.PaymentMethodApplePay, domain.PaymentMethodGooglePay:
		return true
	default:
		return false
	}
}

func validatePlatform(fl validator.FieldLevel) bool {
	switch domain.PlatformType(fl.Field().String()) {
	case domain.PlatformIOS, domain.PlatformAndroid, domain.PlatformWeb:
		return true
	default:
		return false
	}
}

func validateOrderStatus(fl validator.FieldLevel) bool {
	return domain.OrderStatusType(fl.Field().String()).IsValid()
}

// jsonFieldName имя поля в ошибках валидации берется из json тега, чтобы совпадать с тем, что прислал клиент.
func jsonFieldName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name, _, _ := strings.Cut(fld.Tag.Get(tag), ",")
		if name != "" && name != "-" {
			return name
		}
	}
	return fld.Name
}

func registerValidators() error {
	v, _ := binding.Validator.Engine().(*validator.Validate)
	v.RegisterTagNameFunc(jsonFieldName)

	validators := map[string]validator.Func{
		"max_bytes":      validateMaxBytes,
		"payment_method": validatePaymentMethod,
		"platform":       validatePlatform,
		"order_status":   validateOrderStatus,
	}
	for tag, fn := range validators {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("validator registration: %s", err.Error())
		}
	}
	return nil
}

// validationMessage собирает ошибки валидации в одну строку для ответа клиенту.
func validationMessage(valErrs validator.ValidationErrors) string {
	parts := make([]string, len(valErrs))
	for i, fe := range valErrs {
		if fe.Param() != "" {
			parts[i] = fmt.Sprintf("%s: failed on %s=%s", fe.Field(), fe.Tag(), fe.Param())
			continue
		}
		parts[i] = fmt.Sprintf("%s: failed on %s", fe.Field(), fe.Tag())
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
