package migration

import (
	"errors"
	"fmt"

	"github.com/Kargones/connector-migrator/internal/connector"
	"github.com/Kargones/connector-migrator/internal/pkg/apperrors"
)

// Sentinel-ошибки миграции для проверки через errors.Is().
// Наружу они выходят как Cause у apperrors.AppError с соответствующим кодом.
var (
	// ErrUnsupportedConnectorType — для типа коннектора не зарегистрирован процессор версий.
	ErrUnsupportedConnectorType = errors.New("migration: unsupported connector type")

	// ErrMalformedSourceConfig — configurationJson отсутствует или не соответствует версии записи.
	ErrMalformedSourceConfig = errors.New("migration: malformed source config")

	// ErrInvalidTargetVersion — неизвестная целевая версия или неверное направление миграции.
	ErrInvalidTargetVersion = errors.New("migration: invalid target version")
)

func unsupportedTypeError(t connector.ConnectorType) error {
	return apperrors.NewAppError(apperrors.ErrUnsupportedConnectorType,
		fmt.Sprintf("для типа коннектора %q не зарегистрирован процессор версий", t),
		ErrUnsupportedConnectorType)
}

func malformedConfigError(format string, args ...any) error {
	return apperrors.NewAppError(apperrors.ErrMalformedSourceConfig,
		fmt.Sprintf(format, args...),
		ErrMalformedSourceConfig)
}

func invalidTargetError(format string, args ...any) error {
	return apperrors.NewAppError(apperrors.ErrInvalidTargetVersion,
		fmt.Sprintf(format, args...),
		ErrInvalidTargetVersion)
}

// ParseTargetVersion разбирает строку целевой версии.
// Неизвестная строка даёт ошибку с кодом MIGRATION.INVALID_TARGET_VERSION.
func ParseTargetVersion(s string) (connector.ConfigVersion, error) {
	v, err := connector.ParseConfigVersion(s)
	if err != nil {
		return connector.Legacy, apperrors.NewAppError(apperrors.ErrInvalidTargetVersion,
			fmt.Sprintf("неизвестная целевая версия %q", s),
			fmt.Errorf("%w: %w", ErrInvalidTargetVersion, err))
	}
	return v, nil
}
