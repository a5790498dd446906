package shared

import (
	"errors"
	"fmt"

	"github.com/Kargones/connector-migrator/internal/connector"
	"github.com/Kargones/connector-migrator/internal/pkg/apperrors"
)

// RecordReadError оборачивает ошибку чтения записи path.
// configurationJson, не разобранный в модель своей формы, даёт
// MIGRATION.MALFORMED_SOURCE_CONFIG, остальные сбои — RECORD.READ_FAILED.
func RecordReadError(path string, err error) error {
	if errors.Is(err, connector.ErrMalformedConfig) {
		return apperrors.NewAppError(apperrors.ErrMalformedSourceConfig,
			fmt.Sprintf("configurationJson записи %s не соответствует её версии", path), err)
	}
	return apperrors.NewAppError(apperrors.ErrRecordRead,
		fmt.Sprintf("не удалось прочитать запись %s", path), err)
}
