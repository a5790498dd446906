// Package mapping содержит чистые функции перестройки configurationJson
// между legacy и modern формами для каждого поддерживаемого протокола.
//
// Функции не изменяют вход и не разделяют с ним срезы: результат
// всегда собирается заново. Направление у каждой функции одно,
// выбор направления делает процессор версии.
package mapping

import (
	"strings"

	"github.com/samber/lo"

	"github.com/Kargones/connector-migrator/internal/connector"
)

// DefaultDeviceProfile — профиль устройства, подставляемый при отсутствии выражения типа.
const DefaultDeviceProfile = "default"

// Options — параметры перестройки, задаваемые вызывающим кодом.
type Options struct {
	// DefaultKeyReportPeriod — период стратегии ON_REPORT_PERIOD в миллисекундах,
	// назначаемый ключам без стратегии при повышении версии.
	DefaultKeyReportPeriod int
}

// DefaultOptions возвращает параметры по умолчанию.
func DefaultOptions() Options {
	return Options{DefaultKeyReportPeriod: connector.DefaultReportPeriodMs}
}

// normalized подставляет значения по умолчанию вместо незаданных.
func (o Options) normalized() Options {
	if o.DefaultKeyReportPeriod <= 0 {
		o.DefaultKeyReportPeriod = connector.DefaultReportPeriodMs
	}
	return o
}

// ClassifyExpression относит строку к выражению, если она содержит
// подстановку "${" или срез байтов "[", иначе к константе.
func ClassifyExpression(text string) connector.ExpressionType {
	if strings.Contains(text, "${") || strings.Contains(text, "[") {
		return connector.ExpressionExpression
	}
	return connector.ExpressionConstant
}

// classifyOptional классифицирует выражение только если оно задано.
func classifyOptional(text string) connector.ExpressionType {
	if text == "" {
		return ""
	}
	return ClassifyExpression(text)
}

// messageSource определяет источник выражения, взятого из JSON-поля
// legacy-записи: подстановка означает тело сообщения, иначе константа.
func messageSource(text string) connector.SourceType {
	return lo.Ternary(strings.Contains(text, "${"), connector.SourceMessage, connector.SourceConstant)
}

// opcuaValueSource определяет тип адресации значения OPC-UA:
// подстановка — identifier, путь к узлу — path, иначе constant.
func opcuaValueSource(text string) connector.OPCUASourceType {
	switch {
	case strings.Contains(text, "${"):
		return connector.OPCUASourceIdentifier
	case strings.ContainsAny(text, `/\`):
		return connector.OPCUASourcePath
	default:
		return connector.OPCUASourceConstant
	}
}

// opcuaNodeSource определяет тип адресации узла устройства.
func opcuaNodeSource(pattern string) connector.OPCUASourceType {
	return lo.Ternary(strings.Contains(pattern, "${"), connector.OPCUASourceIdentifier, connector.OPCUASourcePath)
}

// mapSlice применяет f к каждому элементу. Пустой вход даёт nil,
// чтобы пустые контейнеры не появлялись в результате.
func mapSlice[T, R any](in []T, f func(T) R) []R {
	if len(in) == 0 {
		return nil
	}
	return lo.Map(in, func(item T, _ int) R { return f(item) })
}

// clonePtr возвращает указатель на копию значения.
func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	return lo.ToPtr(*p)
}

func identity[T any](v T) T { return v }
