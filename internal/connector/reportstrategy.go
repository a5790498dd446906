package connector

// ReportStrategyType — стратегия отправки данных на платформу.
type ReportStrategyType string

const (
	// ReportOnReportPeriod — отправка с фиксированным периодом.
	ReportOnReportPeriod ReportStrategyType = "ON_REPORT_PERIOD"
	// ReportOnChange — отправка только при изменении значения.
	ReportOnChange ReportStrategyType = "ON_CHANGE"
)

// DefaultReportPeriodMs — период отправки ключа по умолчанию в миллисекундах.
const DefaultReportPeriodMs = 5000

// ReportStrategyConfig — настройка стратегии отправки.
// Существует только в схемах начиная с V3_5_2.
type ReportStrategyConfig struct {
	Type         ReportStrategyType `json:"type"`
	ReportPeriod *int               `json:"reportPeriod,omitempty"`
}

// OnChange возвращает стратегию "только при изменении".
func OnChange() *ReportStrategyConfig {
	return &ReportStrategyConfig{Type: ReportOnChange}
}

// OnReportPeriod возвращает периодическую стратегию с указанным периодом.
func OnReportPeriod(periodMs int) *ReportStrategyConfig {
	return &ReportStrategyConfig{Type: ReportOnReportPeriod, ReportPeriod: &periodMs}
}

// SendsOnlyOnChange возвращает значение legacy-флага sendDataOnlyOnChange,
// эквивалентное стратегии. nil-стратегия даёт nil.
func (r *ReportStrategyConfig) SendsOnlyOnChange() *bool {
	if r == nil {
		return nil
	}
	v := r.Type != ReportOnReportPeriod
	return &v
}
