package migratehandler

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/samber/lo"

	"github.com/Kargones/connector-migrator/internal/command"
	"github.com/Kargones/connector-migrator/internal/command/handlers/shared"
	"github.com/Kargones/connector-migrator/internal/connector"
	"github.com/Kargones/connector-migrator/internal/connector/recordfile"
	"github.com/Kargones/connector-migrator/internal/constants"
	"github.com/Kargones/connector-migrator/internal/migration"
	"github.com/Kargones/connector-migrator/internal/pkg/apperrors"
	"github.com/Kargones/connector-migrator/internal/pkg/dryrun"
	"github.com/Kargones/connector-migrator/internal/pkg/metrics"
	"github.com/Kargones/connector-migrator/internal/pkg/output"
)

// migrator мигрирует файлы записей в версию target.
// Безопасен для параллельного вызова migrateFile и commit на разных файлах.
type migrator struct {
	env    *command.Env
	target connector.ConfigVersion
	dryRun bool
}

// migrateFile читает запись path, мигрирует её и проверяет результат по схеме.
// Файлы не изменяются. При ошибке report заполнен до места сбоя.
func (m *migrator) migrateFile(ctx context.Context, path string) (*FileReport, connector.Record, error) {
	report := &FileReport{Path: path, To: m.target.String()}

	rec, _, err := recordfile.ReadFile(path)
	if err != nil {
		err = shared.RecordReadError(path, err)
		return markFailed(report, err), connector.Record{}, err
	}
	direction := migration.DirectionOf(rec.ConfigVersion, m.target)
	report.Name = rec.Name
	report.Type = string(rec.Type)
	report.From = rec.ConfigVersion.String()
	report.Direction = string(direction)

	start := time.Now()
	outcome := metrics.OutcomeFailed
	defer func() {
		m.env.Metrics.RecordMigration(string(rec.Type), string(direction), outcome, time.Since(start))
	}()

	out, err := m.env.Dispatcher.Migrate(ctx, rec, m.target)
	if err != nil {
		return markFailed(report, err), connector.Record{}, err
	}

	if direction != migration.DirectionIdentity && m.env.Config.MigrationConfig.ValidateOutput {
		if err := m.env.Validator.ValidateRecord(out); err != nil {
			err = apperrors.NewAppError(apperrors.ErrSchemaValidation,
				fmt.Sprintf("результат миграции %s не соответствует схеме версии %s", path, m.target), err)
			return markFailed(report, err), connector.Record{}, err
		}
	}

	changes, err := dryrun.ConfigChanges(rec.Config, out.Config)
	if err != nil {
		m.env.Logger.Debug("Не удалось вычислить изменения конфигурации", "path", path, "error", err.Error())
	}
	report.Changes = changes

	outcome = lo.Ternary(direction == migration.DirectionIdentity, metrics.OutcomeUnchanged, metrics.OutcomeMigrated)
	report.Outcome = outcome
	m.env.Logger.Debug("Запись обработана", "path", path, "outcome", outcome, "direction", report.Direction)
	return report, out, nil
}

// commit записывает запись в outPath в формате по расширению outPath.
// Перезапись исходного файла без изменений пропускается. Перед перезаписью
// исходного файла создаётся резервная копия, если она включена.
func (m *migrator) commit(report *FileReport, out connector.Record, outPath string) error {
	inPlace := outPath == report.Path
	if m.dryRun || (inPlace && report.Outcome == metrics.OutcomeUnchanged) {
		return nil
	}

	if inPlace && m.env.Config.MigrationConfig.Backup {
		backup, err := recordfile.Backup(report.Path)
		if err != nil {
			return apperrors.NewAppError(apperrors.ErrRecordWrite, "не удалось создать резервную копию", err)
		}
		report.BackupPath = backup
	}

	if err := os.MkdirAll(filepath.Dir(outPath), constants.DirPermDefault); err != nil {
		return apperrors.NewAppError(apperrors.ErrRecordWrite,
			fmt.Sprintf("не удалось создать каталог для %s", outPath), err)
	}
	if err := recordfile.WriteFile(outPath, out, recordfile.DetectFormat(outPath)); err != nil {
		return apperrors.NewAppError(apperrors.ErrRecordWrite,
			fmt.Sprintf("не удалось записать %s", outPath), err)
	}
	report.OutputPath = outPath
	return nil
}

// markFailed помечает отчёт ошибкой err.
func markFailed(report *FileReport, err error) *FileReport {
	report.Outcome = metrics.OutcomeFailed
	report.Error = &output.ErrorInfo{
		Code:    apperrors.CodeOf(err, apperrors.ErrCommandExec),
		Message: apperrors.MessageOf(err),
	}
	return report
}

// executeFile мигрирует один файл.
func (h *MigrateHandler) executeFile(ctx context.Context, m *migrator, rep *shared.Reporter) error {
	cfg := m.env.Config
	report, out, err := m.migrateFile(ctx, cfg.InputPath)
	if err != nil {
		return rep.FailWithData(err, apperrors.ErrCommandExec, report)
	}

	outPath := lo.Ternary(cfg.InPlace, cfg.InputPath, cfg.OutputPath)
	if m.dryRun {
		return rep.Plan(m.filePlan(report, outPath), fileSummary(report))
	}
	if outPath == "" {
		return m.toStdout(rep, report, out)
	}
	if err := m.commit(report, out, outPath); err != nil {
		return rep.FailWithData(err, apperrors.ErrRecordWrite, markFailed(report, err))
	}
	return rep.Success(report, fileSummary(report))
}

// toStdout выводит мигрированную запись. В формате json запись вкладывается
// в data.record результата. В текстовом формате в stdout пишется только
// запись в формате исходного файла, итог уходит в лог.
func (m *migrator) toStdout(rep *shared.Reporter, report *FileReport, out connector.Record) error {
	if m.env.Config.OutputFormat == output.FormatJSON {
		raw, err := json.Marshal(out)
		if err != nil {
			return rep.Fail(apperrors.NewAppError(apperrors.ErrOutputFormat, "ошибка сериализации записи", err),
				apperrors.ErrOutputFormat)
		}
		report.Record = raw
		return rep.Success(report, fileSummary(report))
	}

	if err := recordfile.Write(m.env.Stdout, out, recordfile.DetectFormat(report.Path)); err != nil {
		return rep.Fail(apperrors.NewAppError(apperrors.ErrRecordWrite, "ошибка вывода записи", err),
			apperrors.ErrRecordWrite)
	}
	m.env.Logger.Info("Запись мигрирована",
		"path", report.Path, "from", report.From, "to", report.To, "outcome", report.Outcome)
	return nil
}

// filePlan строит план dry-run для одного файла.
func (m *migrator) filePlan(report *FileReport, outPath string) *output.DryRunPlan {
	mc := m.env.Config.MigrationConfig
	unchanged := report.Outcome == metrics.OutcomeUnchanged
	inPlace := outPath == report.Path

	steps := []output.PlanStep{
		{
			Operation:  "Чтение записи",
			Parameters: map[string]any{"path": report.Path, "format": string(recordfile.DetectFormat(report.Path))},
		},
		{
			Operation:       "Миграция",
			Parameters:      map[string]any{"type": report.Type, "name": report.Name, "from": report.From, "to": report.To},
			ExpectedChanges: report.Changes,
			Skipped:         unchanged,
			SkipReason:      "версия записи совпадает с целевой",
		},
		{
			Operation:  "Проверка по JSON Schema",
			Skipped:    unchanged || !mc.ValidateOutput,
			SkipReason: lo.Ternary(unchanged, "запись не меняется", "проверка отключена"),
		},
		{
			Operation:  "Резервная копия",
			Parameters: map[string]any{"path": report.Path + recordfile.BackupSuffix},
			Skipped:    !inPlace || !mc.Backup || unchanged,
			SkipReason: lo.Ternary(inPlace && !unchanged, "резервное копирование отключено", "исходный файл не перезаписывается"),
		},
		{
			Operation:  "Запись результата",
			Parameters: map[string]any{"output": lo.Ternary(outPath == "", "stdout", outPath)},
			Skipped:    inPlace && unchanged,
			SkipReason: "файл уже в целевой версии",
		},
	}
	return dryrun.BuildPlan(constants.ActMigrate, steps,
		fmt.Sprintf("%s: %s -> %s (%s)", report.Path, report.From, report.To, report.Direction))
}

// fileSummary собирает сводку миграции одного файла.
func fileSummary(report *FileReport) *output.SummaryInfo {
	s := output.NewSummaryInfo()
	s.AddMetric("Тип коннектора", connector.ConnectorType(report.Type).DisplayName(), "")
	s.AddMetric("Версия", report.From+" -> "+report.To, "")
	s.AddMetric("Направление", report.Direction, "")
	if report.Direction == string(migration.DirectionDowngrade) {
		s.AddWarning("понижение версии отбрасывает поля, которых нет в целевой схеме")
	}
	return s
}
