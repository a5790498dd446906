package migratehandler

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/Kargones/connector-migrator/internal/command/handlers/shared"
	"github.com/Kargones/connector-migrator/internal/constants"
	"github.com/Kargones/connector-migrator/internal/pkg/apperrors"
	"github.com/Kargones/connector-migrator/internal/pkg/dryrun"
	"github.com/Kargones/connector-migrator/internal/pkg/metrics"
	"github.com/Kargones/connector-migrator/internal/pkg/output"
	"github.com/Kargones/connector-migrator/internal/pkg/progress"
)

// recordExts — расширения файлов записей.
var recordExts = []string{".json", ".yaml", ".yml"}

// scanRecords возвращает файлы записей каталога root в лексикографическом
// порядке. Каталог exclude (каталог назначения внутри root) пропускается.
func scanRecords(root, exclude string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if exclude != "" && p != root && filepath.Clean(p) == filepath.Clean(exclude) {
				return filepath.SkipDir
			}
			return nil
		}
		if slices.Contains(recordExts, strings.ToLower(filepath.Ext(p))) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования каталога %s: %w", root, err)
	}
	return files, nil
}

// executeBatch мигрирует все записи каталога параллельно,
// не более MigrationConfig.Workers файлов одновременно.
// Ошибка одного файла не прерывает обработку остальных.
func (h *MigrateHandler) executeBatch(ctx context.Context, m *migrator, rep *shared.Reporter) error {
	cfg := m.env.Config
	root := cfg.InputPath
	if !cfg.InPlace && cfg.OutputPath == "" {
		return rep.Fail(apperrors.NewAppError(apperrors.ErrConfigValidate,
			fmt.Sprintf("для каталога задайте %s или %s=true", constants.EnvOutputPath, constants.EnvInPlace), nil),
			apperrors.ErrConfigValidate)
	}
	outDir := ""
	if !cfg.InPlace {
		outDir = cfg.OutputPath
	}

	files, err := scanRecords(root, outDir)
	if err != nil {
		return rep.Fail(apperrors.NewAppError(apperrors.ErrRecordRead, err.Error(), err), apperrors.ErrRecordRead)
	}

	report := &BatchReport{
		Root:      root,
		OutputDir: outDir,
		To:        m.target.String(),
		DryRun:    m.dryRun,
		Total:     len(files),
		Files:     make([]*FileReport, len(files)),
	}

	bar := progress.New(progress.Options{}, cfg.OutputFormat, m.env.Logger)
	bar.Start(int64(len(files)), "Миграция каталога "+root)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.MigrationConfig.Workers)
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			report.Files[i] = m.migrateOne(gctx, root, path, outDir)
			bar.Advance(path)
			return nil
		})
	}
	waitErr := g.Wait()
	bar.Finish()
	if waitErr != nil {
		return rep.Fail(apperrors.NewAppError(apperrors.ErrCommandExec, "миграция каталога прервана", waitErr),
			apperrors.ErrCommandExec)
	}

	for _, f := range report.Files {
		switch f.Outcome {
		case metrics.OutcomeMigrated:
			report.Migrated++
		case metrics.OutcomeUnchanged:
			report.Unchanged++
		default:
			report.Failed++
		}
	}

	if report.Failed > 0 {
		return rep.FailWithData(apperrors.NewAppError(apperrors.ErrCommandExec,
			fmt.Sprintf("не мигрировано записей: %d из %d", report.Failed, report.Total), nil),
			apperrors.ErrCommandExec, report)
	}
	if m.dryRun {
		return rep.Plan(batchPlan(report), report.summary())
	}
	return rep.Success(report, report.summary())
}

// migrateOne мигрирует файл path и записывает результат в outDir
// с тем же относительным путём или поверх исходного файла.
func (m *migrator) migrateOne(ctx context.Context, root, path, outDir string) *FileReport {
	report, out, err := m.migrateFile(ctx, path)
	if err != nil {
		return report
	}
	outPath := path
	if outDir != "" {
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return markFailed(report, err)
		}
		outPath = filepath.Join(outDir, rel)
	}
	if err := m.commit(report, out, outPath); err != nil {
		return markFailed(report, err)
	}
	return report
}

// batchPlan строит план dry-run по отчёту пакетной миграции.
func batchPlan(report *BatchReport) *output.DryRunPlan {
	steps := make([]output.PlanStep, 0, len(report.Files))
	for _, f := range report.Files {
		steps = append(steps, output.PlanStep{
			Operation:       "Миграция " + f.Path,
			Parameters:      map[string]any{"type": f.Type, "from": f.From, "to": f.To},
			ExpectedChanges: f.Changes,
			Skipped:         f.Outcome == metrics.OutcomeUnchanged,
			SkipReason:      "версия записи совпадает с целевой",
		})
	}
	return dryrun.BuildPlan(constants.ActMigrate, steps,
		fmt.Sprintf("файлов: %d, к миграции: %d", report.Total, report.Total-report.Unchanged))
}
