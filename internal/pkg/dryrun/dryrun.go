// Package dryrun предоставляет функции для работы с dry-run режимом.
// В dry-run режиме команды возвращают план действий без записи файлов.
package dryrun

import (
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/Kargones/connector-migrator/internal/constants"
	"github.com/Kargones/connector-migrator/internal/pkg/output"
)

// IsDryRun проверяет включён ли dry-run режим.
// Возвращает true если CM_DRY_RUN равна "true" (без учёта регистра) или "1".
func IsDryRun() bool {
	val := os.Getenv(constants.EnvDryRun)
	return strings.EqualFold(val, "true") || val == "1"
}

// BuildPlan создаёт план операций для dry-run режима.
func BuildPlan(command string, steps []output.PlanStep, summary string) *output.DryRunPlan {
	plan := &output.DryRunPlan{
		Command:          command,
		Summary:          summary,
		ValidationPassed: true,
	}
	for _, step := range steps {
		plan.AddStep(step)
	}
	return plan
}

// ConfigChanges описывает изменения верхнего уровня между двумя
// JSON-документами: добавленные, удалённые и изменённые ключи.
// Значения не выводятся: конфигурации коннекторов содержат пароли.
func ConfigChanges(before, after any) ([]string, error) {
	b, err := toObject(before)
	if err != nil {
		return nil, err
	}
	a, err := toObject(after)
	if err != nil {
		return nil, err
	}

	keys := lo.Union(lo.Keys(b), lo.Keys(a))
	slices.Sort(keys)

	var changes []string
	for _, k := range keys {
		old, hadOld := b[k]
		cur, hasCur := a[k]
		switch {
		case !hadOld:
			changes = append(changes, "+ "+k)
		case !hasCur:
			changes = append(changes, "- "+k)
		case !reflect.DeepEqual(old, cur):
			changes = append(changes, "~ "+k)
		}
	}
	return changes, nil
}

// toObject приводит значение к map через JSON. nil даёт пустую map.
func toObject(v any) (map[string]any, error) {
	if v == nil {
		return map[string]any{}, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("dryrun: сериализация: %w", err)
	}
	obj := map[string]any{}
	if string(data) == "null" {
		return obj, nil
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, fmt.Errorf("dryrun: ожидался JSON-объект: %w", err)
	}
	return obj, nil
}
