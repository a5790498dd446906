// Package constants содержит имена команд, переменных окружения и общие значения CLI.
package constants

// Команды.
const (
	ActMigrate  = "migrate"
	ActValidate = "validate"
	ActInspect  = "inspect"
	ActVersion  = "version"
	ActHelp     = "help"
)

// Переменные окружения.
const (
	EnvCommand       = "CM_COMMAND"
	EnvInputPath     = "CM_INPUT_PATH"
	EnvOutputPath    = "CM_OUTPUT_PATH"
	EnvTargetVersion = "CM_TARGET_VERSION"
	EnvOutputFormat  = "CM_OUTPUT_FORMAT"
	EnvConfigFile    = "CM_CONFIG_FILE"
	EnvInPlace       = "CM_IN_PLACE"
	EnvDryRun        = "CM_DRY_RUN"
	EnvShowProgress  = "CM_SHOW_PROGRESS"
)

// APIVersion — версия формата JSON-результата команд.
const APIVersion = "v1"

// Права создаваемых файлов и каталогов.
const (
	FilePermDefault = 0o644
	DirPermDefault  = 0o750
)
