// Package handlers регистрирует все обработчики команд.
// Регистрация явная, без init() в пакетах-обработчиках.
package handlers

import (
	"sync"

	"github.com/Kargones/connector-migrator/internal/command/handlers/help"
	"github.com/Kargones/connector-migrator/internal/command/handlers/inspecthandler"
	"github.com/Kargones/connector-migrator/internal/command/handlers/migratehandler"
	"github.com/Kargones/connector-migrator/internal/command/handlers/validatehandler"
	"github.com/Kargones/connector-migrator/internal/command/handlers/version"
)

var registerOnce sync.Once

// RegisterAll регистрирует все команды в глобальном реестре.
// Повторные вызовы ничего не делают.
func RegisterAll() {
	registerOnce.Do(func() {
		help.RegisterCmd()
		inspecthandler.RegisterCmd()
		migratehandler.RegisterCmd()
		validatehandler.RegisterCmd()
		version.RegisterCmd()
	})
}
