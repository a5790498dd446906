// Package smoketest содержит smoke-тесты системной целостности connector-migrator.
//
// Smoke-тесты проверяют:
//   - Регистрацию всех команд в глобальном реестре
//   - Валидность Name() и Description() каждого handler
//   - Что каждая команда печатает в JSON-режиме ровно один корректный Result
//
// Unit-тесты бизнес-логики находятся в пакетах обработчиков.
package smoketest
