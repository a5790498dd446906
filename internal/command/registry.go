package command

import (
	"maps"
	"regexp"
	"slices"
	"sync"
)

// namePattern — kebab-case, начинается с буквы: значение CM_COMMAND.
var namePattern = regexp.MustCompile(`^[a-z][a-z0-9]*(-[a-z0-9]+)*$`)

// Registry сопоставляет значение CM_COMMAND обработчику.
// Заполняется при старте через handlers.RegisterAll, дальше только читается.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewRegistry создаёт пустой реестр.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// defaultRegistry — реестр бинарника.
var defaultRegistry = NewRegistry()

// Register добавляет обработчик. Ошибка регистрации это ошибка
// программиста, поэтому Register паникует если:
//   - h == nil
//   - h.Name() пустое или не в kebab-case
//   - имя уже занято
func (r *Registry) Register(h Handler) {
	if h == nil {
		panic("command: nil handler")
	}
	name := h.Name()
	switch {
	case name == "":
		panic("command: empty handler name")
	case !namePattern.MatchString(name):
		panic("command: invalid handler name format (must be kebab-case): " + name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.handlers[name]; taken {
		panic("command: duplicate handler registration for " + name)
	}
	r.handlers[name] = h
}

// Get возвращает обработчик по имени команды.
func (r *Registry) Get(name string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[name]
	return h, ok
}

// All возвращает копию реестра.
func (r *Registry) All() map[string]Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return maps.Clone(r.handlers)
}

// Names возвращает имена команд по алфавиту.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.handlers))
}

// Register добавляет обработчик в реестр бинарника.
func Register(h Handler) { defaultRegistry.Register(h) }

// Get ищет обработчик в реестре бинарника.
func Get(name string) (Handler, bool) { return defaultRegistry.Get(name) }

// All возвращает копию реестра бинарника.
func All() map[string]Handler { return defaultRegistry.All() }

// Names возвращает имена команд реестра бинарника.
func Names() []string { return defaultRegistry.Names() }
