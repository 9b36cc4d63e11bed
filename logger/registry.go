package logger

import (
	"sync"
)

// Named loggers let packages share tuned loggers under well-known
// names without threading *Logger values through every constructor.
var (
	namedMu sync.RWMutex
	named   = make(map[string]*Logger)
)

// Register binds a logger to a name, replacing any previous binding.
func Register(name string, l *Logger) {
	namedMu.Lock()
	named[name] = l
	namedMu.Unlock()
}

// Get returns the logger bound to name. An unbound name yields the
// global logger tagged with name as its component, so lookups are
// always safe.
func Get(name string) *Logger {
	namedMu.RLock()
	l, ok := named[name]
	namedMu.RUnlock()
	if ok {
		return l
	}
	return GetGlobalLogger().WithComponent(name)
}

// RegisterDefaults binds component-tagged views of the global logger
// under each name. Call after Init so the bindings pick up the
// configured output.
func RegisterDefaults(names ...string) {
	for _, name := range names {
		Register(name, GetGlobalLogger().WithComponent(name))
	}
}
