package metalisp

import (
	"sort"
	"sync"

	"github.com/pkg/errors"
)

// SymbolTable holds the user-defined functions. The elementary functions
// live in the fixed ops table and can never be entered here.
type SymbolTable struct {
	mu   sync.RWMutex
	fncs map[string]*Node
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		fncs: make(map[string]*Node),
	}
}

func IsElementary(name string) bool {
	_, ok := ops[name]
	return ok
}

// Define registers def, a label form, under name. Names of elementary
// functions are refused with ErrRedefinition and leave the table as it was.
func (s *SymbolTable) Define(name string, def *Node) error {
	if IsElementary(name) {
		return errors.Wrapf(ErrRedefinition, "%v", name)
	}
	s.mu.Lock()
	s.fncs[name] = def
	s.mu.Unlock()
	return nil
}

func (s *SymbolTable) Lookup(name string) (*Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	def, ok := s.fncs[name]
	return def, ok
}

func (s *SymbolTable) Names() []string {
	s.mu.RLock()
	names := make([]string, 0, len(s.fncs))
	for name := range s.fncs {
		names = append(names, name)
	}
	s.mu.RUnlock()
	sort.Strings(names)
	return names
}

func (s *SymbolTable) Snapshot() map[string]*Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m := make(map[string]*Node, len(s.fncs))
	for k, v := range s.fncs {
		m[k] = v
	}
	return m
}
