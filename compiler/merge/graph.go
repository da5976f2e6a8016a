package merge

import (
	"fmt"
	"slices"
	"strings"

	"github.com/syssam/springforge"
)

// Graph records the dependencies between modules. Dependencies precede their
// dependents in Order, so fragments of a module merge after the fragments of
// the modules it depends on.
type Graph struct {
	names   []string
	depends map[string][]string
}

// NewGraph returns an empty module graph.
func NewGraph() *Graph {
	return &Graph{depends: make(map[string][]string)}
}

// AddModule registers a module and its dependencies. Registering a module
// again appends to its dependencies.
func (g *Graph) AddModule(name string, depends ...string) {
	if _, ok := g.depends[name]; !ok {
		g.names = append(g.names, name)
		g.depends[name] = nil
	}
	for _, dep := range depends {
		if !slices.Contains(g.depends[name], dep) {
			g.depends[name] = append(g.depends[name], dep)
		}
	}
}

// Len returns the number of registered modules.
func (g *Graph) Len() int { return len(g.names) }

// Order returns the modules in dependency order. Among modules with no
// ordering constraint, registration order is kept.
func (g *Graph) Order() ([]string, error) {
	for _, name := range g.names {
		for _, dep := range g.depends[name] {
			if _, ok := g.depends[dep]; !ok {
				return nil, fmt.Errorf("%w: %q required by %q", springforge.ErrUnknownModule, dep, name)
			}
		}
	}
	const (
		unvisited = iota
		visiting
		done
	)
	var (
		state = make(map[string]int, len(g.names))
		order = make([]string, 0, len(g.names))
		path  []string
		visit func(string) error
	)
	visit = func(name string) error {
		switch state[name] {
		case done:
			return nil
		case visiting:
			return fmt.Errorf("%w: %s -> %s", springforge.ErrDependencyCycle, strings.Join(path, " -> "), name)
		}
		state[name] = visiting
		path = append(path, name)
		for _, dep := range g.depends[name] {
			if err := visit(dep); err != nil {
				return err
			}
		}
		path = path[:len(path)-1]
		state[name] = done
		order = append(order, name)
		return nil
	}
	for _, name := range g.names {
		if err := visit(name); err != nil {
			return nil, err
		}
	}
	return order, nil
}

// Rank returns the position of every module in Order.
func (g *Graph) Rank() (map[string]int, error) {
	order, err := g.Order()
	if err != nil {
		return nil, err
	}
	rank := make(map[string]int, len(order))
	for i, name := range order {
		rank[name] = i
	}
	return rank, nil
}
