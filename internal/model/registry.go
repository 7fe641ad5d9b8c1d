package model

import (
	"maps"
	"strings"
)

// Registry owns every model discovered during an analysis run. All
// registration goes through the Build methods: the first call for a name
// creates the model and attaches it to its package, every later call only
// bumps the call counter and returns the existing instance.
//
// A Registry is not safe for concurrent use.
type Registry struct {
	packages     map[string]*Package
	classes      map[string]*Class
	interfaces   map[string]*Class
	traits       map[string]*Class
	functions    map[string]*Function
	constants    map[string]*Constant
	includes     map[string]*Include
	dependencies map[string]*Dependency

	// lower-cased function name to registered name
	functionIndex map[string]string
}

// Stats summarises registry contents.
type Stats struct {
	Packages     int
	Classes      int
	Interfaces   int
	Traits       int
	Functions    int
	Constants    int
	Includes     int
	Dependencies int
}

func NewRegistry() *Registry {
	r := &Registry{}
	r.Reset()
	return r
}

// Reset drops every model. Without it, models accumulate across files.
func (r *Registry) Reset() {
	r.packages = make(map[string]*Package)
	r.classes = make(map[string]*Class)
	r.interfaces = make(map[string]*Class)
	r.traits = make(map[string]*Class)
	r.functions = make(map[string]*Function)
	r.constants = make(map[string]*Constant)
	r.includes = make(map[string]*Include)
	r.dependencies = make(map[string]*Dependency)
	r.functionIndex = make(map[string]string)
}

// pkg returns the package for ns, creating it silently. Attaching an entity
// does not count as a call on its package.
func (r *Registry) pkg(ns string) *Package {
	ns = normalizeNamespace(ns)
	p, ok := r.packages[ns]
	if !ok {
		p = newPackage(ns)
		r.packages[ns] = p
	}
	return p
}

// BuildPackage creates or fetches the package name ("" is the global
// package) and merges attrs into it.
func (r *Registry) BuildPackage(name string, attrs PackageAttrs) *Package {
	p := r.pkg(name)
	p.merge(attrs)
	p.calls++
	return p
}

// BuildClass creates or fetches a class, interface or trait depending on
// attrs.Kind.
func (r *Registry) BuildClass(name string, attrs ClassAttrs) *Class {
	var m map[string]*Class
	switch attrs.Kind {
	case KindInterface:
		m = r.interfaces
	case KindTrait:
		m = r.traits
	default:
		m = r.classes
	}

	c, ok := m[name]
	if !ok {
		c = newClass(name, attrs)
		m[name] = c
		p := r.pkg(attrs.Namespace)
		switch attrs.Kind {
		case KindInterface:
			p.interfaces.add(name, c)
		case KindTrait:
			p.traits.add(name, c)
		default:
			p.classes.add(name, c)
		}
	}
	c.calls++
	return c
}

func (r *Registry) BuildFunction(name string, attrs FunctionAttrs) *Function {
	f, ok := r.functions[name]
	if !ok {
		f = newFunction(name, attrs)
		r.functions[name] = f
		r.functionIndex[strings.ToLower(name)] = name
		r.pkg(attrs.Namespace).functions.add(name, f)
	}
	f.calls++
	return f
}

func (r *Registry) BuildConstant(name string, attrs ConstantAttrs) *Constant {
	c, ok := r.constants[name]
	if !ok {
		c = newConstant(name, attrs)
		r.constants[name] = c
		r.pkg(attrs.Namespace).constants.add(name, c)
	}
	c.calls++
	return c
}

func (r *Registry) BuildInclude(name string, attrs IncludeAttrs) *Include {
	i, ok := r.includes[name]
	if !ok {
		i = newInclude(name, attrs)
		r.includes[name] = i
		r.pkg(attrs.Namespace).includes.add(name, i)
	}
	i.calls++
	return i
}

// BuildDependency registers a call site. The identity is name plus
// attrs.Hash; the dependency stays attached to the package that saw it
// first.
func (r *Registry) BuildDependency(name string, attrs DependencyAttrs) *Dependency {
	key := DependencyKey(name, attrs.Hash)
	d, ok := r.dependencies[key]
	if !ok {
		d = newDependency(name, attrs)
		r.dependencies[key] = d
		r.pkg(attrs.Namespace).dependencies.add(key, d)
	}
	d.calls++
	return d
}

// AddUse records an import on the package. Uses are package-scoped and have
// no registry-wide map.
func (r *Registry) AddUse(namespace string, attrs UseAttrs) *Use {
	u := newUse(attrs)
	p := r.pkg(namespace)
	key := u.kind.String() + ":" + u.alias
	if existing, ok := p.uses.get(key); ok {
		return existing
	}
	p.uses.add(key, u)
	return u
}

// AddGlobal records a global variable access on the package; repeats of
// the same name and key count as calls.
func (r *Registry) AddGlobal(namespace string, attrs GlobalAttrs) *Global {
	p := r.pkg(namespace)
	key := globalKey(attrs.Name, attrs.Key)
	g, ok := p.globals.get(key)
	if !ok {
		g = &Global{name: attrs.Name, key: attrs.Key, super: attrs.Super, line: attrs.Line}
		p.globals.add(key, g)
	}
	g.calls++
	return g
}

// Packages returns a snapshot of all packages keyed by name.
func (r *Registry) Packages() map[string]*Package        { return maps.Clone(r.packages) }
func (r *Registry) Classes() map[string]*Class           { return maps.Clone(r.classes) }
func (r *Registry) Interfaces() map[string]*Class        { return maps.Clone(r.interfaces) }
func (r *Registry) Traits() map[string]*Class            { return maps.Clone(r.traits) }
func (r *Registry) Functions() map[string]*Function      { return maps.Clone(r.functions) }
func (r *Registry) Constants() map[string]*Constant      { return maps.Clone(r.constants) }
func (r *Registry) Includes() map[string]*Include        { return maps.Clone(r.includes) }
func (r *Registry) Dependencies() map[string]*Dependency { return maps.Clone(r.dependencies) }

func (r *Registry) Package(name string) (*Package, bool) {
	p, ok := r.packages[normalizeNamespace(name)]
	return p, ok
}

// Class finds a class, interface or trait by qualified name.
func (r *Registry) Class(name string) (*Class, bool) {
	for _, m := range []map[string]*Class{r.classes, r.interfaces, r.traits} {
		if c, ok := m[name]; ok {
			return c, true
		}
	}
	return nil, false
}

func (r *Registry) Function(name string) (*Function, bool) {
	f, ok := r.functions[name]
	return f, ok
}

// ResolveFunction resolves a call to name made inside namespace against the
// user functions registered so far. Unqualified names try the namespace
// first and then the global scope, case-insensitively. When no user
// function matches, the normalized call name is returned with false.
func (r *Registry) ResolveFunction(namespace, name string) (string, bool) {
	fullyQualified := strings.HasPrefix(name, `\`)
	name = strings.TrimPrefix(name, `\`)
	if strings.HasPrefix(strings.ToLower(name), `namespace\`) {
		name = Qualify(namespace, name[len(`namespace\`):])
		fullyQualified = true
	}

	candidates := []string{name}
	if !fullyQualified && normalizeNamespace(namespace) != GlobalNamespace {
		candidates = []string{Qualify(namespace, name), name}
	}
	for _, c := range candidates {
		if n, ok := r.functionIndex[strings.ToLower(c)]; ok {
			return n, true
		}
	}
	return name, false
}

func (r *Registry) Stats() Stats {
	return Stats{
		Packages:     len(r.packages),
		Classes:      len(r.classes),
		Interfaces:   len(r.interfaces),
		Traits:       len(r.traits),
		Functions:    len(r.functions),
		Constants:    len(r.constants),
		Includes:     len(r.includes),
		Dependencies: len(r.dependencies),
	}
}
