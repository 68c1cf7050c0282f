package adviser

import (
	"io"
	"iter"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/adviser/pkg/errors"
	"github.com/matzehuels/adviser/pkg/observability"
	"github.com/matzehuels/adviser/pkg/python"
)

// ContextOptions carries the run parameters of a Context.
type ContextOptions struct {
	Project      *python.Project // Project being resolved (optional)
	Graph        any             // Knowledge graph handle, opaque to the context
	LibraryUsage map[string]any  // Library usage gathered from sources (optional)
	Limit        int             // Maximum number of stacks to produce
	Count        int             // Number of stacks to report
	Logger       *log.Logger     // Debug logger (default: discard)
}

// Context is the run-scoped state shared with the resolver: the run mode, the
// run parameters, and the registry of package versions touched during
// resolution.
type Context struct {
	id   string
	mode RunMode
	opts ContextOptions

	registry map[python.PackageTuple]*python.PackageVersion
	order    []python.PackageTuple
	sources  map[string]*python.Source

	logger *log.Logger
}

// NewContext creates the context of a resolution run. It fails with
// INVALID_CONFIGURATION when mode is not exactly one of the two run kinds.
func NewContext(mode RunMode, opts ContextOptions) (*Context, error) {
	if err := mode.Validate(); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	c := &Context{
		id:       id,
		mode:     mode,
		opts:     opts,
		registry: make(map[python.PackageTuple]*python.PackageVersion),
		sources:  make(map[string]*python.Source),
		logger:   logger.With("run", id),
	}
	if opts.Project != nil {
		for _, s := range opts.Project.Sources {
			c.sources[s.URL] = s
		}
	}
	return c, nil
}

// ID returns the unique identifier of this run.
func (c *Context) ID() string { return c.id }

// Mode returns the run mode.
func (c *Context) Mode() RunMode { return c.mode }

// IsAdviser reports whether this is an advisory run.
func (c *Context) IsAdviser() bool { return c.mode.IsAdviser() }

// IsDependencyMonkey reports whether this is a dependency-monkey run.
func (c *Context) IsDependencyMonkey() bool { return c.mode.IsDependencyMonkey() }

// RecommendationType returns the recommendation type of an advisory run.
func (c *Context) RecommendationType() (RecommendationType, bool) {
	return c.mode.RecommendationType()
}

// DecisionType returns the decision type of a dependency-monkey run.
func (c *Context) DecisionType() (DecisionType, bool) { return c.mode.DecisionType() }

// Project returns the project being resolved, if any.
func (c *Context) Project() *python.Project { return c.opts.Project }

// Graph returns the knowledge graph handle.
func (c *Context) Graph() any { return c.opts.Graph }

// LibraryUsage returns the library usage data.
func (c *Context) LibraryUsage() map[string]any { return c.opts.LibraryUsage }

// Limit returns the maximum number of stacks to produce.
func (c *Context) Limit() int { return c.opts.Limit }

// Count returns the number of stacks to report.
func (c *Context) Count() int { return c.opts.Count }

// RegisterPackageVersion binds pv to its tuple unless the tuple is already
// bound. It reports whether an entry already existed; in that case the
// original binding is retained and nothing changes.
func (c *Context) RegisterPackageVersion(pv *python.PackageVersion) bool {
	t := pv.ToTuple()
	if _, ok := c.registry[t]; ok {
		observability.Registry().OnRegister(t.String(), true)
		return true
	}
	c.bind(t, pv)
	return false
}

// GetPackageVersion returns the package version bound to t. It fails with a
// *NotFoundError when t was never registered.
func (c *Context) GetPackageVersion(t python.PackageTuple) (*python.PackageVersion, error) {
	if pv, ok := c.registry[t]; ok {
		return pv, nil
	}
	observability.Registry().OnLookupMiss(t.String())
	return nil, &NotFoundError{Tuple: t}
}

// LookupPackageVersion returns the package version bound to t, or nil when t
// was never registered.
func (c *Context) LookupPackageVersion(t python.PackageTuple) *python.PackageVersion {
	return c.registry[t]
}

// RegisterPackageTuple returns the package version bound to t, creating and
// binding one from t, develop, markers and extras if t is not bound yet. When t
// is already bound, the arguments of this call are discarded and the first
// registration wins.
func (c *Context) RegisterPackageTuple(t python.PackageTuple, develop bool, markers string, extras []string) *python.PackageVersion {
	if pv, ok := c.registry[t]; ok {
		observability.Registry().OnRegister(t.String(), true)
		return pv
	}

	pv := &python.PackageVersion{
		Name:    t.Name,
		Version: "==" + t.Version,
		Index:   c.source(t.SourceURL),
		Develop: develop,
		Markers: markers,
		Extras:  slices.Clone(extras),
	}
	c.bind(t, pv)
	return pv
}

// Len returns the number of registered package versions.
func (c *Context) Len() int { return len(c.order) }

// PackageVersions yields registered package versions in registration order.
func (c *Context) PackageVersions() iter.Seq[*python.PackageVersion] {
	return func(yield func(*python.PackageVersion) bool) {
		for _, t := range c.order {
			if !yield(c.registry[t]) {
				return
			}
		}
	}
}

func (c *Context) bind(t python.PackageTuple, pv *python.PackageVersion) {
	c.registry[t] = pv
	c.order = append(c.order, t)
	observability.Registry().OnRegister(t.String(), false)
	c.logger.Debug("registered package version", "tuple", t.String(), "develop", pv.Develop)
}

// source returns the Source interned for url, creating it on first use.
func (c *Context) source(url string) *python.Source {
	if url == "" {
		return nil
	}
	if s, ok := c.sources[url]; ok {
		return s
	}
	s := python.NewSource(url)
	c.sources[url] = s
	return s
}

// NotFoundError reports a registry lookup of a tuple that was never registered.
// It matches errors.Is(err, errors.ErrCodeNotFound).
type NotFoundError struct {
	Tuple python.PackageTuple
}

// Error implements the error interface.
func (e *NotFoundError) Error() string { return e.coded().Error() }

// Unwrap exposes the coded error for errors.Is/As compatibility.
func (e *NotFoundError) Unwrap() error { return e.coded() }

func (e *NotFoundError) coded() *errors.Error {
	return errors.New(errors.ErrCodeNotFound, "package version %s not found in context", e.Tuple)
}
