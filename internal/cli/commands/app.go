package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/conduit-lang/tablemeta/internal/cli/config"
	"github.com/conduit-lang/tablemeta/internal/cli/ui"
	"github.com/conduit-lang/tablemeta/internal/orm/metadata"
	"github.com/conduit-lang/tablemeta/internal/orm/schema"
	"github.com/conduit-lang/tablemeta/internal/orm/statement"
)

// errReported is returned once a command has already written a formatted message
var errReported = errors.New("command failed")

// app wires the loaded configuration, the registered descriptors and one resolver for a command run
type app struct {
	cfg           *config.Config
	logger        *zap.Logger
	registry      *schema.Registry
	hierarchy     *schema.Hierarchy
	resolver      *metadata.Resolver
	configuration *statement.Configuration
	noColor       bool
}

func newApp(opts *rootOptions, stderr io.Writer) (*app, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprint(stderr, ui.ConfigError(err.Error(), opts.noColor))
		return nil, errReported
	}
	if opts.entities != "" {
		cfg.Entities = opts.entities
	}

	global, err := cfg.Global()
	if err != nil {
		return nil, err
	}

	entities, err := schema.LoadFile(cfg.Entities)
	if err != nil {
		return nil, err
	}

	registry := schema.NewRegistry()
	for _, e := range entities {
		if err := registry.Register(e); err != nil {
			return nil, err
		}
	}

	logger := newLogger(opts.verbose)
	logger.Debug("loaded entity descriptors",
		zap.String("file", cfg.Entities),
		zap.Int("count", registry.Count()))

	return &app{
		cfg:           cfg,
		logger:        logger,
		registry:      registry,
		hierarchy:     schema.NewHierarchy(entities),
		resolver:      metadata.NewResolver(metadata.WithLogger(logger)),
		configuration: statement.NewConfiguration(global),
		noColor:       opts.noColor,
	}, nil
}

// newLogger builds a development logger that only shows errors unless verbose is set.
// Resolver advisories reach the user through ui.Warning instead.
func newLogger(verbose bool) *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}
	cfg.DisableStacktrace = true

	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func (a *app) close() {
	_ = a.logger.Sync()
}

// assistant returns a statement assistant for the entity's mapper namespace
func (a *app) assistant(e *schema.Entity) *statement.Assistant {
	namespace := a.cfg.Namespace
	if namespace == "" {
		namespace = e.FullName() + "Mapper"
	}
	return statement.NewAssistant(a.configuration, namespace)
}

// lookup finds a registered entity, printing suggestions when the name is unknown
func (a *app) lookup(name string, stderr io.Writer) (*schema.Entity, error) {
	e, err := a.registry.Lookup(name)
	if err == nil {
		return e, nil
	}
	if !errors.Is(err, schema.ErrEntityNotFound) {
		return nil, err
	}

	var candidates []string
	for _, full := range a.registry.List() {
		candidates = append(candidates, full)
		if i := strings.LastIndex(full, "."); i >= 0 {
			candidates = append(candidates, full[i+1:])
		}
	}
	fmt.Fprint(stderr, ui.EntityNotFoundError(name, ui.FindSimilar(name, candidates, nil), a.noColor))
	return nil, errReported
}

// resolve resolves one entity, printing a formatted message for configuration errors
func (a *app) resolve(e *schema.Entity, stderr io.Writer) (*metadata.TableInfo, error) {
	info, err := a.resolver.Resolve(e, a.assistant(e))
	if err == nil {
		return info, nil
	}
	if errors.Is(err, metadata.ErrConfiguration) {
		fmt.Fprint(stderr, ui.MappingError(err.Error(), nil, a.noColor))
		return nil, errReported
	}
	return nil, err
}
