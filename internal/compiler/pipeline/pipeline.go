// Package pipeline drives the compiler: it orders the stages by their
// declared requirements, orders namespaces by their dependencies, and runs
// every stage over every namespace.
package pipeline

import (
	"go.uber.org/zap"

	"github.com/edfi-tools/apischema/internal/compiler/apischema"
	"github.com/edfi-tools/apischema/internal/compiler/collect"
	"github.com/edfi-tools/apischema/internal/compiler/errors"
	"github.com/edfi-tools/apischema/internal/compiler/openapi"
	"github.com/edfi-tools/apischema/internal/compiler/refcomp"
	"github.com/edfi-tools/apischema/internal/model"
)

// Pipeline is an ordered, validated list of stages
type Pipeline struct {
	stages []Stage
	logger *zap.Logger
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithLogger sets the logger used for stage progress
func WithLogger(logger *zap.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New orders stages so that every stage runs after the stages it requires.
// Duplicate names, unknown requirements and requirement cycles are
// reported here, before anything runs.
func New(stages []Stage, opts ...Option) (*Pipeline, error) {
	p := &Pipeline{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(p)
	}

	var errs errors.ErrorList
	byName := make(map[string]Stage, len(stages))
	graph := NewGraph()
	for _, s := range stages {
		if _, exists := byName[s.Name()]; exists {
			errs = errs.Append(errors.NewDuplicateStage(s.Name()))
			continue
		}
		byName[s.Name()] = s
		graph.Add(s.Name())
	}
	for _, s := range stages {
		for _, req := range s.Requires() {
			if _, ok := byName[req]; !ok {
				errs = errs.Append(errors.NewMissingStage(s.Name(), req))
				continue
			}
			graph.AddDependency(s.Name(), req)
		}
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	order, err := graph.TopologicalOrder()
	if err != nil {
		return nil, errs.Append(errors.NewStageCycle(err.(*CycleError).Nodes))
	}
	for _, name := range order {
		p.stages = append(p.stages, byName[name])
	}
	return p, nil
}

// Default returns the pipeline of the compiler's own stages
func Default(opts ...Option) *Pipeline {
	p, err := New(DefaultStages(), opts...)
	if err != nil {
		panic("pipeline: invalid default stages: " + err.Error())
	}
	return p
}

// Stages returns the stage names in run order
func (p *Pipeline) Stages() []string {
	names := make([]string, 0, len(p.stages))
	for _, s := range p.stages {
		names = append(names, s.Name())
	}
	return names
}

// Compile runs every stage over every namespace of m, dependencies first.
// A namespace stops at its first failing stage and is left out of the
// result; namespaces depending on it are skipped. The result holds every
// namespace that compiled, and the error lists every failure.
func (p *Pipeline) Compile(m *model.Model) (*apischema.ApiSchema, error) {
	out := apischema.New()

	var errs errors.ErrorList
	order, err := namespaceOrder(m)
	if err != nil {
		return out, errs.Append(err)
	}

	resolver := refcomp.NewResolver(m)
	exts := openapi.NewExtIndex()
	failed := make(map[string]bool)

	for _, ns := range order {
		log := p.logger.With(zap.String("namespace", ns.Name))

		if dep := failedDependency(ns, failed); dep != "" {
			log.Error("namespace skipped", zap.String("dependency", dep))
			errs = errs.Append(errors.NewDependencyFailed(ns.Name, dep))
			failed[ns.Name] = true
			continue
		}

		st := newState(m, ns, out, resolver, exts)
		if err := p.run(log, st); err != nil {
			errs = errs.Append(err)
			failed[ns.Name] = true
			continue
		}

		out.Add(st.Output)
		log.Debug("namespace compiled",
			zap.Int("resources", len(st.resources)),
			zap.Int("extensions", len(st.extensions)))
	}
	return out, errs.Err()
}

func (p *Pipeline) run(log *zap.Logger, st *State) error {
	for _, stage := range p.stages {
		log.Debug("stage started", zap.String("stage", stage.Name()))
		if err := stage.Run(st); err != nil {
			log.Error("stage failed", zap.String("stage", stage.Name()), zap.Error(err))
			return err
		}
		st.done[stage.Name()] = true
		log.Debug("stage finished", zap.String("stage", stage.Name()))
	}
	return nil
}

// namespaceOrder sorts namespaces so that dependencies come first
func namespaceOrder(m *model.Model) ([]*model.Namespace, error) {
	graph := NewGraph()
	for _, ns := range m.Namespaces {
		graph.Add(ns.Name)
	}
	for _, ns := range m.Namespaces {
		for _, dep := range ns.Dependencies {
			if graph.Has(dep) {
				graph.AddDependency(ns.Name, dep)
			}
		}
	}

	names, err := graph.TopologicalOrder()
	if err != nil {
		return nil, errors.NewNamespaceCycle(err.(*CycleError).Nodes)
	}
	order := make([]*model.Namespace, 0, len(names))
	for _, name := range names {
		order = append(order, m.Namespace(name))
	}
	return order, nil
}

func failedDependency(ns *model.Namespace, failed map[string]bool) string {
	for _, dep := range ns.Dependencies {
		if failed[dep] {
			return dep
		}
	}
	return ""
}

func newResourceSchema(res *collect.Resource) *apischema.ResourceSchema {
	rs := apischema.NewResourceSchema(res.Name)
	rs.IsDescriptor = res.Descriptor
	return rs
}
