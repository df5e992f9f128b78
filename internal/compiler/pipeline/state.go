package pipeline

import (
	"github.com/edfi-tools/apischema/internal/compiler/apischema"
	"github.com/edfi-tools/apischema/internal/compiler/collect"
	"github.com/edfi-tools/apischema/internal/compiler/errors"
	"github.com/edfi-tools/apischema/internal/compiler/openapi"
	"github.com/edfi-tools/apischema/internal/compiler/refcomp"
	"github.com/edfi-tools/apischema/internal/model"
)

// State carries one namespace through the stages. Stage outputs are read
// through accessors that fail when the producing stage has not completed.
type State struct {
	Model     *model.Model
	Namespace *model.Namespace
	// Output is the namespace output being built
	Output *apischema.NamespaceSchema
	// Compiled holds the namespaces finished before this one
	Compiled *apischema.ApiSchema

	resolver *refcomp.Resolver
	exts     *openapi.ExtIndex
	done     map[string]bool

	resources  []*collect.Resource
	extensions []*collect.Resource
	schemas    map[*collect.Resource]*apischema.ResourceSchema
}

func newState(m *model.Model, ns *model.Namespace, compiled *apischema.ApiSchema, resolver *refcomp.Resolver, exts *openapi.ExtIndex) *State {
	out := apischema.NewNamespaceSchema(ns.Name)
	out.ProjectName = ns.ProjectName
	out.ProjectVersion = ns.ProjectVersion
	out.ProjectEndpointName = ns.ProjectEndpoint
	out.Description = ns.Description
	out.IsExtensionProject = ns.IsExtension()
	out.InitFragments()

	return &State{
		Model:     m,
		Namespace: ns,
		Output:    out,
		Compiled:  compiled,
		resolver:  resolver,
		exts:      exts,
		done:      make(map[string]bool),
		schemas:   make(map[*collect.Resource]*apischema.ResourceSchema),
	}
}

// Done reports whether a stage has completed for this namespace
func (s *State) Done(stage string) bool {
	return s.done[stage]
}

func (s *State) require(stage string) error {
	if !s.done[stage] {
		return errors.NewStageNotRun(errors.Location{Namespace: s.Namespace.Name}, stage)
	}
	return nil
}

// Resolver returns the component resolver once every entity of the
// namespace has been resolved
func (s *State) Resolver() (*refcomp.Resolver, error) {
	if err := s.require(StageReferenceComponents); err != nil {
		return nil, err
	}
	return s.resolver, nil
}

// Resources returns the collected resources, with provisional names
func (s *State) Resources() ([]*collect.Resource, error) {
	if err := s.require(StagePropertyCollection); err != nil {
		return nil, err
	}
	return s.resources, nil
}

// NamedResources returns the collected resources with final JSON names
func (s *State) NamedResources() ([]*collect.Resource, error) {
	if err := s.require(StageNamingCollisions); err != nil {
		return nil, err
	}
	return s.resources, nil
}

// Extensions returns the extension resources with final JSON names
func (s *State) Extensions() ([]*collect.Resource, error) {
	if err := s.require(StageNamingCollisions); err != nil {
		return nil, err
	}
	return s.extensions, nil
}

// ResourceSchema returns the output entry of a collected resource
func (s *State) ResourceSchema(res *collect.Resource) (*apischema.ResourceSchema, error) {
	if err := s.require(StagePropertyCollection); err != nil {
		return nil, err
	}
	return s.schemas[res], nil
}

// SynthesizedSchema returns the output entry of a resource once its
// documents exist
func (s *State) SynthesizedSchema(res *collect.Resource) (*apischema.ResourceSchema, error) {
	if err := s.require(StageSchemaSynthesis); err != nil {
		return nil, err
	}
	return s.schemas[res], nil
}
