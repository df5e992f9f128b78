package pipeline

import (
	"github.com/edfi-tools/apischema/internal/compiler/collect"
	"github.com/edfi-tools/apischema/internal/compiler/collision"
	"github.com/edfi-tools/apischema/internal/compiler/docpaths"
	"github.com/edfi-tools/apischema/internal/compiler/errors"
	"github.com/edfi-tools/apischema/internal/compiler/identity"
	"github.com/edfi-tools/apischema/internal/compiler/openapi"
	"github.com/edfi-tools/apischema/internal/compiler/synth"
	"github.com/edfi-tools/apischema/internal/model"
)

// componentsStage resolves the components and identity of every entity in
// the namespace, reporting composition and identity errors up front
type componentsStage struct{}

func (componentsStage) Name() string       { return StageReferenceComponents }
func (componentsStage) Requires() []string { return nil }

func (componentsStage) Run(st *State) error {
	var errs errors.ErrorList
	for _, e := range st.Namespace.Entities {
		if e.Kind == model.Descriptor || e.Kind == model.Enumeration {
			continue
		}
		if _, err := st.resolver.ResolveEntity(e); err != nil {
			errs = errs.Append(err)
			continue
		}
		if e.Kind.IsReferencable() {
			if _, err := st.resolver.Identity(e); err != nil {
				errs = errs.Append(err)
			}
		}
	}
	return errs.Err()
}

// collectStage builds the field tree of every resource and extension and
// registers an output entry per resource
type collectStage struct{}

func (collectStage) Name() string       { return StagePropertyCollection }
func (collectStage) Requires() []string { return []string{StageReferenceComponents} }

func (collectStage) Run(st *State) error {
	resolver, err := st.Resolver()
	if err != nil {
		return err
	}
	collector := collect.NewCollector(resolver)

	var errs errors.ErrorList
	for _, e := range st.Namespace.Entities {
		var res *collect.Resource
		switch {
		case e.Kind == model.Descriptor:
			res = collect.DescriptorResource(e)
		case e.Kind.IsExtension():
			ext, err := collector.CollectExtension(e)
			if err != nil {
				errs = errs.Append(err)
				continue
			}
			st.extensions = append(st.extensions, ext)
			continue
		case e.IsResource():
			res, err = collector.Collect(e)
			if err != nil {
				errs = errs.Append(err)
				continue
			}
		default:
			continue
		}

		rs := newResourceSchema(res)
		st.resources = append(st.resources, res)
		st.schemas[res] = rs
		st.Output.ResourceSchemas[res.Endpoint()] = rs
		st.Output.ResourceNameMapping[res.Name] = res.Endpoint()
	}
	return errs.Err()
}

// collisionStage settles the JSON names of every resource and extension
type collisionStage struct{}

func (collisionStage) Name() string       { return StageNamingCollisions }
func (collisionStage) Requires() []string { return []string{StagePropertyCollection} }

func (collisionStage) Run(st *State) error {
	resources, err := st.Resources()
	if err != nil {
		return err
	}

	var errs errors.ErrorList
	for _, res := range resources {
		errs = errs.Append(collision.Resolve(res))
	}
	for _, ext := range st.extensions {
		errs = errs.Append(collision.Resolve(ext))
	}
	return errs.Err()
}

// identityStage derives identity full names, equality constraints and
// subclass keys
type identityStage struct{}

func (identityStage) Name() string       { return StageIdentityEquality }
func (identityStage) Requires() []string { return []string{StageNamingCollisions} }

func (identityStage) Run(st *State) error {
	return eachResource(st, func(res *collect.Resource) error {
		rs, err := st.ResourceSchema(res)
		if err != nil {
			return err
		}
		return identity.Derive(res, rs)
	})
}

// synthStage builds the three documents of every resource and the
// reference schema of every referencable entity
type synthStage struct{}

func (synthStage) Name() string       { return StageSchemaSynthesis }
func (synthStage) Requires() []string { return []string{StageNamingCollisions} }

func (synthStage) Run(st *State) error {
	builder := synth.NewBuilder()
	if err := eachResource(st, func(res *collect.Resource) error {
		rs, err := st.ResourceSchema(res)
		if err != nil {
			return err
		}
		builder.Synthesize(res, rs)
		return nil
	}); err != nil {
		return err
	}

	resolver, err := st.Resolver()
	if err != nil {
		return err
	}
	for _, e := range st.Namespace.Entities {
		if !e.Kind.IsReferencable() {
			continue
		}
		leaves, err := resolver.Identity(e)
		if err != nil {
			return err
		}
		st.Output.ReferenceSchemas[synth.ReferenceName(e.Name)] = synth.ReferenceSchema(st.Namespace.ProjectName, e.Name, leaves)
	}
	return nil
}

// docpathsStage maps the document paths of every resource
type docpathsStage struct{}

func (docpathsStage) Name() string       { return StageDocumentPaths }
func (docpathsStage) Requires() []string { return []string{StageNamingCollisions} }

func (docpathsStage) Run(st *State) error {
	return eachResource(st, func(res *collect.Resource) error {
		rs, err := st.ResourceSchema(res)
		if err != nil {
			return err
		}
		rs.DocumentPathsMapping, rs.DocumentPathsOrder = docpaths.Map(res)
		return nil
	})
}

// openapiStage composes the OpenAPI fragments of the namespace and records
// its extension fragments
type openapiStage struct{}

func (openapiStage) Name() string       { return StageOpenAPIFragments }
func (openapiStage) Requires() []string { return []string{StageSchemaSynthesis} }

func (openapiStage) Run(st *State) error {
	composer := openapi.NewComposer(st.Compiled, st.exts)
	if err := eachResource(st, func(res *collect.Resource) error {
		rs, err := st.SynthesizedSchema(res)
		if err != nil {
			return err
		}
		return composer.Resource(st.Output, res, rs)
	}); err != nil {
		return err
	}

	extensions, err := st.Extensions()
	if err != nil {
		return err
	}
	var errs errors.ErrorList
	for _, ext := range extensions {
		errs = errs.Append(composer.Extension(st.Output, ext))
	}
	if err := errs.Err(); err != nil {
		return err
	}

	composer.Finish(st.Output)
	return nil
}

// eachResource runs fn over the named resources, collecting every error
func eachResource(st *State, fn func(res *collect.Resource) error) error {
	resources, err := st.NamedResources()
	if err != nil {
		return err
	}
	var errs errors.ErrorList
	for _, res := range resources {
		errs = errs.Append(fn(res))
	}
	return errs.Err()
}
