// Package openapi composes the OpenAPI path, schema and tag fragments of
// every resource, and the "exts" fragments an extension namespace adds to
// schemas owned by its dependencies.
package openapi

import (
	"fmt"

	"github.com/invopop/jsonschema"

	"github.com/edfi-tools/apischema/internal/compiler/apischema"
	"github.com/edfi-tools/apischema/internal/compiler/collect"
	"github.com/edfi-tools/apischema/internal/compiler/errors"
	"github.com/edfi-tools/apischema/internal/compiler/synth"
	"github.com/edfi-tools/apischema/internal/model"
	stringutil "github.com/edfi-tools/apischema/internal/util/strings"
)

const schemaRefPrefix = "#/components/schemas/"

// SchemaName is the component schema name of a resource or reference
// (Ed-Fi, School -> EdFi_School)
func SchemaName(projectName, name string) string {
	return stringutil.Alphanumeric(projectName) + "_" + name
}

// SchemaRef builds a $ref to a component schema
func SchemaRef(name string) *jsonschema.Schema {
	return &jsonschema.Schema{Ref: schemaRefPrefix + name}
}

// Composer builds fragments for the namespaces of one compilation. Schemas
// of other namespaces are looked up in out, which holds every namespace
// compiled so far.
type Composer struct {
	out  *apischema.ApiSchema
	exts *ExtIndex
}

// NewComposer creates a composer over the compiled output and ext index
func NewComposer(out *apischema.ApiSchema, exts *ExtIndex) *Composer {
	return &Composer{out: out, exts: exts}
}

// Resource emits the paths, component schemas and tag of a resource
func (c *Composer) Resource(ns *apischema.NamespaceSchema, res *collect.Resource, rs *apischema.ResourceSchema) error {
	frag := ns.ResourceFragments()
	if res.Descriptor {
		frag = ns.DescriptorFragments()
	}

	schemaName := SchemaName(res.ProjectName(), res.Name)
	doc, err := c.document(frag, res, schemaName)
	if err != nil {
		return err
	}
	frag.NewSchemas[schemaName] = doc

	base := "/" + res.Entity.Namespace.ProjectEndpoint + "/" + res.Endpoint()
	frag.NewPaths[base] = collectionPathItem(res, rs, schemaName)
	frag.NewPaths[base+"/{id}"] = itemPathItem(res, schemaName)
	frag.NewTags = append(frag.NewTags, apischema.Tag{
		Name:        res.Endpoint(),
		Description: res.Entity.Documentation,
	})
	return nil
}

// Extension records the properties an extension adds to its base schema.
// The base schema itself is left untouched.
func (c *Composer) Extension(ns *apischema.NamespaceSchema, res *collect.Resource) error {
	base := res.Extended
	baseName := SchemaName(base.Namespace.ProjectName, base.Name)
	known := c.hasSchema(base.Namespace.Name, baseName)
	if base.Namespace.Name == ns.Name {
		_, known = ns.ResourceFragments().NewSchemas[baseName]
	}
	if !known {
		return errors.NewMissingBaseSchema(model.LocationOf(res.Entity, nil), baseName)
	}

	frag := ns.ResourceFragments()
	itemPrefix := SchemaName(res.ProjectName(), res.Name+"Extension")
	b, failed := c.builder(frag, res, itemPrefix)
	obj := b.Object(res.Fields, synth.Insert)
	if *failed != nil {
		return *failed
	}

	c.exts.Add(ExtKey{Namespace: ns.Name, BaseSchema: baseName}, &Ext{
		Source:     res.Entity.String(),
		Properties: obj.Properties,
	})
	return nil
}

// Finish adds the reference schemas and the rendered exts of a namespace
func (c *Composer) Finish(ns *apischema.NamespaceSchema) {
	frag := ns.ResourceFragments()
	for name, s := range ns.ReferenceSchemas {
		frag.NewSchemas[SchemaName(ns.ProjectName, name)] = s
	}
	for name, s := range c.exts.Render(ns.Name) {
		frag.Exts[name] = s
	}
}

// document builds the component schema of a resource from its insert
// document, factoring references and collection items into named schemas
func (c *Composer) document(frag *apischema.OpenAPIFragments, res *collect.Resource, schemaName string) (*jsonschema.Schema, error) {
	b, failed := c.builder(frag, res, schemaName)
	doc := b.Document(res, synth.Insert)
	if *failed != nil {
		return nil, *failed
	}
	doc.Version = ""
	return doc, nil
}

// builder creates a synthesizer whose references point at shared
// <Project>_<Target>_Reference schemas and whose collection items are
// registered under itemPrefix. The returned error pointer holds the first
// failure.
func (c *Composer) builder(frag *apischema.OpenAPIFragments, res *collect.Resource, itemPrefix string) (*synth.Builder, *error) {
	var failed error
	items := itemNames(res.Fields, itemPrefix)

	b := synth.NewBuilder(
		synth.WithReferenceSchema(func(f *collect.Field) *jsonschema.Schema {
			target := f.Target
			name := synth.ReferenceName(target.Name)
			if target.Namespace != res.Entity.Namespace && !c.hasReference(target.Namespace.Name, name) && failed == nil {
				failed = errors.NewMissingBaseSchema(model.LocationOf(res.Entity, f.Property), SchemaName(target.Namespace.ProjectName, name))
			}
			return SchemaRef(SchemaName(target.Namespace.ProjectName, name))
		}),
		synth.WithItemSchema(func(f *collect.Field, item *jsonschema.Schema) *jsonschema.Schema {
			name := items[f]
			frag.NewSchemas[name] = item
			return SchemaRef(name)
		}),
	)
	return b, &failed
}

// itemNames names the item schema of every collection field under prefix,
// extending the prefix through nested groups (EdFi_School, Address, Period
// -> EdFi_SchoolAddressPeriod)
func itemNames(fields []*collect.Field, prefix string) map[*collect.Field]string {
	out := make(map[*collect.Field]string)
	var walk func(fields []*collect.Field, prefix string)
	walk = func(fields []*collect.Field, prefix string) {
		for _, f := range fields {
			name := prefix + f.Name()
			if f.Collection {
				out[f] = name
			}
			if f.Kind == collect.GroupField {
				walk(f.Children, name)
			}
		}
	}
	walk(fields, prefix)
	return out
}

func (c *Composer) hasReference(namespace, name string) bool {
	ns, ok := c.out.Namespaces[namespace]
	if !ok {
		return false
	}
	_, ok = ns.ReferenceSchemas[name]
	return ok
}

func (c *Composer) hasSchema(namespace, schemaName string) bool {
	ns, ok := c.out.Namespaces[namespace]
	if !ok || ns.ResourceFragments() == nil {
		return false
	}
	_, ok = ns.ResourceFragments().NewSchemas[schemaName]
	return ok
}

func operationID(verb, name string) string {
	return fmt.Sprintf("%s%s", verb, name)
}
