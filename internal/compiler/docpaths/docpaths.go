// Package docpaths maps every logical property of a resource to the JSON
// paths it occupies in the resource document.
package docpaths

import (
	"github.com/edfi-tools/apischema/internal/compiler/apischema"
	"github.com/edfi-tools/apischema/internal/compiler/collect"
	"github.com/edfi-tools/apischema/internal/compiler/refcomp"
)

// Map builds the document paths mapping of res and its keys in declaration
// order. Keys are dotted logical chains; group members are keyed under
// their group (Address.City).
func Map(res *collect.Resource) (map[string]*apischema.DocumentPaths, []string) {
	m := &mapper{out: make(map[string]*apischema.DocumentPaths)}
	m.fields(res.Fields, nil, "$")
	return m.out, m.order
}

type mapper struct {
	out   map[string]*apischema.DocumentPaths
	order []string
}

func (m *mapper) put(chain []string, dp *apischema.DocumentPaths) {
	key := collect.ChainKey(chain)
	if _, exists := m.out[key]; !exists {
		m.order = append(m.order, key)
	}
	m.out[key] = dp
}

func (m *mapper) fields(fields []*collect.Field, chain []string, parent string) {
	for _, f := range fields {
		c := append(append(make([]string, 0, len(chain)+1), chain...), f.Name())
		path := collect.FieldPath(parent, f)

		switch f.Kind {
		case collect.GroupField:
			m.fields(f.Children, c, path)
		case collect.ScalarField:
			m.put(c, single(f.ItemJSONName(), path))
		case collect.DescriptorField:
			dp := single(f.ItemJSONName(), path)
			dp.IsDescriptor = true
			dp.ProjectName = f.Target.Namespace.ProjectName
			dp.ResourceName = f.Target.Name + "Descriptor"
			m.put(c, dp)
		case collect.EnumerationField:
			m.put(c, single(f.ItemJSONName(), path+"."+refcomp.EnumerationValueName(f.Target)))
		case collect.ReferenceField:
			m.put(c, reference(f, path))
		default:
			panic("docpaths: unhandled field kind " + f.Kind.String())
		}
	}
}

func single(name, path string) *apischema.DocumentPaths {
	return &apischema.DocumentPaths{
		PathOrder: []string{name},
		Paths:     map[string]string{name: path},
	}
}

// reference maps one path per identity leaf of the referenced resource and
// pairs each with the leaf's path in that resource's own document
func reference(f *collect.Field, path string) *apischema.DocumentPaths {
	dp := &apischema.DocumentPaths{
		IsReference:  true,
		ProjectName:  f.Target.Namespace.ProjectName,
		ResourceName: f.Target.Name,
		PathOrder:    []string{},
		Paths:        make(map[string]string, len(f.Leaves)),
	}
	for _, l := range f.Leaves {
		name := l.JSONName()
		refPath := path + "." + l.ObjectPath()
		dp.PathOrder = append(dp.PathOrder, name)
		dp.Paths[name] = refPath
		dp.ReferenceJSONPaths = append(dp.ReferenceJSONPaths, apischema.ReferenceJSONPath{
			IdentityJSONPath:  "$." + l.DocumentPath,
			ReferenceJSONPath: refPath,
		})
	}
	return dp
}
