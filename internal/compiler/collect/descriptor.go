package collect

import (
	"github.com/edfi-tools/apischema/internal/model"
)

// descriptorShape is the fixed property list of every descriptor resource
var descriptorShape = []struct {
	name     string
	doc      string
	scalar   model.Scalar
	identity bool
	required bool
}{
	{"Namespace", "A globally unique namespace that identifies this descriptor set.", model.Scalar{Kind: model.String, MaxLength: intPtr(255)}, true, true},
	{"CodeValue", "A code or abbreviation that is used to refer to the descriptor.", model.Scalar{Kind: model.String, MaxLength: intPtr(50)}, true, true},
	{"ShortDescription", "A shortened description for the descriptor.", model.Scalar{Kind: model.String, MaxLength: intPtr(75)}, false, true},
	{"Description", "The description of the descriptor.", model.Scalar{Kind: model.String, MaxLength: intPtr(1024)}, false, false},
	{"EffectiveBeginDate", "The beginning date of the period when the descriptor is in effect.", model.Scalar{Kind: model.Date}, false, false},
	{"EffectiveEndDate", "The end date of the period when the descriptor is in effect.", model.Scalar{Kind: model.Date}, false, false},
}

func intPtr(i int) *int { return &i }

// DescriptorResource builds the resource of a descriptor. Every descriptor
// shares the same shape, keyed by namespace and code value.
func DescriptorResource(e *model.Entity) *Resource {
	res := &Resource{
		Entity:     e,
		Name:       e.Name + "Descriptor",
		Descriptor: true,
	}
	for _, d := range descriptorShape {
		p := &model.Property{
			Name:          d.name,
			Documentation: d.doc,
			Required:      d.required,
			Identity:      d.identity,
			Type:          d.scalar,
			Parent:        e,
		}
		res.Fields = append(res.Fields, &Field{
			Property:   p,
			Kind:       ScalarField,
			Candidates: []Candidate{{Logical: d.name, Base: d.name}},
			Required:   d.required,
			Identity:   d.identity,
			Scalar:     d.scalar,
		})
	}
	return res
}
