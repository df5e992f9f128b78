package refcomp

import (
	"strings"

	"github.com/edfi-tools/apischema/internal/model"
)

// Component is one resolved property: a scalar, descriptor, enumeration or
// reference leaf, or a common/choice group with resolved children. Inline
// commons never appear as components; their members are spliced into the
// enclosing list with the inline role name added to Prefix.
type Component struct {
	Property *model.Property
	Prefix   []string
	Identity bool
	Required bool
	Target   *model.Entity
	Children []*Component
}

// Candidates returns the logical names the component may be published
// under, preferred first: the role-elided name, then the fully prefixed one
// when it differs.
func (c *Component) Candidates() []string {
	p := c.Property
	elided := FoldRoles(c.Prefix, p.FullName())
	full := strings.Join(c.Prefix, "") + p.RoleName + p.Name
	if full == elided {
		return []string{elided}
	}
	return []string{elided, full}
}

// Name returns the preferred logical name
func (c *Component) Name() string {
	return c.Candidates()[0]
}

// IsGroup reports whether the component nests its children in an object
func (c *Component) IsGroup() bool {
	comp, ok := c.Property.Type.(model.Composition)
	return ok && comp.Kind != model.InlineComposition
}

// splice returns a copy of c as seen through the inline property
func (c *Component) splice(inline *model.Property) *Component {
	clone := *c
	if inline.RoleName != "" {
		clone.Prefix = append([]string{inline.RoleName}, c.Prefix...)
	}
	clone.Identity = c.Identity || inline.Identity
	clone.Required = (c.Required && inline.Required) || clone.Identity
	return &clone
}
