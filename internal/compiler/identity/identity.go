// Package identity derives the natural key metadata of a resource: its
// identity full names, the equality constraints implied by merge
// directives, and the document keys linking a subclass to its superclass.
package identity

import (
	"strings"

	"github.com/edfi-tools/apischema/internal/compiler/apischema"
	"github.com/edfi-tools/apischema/internal/compiler/collect"
	"github.com/edfi-tools/apischema/internal/compiler/errors"
	"github.com/edfi-tools/apischema/internal/compiler/refcomp"
	"github.com/edfi-tools/apischema/internal/model"
)

// Subclass types recorded on subclass resources
const (
	SubclassDomainEntity = "domainEntity"
	SubclassAssociation  = "association"
)

// Derive fills the identity, equality and subclass fields of rs from res.
// Field names must be final, so collisions are resolved first.
func Derive(res *collect.Resource, rs *apischema.ResourceSchema) error {
	rs.IdentityFullnames = FullNames(res)

	constraints, err := EqualityConstraints(res)
	if err != nil {
		return err
	}
	rs.EqualityConstraints = constraints

	linkSubclass(res, rs)
	return nil
}

// FullNames returns the logical names of the top-level identity fields in
// document order
func FullNames(res *collect.Resource) []string {
	names := []string{}
	for _, f := range res.IdentityFields() {
		names = append(names, f.Name())
	}
	return names
}

// EqualityConstraints resolves the merge directives of the top-level fields
// of res into pairs of document paths that must hold equal values
func EqualityConstraints(res *collect.Resource) ([]apischema.EqualityConstraint, error) {
	out := []apischema.EqualityConstraint{}
	seen := make(map[apischema.EqualityConstraint]bool)

	var leaves []*collect.DocLeaf
	for _, f := range res.Fields {
		if len(f.Property.Merges) == 0 {
			continue
		}
		if leaves == nil {
			leaves = res.Leaves()
		}

		loc := model.LocationOf(res.Entity, f.Property)
		for _, md := range f.Property.Merges {
			src, tgt := matchLeaves(leaves, md)
			if len(src) == 0 {
				return nil, errors.NewUnresolvableMerge(loc, strings.Join(md.Source, "."))
			}
			if len(tgt) == 0 {
				return nil, errors.NewUnresolvableMerge(loc, strings.Join(md.Target, "."))
			}

			pairs, ok := refcomp.PairLeaves(src, tgt, func(l *collect.DocLeaf) *model.Property { return l.Property })
			if !ok {
				return nil, errors.NewMergeArity(loc, strings.Join(md.Source, "."), strings.Join(md.Target, "."), len(src), len(tgt))
			}
			for _, pair := range pairs {
				c := apischema.EqualityConstraint{
					SourceJSONPath: pair[0].Path,
					TargetJSONPath: pair[1].Path,
				}
				if !seen[c] {
					seen[c] = true
					out = append(out, c)
				}
			}
		}
	}
	return out, nil
}

// matchLeaves splits the document leaves addressed by a merge directive.
// A leaf matching both sides belongs to the source.
func matchLeaves(leaves []*collect.DocLeaf, md model.MergeDirective) (src, tgt []*collect.DocLeaf) {
	for _, l := range leaves {
		switch {
		case l.Matches(md.Source):
			src = append(src, l)
		case l.Matches(md.Target):
			tgt = append(tgt, l)
		}
	}
	return src, tgt
}

func linkSubclass(res *collect.Resource, rs *apischema.ResourceSchema) {
	rs.IsSubclass = res.IsSubclass()
	if !rs.IsSubclass {
		return
	}

	rs.SubclassType = SubclassDomainEntity
	if res.Entity.Kind.IsAssociation() {
		rs.SubclassType = SubclassAssociation
	}
	rs.SuperclassProjectName = res.Superclass.Namespace.ProjectName
	rs.SuperclassResourceName = res.Superclass.Name

	if r := res.IdentityRename; r != nil {
		rs.SuperclassIdentityDocumentKey = r.Old.JSONName()
		rs.SubclassIdentityDocumentKey = r.New.JSONName()
		return
	}
	if ids := res.IdentityFields(); len(ids) == 1 {
		rs.SuperclassIdentityDocumentKey = ids[0].JSONName()
		rs.SubclassIdentityDocumentKey = ids[0].JSONName()
	}
}
