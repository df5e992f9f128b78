// Package collision gives every field of a resource a distinct JSON name.
//
// At each object level, fields serializing to the same name are ranked by
// specificity. All but the least specific switch to their next naming
// candidate, repeating until the level is collision free. A collision that
// no field can move out of is an error; nothing is silently dropped.
//
// The document id and _ext names are reserved at the top level: a field
// serializing to either must move to another candidate.
package collision

import (
	"github.com/edfi-tools/apischema/internal/compiler/apischema"
	"github.com/edfi-tools/apischema/internal/compiler/collect"
	"github.com/edfi-tools/apischema/internal/compiler/errors"
	"github.com/edfi-tools/apischema/internal/model"
)

// reserved are the top-level names every resource document defines itself
var reserved = map[string]bool{
	apischema.IDProperty:  true,
	apischema.ExtProperty: true,
}

// Resolve renames colliding fields of res in place
func Resolve(res *collect.Resource) error {
	return resolveLevel(res.Entity, res.Fields, reserved).Err()
}

func resolveLevel(owner *model.Entity, fields []*collect.Field, taken map[string]bool) errors.ErrorList {
	var errs errors.ErrorList

	for {
		order, groups := byJSONName(fields)
		collided, progressed := false, false

		for _, f := range fields {
			if taken[f.JSONName()] {
				collided = true
				if f.Advance() {
					progressed = true
				}
			}
		}
		if progressed {
			continue
		}

		for _, name := range order {
			group := groups[name]
			if len(group) < 2 {
				continue
			}
			collided = true
			least := leastSpecific(group)
			for _, f := range group {
				if f != least && f.Advance() {
					progressed = true
				}
			}
		}

		if !collided {
			break
		}
		if !progressed {
			for _, f := range fields {
				if name := f.JSONName(); taken[name] {
					errs = errs.Append(errors.NewReservedName(model.LocationOf(owner, f.Property), name, f.String()))
				}
			}
			order, groups = byJSONName(fields)
			for _, name := range order {
				if group := groups[name]; len(group) > 1 {
					errs = errs.Append(errors.NewNameCollision(
						model.LocationOf(owner, group[1].Property),
						name, group[0].String(), group[1].String(),
					))
				}
			}
			return errs
		}
	}

	for _, f := range fields {
		if f.Kind == collect.GroupField {
			errs = append(errs, resolveLevel(owner, f.Children, nil)...)
		}
	}
	return errs
}

// byJSONName groups fields by their current JSON name in first-seen order
func byJSONName(fields []*collect.Field) ([]string, map[string][]*collect.Field) {
	var order []string
	groups := make(map[string][]*collect.Field)
	for _, f := range fields {
		name := f.JSONName()
		if _, ok := groups[name]; !ok {
			order = append(order, name)
		}
		groups[name] = append(groups[name], f)
	}
	return order, groups
}

// leastSpecific returns the unique least specific field, or nil on a tie
func leastSpecific(group []*collect.Field) *collect.Field {
	var least *collect.Field
	tie := false
	for _, f := range group {
		switch {
		case least == nil || f.Specificity() < least.Specificity():
			least, tie = f, false
		case f.Specificity() == least.Specificity():
			tie = true
		}
	}
	if tie {
		return nil
	}
	return least
}
