package model

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/edfi-tools/apischema/internal/compiler/errors"
)

// The YAML rendering of a resolved model. Property types are scalar kind
// names or one of the reference/composition keywords below.
type modelDoc struct {
	Namespaces []namespaceDoc `yaml:"namespaces"`
}

type namespaceDoc struct {
	Name            string      `yaml:"name"`
	ProjectName     string      `yaml:"projectName"`
	ProjectEndpoint string      `yaml:"projectEndpoint"`
	ProjectVersion  string      `yaml:"projectVersion"`
	Description     string      `yaml:"description"`
	Dependencies    []string    `yaml:"dependencies"`
	Entities        []entityDoc `yaml:"entities"`
}

type entityDoc struct {
	Kind          string        `yaml:"kind"`
	Name          string        `yaml:"name"`
	Documentation string        `yaml:"documentation"`
	Abstract      bool          `yaml:"abstract"`
	Base          string        `yaml:"base"`
	Items         []string      `yaml:"items"`
	IntegerValued bool          `yaml:"integerValued"`
	Properties    []propertyDoc `yaml:"properties"`
}

type propertyDoc struct {
	Name            string     `yaml:"name"`
	Type            string     `yaml:"type"`
	Target          string     `yaml:"target"`
	Role            string     `yaml:"role"`
	Documentation   string     `yaml:"documentation"`
	Required        bool       `yaml:"required"`
	Collection      bool       `yaml:"collection"`
	Identity        bool       `yaml:"identity"`
	RenamesIdentity string     `yaml:"renamesIdentity"`
	MinLength       *int       `yaml:"minLength"`
	MaxLength       *int       `yaml:"maxLength"`
	MinValue        string     `yaml:"minValue"`
	MaxValue        string     `yaml:"maxValue"`
	TotalDigits     *int       `yaml:"totalDigits"`
	DecimalPlaces   *int       `yaml:"decimalPlaces"`
	Merges          []mergeDoc `yaml:"merges"`
}

type mergeDoc struct {
	Source string `yaml:"source"`
	Target string `yaml:"target"`
}

// DecodeYAML decodes the namespaces of one YAML model document without
// linking them
func DecodeYAML(r io.Reader) ([]*Namespace, error) {
	var doc modelDoc
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && err != io.EOF {
		return nil, errors.NewInvalidModel(errors.Location{}, err.Error())
	}

	var errs errors.ErrorList
	namespaces := make([]*Namespace, 0, len(doc.Namespaces))
	for _, nd := range doc.Namespaces {
		ns := &Namespace{
			Name:            nd.Name,
			ProjectName:     nd.ProjectName,
			ProjectEndpoint: nd.ProjectEndpoint,
			ProjectVersion:  nd.ProjectVersion,
			Description:     nd.Description,
			Dependencies:    nd.Dependencies,
		}
		for _, ed := range nd.Entities {
			e := &Entity{
				Kind:             EntityKind(ed.Kind),
				Name:             ed.Name,
				Documentation:    ed.Documentation,
				Abstract:         ed.Abstract,
				EnumerationItems: ed.Items,
				IntegerValued:    ed.IntegerValued,
			}
			if ed.Base != "" {
				base := ParseRef(ed.Base)
				e.Base = &base
			}
			for _, pd := range ed.Properties {
				p, err := pd.toProperty()
				if err != nil {
					errs = errs.Append(errors.NewInvalidModel(
						errors.Location{Namespace: nd.Name, Entity: ed.Name, Property: pd.Name}, err.Error()))
					continue
				}
				e.Properties = append(e.Properties, p)
			}
			ns.Entities = append(ns.Entities, e)
		}
		namespaces = append(namespaces, ns)
	}

	if err := errs.Err(); err != nil {
		return nil, err
	}
	return namespaces, nil
}

func (pd propertyDoc) toProperty() (*Property, error) {
	p := &Property{
		Name:            pd.Name,
		Documentation:   pd.Documentation,
		RoleName:        pd.Role,
		Required:        pd.Required,
		Collection:      pd.Collection,
		Identity:        pd.Identity,
		RenamesIdentity: pd.RenamesIdentity,
	}
	for _, md := range pd.Merges {
		p.Merges = append(p.Merges, ParseMerge(md.Source, md.Target))
	}

	target := pd.Target
	if target == "" {
		target = pd.Name
	}
	ref := ParseRef(target)

	switch pd.Type {
	case "descriptor":
		p.Type = DescriptorRef{Target: ref}
	case "enumeration":
		p.Type = EnumerationRef{Target: ref}
	case "reference":
		p.Type = EntityRef{Target: ref}
	case "common":
		p.Type = Composition{Target: ref, Kind: CommonComposition}
	case "choice":
		p.Type = Composition{Target: ref, Kind: ChoiceComposition}
	case "inline":
		p.Type = Composition{Target: ref, Kind: InlineComposition}
	default:
		kind := ScalarKind(pd.Type)
		if !scalarKinds[kind] {
			return nil, fmt.Errorf("unknown property type %q", pd.Type)
		}
		p.Type = Scalar{
			Kind:          kind,
			MinLength:     pd.MinLength,
			MaxLength:     pd.MaxLength,
			MinValue:      pd.MinValue,
			MaxValue:      pd.MaxValue,
			TotalDigits:   pd.TotalDigits,
			DecimalPlaces: pd.DecimalPlaces,
		}
	}
	if target == "" {
		if _, ok := p.Type.(Scalar); !ok {
			return nil, fmt.Errorf("property type %q needs a name or target", pd.Type)
		}
	}
	return p, nil
}

// LoadYAML decodes and builds a model from a single YAML document
func LoadYAML(data []byte) (*Model, error) {
	namespaces, err := DecodeYAML(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return Build(namespaces...)
}

// LoadFiles decodes every file and builds one model from all their namespaces
func LoadFiles(paths ...string) (*Model, error) {
	var all []*Namespace
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open model file: %w", err)
		}
		namespaces, err := DecodeYAML(f)
		f.Close()
		if err != nil {
			return nil, withFile(err, path)
		}
		all = append(all, namespaces...)
	}
	return Build(all...)
}

func withFile(err error, path string) error {
	list := errors.ErrorList{}.Append(err)
	for _, e := range list {
		e.WithFile(path)
	}
	return list
}
