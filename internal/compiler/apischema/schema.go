// Package apischema defines the compiler's terminal output: per-namespace
// resource schemas and OpenAPI fragments, serialized as JSON.
package apischema

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// Property names every resource document defines itself
const (
	// IDProperty is the server-assigned resource identifier
	IDProperty = "id"
	// ExtProperty holds properties added by extension namespaces
	ExtProperty = "_ext"
)

// ApiSchema is the compiled output of every namespace of a model
type ApiSchema struct {
	Namespaces map[string]*NamespaceSchema `json:"namespaces"`
	// NamespaceOrder lists namespaces in dependency order
	NamespaceOrder []string `json:"namespaceOrder"`
}

// New creates an empty ApiSchema
func New() *ApiSchema {
	return &ApiSchema{Namespaces: make(map[string]*NamespaceSchema)}
}

// Add records a compiled namespace
func (a *ApiSchema) Add(ns *NamespaceSchema) {
	if _, exists := a.Namespaces[ns.Name]; !exists {
		a.NamespaceOrder = append(a.NamespaceOrder, ns.Name)
	}
	a.Namespaces[ns.Name] = ns
}

// NamespaceSchema is the compiled output of one namespace
type NamespaceSchema struct {
	Name                string `json:"-"`
	ProjectName         string `json:"projectName"`
	ProjectVersion      string `json:"projectVersion"`
	ProjectEndpointName string `json:"projectEndpointName"`
	Description         string `json:"description,omitempty"`
	IsExtensionProject  bool   `json:"isExtensionProject"`

	// ResourceSchemas is keyed by resource endpoint name
	ResourceSchemas map[string]*ResourceSchema `json:"resourceSchemas"`
	// ResourceNameMapping maps resource names to endpoint names
	ResourceNameMapping map[string]string `json:"resourceNameMapping"`
	// ReferenceSchemas holds <Name>_Reference schemas of every referencable entity
	ReferenceSchemas map[string]*jsonschema.Schema `json:"referenceSchemas"`

	OpenAPICoreResources                *OpenAPIFragments `json:"openApiCoreResources,omitempty"`
	OpenAPICoreDescriptors              *OpenAPIFragments `json:"openApiCoreDescriptors,omitempty"`
	OpenAPIExtensionResourceFragments   *OpenAPIFragments `json:"openApiExtensionResourceFragments,omitempty"`
	OpenAPIExtensionDescriptorFragments *OpenAPIFragments `json:"openApiExtensionDescriptorFragments,omitempty"`
}

// NewNamespaceSchema creates an empty namespace output
func NewNamespaceSchema(name string) *NamespaceSchema {
	return &NamespaceSchema{
		Name:                name,
		ResourceSchemas:     make(map[string]*ResourceSchema),
		ResourceNameMapping: make(map[string]string),
		ReferenceSchemas:    make(map[string]*jsonschema.Schema),
	}
}

// InitFragments creates the empty fragment sets of the namespace: extension
// fragments for extension projects, core fragments otherwise
func (ns *NamespaceSchema) InitFragments() {
	if ns.IsExtensionProject {
		ns.OpenAPIExtensionResourceFragments = NewOpenAPIFragments()
		ns.OpenAPIExtensionDescriptorFragments = NewOpenAPIFragments()
		return
	}
	ns.OpenAPICoreResources = NewOpenAPIFragments()
	ns.OpenAPICoreDescriptors = NewOpenAPIFragments()
}

// ResourceFragments returns the resource fragments of the namespace,
// core or extension
func (ns *NamespaceSchema) ResourceFragments() *OpenAPIFragments {
	if ns.IsExtensionProject {
		return ns.OpenAPIExtensionResourceFragments
	}
	return ns.OpenAPICoreResources
}

// DescriptorFragments returns the descriptor fragments of the namespace
func (ns *NamespaceSchema) DescriptorFragments() *OpenAPIFragments {
	if ns.IsExtensionProject {
		return ns.OpenAPIExtensionDescriptorFragments
	}
	return ns.OpenAPICoreDescriptors
}

// Resource returns the resource schema with the given resource name
func (ns *NamespaceSchema) Resource(resourceName string) *ResourceSchema {
	if endpoint, ok := ns.ResourceNameMapping[resourceName]; ok {
		return ns.ResourceSchemas[endpoint]
	}
	return nil
}

// ResourceSchema is the derived metadata and schemas of one resource
type ResourceSchema struct {
	ResourceName string `json:"resourceName"`
	IsDescriptor bool   `json:"isDescriptor"`
	IsSubclass   bool   `json:"isSubclass"`

	SubclassType                  string `json:"subclassType,omitempty"`
	SuperclassProjectName         string `json:"superclassProjectName,omitempty"`
	SuperclassResourceName        string `json:"superclassResourceName,omitempty"`
	SuperclassIdentityDocumentKey string `json:"superclassIdentityDocumentKey,omitempty"`
	SubclassIdentityDocumentKey   string `json:"subclassIdentityDocumentKey,omitempty"`

	IdentityFullnames    []string                  `json:"identityFullnames"`
	EqualityConstraints  []EqualityConstraint      `json:"equalityConstraints"`
	DocumentPathsMapping map[string]*DocumentPaths `json:"documentPathsMapping"`
	// DocumentPathsOrder lists the keys of DocumentPathsMapping in
	// declaration order
	DocumentPathsOrder []string `json:"-"`

	JSONSchemaForInsert *jsonschema.Schema `json:"jsonSchemaForInsert"`
	JSONSchemaForUpdate *jsonschema.Schema `json:"jsonSchemaForUpdate"`
	JSONSchemaForQuery  *jsonschema.Schema `json:"jsonSchemaForQuery"`
}

// NewResourceSchema creates a resource schema with empty derived fields
func NewResourceSchema(resourceName string) *ResourceSchema {
	return &ResourceSchema{
		ResourceName:         resourceName,
		IdentityFullnames:    []string{},
		EqualityConstraints:  []EqualityConstraint{},
		DocumentPathsMapping: make(map[string]*DocumentPaths),
	}
}

// EqualityConstraint requires two document paths to hold equal values
type EqualityConstraint struct {
	SourceJSONPath string `json:"sourceJsonPath"`
	TargetJSONPath string `json:"targetJsonPath"`
}

// DocumentPaths locates one logical property in a resource document
type DocumentPaths struct {
	IsReference  bool   `json:"isReference"`
	IsDescriptor bool   `json:"isDescriptor"`
	ProjectName  string `json:"projectName,omitempty"`
	ResourceName string `json:"resourceName,omitempty"`
	// PathOrder lists the keys of Paths in declaration order
	PathOrder []string          `json:"pathOrder"`
	Paths     map[string]string `json:"paths"`
	// ReferenceJSONPaths pairs each reference path with the path of the
	// same identity value in the referenced document
	ReferenceJSONPaths []ReferenceJSONPath `json:"referenceJsonPaths,omitempty"`
}

// ReferenceJSONPath pairs a reference value with its identity path
type ReferenceJSONPath struct {
	IdentityJSONPath  string `json:"identityJsonPath"`
	ReferenceJSONPath string `json:"referenceJsonPath"`
}

// OpenAPIFragments are the OpenAPI pieces a namespace contributes
type OpenAPIFragments struct {
	NewPaths   map[string]interface{}        `json:"newPaths"`
	NewSchemas map[string]*jsonschema.Schema `json:"newSchemas"`
	// Exts is keyed by the base schema name being extended
	Exts    map[string]*jsonschema.Schema `json:"exts"`
	NewTags []Tag                         `json:"newTags"`
}

// NewOpenAPIFragments creates empty fragments
func NewOpenAPIFragments() *OpenAPIFragments {
	return &OpenAPIFragments{
		NewPaths:   make(map[string]interface{}),
		NewSchemas: make(map[string]*jsonschema.Schema),
		Exts:       make(map[string]*jsonschema.Schema),
		NewTags:    []Tag{},
	}
}

// Tag is an OpenAPI tag
type Tag struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// ToJSON converts the output to a JSON string
func (a *ApiSchema) ToJSON() (string, error) {
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ToJSON converts one namespace output to a JSON string
func (ns *NamespaceSchema) ToJSON() (string, error) {
	data, err := json.MarshalIndent(ns, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
