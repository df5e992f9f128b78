package openapi

import (
	"github.com/invopop/jsonschema"

	"github.com/edfi-tools/apischema/internal/compiler/apischema"
	"github.com/edfi-tools/apischema/internal/compiler/collect"
	"github.com/edfi-tools/apischema/internal/compiler/refcomp"
	"github.com/edfi-tools/apischema/internal/model"
)

// collectionPathItem creates the list/query and upsert operations
func collectionPathItem(res *collect.Resource, rs *apischema.ResourceSchema, schemaName string) map[string]interface{} {
	params := []map[string]interface{}{
		queryParameter("offset", "Indicates how many items should be skipped before returning results.", countSchema(), false),
		queryParameter("limit", "Indicates the maximum number of items that should be returned in the results.", countSchema(), false),
		queryParameter("totalCount", "Indicates if the total number of items available should be returned in the 'Total-Count' header of the response.", &jsonschema.Schema{Type: "boolean"}, false),
	}
	params = append(params, QueryParameters(res, rs)...)

	return map[string]interface{}{
		"get": map[string]interface{}{
			"summary":     "Retrieves specific resources using the resource's property values (using the \"Get\" pattern).",
			"description": "This GET operation provides access to resources using the \"Get\" search pattern.",
			"operationId": operationID("get", res.Name),
			"tags":        []string{res.Endpoint()},
			"parameters":  params,
			"responses": responses(map[string]interface{}{
				"200": jsonResponse("The requested resource was successfully retrieved.", &jsonschema.Schema{
					Type:  "array",
					Items: SchemaRef(schemaName),
				}),
			}, "400", "404", "500"),
		},
		"post": map[string]interface{}{
			"summary":     "Creates or updates resources based on the natural key values of the supplied resource.",
			"description": "The POST operation can be used to create or update resources.",
			"operationId": operationID("post", res.Name),
			"tags":        []string{res.Endpoint()},
			"requestBody": requestBody(res.Name, schemaName),
			"responses": responses(map[string]interface{}{
				"200": map[string]interface{}{"description": "The resource was updated."},
				"201": map[string]interface{}{"description": "The resource was created."},
			}, "400", "409", "500"),
		},
	}
}

// itemPathItem creates the get, replace and delete by id operations
func itemPathItem(res *collect.Resource, schemaName string) map[string]interface{} {
	id := map[string]interface{}{
		"name":        "id",
		"in":          "path",
		"description": "A resource identifier that uniquely identifies the resource.",
		"required":    true,
		"schema":      &jsonschema.Schema{Type: "string"},
	}
	return map[string]interface{}{
		"get": map[string]interface{}{
			"summary":     "Retrieves a specific resource using the resource's identifier (using the \"Get By Id\" pattern).",
			"operationId": operationID("get", res.Name+"ById"),
			"tags":        []string{res.Endpoint()},
			"parameters":  []map[string]interface{}{id},
			"responses": responses(map[string]interface{}{
				"200": jsonResponse("The requested resource was successfully retrieved.", SchemaRef(schemaName)),
			}, "400", "404", "500"),
		},
		"put": map[string]interface{}{
			"summary":     "Updates a resource based on the resource identifier.",
			"operationId": operationID("put", res.Name),
			"tags":        []string{res.Endpoint()},
			"parameters":  []map[string]interface{}{id},
			"requestBody": requestBody(res.Name, schemaName),
			"responses": responses(map[string]interface{}{
				"204": map[string]interface{}{"description": "The resource was updated."},
			}, "400", "404", "409", "500"),
		},
		"delete": map[string]interface{}{
			"summary":     "Deletes an existing resource using the resource identifier.",
			"operationId": operationID("delete", res.Name+"ById"),
			"tags":        []string{res.Endpoint()},
			"parameters":  []map[string]interface{}{id},
			"responses": responses(map[string]interface{}{
				"204": map[string]interface{}{"description": "The resource was successfully deleted."},
			}, "404", "409", "500"),
		},
	}
}

// QueryParameters derives one query parameter per top-level leaf of the
// query document. Reference objects contribute their identity leaves and
// enumeration objects their value; collections and groups are skipped.
func QueryParameters(res *collect.Resource, rs *apischema.ResourceSchema) []map[string]interface{} {
	var params []map[string]interface{}
	query := rs.JSONSchemaForQuery
	if query == nil || query.Properties == nil {
		return params
	}

	seen := make(map[string]bool)
	add := func(name string, s *jsonschema.Schema, identity bool) {
		if s == nil || seen[name] {
			return
		}
		seen[name] = true
		p := queryParameter(name, s.Description, s, false)
		if identity {
			p["x-identity"] = true
		}
		params = append(params, p)
	}

	for _, f := range res.Fields {
		if f.Collection {
			continue
		}
		s, ok := query.Properties.Get(f.JSONName())
		if !ok {
			continue
		}
		switch f.Kind {
		case collect.ScalarField, collect.DescriptorField:
			add(f.JSONName(), s, f.Identity)
		case collect.EnumerationField:
			add(refcomp.ScalarJSONName(f.Base()), enumValue(s), f.Identity)
		case collect.ReferenceField:
			for _, l := range f.Leaves {
				leaf, ok := s.Properties.Get(l.JSONName())
				if !ok {
					continue
				}
				if l.Target != nil && l.Target.Kind == model.Enumeration {
					add(refcomp.ScalarJSONName(l.Name), enumValue(leaf), f.Identity)
					continue
				}
				add(l.JSONName(), leaf, f.Identity)
			}
		case collect.GroupField:
		}
	}
	return params
}

// enumValue returns the value schema inside an enumeration object
func enumValue(s *jsonschema.Schema) *jsonschema.Schema {
	if s.Properties == nil || s.Properties.Len() == 0 {
		return nil
	}
	return s.Properties.Oldest().Value
}

func queryParameter(name, description string, s *jsonschema.Schema, required bool) map[string]interface{} {
	p := map[string]interface{}{
		"name":     name,
		"in":       "query",
		"required": required,
		"schema":   s,
	}
	if description != "" {
		p["description"] = description
	}
	return p
}

func countSchema() *jsonschema.Schema {
	return &jsonschema.Schema{Type: "integer", Minimum: "0"}
}

func requestBody(resourceName, schemaName string) map[string]interface{} {
	return map[string]interface{}{
		"description": "The JSON representation of the \"" + resourceName + "\" resource to be created or updated.",
		"required":    true,
		"content": map[string]interface{}{
			"application/json": map[string]interface{}{
				"schema": SchemaRef(schemaName),
			},
		},
	}
}

func jsonResponse(description string, s *jsonschema.Schema) map[string]interface{} {
	return map[string]interface{}{
		"description": description,
		"content": map[string]interface{}{
			"application/json": map[string]interface{}{"schema": s},
		},
	}
}

// standardResponses are the shared error responses, by status code
var standardResponses = map[string]string{
	"400": "Bad Request. The request was invalid and cannot be completed.",
	"404": "The resource could not be found.",
	"409": "Conflict. The request cannot be completed because it would result in an invalid state.",
	"500": "An unhandled error occurred on the server.",
}

func responses(specific map[string]interface{}, codes ...string) map[string]interface{} {
	out := make(map[string]interface{}, len(specific)+len(codes))
	for code, r := range specific {
		out[code] = r
	}
	for _, code := range codes {
		out[code] = map[string]interface{}{"description": standardResponses[code]}
	}
	return out
}
