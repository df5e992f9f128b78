package pipeline

// Stage names, in the order the default pipeline runs them
const (
	StageReferenceComponents = "reference-components"
	StagePropertyCollection  = "property-collection"
	StageNamingCollisions    = "naming-collisions"
	StageIdentityEquality    = "identity-equality"
	StageSchemaSynthesis     = "schema-synthesis"
	StageDocumentPaths       = "document-paths"
	StageOpenAPIFragments    = "openapi-fragments"
)

// Stage is one step of namespace compilation. A stage reads only the
// outputs of the stages it requires.
type Stage interface {
	Name() string
	Requires() []string
	Run(st *State) error
}

// DefaultStages returns the compiler's stages in registration order
func DefaultStages() []Stage {
	return []Stage{
		componentsStage{},
		collectStage{},
		collisionStage{},
		identityStage{},
		synthStage{},
		docpathsStage{},
		openapiStage{},
	}
}
