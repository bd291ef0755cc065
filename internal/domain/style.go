package domain

// StyleDescriptor is one named photographic direction. Descriptors are loaded
// once at startup and never mutated.
type StyleDescriptor struct {
	ID             string
	Name           string
	Description    string
	PromptTemplate string
	PreviewURL     string
}
