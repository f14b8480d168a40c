package models

// SourceArticle is one piece of input material for a generation run
type SourceArticle struct {
	Title   string `json:"title" bson:"title"`
	URL     string `json:"url,omitempty" bson:"url,omitempty"`
	Summary string `json:"summary,omitempty" bson:"summary,omitempty"`
	Source  string `json:"source,omitempty" bson:"source,omitempty"`
}

// ContentSection is a single heading + body block of a newsletter
type ContentSection struct {
	Heading string `json:"heading" bson:"heading"`
	Body    string `json:"body" bson:"body"`
}

// GeneratedContent is the structured newsletter body produced by the
// generation step or edited by a user. It is never raw unstructured text.
type GeneratedContent struct {
	Title    string           `json:"title" bson:"title"`
	Sections []ContentSection `json:"sections" bson:"sections"`
}

// IsEmpty reports whether the content carries nothing worth sending
func (c *GeneratedContent) IsEmpty() bool {
	return c == nil || (c.Title == "" && len(c.Sections) == 0)
}
