package models

// LinkReference is a hyperlink found in a document. It is never mutated after extraction.
type LinkReference struct {
	URL        string `json:"url" yaml:"url"`
	Title      string `json:"title" yaml:"title"`
	SourcePath string `json:"path" yaml:"path"`
}

// QueuedLink carries a reference together with its discovery position so that
// verdicts produced out of order can be put back in discovery order.
type QueuedLink struct {
	Seq  int
	Link LinkReference
}
