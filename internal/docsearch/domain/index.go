package domain

// Field boosts. Filename matches weigh more than body matches.
const (
	ContentBoost  = 1.0
	FilenameBoost = 2.0
)

// Index ranks the documents of one corpus against keyword queries.
type Index interface {
	// Search returns up to limit matching documents, best first. A query
	// with no searchable terms matches nothing.
	Search(query string, limit int) ([]Document, error)
	Len() int
}

// IndexBuilder indexes the documents of a loaded corpus.
type IndexBuilder interface {
	Build(docs []Document) (Index, error)
}
