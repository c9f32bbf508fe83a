package ingest

//go:generate mockgen -source=extractor.go -destination=extractor_mock.go -package=ingest

// TextExtractor returns the text of a document. extract.PDF is the
// production implementation.
type TextExtractor interface {
	Text(data []byte) (string, error)
}
