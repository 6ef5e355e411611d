package index

// index/PayloadProcessorProvider.java

/*
Provides a ReaderPayloadProcessor to be used for a reader being
merged. Payloads of the merged segment are rewritten through it, e.g.
to drop or rescale stored weights.

Note: providers are consulted once per reader when a merge starts; a
failure aborts the merge.
*/
type PayloadProcessorProvider interface {
	// Returns a ReaderPayloadProcessor for the given reader, or nil to
	// leave its payloads untouched.
	ReaderProcessor(reader AtomicReader) (ReaderPayloadProcessor, error)
}

/*
Returns a PayloadProcessor for a given term. A ReaderPayloadProcessor
that also implements io.Closer is closed when the merge ends.
*/
type ReaderPayloadProcessor interface {
	// Returns a PayloadProcessor for the given term, or nil to leave
	// the payloads of this term untouched.
	ProcessorFor(field string, term []byte) (PayloadProcessor, error)
}

// Processes the given payload.
type PayloadProcessor interface {
	// Returns the processed payload; nil or empty drops it.
	Process(payload []byte) ([]byte, error)
}

type PayloadProcessorFunc func(payload []byte) ([]byte, error)

func (f PayloadProcessorFunc) Process(payload []byte) ([]byte, error) {
	return f(payload)
}

type PayloadProcessorProviderFunc func(reader AtomicReader) (ReaderPayloadProcessor, error)

func (f PayloadProcessorProviderFunc) ReaderProcessor(reader AtomicReader) (ReaderPayloadProcessor, error) {
	return f(reader)
}

type ReaderPayloadProcessorFunc func(field string, term []byte) (PayloadProcessor, error)

func (f ReaderPayloadProcessorFunc) ProcessorFor(field string, term []byte) (PayloadProcessor, error) {
	return f(field, term)
}
