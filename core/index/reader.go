package index

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"sync/atomic"

	"github.com/balzaczyy/gopacked/core/index/model"
	"github.com/balzaczyy/gopacked/core/util"
)

// index/AtomicReader.java

/*
AtomicReader is an abstract interface for accessing a single segment
of an index. Search and merge code reads per-document values and
postings through it.

Document IDs are in [0, MaxDoc()). Deleted documents are reported by
LiveDocs(), which is nil when the segment has no deletions.
*/
type AtomicReader interface {
	io.Closer
	// Returns one greater than the largest possible document number.
	MaxDoc() int
	// Returns the number of live documents.
	NumDocs() int
	// Returns the Bits representing live (not deleted) docs, or nil
	// if there are no deletions.
	LiveDocs() util.Bits
	// Get the FieldInfos describing all fields in this reader.
	FieldInfos() model.FieldInfos
	// Returns NumericDocValues for this field, or nil if no
	// NumericDocValues were indexed for this field.
	NumericValues(field string) (NumericDocValues, error)
	// Returns the postings of this field in term order, or nil if the
	// field is not indexed.
	Postings(field string) (PostingsEnum, error)
}

// A per-document numeric value.
type NumericDocValues interface {
	Get(docID int) int64
}

type NumericDocValuesFunc func(docID int) int64

func (f NumericDocValuesFunc) Get(docID int) int64 {
	return f(docID)
}

// One position of a term in a document, with its optional payload.
type Position struct {
	Pos     int
	Payload []byte
}

// Occurrences of a term in one document.
type Posting struct {
	Doc  int
	Freq int
	// Empty unless the field indexes positions.
	Positions []Position
}

// A term with its postings, ordered by document.
type TermPostings struct {
	Term []byte
	Docs []Posting
}

func (tp *TermPostings) String() string {
	return fmt.Sprintf("%s(docFreq=%v)", tp.Term, len(tp.Docs))
}

// Iterates the terms of a field in byte order.
type PostingsEnum interface {
	// Returns the next term, or io.EOF when all terms were returned.
	Next() (*TermPostings, error)
}

type slicePostingsEnum struct {
	terms []*TermPostings
	upto  int
}

func (e *slicePostingsEnum) Next() (*TermPostings, error) {
	if e.upto >= len(e.terms) {
		return nil, io.EOF
	}
	e.upto++
	return e.terms[e.upto-1], nil
}

/*
MemoryReader is an AtomicReader kept entirely in RAM. Fields are
declared as values are added; deletions are recorded in LiveDocs.
*/
type MemoryReader struct {
	name     string
	maxDoc   int
	liveDocs *util.LiveDocs

	fieldInfos *model.FieldInfosBuilder
	numerics   map[string][]int64
	postings   map[string]map[string][]Posting

	closed atomic.Bool
}

func NewMemoryReader(name string, maxDoc int) *MemoryReader {
	assert2(maxDoc >= 0, "maxDoc must be >= 0 (got %v)", maxDoc)
	return &MemoryReader{
		name:       name,
		maxDoc:     maxDoc,
		fieldInfos: model.NewFieldInfosBuilder(model.NewFieldNumbers()),
		numerics:   make(map[string][]int64),
		postings:   make(map[string]map[string][]Posting),
	}
}

// Adds a numeric doc values field; values holds one value per document.
func (r *MemoryReader) AddNumericField(field string, values []int64) *MemoryReader {
	assert2(len(values) == r.maxDoc, "expected %v values for field '%v', got %v", r.maxDoc, field, len(values))
	r.fieldInfos.AddOrUpdate(field, false, false, false, 0, model.DOC_VALUES_TYPE_NUMERIC)
	r.numerics[field] = values
	return r
}

/*
Adds the postings of term in an indexed field. Postings must be sorted
by document; Freq defaults to the number of positions when it is 0.
*/
func (r *MemoryReader) AddPostings(field string, indexOptions model.IndexOptions, storePayloads bool,
	term string, postings ...Posting) *MemoryReader {
	r.fieldInfos.AddOrUpdate(field, true, false, storePayloads, indexOptions, 0)
	terms, ok := r.postings[field]
	if !ok {
		terms = make(map[string][]Posting)
		r.postings[field] = terms
	}
	for i, p := range postings {
		assert2(p.Doc >= 0 && p.Doc < r.maxDoc, "doc %v out of bounds [0,%v)", p.Doc, r.maxDoc)
		assert2(i == 0 || postings[i-1].Doc < p.Doc, "postings of term '%v' are not sorted by doc", term)
		if p.Freq == 0 {
			postings[i].Freq = len(p.Positions)
		}
		if postings[i].Freq == 0 {
			postings[i].Freq = 1
		}
	}
	terms[term] = append(terms[term], postings...)
	return r
}

// Marks the given documents as deleted.
func (r *MemoryReader) Delete(docs ...int) *MemoryReader {
	if r.liveDocs == nil {
		r.liveDocs = util.NewLiveDocs(r.maxDoc)
	}
	for _, doc := range docs {
		r.liveDocs.Clear(doc)
	}
	return r
}

func (r *MemoryReader) MaxDoc() int {
	return r.maxDoc
}

func (r *MemoryReader) NumDocs() int {
	if r.liveDocs == nil {
		return r.maxDoc
	}
	return r.maxDoc - r.liveDocs.DeletedCount()
}

func (r *MemoryReader) LiveDocs() util.Bits {
	if r.liveDocs == nil {
		return nil
	}
	return r.liveDocs
}

func (r *MemoryReader) FieldInfos() model.FieldInfos {
	return r.fieldInfos.Finish()
}

func (r *MemoryReader) NumericValues(field string) (NumericDocValues, error) {
	if err := r.ensureOpen(); err != nil {
		return nil, err
	}
	values, ok := r.numerics[field]
	if !ok {
		return nil, nil
	}
	return NumericDocValuesFunc(func(docID int) int64 { return values[docID] }), nil
}

func (r *MemoryReader) Postings(field string) (PostingsEnum, error) {
	if err := r.ensureOpen(); err != nil {
		return nil, err
	}
	terms, ok := r.postings[field]
	if !ok {
		return nil, nil
	}
	ans := make([]*TermPostings, 0, len(terms))
	for term, docs := range terms {
		ans = append(ans, &TermPostings{Term: []byte(term), Docs: docs})
	}
	sort.Slice(ans, func(i, j int) bool { return bytes.Compare(ans[i].Term, ans[j].Term) < 0 })
	return &slicePostingsEnum{terms: ans}, nil
}

func (r *MemoryReader) ensureOpen() error {
	if r.closed.Load() {
		return fmt.Errorf("%v: %w", r, ErrReaderClosed)
	}
	return nil
}

func (r *MemoryReader) Close() error {
	r.closed.Store(true)
	return nil
}

// Reports whether Close() was called.
func (r *MemoryReader) IsClosed() bool {
	return r.closed.Load()
}

func (r *MemoryReader) String() string {
	return fmt.Sprintf("MemoryReader(%v, maxDoc=%v, numDocs=%v)", r.name, r.maxDoc, r.NumDocs())
}
