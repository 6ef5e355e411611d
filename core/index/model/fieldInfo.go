package model

import (
	"fmt"
)

// index/FieldInfo.java

/*
Access to the Field Info file that describes document fields and
whether or not they are indexed. Each segment has a separate
FieldInfo file. Objects of this class are thread-safe for multiple
readers, but only one thread can be adding documents at a time, with
no other reader or writer threads accessing this object.
*/
type FieldInfo struct {
	// Field's name
	Name string
	// Internal field number
	Number int32

	indexed      bool
	docValueType DocValuesType

	omitNorms     bool // omit norms associated with indexed fields
	indexOptions  IndexOptions
	storePayloads bool // whether this field stores payloads together with term positions

	*AttributesMixin
}

func NewFieldInfo(name string, indexed bool, number int32, omitNorms, storePayloads bool,
	indexOptions IndexOptions, docValues DocValuesType, attributes map[string]string) *FieldInfo {
	fi := &FieldInfo{Name: name, indexed: indexed, Number: number, docValueType: docValues}
	if attributes == nil {
		attributes = make(map[string]string)
	}
	fi.AttributesMixin = &AttributesMixin{attributes}
	if indexed {
		fi.storePayloads = storePayloads
		fi.omitNorms = omitNorms
		fi.indexOptions = indexOptions
	} // for non-indexed fields, leave defaults
	assert(fi.checkConsistency())
	return fi
}

func (info *FieldInfo) checkConsistency() bool {
	if !info.indexed {
		assert2(!info.storePayloads, "non-indexed field '%v' cannot store payloads", info.Name)
		assert2(!info.omitNorms, "non-indexed field '%v' cannot omit norms", info.Name)
		assert2(info.indexOptions == 0, "non-indexed field '%v' cannot have index options", info.Name)
	} else {
		assert2(info.indexOptions != 0, "indexed field '%v' must have index options", info.Name)
		assert2(info.indexOptions >= INDEX_OPT_DOCS_AND_FREQS_AND_POSITIONS || !info.storePayloads,
			"indexed field '%v' cannot have payloads without positions", info.Name)
	}
	return true
}

func (info *FieldInfo) update(indexed, omitNorms, storePayloads bool, indexOptions IndexOptions) {
	if info.indexed != indexed {
		info.indexed = true // once indexed, always index
	}
	if indexed { // if updated field data is not for indexing, leave the updates out
		if info.omitNorms != omitNorms {
			info.omitNorms = true // if one require omitNorms at least once, it remains off for life
		}
		if info.indexOptions == 0 || (indexOptions != 0 && indexOptions < info.indexOptions) {
			// downgrade
			info.indexOptions = indexOptions
		}
		if info.indexOptions >= INDEX_OPT_DOCS_AND_FREQS_AND_POSITIONS {
			// cannot store payloads if we don't store positions:
			info.storePayloads = info.storePayloads || storePayloads
		} else {
			info.storePayloads = false
		}
	}
	assert(info.checkConsistency())
}

func (info *FieldInfo) setDocValuesType(v DocValuesType) {
	assert2(info.docValueType == 0 || info.docValueType == v,
		"cannot change DocValues type from %v to %v for field '%v'", info.docValueType, v, info.Name)
	info.docValueType = v
}

/* Returns IndexOptions for the field, or 0 if the field is not indexed */
func (info *FieldInfo) IndexOptions() IndexOptions { return info.indexOptions }

/* Returns true if this field has any docValues. */
func (info *FieldInfo) HasDocValues() bool {
	return info.docValueType != 0
}

/* Returns DocValuesType of the docValues. This may be 0 if the field has no docvalues. */
func (info *FieldInfo) DocValuesType() DocValuesType { return info.docValueType }

/* Returns true if norms are explicitly omitted for this field */
func (info *FieldInfo) OmitsNorms() bool { return info.omitNorms }

/* Returns true if this field is indexed. */
func (info *FieldInfo) IsIndexed() bool { return info.indexed }

/* Returns true if any payloads exist for this field. */
func (info *FieldInfo) HasPayloads() bool { return info.storePayloads }

func (info *FieldInfo) String() string {
	return fmt.Sprintf("%v-%v, isIndexed=%v, docValueType=%v, omitNorms=%v, indexOptions=%v, hasPayloads=%v, attributes=%v",
		info.Number, info.Name, info.indexed, info.docValueType, info.omitNorms, info.indexOptions, info.storePayloads, info.attributes)
}

type Int32Slice []int32

func (p Int32Slice) Len() int           { return len(p) }
func (p Int32Slice) Less(i, j int) bool { return p[i] < p[j] }
func (p Int32Slice) Swap(i, j int)      { p[i], p[j] = p[j], p[i] }

// index/FieldInfo.java#IndexOptions

type IndexOptions int

const (
	INDEX_OPT_DOCS_ONLY                                = IndexOptions(1)
	INDEX_OPT_DOCS_AND_FREQS                           = IndexOptions(2)
	INDEX_OPT_DOCS_AND_FREQS_AND_POSITIONS             = IndexOptions(3)
	INDEX_OPT_DOCS_AND_FREQS_AND_POSITIONS_AND_OFFSETS = IndexOptions(4)
)

func (opt IndexOptions) String() string {
	switch opt {
	case 0:
		return "NONE"
	case INDEX_OPT_DOCS_ONLY:
		return "DOCS_ONLY"
	case INDEX_OPT_DOCS_AND_FREQS:
		return "DOCS_AND_FREQS"
	case INDEX_OPT_DOCS_AND_FREQS_AND_POSITIONS:
		return "DOCS_AND_FREQS_AND_POSITIONS"
	case INDEX_OPT_DOCS_AND_FREQS_AND_POSITIONS_AND_OFFSETS:
		return "DOCS_AND_FREQS_AND_POSITIONS_AND_OFFSETS"
	}
	return fmt.Sprintf("IndexOptions(%d)", int(opt))
}

type DocValuesType int

const (
	DOC_VALUES_TYPE_NUMERIC    = DocValuesType(1)
	DOC_VALUES_TYPE_BINARY     = DocValuesType(2)
	DOC_VALUES_TYPE_SORTED     = DocValuesType(3)
	DOC_VALUES_TYPE_SORTED_SET = DocValuesType(4)
)

func (t DocValuesType) String() string {
	switch t {
	case 0:
		return "NONE"
	case DOC_VALUES_TYPE_NUMERIC:
		return "NUMERIC"
	case DOC_VALUES_TYPE_BINARY:
		return "BINARY"
	case DOC_VALUES_TYPE_SORTED:
		return "SORTED"
	case DOC_VALUES_TYPE_SORTED_SET:
		return "SORTED_SET"
	}
	return fmt.Sprintf("DocValuesType(%d)", int(t))
}
