package model

import (
	"fmt"
	"sort"
	"sync"
)

// Collection of FieldInfo(s) (accessible by number of by name)
type FieldInfos struct {
	HasFreq      bool
	HasProx      bool
	HasPayloads  bool
	HasOffsets   bool
	HasNorms     bool
	HasDocValues bool

	byNumber map[int32]*FieldInfo
	byName   map[string]*FieldInfo
	Values   []*FieldInfo // sorted by ID
}

func NewFieldInfos(infos []*FieldInfo) FieldInfos {
	self := FieldInfos{byNumber: make(map[int32]*FieldInfo), byName: make(map[string]*FieldInfo)}

	numbers := make([]int32, 0, len(infos))
	for _, info := range infos {
		assert2(info.Number >= 0, "illegal field number: %v for field %v", info.Number, info.Name)
		if prev, ok := self.byNumber[info.Number]; ok {
			panic(fmt.Sprintf("duplicate field numbers: %v and %v have: %v", prev.Name, info.Name, info.Number))
		}
		self.byNumber[info.Number] = info
		numbers = append(numbers, info.Number)
		if prev, ok := self.byName[info.Name]; ok {
			panic(fmt.Sprintf("duplicate field names: %v and %v have: %v", prev.Number, info.Number, info.Name))
		}
		self.byName[info.Name] = info

		self.HasProx = self.HasProx || info.indexed && info.indexOptions >= INDEX_OPT_DOCS_AND_FREQS_AND_POSITIONS
		self.HasFreq = self.HasFreq || info.indexed && info.indexOptions != INDEX_OPT_DOCS_ONLY
		self.HasOffsets = self.HasOffsets || info.indexed && info.indexOptions >= INDEX_OPT_DOCS_AND_FREQS_AND_POSITIONS_AND_OFFSETS
		self.HasNorms = self.HasNorms || info.indexed && !info.omitNorms
		self.HasDocValues = self.HasDocValues || info.docValueType != 0
		self.HasPayloads = self.HasPayloads || info.storePayloads
	}

	sort.Sort(Int32Slice(numbers))
	self.Values = make([]*FieldInfo, len(infos))
	for i, v := range numbers {
		self.Values[i] = self.byNumber[v]
	}

	return self
}

/* Returns the number of fields */
func (infos FieldInfos) Size() int {
	assert(len(infos.byNumber) == len(infos.byName))
	return len(infos.byNumber)
}

/* Return the FieldInfo object referenced by the field name */
func (infos FieldInfos) FieldInfoByName(fieldName string) *FieldInfo {
	return infos.byName[fieldName]
}

/* Return the FieldInfo object referenced by the fieldNumber. */
func (infos FieldInfos) FieldInfoByNumber(fieldNumber int) *FieldInfo {
	assert2(fieldNumber >= 0, "Illegal field number: %v", fieldNumber)
	return infos.byNumber[int32(fieldNumber)]
}

func (fis FieldInfos) String() string {
	return fmt.Sprintf(`
hasFreq = %v
hasProx = %v
hasPayloads = %v
hasOffsets = %v
hasNorms = %v
hasDocValues = %v
%v`, fis.HasFreq, fis.HasProx, fis.HasPayloads, fis.HasOffsets,
		fis.HasNorms, fis.HasDocValues, fis.Values)
}

/*
Field numbers shared by all segments being merged into one, so a
field name maps to the same number in the merged segment no matter
which input first declared it.
*/
type FieldNumbers struct {
	sync.Locker
	numberToName map[int]string
	nameToNumber map[string]int
	// We use this to enforce that a given field never changes DV type,
	// even across segments:
	docValuesType               map[string]DocValuesType
	lowestUnassignedFieldNumber int
}

func NewFieldNumbers() *FieldNumbers {
	return &FieldNumbers{
		Locker:                      &sync.Mutex{},
		nameToNumber:                make(map[string]int),
		numberToName:                make(map[int]string),
		docValuesType:               make(map[string]DocValuesType),
		lowestUnassignedFieldNumber: -1,
	}
}

func (fn *FieldNumbers) AddOrGet(info *FieldInfo) int {
	return fn.addOrGet(info.Name, int(info.Number), info.docValueType)
}

/*
Returns the global field number for the given field name. If the name
does not exist yet it tries to add it with the given preferred field
number assigned if possible otherwise the first unassigned field
number is used as the field number.
*/
func (fn *FieldNumbers) addOrGet(name string, preferredNumber int, dv DocValuesType) int {
	fn.Lock()
	defer fn.Unlock()

	if dv != 0 {
		currentDv, ok := fn.docValuesType[name]
		if !ok || currentDv == 0 {
			fn.docValuesType[name] = dv
		} else {
			assert2(currentDv == dv,
				"cannot change DocValues type from %v to %v for field '%v'",
				currentDv, dv, name)
		}
	}
	number, ok := fn.nameToNumber[name]
	if !ok {
		_, taken := fn.numberToName[preferredNumber]
		if preferredNumber != -1 && !taken {
			// cool - we can use this number globally
			number = preferredNumber
		} else {
			// find a new FieldNumber
			fn.lowestUnassignedFieldNumber++
			for {
				if _, taken = fn.numberToName[fn.lowestUnassignedFieldNumber]; !taken {
					break
				}
				fn.lowestUnassignedFieldNumber++
			}
			number = fn.lowestUnassignedFieldNumber
		}

		fn.numberToName[number] = name
		fn.nameToNumber[name] = number
	}
	return number
}

// Accumulates the FieldInfo(s) of a segment being written.
type FieldInfosBuilder struct {
	byName             map[string]*FieldInfo
	globalFieldNumbers *FieldNumbers
}

func NewFieldInfosBuilder(globalFieldNumbers *FieldNumbers) *FieldInfosBuilder {
	assert(globalFieldNumbers != nil)
	return &FieldInfosBuilder{
		byName:             make(map[string]*FieldInfo),
		globalFieldNumbers: globalFieldNumbers,
	}
}

func assert(ok bool) {
	assert2(ok, "assert fail")
}

func assert2(ok bool, msg string, args ...interface{}) {
	if !ok {
		panic(fmt.Sprintf(msg, args...))
	}
}

// Adds all FieldInfo(s) of infos, merging flags of fields already seen.
func (b *FieldInfosBuilder) AddAll(infos FieldInfos) {
	for _, fi := range infos.Values {
		b.Add(fi)
	}
}

/*
Adds fi, preferring its number. If a field with the same name was
added before, the two are merged: indexing is sticky, index options
are downgraded to the weaker of the two and payloads survive only
with positions.
*/
func (b *FieldInfosBuilder) Add(fi *FieldInfo) *FieldInfo {
	return b.addOrUpdateInternal(fi.Name, int(fi.Number), fi.indexed,
		fi.omitNorms, fi.storePayloads, fi.indexOptions, fi.docValueType, fi.Attributes())
}

// Adds or updates the named field without a preferred number.
func (b *FieldInfosBuilder) AddOrUpdate(name string, indexed, omitNorms, storePayloads bool,
	indexOptions IndexOptions, docValues DocValuesType) *FieldInfo {
	return b.addOrUpdateInternal(name, -1, indexed, omitNorms, storePayloads, indexOptions, docValues, nil)
}

func (b *FieldInfosBuilder) addOrUpdateInternal(name string,
	preferredFieldNumber int, isIndexed bool, omitNorms bool,
	storePayloads bool, indexOptions IndexOptions,
	docValues DocValuesType, attributes map[string]string) *FieldInfo {

	if fi, ok := b.byName[name]; ok {
		fi.update(isIndexed, omitNorms, storePayloads, indexOptions)
		if docValues != 0 {
			// only pay the synchronization cost if fi does not already have a DVType
			if fi.docValueType == 0 {
				b.globalFieldNumbers.addOrGet(name, int(fi.Number), docValues)
			}
			fi.setDocValuesType(docValues)
		}
		for k, v := range attributes {
			fi.PutAttribute(k, v)
		}
		return fi
	}
	// This field wasn't yet added to this segment's FieldInfos, so
	// now we get a global number for this field. If the field was seen
	// before then we'll get the same name and number, else we'll
	// allocate a new one:
	fieldNumber := int32(b.globalFieldNumbers.addOrGet(name, preferredFieldNumber, docValues))
	attrs := make(map[string]string, len(attributes))
	for k, v := range attributes {
		attrs[k] = v
	}
	if !isIndexed {
		omitNorms, storePayloads, indexOptions = false, false, 0
	} else if indexOptions < INDEX_OPT_DOCS_AND_FREQS_AND_POSITIONS {
		storePayloads = false
	}
	fi := NewFieldInfo(name, isIndexed, fieldNumber, omitNorms, storePayloads, indexOptions, docValues, attrs)
	b.byName[fi.Name] = fi
	return fi
}

// Returns the FieldInfo added under name, or nil.
func (b *FieldInfosBuilder) FieldInfo(name string) *FieldInfo {
	return b.byName[name]
}

func (b *FieldInfosBuilder) Finish() FieldInfos {
	infos := make([]*FieldInfo, 0, len(b.byName))
	for _, v := range b.byName {
		infos = append(infos, v)
	}
	return NewFieldInfos(infos)
}
