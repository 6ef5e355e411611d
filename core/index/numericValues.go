package index

import (
	"fmt"

	"github.com/balzaczyy/gopacked/core/codec"
	"github.com/balzaczyy/gopacked/core/index/model"
	"github.com/balzaczyy/gopacked/core/store"
	"github.com/balzaczyy/gopacked/core/util"
	"github.com/balzaczyy/gopacked/core/util/packed"
)

/*
Numeric doc values of a merged segment.

File layout (NUMERIC_EXTENSION):

	NumericFile --> Header, FieldCount, <FieldNumber, MinValue, Values>^FieldCount, Footer
	Header --> CodecHeader (NUMERIC_CODEC_NAME)
	FieldCount, FieldNumber --> VInt
	MinValue --> Int64
	Values --> packed stream of value-MinValue, one per document
	Footer --> CodecFooter
*/
const (
	NUMERIC_EXTENSION       = "ndv"
	NUMERIC_CODEC_NAME      = "GoPackedNumeric"
	NUMERIC_VERSION_START   = 0
	NUMERIC_VERSION_CURRENT = NUMERIC_VERSION_START
)

// Numeric values of one field, stored as deltas from Min.
type NumericValues struct {
	Min    int64
	Values packed.PackedIntsReader
}

func (v *NumericValues) Get(docID int) int64 {
	return v.Min + v.Values.Get(docID)
}

func (v *NumericValues) RamBytesUsed() int64 {
	return util.AlignObjectSize(util.NUM_BYTES_OBJECT_HEADER+util.NUM_BYTES_LONG+util.NUM_BYTES_OBJECT_REF) +
		v.Values.RamBytesUsed()
}

func writeNumericField(out store.IndexOutput, number int32, values []int64, acceptableOverheadRatio float32) error {
	var min, max int64
	for i, v := range values {
		if i == 0 || v < min {
			min = v
		}
		if i == 0 || v > max {
			max = v
		}
	}
	if err := out.WriteVInt(number); err != nil {
		return err
	}
	if err := out.WriteLong(min); err != nil {
		return err
	}
	w, err := packed.GetWriter(out, len(values), packed.UnsignedBitsRequired(max-min), acceptableOverheadRatio)
	if err != nil {
		return err
	}
	for _, v := range values {
		if err = w.Add(v - min); err != nil {
			return err
		}
	}
	return w.Finish()
}

/*
Loads the numeric doc values of segment si, keyed by field name. The
whole file is checksummed while it is read.
*/
func ReadNumericValues(si *model.SegmentInfo, infos model.FieldInfos) (ans map[string]*NumericValues, err error) {
	in, err := si.Dir.OpenInput(si.FileName(NUMERIC_EXTENSION), store.IO_CONTEXT_READONCE)
	if err != nil {
		return nil, err
	}
	defer func() {
		err = util.CloseWhileHandlingError(err, in)
	}()
	cin := store.NewChecksumIndexInput(in)
	if _, err = codec.CheckHeader(cin, NUMERIC_CODEC_NAME, NUMERIC_VERSION_START, NUMERIC_VERSION_CURRENT); err != nil {
		return nil, err
	}
	fieldCount, err := cin.ReadVInt()
	if err != nil {
		return nil, err
	}
	ans = make(map[string]*NumericValues)
	for i := int32(0); i < fieldCount; i++ {
		number, err := cin.ReadVInt()
		if err != nil {
			return nil, err
		}
		fi := infos.FieldInfoByNumber(int(number))
		if fi == nil {
			return nil, codec.NewCorruptIndexError("invalid field number: %v (resource: %v)", number, cin)
		}
		if fi.DocValuesType() != model.DOC_VALUES_TYPE_NUMERIC {
			return nil, codec.NewCorruptIndexError("field '%v' is not numeric (resource: %v)", fi.Name, cin)
		}
		min, err := cin.ReadLong()
		if err != nil {
			return nil, err
		}
		values, err := packed.GetReader(cin)
		if err != nil {
			return nil, fmt.Errorf("field '%v': %w", fi.Name, err)
		}
		if values.Size() != si.DocCount() {
			return nil, codec.NewCorruptIndexError("field '%v' has %v values, segment has %v docs (resource: %v)",
				fi.Name, values.Size(), si.DocCount(), cin)
		}
		ans[fi.Name] = &NumericValues{Min: min, Values: values}
	}
	if _, err = codec.CheckFooter(cin); err != nil {
		return nil, err
	}
	return ans, nil
}
