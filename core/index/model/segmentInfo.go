package model

import (
	"bytes"
	"fmt"
	"regexp"
	"sort"

	"github.com/balzaczyy/gopacked/core/store"
	"github.com/balzaczyy/gopacked/core/util"
)

/*
Information about a segment such as its name, directory, and files
related to the segment. The doc count and the file set are filled in
once, by whoever writes the segment.
*/
type SegmentInfo struct {
	Dir         store.Directory
	Name        string
	docCount    *util.SetOnce[int] // number of docs in seg
	diagnostics map[string]string
	files       map[string]bool // must use checkFileNames()

	*AttributesMixin
}

func NewSegmentInfo(dir store.Directory, name string, diagnostics map[string]string) *SegmentInfo {
	_, ok := dir.(*store.TrackingDirectoryWrapper)
	assert(!ok)
	assert2(SEGMENT_NAME_PATTERN.MatchString(name), "invalid segment name '%v', must match: %v", name, SEGMENT_NAME_PATTERN)
	return &SegmentInfo{
		Dir:             dir,
		Name:            name,
		docCount:        util.NewSetOnce[int](),
		diagnostics:     diagnostics,
		AttributesMixin: &AttributesMixin{make(map[string]string)},
	}
}

/* Returns diagnostics saved into the segment when it was written. */
func (si *SegmentInfo) Diagnostics() map[string]string {
	return si.diagnostics
}

func (si *SegmentInfo) SetDiagnostics(diagnostics map[string]string) {
	si.diagnostics = diagnostics
}

// Returns the number of documents in this segment, or -1 if unknown yet.
func (si *SegmentInfo) DocCount() int {
	if !si.docCount.IsSet() {
		return -1
	}
	return si.docCount.Get()
}

/* Can only be called once. */
func (si *SegmentInfo) SetDocCount(docCount int) {
	si.docCount.Set(docCount)
}

/* Return all files referenced by this SegmentInfo, sorted. */
func (si *SegmentInfo) Files() []string {
	assert2(si.files != nil, "files were not computed yet")
	ans := make([]string, 0, len(si.files))
	for f := range si.files {
		ans = append(ans, f)
	}
	sort.Strings(ans)
	return ans
}

/* Sets the files written for this segment. */
func (si *SegmentInfo) SetFiles(files []string) {
	set := make(map[string]bool, len(files))
	for _, f := range files {
		set[f] = true
	}
	si.checkFileNames(set)
	si.files = set
}

// Returns the name of a file of this segment with the given extension.
func (si *SegmentInfo) FileName(ext string) string {
	return fmt.Sprintf("%v.%v", si.Name, ext)
}

func (si *SegmentInfo) String() string {
	return si.StringOf(si.Dir, 0)
}

func (si *SegmentInfo) StringOf(dir store.Directory, delCount int) string {
	var buf bytes.Buffer
	buf.WriteString(si.Name)
	buf.WriteString(":")
	if si.Dir != dir {
		buf.WriteString("x")
	}
	buf.WriteString(si.docCount.String())
	if delCount != 0 {
		fmt.Fprintf(&buf, "/%v", delCount)
	}
	return buf.String()
}

var (
	SEGMENT_NAME_PATTERN = regexp.MustCompile("^_[a-z0-9]+$")
	CODEC_FILE_PATTERN   = regexp.MustCompile("^_[a-z0-9]+(_.*)?\\..*$")
)

func (si *SegmentInfo) checkFileNames(files map[string]bool) {
	for file := range files {
		if !CODEC_FILE_PATTERN.MatchString(file) {
			panic(fmt.Sprintf("invalid codec filename '%v', must match: %v", file, CODEC_FILE_PATTERN))
		}
	}
}
