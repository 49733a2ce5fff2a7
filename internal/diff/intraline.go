package diff

import "github.com/sergi/go-diff/diffmatchpatch"

// Segment is a run of characters within a replaced line.
type Segment struct {
	Text    string
	Changed bool
}

// intraline splits a replaced pair into the segments each side shows.
func intraline(before, after string) (left, right []Segment) {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(before, after, false))

	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			left = appendSegment(left, d.Text, false)
			right = appendSegment(right, d.Text, false)
		case diffmatchpatch.DiffDelete:
			left = appendSegment(left, d.Text, true)
		case diffmatchpatch.DiffInsert:
			right = appendSegment(right, d.Text, true)
		}
	}
	return left, right
}

func appendSegment(segs []Segment, text string, changed bool) []Segment {
	if text == "" {
		return segs
	}
	if n := len(segs); n > 0 && segs[n-1].Changed == changed {
		segs[n-1].Text += text
		return segs
	}
	return append(segs, Segment{Text: text, Changed: changed})
}
