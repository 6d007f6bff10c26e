package matrix

import "strconv"

// TextCap is the size of the label buffers, including room for a terminator,
// so a label holds at most TextCap-2 characters once the append check
// (len+add+1 < TextCap) is applied.
const TextCap = 32

// textBuf is a fixed-capacity label.
type textBuf struct {
	b [TextCap]byte
	n int
}

func (t *textBuf) reset() { t.n = 0 }

// append adds s whole, or not at all if it would not fit.
func (t *textBuf) append(s string) bool {
	if t.n+len(s)+1 >= TextCap {
		return false
	}
	t.n += copy(t.b[t.n:], s)
	return true
}

func (t *textBuf) appendBytes(s []byte) bool {
	if t.n+len(s)+1 >= TextCap {
		return false
	}
	t.n += copy(t.b[t.n:], s)
	return true
}

func (t *textBuf) equal(o *textBuf) bool {
	return string(t.b[:t.n]) == string(o.b[:o.n])
}

func (t *textBuf) String() string { return string(t.b[:t.n]) }

// overlay holds the pending label and the one last painted.
type overlay struct {
	pending  textBuf
	rendered textBuf
}

// flush repaints when the pending label differs from what is on screen.
func (o *overlay) flush(p TextPainter) bool {
	if o.pending.equal(&o.rendered) {
		return false
	}
	o.rendered = o.pending
	p.PaintText(o.rendered.String())
	return true
}

func (o *overlay) appendInt(n int) bool {
	var tmp [20]byte
	return o.pending.appendBytes(strconv.AppendInt(tmp[:0], int64(n), 10))
}
