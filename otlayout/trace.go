package otlayout

import (
	"slices"
	"strconv"
	"strings"

	"github.com/npillmayer/fontfeatures/ot"
	"golang.org/x/text/unicode/bidi"
)

// TraceOptions control the serialization of a buffer to a trace.
type TraceOptions struct {
	Names     bool   // glyph names instead of glyph ids, if the font has names
	Clusters  bool   // append "=cluster"
	Positions bool   // append "@x,y" (non-zero placements only) and "+advance"
	Attribute string // name of a scratch attribute to append as "(value)", see BufferItem.Attribute
}

// TraceToken is one glyph of a trace.
type TraceToken struct {
	Name                   string // glyph name or glyph id
	Cluster                int    // -1 if absent
	XPlacement, YPlacement int32
	XAdvance               int32
	HasPosition            bool
	Attribute              string
}

func (t TraceToken) String() string {
	var sb strings.Builder
	sb.WriteString(t.Name)
	if t.Cluster >= 0 {
		sb.WriteByte('=')
		sb.WriteString(strconv.Itoa(t.Cluster))
	}
	if t.HasPosition {
		if t.XPlacement != 0 || t.YPlacement != 0 {
			sb.WriteByte('@')
			sb.WriteString(strconv.Itoa(int(t.XPlacement)))
			sb.WriteByte(',')
			sb.WriteString(strconv.Itoa(int(t.YPlacement)))
		}
		sb.WriteByte('+')
		sb.WriteString(strconv.Itoa(int(t.XAdvance)))
	}
	if t.Attribute != "" {
		sb.WriteByte('(')
		sb.WriteString(t.Attribute)
		sb.WriteByte(')')
	}
	return sb.String()
}

// Trace is a sequence of trace tokens in visual order.
type Trace []TraceToken

func (tr Trace) String() string {
	parts := make([]string, len(tr))
	for i, t := range tr {
		parts[i] = t.String()
	}
	return strings.Join(parts, "|")
}

// Names returns the glyph names of a trace.
func (tr Trace) Names() []string {
	names := make([]string, len(tr))
	for i, t := range tr {
		names[i] = t.Name
	}
	return names
}

// Logical returns the tokens of a trace in logical order, given the direction
// of the buffer it has been serialized from.
func (tr Trace) Logical(dir bidi.Direction) Trace {
	out := slices.Clone(tr)
	if dir == bidi.RightToLeft {
		slices.Reverse(out)
	}
	return out
}

// TraceBuffer converts all items of a buffer into trace tokens, in visual order.
// Right-to-left buffers are reversed here, and only here.
func TraceBuffer(buf *Buffer, opts TraceOptions) Trace {
	tr := make(Trace, 0, len(buf.Items))
	for _, item := range buf.Items {
		t := TraceToken{Name: glyphName(buf.Font, item, opts.Names), Cluster: -1}
		if opts.Clusters {
			t.Cluster = item.Cluster
		}
		if opts.Positions {
			t.HasPosition = true
			t.XPlacement = item.Position.XPlacement
			t.YPlacement = item.Position.YPlacement
			t.XAdvance = item.Position.XAdvance
		}
		if opts.Attribute != "" {
			t.Attribute, _ = item.Attribute(opts.Attribute)
		}
		tr = append(tr, t)
	}
	if buf.IsRTL() {
		slices.Reverse(tr)
	}
	return tr
}

// Serialize writes a buffer as a pipe-separated trace of tokens of the form
//
//	name[=cluster][@xPlacement,yPlacement]+xAdvance[(attribute)]
//
// This format is used to compare shaping results with reference shapers.
func Serialize(buf *Buffer, opts TraceOptions) string {
	return TraceBuffer(buf, opts).String()
}

func glyphName(font FontAccess, item *BufferItem, names bool) string {
	if !item.HasGlyph {
		return "U+" + strings.ToUpper(strconv.FormatInt(int64(item.Codepoint), 16))
	}
	if names && font != nil {
		if name := font.GlyphName(item.Glyph); name != "" {
			return name
		}
	}
	return strconv.Itoa(int(item.Glyph))
}

// ParseTrace parses a trace as written by Serialize. Tokens are returned in
// visual order, use Trace.Logical to recover logical order.
func ParseTrace(s string) (Trace, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Trace{}, nil
	}
	parts := strings.Split(s, "|")
	tr := make(Trace, 0, len(parts))
	for _, part := range parts {
		t, err := parseToken(part)
		if err != nil {
			return nil, err
		}
		tr = append(tr, t)
	}
	return tr, nil
}

func parseToken(s string) (TraceToken, error) {
	t := TraceToken{Cluster: -1}
	if strings.HasSuffix(s, ")") {
		open := strings.LastIndexByte(s, '(')
		if open < 0 {
			return t, errLayout(ErrTraceFormat, "unbalanced attribute in %q", s)
		}
		t.Attribute = s[open+1 : len(s)-1]
		s = s[:open]
	}
	if plus := strings.LastIndexByte(s, '+'); plus > 0 {
		adv, err := strconv.Atoi(s[plus+1:])
		if err != nil {
			return t, errLayout(ErrTraceFormat, "advance in %q", s)
		}
		t.XAdvance, t.HasPosition = int32(adv), true
		s = s[:plus]
		if at := strings.LastIndexByte(s, '@'); at > 0 {
			xy := strings.Split(s[at+1:], ",")
			if len(xy) != 2 {
				return t, errLayout(ErrTraceFormat, "placement in %q", s)
			}
			x, errx := strconv.Atoi(xy[0])
			y, erry := strconv.Atoi(xy[1])
			if errx != nil || erry != nil {
				return t, errLayout(ErrTraceFormat, "placement in %q", s)
			}
			t.XPlacement, t.YPlacement = int32(x), int32(y)
			s = s[:at]
		}
	}
	if eq := strings.LastIndexByte(s, '='); eq > 0 {
		c, err := strconv.Atoi(s[eq+1:])
		if err != nil {
			return t, errLayout(ErrTraceFormat, "cluster in %q", s)
		}
		t.Cluster = c
		s = s[:eq]
	}
	if s == "" {
		return t, errLayout(ErrTraceFormat, "missing glyph name")
	}
	t.Name = s
	return t, nil
}

// GlyphsOf resolves the glyph names of a trace through a font. Names which are
// numbers are taken as glyph ids.
func (tr Trace) GlyphsOf(font FontAccess) ([]ot.GlyphIndex, error) {
	glyphs := make([]ot.GlyphIndex, len(tr))
	for i, t := range tr {
		if g, ok := font.GlyphByName(t.Name); ok {
			glyphs[i] = g
			continue
		}
		id, err := strconv.Atoi(t.Name)
		if err != nil || id < 0 || id > 0xffff {
			return nil, errLayout(ErrTraceFormat, "unknown glyph %q", t.Name)
		}
		glyphs[i] = ot.GlyphIndex(id)
	}
	return glyphs, nil
}
