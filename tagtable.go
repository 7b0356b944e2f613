package htmltext

import (
	"slices"
	"strconv"
)

// Tag identifies a recognized element.
type Tag uint8

// TagClass drives whitespace policy at element boundaries.
type TagClass uint8

const (
	// ClassNone is the class of non-tag tokens.
	ClassNone TagClass = iota
	// ClassVoid elements have no end tag.
	ClassVoid
	// ClassInline containers do not trim whitespace at their boundaries.
	ClassInline
	// ClassBlock containers trim whitespace at their boundaries.
	ClassBlock
)

func (c TagClass) String() string {
	switch c {
	case ClassVoid:
		return "void"
	case ClassInline:
		return "inline"
	case ClassBlock:
		return "block"
	default:
		return "none"
	}
}

const (
	TagNone Tag = iota
	TagA
	TagAddress
	TagApplet
	TagArea
	TagB
	TagBase
	TagBasefont
	TagBig
	TagBlockquote
	TagBody
	TagBr
	TagCaption
	TagCenter
	TagCite
	TagCode
	TagDd
	TagDfn
	TagDir
	TagDiv
	TagDl
	TagDt
	TagEm
	TagFont
	TagForm
	TagH1
	TagH2
	TagH3
	TagH4
	TagH5
	TagH6
	TagHead
	TagHr
	TagHTML
	TagI
	TagImg
	TagInput
	TagIsindex
	TagKbd
	TagLi
	TagLink
	TagMap
	TagMenu
	TagMeta
	TagNobr
	TagOl
	TagOption
	TagP
	TagParam
	TagPre
	TagSamp
	TagScript
	TagSelect
	TagSmall
	TagStrike
	TagStrong
	TagStyle
	TagSub
	TagSup
	TagTable
	TagTd
	TagTextarea
	TagTh
	TagTitle
	TagTr
	TagTt
	TagU
	TagUl
	TagVar
	numTags
)

// TagDescriptor describes one entry of the tag table.
type TagDescriptor struct {
	Name  string
	Tag   Tag
	Class TagClass
	// RawText elements have a body that is read verbatim, bypassing tag scanning.
	RawText bool
}

// HasEnd reports whether the element has an end tag identity.
func (d TagDescriptor) HasEnd() bool {
	return d.Class != ClassVoid
}

func void(name string, tag Tag) TagDescriptor   { return TagDescriptor{Name: name, Tag: tag, Class: ClassVoid} }
func inline(name string, tag Tag) TagDescriptor { return TagDescriptor{Name: name, Tag: tag, Class: ClassInline} }
func block(name string, tag Tag) TagDescriptor  { return TagDescriptor{Name: name, Tag: tag, Class: ClassBlock} }

func rawText(name string, tag Tag) TagDescriptor {
	d := block(name, tag)
	d.RawText = true
	return d
}

// tagTable is sorted by compareFold at init and never mutated afterwards.
var tagTable = func() []TagDescriptor {
	t := []TagDescriptor{
		inline("A", TagA),
		block("ADDRESS", TagAddress),
		inline("APPLET", TagApplet),
		void("AREA", TagArea),
		inline("B", TagB),
		void("BASE", TagBase),
		void("BASEFONT", TagBasefont),
		inline("BIG", TagBig),
		block("BLOCKQUOTE", TagBlockquote),
		block("BODY", TagBody),
		void("BR", TagBr),
		block("CAPTION", TagCaption),
		block("CENTER", TagCenter),
		block("CITE", TagCite),
		inline("CODE", TagCode),
		block("DD", TagDd),
		inline("DFN", TagDfn),
		block("DIR", TagDir),
		block("DIV", TagDiv),
		block("DL", TagDl),
		block("DT", TagDt),
		inline("EM", TagEm),
		inline("FONT", TagFont),
		block("FORM", TagForm),
		block("H1", TagH1),
		block("H2", TagH2),
		block("H3", TagH3),
		block("H4", TagH4),
		block("H5", TagH5),
		block("H6", TagH6),
		block("HEAD", TagHead),
		void("HR", TagHr),
		block("HTML", TagHTML),
		inline("I", TagI),
		void("IMG", TagImg),
		void("INPUT", TagInput),
		void("ISINDEX", TagIsindex),
		inline("KBD", TagKbd),
		block("LI", TagLi),
		void("LINK", TagLink),
		inline("MAP", TagMap),
		block("MENU", TagMenu),
		void("META", TagMeta),
		inline("NOBR", TagNobr),
		block("OL", TagOl),
		block("OPTION", TagOption),
		block("P", TagP),
		void("PARAM", TagParam),
		block("PRE", TagPre),
		inline("SAMP", TagSamp),
		rawText("SCRIPT", TagScript),
		inline("SELECT", TagSelect),
		inline("SMALL", TagSmall),
		inline("STRIKE", TagStrike),
		inline("STRONG", TagStrong),
		rawText("STYLE", TagStyle),
		inline("SUB", TagSub),
		inline("SUP", TagSup),
		block("TABLE", TagTable),
		block("TD", TagTd),
		inline("TEXTAREA", TagTextarea),
		block("TH", TagTh),
		block("TITLE", TagTitle),
		block("TR", TagTr),
		inline("TT", TagTt),
		inline("U", TagU),
		block("UL", TagUl),
		inline("VAR", TagVar),
	}
	slices.SortFunc(t, func(a, b TagDescriptor) int { return compareFold(a.Name, b.Name) })
	return t
}()

// tagsByID indexes the table by Tag for String and Descriptor.
var tagsByID = func() [numTags]TagDescriptor {
	var out [numTags]TagDescriptor
	for _, d := range tagTable {
		out[d.Tag] = d
	}
	return out
}()

// LookupTag finds a tag by name, ignoring ASCII case.
func LookupTag(name string) (TagDescriptor, bool) {
	i, ok := slices.BinarySearchFunc(tagTable, name, func(d TagDescriptor, target string) int {
		return compareFold(d.Name, target)
	})
	if !ok {
		return TagDescriptor{}, false
	}
	return tagTable[i], true
}

// Descriptor returns the table entry for t.
func (t Tag) Descriptor() TagDescriptor {
	if t < numTags {
		return tagsByID[t]
	}
	return TagDescriptor{}
}

func (t Tag) String() string {
	if t > TagNone && t < numTags {
		return tagsByID[t].Name
	}
	return "Tag(" + strconv.Itoa(int(t)) + ")"
}

// compareFold orders strings byte-wise after folding ASCII letters to upper case.
func compareFold(a, b string) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		ca, cb := upperASCII(a[i]), upperASCII(b[i])
		if ca != cb {
			if ca < cb {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}

func upperASCII(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}
