package document

import (
	"strconv"
	"strings"

	deverrors "device-sync/core/errors"
	"device-sync/core/model"

	"github.com/beevik/etree"
)

const (
	// StaticSection is the interface section that holds the device array.
	StaticSection = "Static"
	// DefaultSeparator joins the tag and description in a comment.
	DefaultSeparator = " - "
	// DefaultLanguage tags the comment text.
	DefaultLanguage = "en-US"
)

// Patcher writes per-index comments into a block document.
type Patcher struct {
	Separator string
	Language  string
}

// NewPatcher creates a Patcher with the default separator and language.
func NewPatcher() *Patcher {
	return &Patcher{Separator: DefaultSeparator, Language: DefaultLanguage}
}

// CommentText composes the comment for a record.
func (p *Patcher) CommentText(rec model.Device) string {
	if rec.Description() == "" {
		return rec.DesiredTag()
	}
	return rec.DesiredTag() + p.Separator + rec.Description()
}

// PatchComments parses an exported document, patches the comments of arrayName
// and returns the serialized result.
func (p *Patcher) PatchComments(data []byte, arrayName string, records []model.Device) ([]byte, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, deverrors.NewParseError(arrayName, "invalid document", err)
	}

	if _, err := p.Patch(doc, arrayName, records); err != nil {
		return nil, err
	}

	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, deverrors.NewParseError(arrayName, "serialize document", err)
	}
	return out, nil
}

// Patch rewrites the comments of arrayName in doc and returns the number of
// subelements written. Existing comments are replaced, so patching twice
// leaves exactly one comment per index.
func (p *Patcher) Patch(doc *etree.Document, arrayName string, records []model.Device) (int, error) {
	member, err := FindArray(doc, arrayName)
	if err != nil {
		return 0, err
	}

	patched := 0
	for _, rec := range records {
		if rec.ID() < 0 {
			continue
		}
		sub := subelement(member, rec.ID())
		p.replaceComment(sub, p.CommentText(rec))
		patched++
	}
	return patched, nil
}

// FindArray locates the member named arrayName inside the single Static section.
func FindArray(doc *etree.Document, arrayName string) (*etree.Element, error) {
	root := doc.Root()
	if root == nil {
		return nil, deverrors.NewParseError(arrayName, "empty document", nil)
	}

	sections := findAll(root, "Section", "Name", StaticSection)
	switch len(sections) {
	case 0:
		return nil, deverrors.NewParseError(arrayName, "section Static not found", nil)
	case 1:
	default:
		return nil, deverrors.NewParseError(arrayName, "more than one Static section", nil)
	}

	for _, m := range sections[0].ChildElements() {
		if m.Tag == "Member" && m.SelectAttrValue("Name", "") == arrayName {
			return m, nil
		}
	}
	return nil, deverrors.NewParseError(arrayName, "array not found", deverrors.NewNotFoundError("array", arrayName))
}

// ReadComments returns the comment text per index of arrayName in the given language.
func ReadComments(data []byte, arrayName, lang string) (map[int]string, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, deverrors.NewParseError(arrayName, "invalid document", err)
	}
	member, err := FindArray(doc, arrayName)
	if err != nil {
		return nil, err
	}

	out := make(map[int]string)
	for _, sub := range member.ChildElements() {
		if sub.Tag != "Subelement" {
			continue
		}
		id, err := strconv.Atoi(sub.SelectAttrValue("Path", ""))
		if err != nil {
			continue
		}
		for _, c := range sub.ChildElements() {
			if c.Tag != "Comment" {
				continue
			}
			for _, t := range c.ChildElements() {
				if t.Tag == "MultiLanguageText" && t.SelectAttrValue("Lang", "") == lang {
					out[id] = strings.TrimSpace(t.Text())
				}
			}
		}
	}
	return out, nil
}

// subelement returns the Subelement addressed by id, appending one if absent.
func subelement(member *etree.Element, id int) *etree.Element {
	path := strconv.Itoa(id)
	for _, c := range member.ChildElements() {
		if c.Tag == "Subelement" && c.SelectAttrValue("Path", "") == path {
			return c
		}
	}
	sub := member.CreateElement("Subelement")
	sub.CreateAttr("Path", path)
	return sub
}

// replaceComment drops every Comment under sub and inserts one new comment
// where the first old one was, or first when there was none.
func (p *Patcher) replaceComment(sub *etree.Element, text string) {
	at := -1
	for _, c := range sub.ChildElements() {
		if c.Tag != "Comment" {
			continue
		}
		if at < 0 {
			at = c.Index()
		}
		sub.RemoveChild(c)
	}
	if at < 0 {
		at = 0
	}

	comment := etree.NewElement("Comment")
	mlt := comment.CreateElement("MultiLanguageText")
	mlt.CreateAttr("Lang", p.Language)
	mlt.SetText(text)
	sub.InsertChildAt(at, comment)
}

// findAll walks the tree under root and returns elements with the given tag
// and attribute value, in document order.
func findAll(root *etree.Element, tag, attr, value string) []*etree.Element {
	var out []*etree.Element
	var walk func(e *etree.Element)
	walk = func(e *etree.Element) {
		if e.Tag == tag && e.SelectAttrValue(attr, "") == value {
			out = append(out, e)
		}
		for _, c := range e.ChildElements() {
			walk(c)
		}
	}
	walk(root)
	return out
}
