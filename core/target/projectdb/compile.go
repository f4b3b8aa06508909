package projectdb

import (
	"fmt"
	"strconv"

	"github.com/beevik/etree"
)

// checkBlock returns one message per problem found in a block document: members
// without a name or data type, and subelements whose Path is not an index.
func checkBlock(document string) []string {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(document); err != nil {
		return []string{fmt.Sprintf("document: %v", err)}
	}
	if doc.Root() == nil {
		return []string{"document: empty"}
	}

	var msgs []string
	var walk func(e *etree.Element)
	walk = func(e *etree.Element) {
		switch e.Tag {
		case "Member":
			name := e.SelectAttrValue("Name", "")
			if name == "" {
				msgs = append(msgs, "member without name")
			} else if e.SelectAttrValue("Datatype", "") == "" {
				msgs = append(msgs, fmt.Sprintf("member %s: missing data type", name))
			}
		case "Subelement":
			p := e.SelectAttrValue("Path", "")
			if _, err := strconv.Atoi(p); err != nil {
				msgs = append(msgs, fmt.Sprintf("subelement path %q is not an index", p))
			}
		}
		for _, c := range e.ChildElements() {
			walk(c)
		}
	}
	walk(doc.Root())
	return msgs
}

// renderTable renders a tag table as a constant-table document.
func renderTable(name string, rows []Constant) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="utf-8"`)

	table := doc.CreateElement("Document").CreateElement("SW.Tags.PlcTagTable")
	table.CreateElement("AttributeList").CreateElement("Name").SetText(name)

	list := table.CreateElement("ObjectList")
	for _, row := range rows {
		c := list.CreateElement("SW.Tags.PlcUserConstant")
		attrs := c.CreateElement("AttributeList")
		attrs.CreateElement("Name").SetText(row.Name)
		attrs.CreateElement("Value").SetText(strconv.Itoa(row.Value))
		if row.Comment != "" {
			mlt := c.CreateElement("Comment").CreateElement("MultiLanguageText")
			mlt.CreateAttr("Lang", "en-US")
			mlt.SetText(row.Comment)
		}
	}

	doc.Indent(2)
	return doc.WriteToBytes()
}
