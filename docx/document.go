package docx

import (
	"encoding/xml"
	"strings"
)

// documentXML represents the structure of word/document.xml
type documentXML struct {
	XMLName xml.Name `xml:"document"`
	Body    *bodyXML `xml:"body"`
}

// bodyXML represents the document body. Paragraphs and tables are the
// direct children of <w:body>, plus those wrapped in block-level content
// controls, each kept in document order. Paragraphs nested inside table
// cells are not repeated here.
type bodyXML struct {
	Paragraphs []paragraphXML
	Tables     []tableXML
}

// UnmarshalXML flattens block-level content controls into the body.
func (b *bodyXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				var p paragraphXML
				if err := d.DecodeElement(&p, &t); err != nil {
					return err
				}
				b.Paragraphs = append(b.Paragraphs, p)
			case "tbl":
				var tbl tableXML
				if err := d.DecodeElement(&tbl, &t); err != nil {
					return err
				}
				b.Tables = append(b.Tables, tbl)
			case "sdt", "sdtContent":
				continue
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			if t.Name == start.Name {
				return nil
			}
		}
	}
}

// paragraphXML represents a paragraph element (<w:p>). Runs are collected
// in document order, including runs nested in hyperlinks, smart tags,
// tracked insertions and inline content controls.
type paragraphXML struct {
	Style string
	Runs  []runXML
}

// UnmarshalXML walks the paragraph subtree keeping run order intact.
func (p *paragraphXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "pPr":
				var props paragraphPropsXML
				if err := d.DecodeElement(&props, &t); err != nil {
					return err
				}
				p.Style = props.Style.Val
			case "r":
				var run runXML
				if err := d.DecodeElement(&run, &t); err != nil {
					return err
				}
				p.Runs = append(p.Runs, run)
			case "hyperlink", "smartTag", "ins", "sdt", "sdtContent", "fldSimple":
				// Containers: descend and keep collecting runs.
				continue
			case "del", "moveFrom":
				// Deleted text is not part of the visible document.
				if err := d.Skip(); err != nil {
					return err
				}
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			if t.Name == start.Name {
				return nil
			}
		}
	}
}

// Text returns the concatenated text of all runs.
func (p *paragraphXML) Text() string {
	var sb strings.Builder
	for _, run := range p.Runs {
		sb.WriteString(run.Text)
	}
	return sb.String()
}

// paragraphPropsXML represents paragraph properties (<w:pPr>).
type paragraphPropsXML struct {
	Style styleRefXML `xml:"pStyle"`
}

// styleRefXML represents a style reference.
type styleRefXML struct {
	Val string `xml:"val,attr"`
}

// runXML represents a text run (<w:r>). Text holds the run content with
// tabs and breaks already translated, in source order.
type runXML struct {
	Text string
}

// UnmarshalXML decodes the run's children in order: <w:t>, <w:tab/>,
// <w:br/>, <w:cr/>, hyphen elements and mc:AlternateContent fallbacks.
func (r *runXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var sb strings.Builder
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				var text textXML
				if err := d.DecodeElement(&text, &t); err != nil {
					return err
				}
				sb.WriteString(text.Value)
			case "tab", "ptab":
				sb.WriteString("\t")
				if err := d.Skip(); err != nil {
					return err
				}
			case "br", "cr":
				sb.WriteString("\n")
				if err := d.Skip(); err != nil {
					return err
				}
			case "noBreakHyphen":
				sb.WriteString("-")
				if err := d.Skip(); err != nil {
					return err
				}
			case "AlternateContent":
				var alt alternateContentXML
				if err := d.DecodeElement(&alt, &t); err != nil {
					return err
				}
				for _, text := range alt.Fallback.Text {
					sb.WriteString(text.Value)
				}
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			if t.Name == start.Name {
				r.Text = sb.String()
				return nil
			}
		}
	}
}

// alternateContentXML represents mc:AlternateContent for emoji fallbacks.
type alternateContentXML struct {
	Fallback fallbackXML `xml:"Fallback"`
}

// fallbackXML represents mc:Fallback containing text.
type fallbackXML struct {
	Text []textXML `xml:"r>t"`
}

// textXML represents text content (<w:t>).
type textXML struct {
	Value string `xml:",chardata"`
}

// tableXML represents a table (<w:tbl>).
type tableXML struct {
	Rows []tableRowXML `xml:"tr"`
}

// tableRowXML represents a table row (<w:tr>).
type tableRowXML struct {
	Cells []tableCellXML `xml:"tc"`
}

// tableCellXML represents a table cell (<w:tc>).
type tableCellXML struct {
	Properties cellPropsXML   `xml:"tcPr"`
	Paragraphs []paragraphXML `xml:"p"`
	Tables     []tableXML     `xml:"tbl"`
}

// cellPropsXML represents cell properties.
type cellPropsXML struct {
	VMerge *vMergeXML `xml:"vMerge"`
}

// vMergeXML represents vertical merge.
type vMergeXML struct {
	Val string `xml:"val,attr"` // "restart" or empty (continue)
}

// relationshipsXML represents word/_rels/document.xml.rels.
type relationshipsXML struct {
	XMLName       xml.Name          `xml:"Relationships"`
	Relationships []relationshipXML `xml:"Relationship"`
}

type relationshipXML struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}
