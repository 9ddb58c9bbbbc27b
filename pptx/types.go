package pptx

import "encoding/xml"

// presentationXML represents the ppt/presentation.xml file structure.
type presentationXML struct {
	XMLName     xml.Name        `xml:"presentation"`
	SlideIdList *slideIdListXML `xml:"sldIdLst"`
	SlideSz     *slideSzXML     `xml:"sldSz"`
}

type slideIdListXML struct {
	SlideId []slideIdXML `xml:"sldId"`
}

type slideIdXML struct {
	ID  string `xml:"id,attr"`
	RID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"` // r:id attribute for relationship
}

type slideSzXML struct {
	Cx int `xml:"cx,attr"` // Width in EMUs
	Cy int `xml:"cy,attr"` // Height in EMUs
}

// slideXML represents a ppt/slides/slide*.xml file structure.
type slideXML struct {
	XMLName xml.Name `xml:"sld"`
	CSld    cSldXML  `xml:"cSld"`
}

type cSldXML struct {
	Bg     *bgXML    `xml:"bg"`
	SpTree spTreeXML `xml:"spTree"`
}

type bgXML struct {
	BgPr *bgPrXML `xml:"bgPr"`
}

type bgPrXML struct {
	SolidFill *solidFillXML `xml:"solidFill"`
}

type solidFillXML struct {
	SrgbClr *srgbClrXML `xml:"srgbClr"`
}

type srgbClrXML struct {
	Val string `xml:"val,attr"`
}

// spTreeXML represents the shape tree containing all shapes on a slide.
// Shapes and pictures are decoded in document order so z-order survives.
type spTreeXML struct {
	Items []shapeItemXML `xml:",any"`
}

type shapeItemXML struct {
	XMLName xml.Name
	spXML
	BlipFill *blipFillXML `xml:"blipFill"`
	NvPicPr  *nvPicPrXML  `xml:"nvPicPr"`
}

type cNvPrXML struct {
	ID    int    `xml:"id,attr"`
	Name  string `xml:"name,attr"`
	Title string `xml:"title,attr"`
}

// spXML represents a shape element.
type spXML struct {
	NvSpPr nvSpPrXML  `xml:"nvSpPr"`
	SpPr   spPrXML    `xml:"spPr"`
	TxBody *txBodyXML `xml:"txBody"`
}

type nvSpPrXML struct {
	CNvPr cNvPrXML `xml:"cNvPr"`
}

type spPrXML struct {
	Xfrm      *xfrmXML      `xml:"xfrm"`
	SolidFill *solidFillXML `xml:"solidFill"`
}

type xfrmXML struct {
	Off offXML `xml:"off"`
	Ext extXML `xml:"ext"`
}

type offXML struct {
	X int `xml:"x,attr"` // X position in EMUs
	Y int `xml:"y,attr"` // Y position in EMUs
}

type extXML struct {
	Cx int `xml:"cx,attr"` // Width in EMUs
	Cy int `xml:"cy,attr"` // Height in EMUs
}

// txBodyXML represents text body content.
type txBodyXML struct {
	BodyPr bodyPrXML `xml:"bodyPr"`
	P      []pXML    `xml:"p"` // Paragraphs
}

type bodyPrXML struct {
	Wrap   string `xml:"wrap,attr"`
	Anchor string `xml:"anchor,attr"` // t, ctr, b (top, center, bottom)
}

// pXML represents a paragraph.
type pXML struct {
	PPr *pPrXML `xml:"pPr"` // Paragraph properties
	R   []rXML  `xml:"r"`   // Text runs
}

type pPrXML struct {
	Algn   string     `xml:"algn,attr"` // Alignment: l, ctr, r, just
	SpcAft *spcAftXML `xml:"spcAft"`
}

type spcAftXML struct {
	SpcPts *spcPtsXML `xml:"spcPts"`
}

type spcPtsXML struct {
	Val int `xml:"val,attr"` // Hundredths of a point
}

// rXML represents a text run.
type rXML struct {
	RPr *rPrXML `xml:"rPr"` // Run properties
	T   string  `xml:"t"`   // Text content
}

type rPrXML struct {
	Lang      string        `xml:"lang,attr"`
	Sz        int           `xml:"sz,attr"` // Font size in hundredths of a point
	B         *int          `xml:"b,attr"`  // Bold (1 = true)
	SolidFill *solidFillXML `xml:"solidFill"`
	Latin     *latinXML     `xml:"latin"`
}

type latinXML struct {
	Typeface string `xml:"typeface,attr"`
}

type nvPicPrXML struct {
	CNvPr cNvPrXML `xml:"cNvPr"`
}

type blipFillXML struct {
	Blip blipXML `xml:"blip"`
}

type blipXML struct {
	Embed string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships embed,attr"`
}

// relationshipsXML represents .rels files.
type relationshipsXML struct {
	XMLName      xml.Name          `xml:"Relationships"`
	Relationship []relationshipXML `xml:"Relationship"`
}

type relationshipXML struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}

// corePropertiesXML represents docProps/core.xml.
type corePropertiesXML struct {
	XMLName xml.Name `xml:"coreProperties"`
	Title   string   `xml:"title"`
	Creator string   `xml:"creator"`
}
