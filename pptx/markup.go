package pptx

import "encoding/xml"

// Element names below carry their conventional prefixes literally so the
// output matches what PowerPoint writes. The root elements declare the
// matching namespaces.

type sldOut struct {
	XMLName xml.Name     `xml:"p:sld"`
	XmlnsA  string       `xml:"xmlns:a,attr"`
	XmlnsR  string       `xml:"xmlns:r,attr"`
	XmlnsP  string       `xml:"xmlns:p,attr"`
	CSld    cSldOut      `xml:"p:cSld"`
	ClrMap  clrMapOvrOut `xml:"p:clrMapOvr"`
}

type clrMapOvrOut struct {
	Master struct{} `xml:"a:masterClrMapping"`
}

type cSldOut struct {
	Bg     *bgOut    `xml:"p:bg"`
	SpTree spTreeOut `xml:"p:spTree"`
}

type bgOut struct {
	BgPr bgPrOut `xml:"p:bgPr"`
}

type bgPrOut struct {
	Fill   solidFillOut `xml:"a:solidFill"`
	Effect struct{}     `xml:"a:effectLst"`
}

type solidFillOut struct {
	Color srgbOut `xml:"a:srgbClr"`
}

type srgbOut struct {
	Val string `xml:"val,attr"`
}

type spTreeOut struct {
	NvGrpSpPr nvGrpSpPrOut `xml:"p:nvGrpSpPr"`
	GrpSpPr   grpSpPrOut   `xml:"p:grpSpPr"`

	// Shapes holds *spOut and *picOut values in z-order.
	Shapes []any
}

type nvGrpSpPrOut struct {
	CNvPr      cNvPrOut `xml:"p:cNvPr"`
	CNvGrpSpPr struct{} `xml:"p:cNvGrpSpPr"`
	NvPr       struct{} `xml:"p:nvPr"`
}

type grpSpPrOut struct {
	Xfrm xfrmOut `xml:"a:xfrm"`
}

type cNvPrOut struct {
	ID   int    `xml:"id,attr"`
	Name string `xml:"name,attr"`
}

type xfrmOut struct {
	Off   pointOut   `xml:"a:off"`
	Ext   extentOut  `xml:"a:ext"`
	ChOff *pointOut  `xml:"a:chOff"`
	ChExt *extentOut `xml:"a:chExt"`
}

type pointOut struct {
	X int64 `xml:"x,attr"`
	Y int64 `xml:"y,attr"`
}

type extentOut struct {
	Cx int64 `xml:"cx,attr"`
	Cy int64 `xml:"cy,attr"`
}

type prstGeomOut struct {
	Prst  string   `xml:"prst,attr"`
	AvLst struct{} `xml:"a:avLst"`
}

type spOut struct {
	XMLName xml.Name   `xml:"p:sp"`
	NvSpPr  nvSpPrOut  `xml:"p:nvSpPr"`
	SpPr    spPrOut    `xml:"p:spPr"`
	TxBody  *txBodyOut `xml:"p:txBody"`
}

type nvSpPrOut struct {
	CNvPr   cNvPrOut   `xml:"p:cNvPr"`
	CNvSpPr cNvSpPrOut `xml:"p:cNvSpPr"`
	NvPr    struct{}   `xml:"p:nvPr"`
}

type cNvSpPrOut struct {
	TxBox string `xml:"txBox,attr,omitempty"`
}

type spPrOut struct {
	Xfrm      xfrmOut       `xml:"a:xfrm"`
	PrstGeom  prstGeomOut   `xml:"a:prstGeom"`
	SolidFill *solidFillOut `xml:"a:solidFill"`
	NoFill    *struct{}     `xml:"a:noFill"`
	Ln        *lnOut        `xml:"a:ln"`
}

type lnOut struct {
	NoFill struct{} `xml:"a:noFill"`
}

type txBodyOut struct {
	BodyPr   bodyPrOut `xml:"a:bodyPr"`
	LstStyle struct{}  `xml:"a:lstStyle"`
	P        []pOut    `xml:"a:p"`
}

type bodyPrOut struct {
	Wrap      string   `xml:"wrap,attr"`
	Anchor    string   `xml:"anchor,attr"`
	NoAutofit struct{} `xml:"a:noAutofit"`
}

type pOut struct {
	PPr        *pPrOut `xml:"a:pPr"`
	R          []rOut  `xml:"a:r"`
	EndParaRPr *rPrOut `xml:"a:endParaRPr"`
}

type pPrOut struct {
	Algn   string   `xml:"algn,attr,omitempty"`
	SpcAft *spcOut  `xml:"a:spcAft"`
	BuNone struct{} `xml:"a:buNone"`
}

type spcOut struct {
	Pts spcPtsOut `xml:"a:spcPts"`
}

type spcPtsOut struct {
	Val int `xml:"val,attr"`
}

type rOut struct {
	RPr rPrOut `xml:"a:rPr"`
	T   string `xml:"a:t"`
}

type rPrOut struct {
	Lang      string        `xml:"lang,attr"`
	Sz        int           `xml:"sz,attr,omitempty"`
	B         string        `xml:"b,attr,omitempty"`
	Dirty     string        `xml:"dirty,attr"`
	SolidFill *solidFillOut `xml:"a:solidFill"`
	Latin     *latinOut     `xml:"a:latin"`
}

type latinOut struct {
	Typeface string `xml:"typeface,attr"`
}

type picOut struct {
	XMLName  xml.Name    `xml:"p:pic"`
	NvPicPr  nvPicPrOut  `xml:"p:nvPicPr"`
	BlipFill blipFillOut `xml:"p:blipFill"`
	SpPr     spPrOut     `xml:"p:spPr"`
}

type nvPicPrOut struct {
	CNvPr    cNvPrOut    `xml:"p:cNvPr"`
	CNvPicPr cNvPicPrOut `xml:"p:cNvPicPr"`
	NvPr     struct{}    `xml:"p:nvPr"`
}

type cNvPicPrOut struct {
	PicLocks picLocksOut `xml:"a:picLocks"`
}

type picLocksOut struct {
	NoChangeAspect string `xml:"noChangeAspect,attr"`
}

type blipFillOut struct {
	Blip    blipOut    `xml:"a:blip"`
	Stretch stretchOut `xml:"a:stretch"`
}

type blipOut struct {
	Embed string `xml:"r:embed,attr"`
}

type stretchOut struct {
	FillRect struct{} `xml:"a:fillRect"`
}

// presentationOut is ppt/presentation.xml.
type presentationOut struct {
	XMLName         xml.Name        `xml:"p:presentation"`
	XmlnsA          string          `xml:"xmlns:a,attr"`
	XmlnsR          string          `xml:"xmlns:r,attr"`
	XmlnsP          string          `xml:"xmlns:p,attr"`
	SaveSubsetFonts string          `xml:"saveSubsetFonts,attr"`
	MasterIDs       masterIDListOut `xml:"p:sldMasterIdLst"`
	SlideIDs        slideIDListOut  `xml:"p:sldIdLst"`
	SldSz           sldSzOut        `xml:"p:sldSz"`
	NotesSz         extentOut       `xml:"p:notesSz"`
}

type masterIDListOut struct {
	ID []idOut `xml:"p:sldMasterId"`
}

type slideIDListOut struct {
	ID []idOut `xml:"p:sldId"`
}

type idOut struct {
	ID  int64  `xml:"id,attr"`
	RID string `xml:"r:id,attr"`
}

type sldSzOut struct {
	Cx int64 `xml:"cx,attr"`
	Cy int64 `xml:"cy,attr"`
}

type relationshipsOut struct {
	XMLName xml.Name          `xml:"Relationships"`
	Xmlns   string            `xml:"xmlns,attr"`
	Rels    []relationshipOut `xml:"Relationship"`
}

type relationshipOut struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}

type contentTypesOut struct {
	XMLName   xml.Name      `xml:"Types"`
	Xmlns     string        `xml:"xmlns,attr"`
	Defaults  []defaultOut  `xml:"Default"`
	Overrides []overrideOut `xml:"Override"`
}

type defaultOut struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type overrideOut struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}
