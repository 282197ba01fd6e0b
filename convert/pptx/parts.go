package pptx

import (
	"archive/zip"
	"fmt"
	"time"

	"github.com/beevik/etree"

	"deckc/deck"
	"deckc/misc"
)

func writeContentTypes(zw *zip.Writer, d *deck.Deck) error {
	doc := newXMLDoc()

	types := doc.CreateElement("Types")
	types.CreateAttr("xmlns", "http://schemas.openxmlformats.org/package/2006/content-types")

	addDefault := func(ext, ct string) {
		e := types.CreateElement("Default")
		e.CreateAttr("Extension", ext)
		e.CreateAttr("ContentType", ct)
	}
	addOverride := func(part, ct string) {
		e := types.CreateElement("Override")
		e.CreateAttr("PartName", part)
		e.CreateAttr("ContentType", ct)
	}

	addDefault("rels", "application/vnd.openxmlformats-package.relationships+xml")
	addDefault("xml", "application/xml")

	seen := make(map[string]bool)
	for _, img := range d.ImagesInOrder() {
		ext := extOf(img.Filename)
		if !seen[ext] {
			addDefault(ext, img.ContentType)
			seen[ext] = true
		}
	}

	addOverride("/ppt/presentation.xml", "application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml")
	addOverride("/ppt/slideMasters/slideMaster1.xml", "application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml")
	addOverride("/ppt/slideLayouts/slideLayout1.xml", "application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml")
	addOverride("/ppt/notesMasters/notesMaster1.xml", "application/vnd.openxmlformats-officedocument.presentationml.notesMaster+xml")
	addOverride("/ppt/theme/theme1.xml", "application/vnd.openxmlformats-officedocument.theme+xml")
	addOverride("/ppt/theme/theme2.xml", "application/vnd.openxmlformats-officedocument.theme+xml")
	for i, slide := range d.Slides {
		addOverride(fmt.Sprintf("/ppt/slides/slide%d.xml", i+1), "application/vnd.openxmlformats-officedocument.presentationml.slide+xml")
		if len(slide.Notes) > 0 {
			addOverride(fmt.Sprintf("/ppt/notesSlides/notesSlide%d.xml", i+1), "application/vnd.openxmlformats-officedocument.presentationml.notesSlide+xml")
		}
	}
	addOverride("/docProps/core.xml", "application/vnd.openxmlformats-package.core-properties+xml")
	addOverride("/docProps/app.xml", "application/vnd.openxmlformats-officedocument.extended-properties+xml")

	return writeXMLToZip(zw, "[Content_Types].xml", doc)
}

func extOf(name string) string {
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			return name[i+1:]
		}
	}
	return ""
}

func writeRootRels(zw *zip.Writer) error {
	doc, rels := newRels()
	addRel(rels, "rId1", relTypeOfficeDocument, "ppt/presentation.xml")
	addRel(rels, "rId2", relTypeCoreProps, "docProps/core.xml")
	addRel(rels, "rId3", relTypeExtProps, "docProps/app.xml")
	return writeXMLToZip(zw, "_rels/.rels", doc)
}

func writeCoreProps(zw *zip.Writer, d *deck.Deck) error {
	doc := newXMLDoc()

	props := doc.CreateElement("cp:coreProperties")
	props.CreateAttr("xmlns:cp", "http://schemas.openxmlformats.org/package/2006/metadata/core-properties")
	props.CreateAttr("xmlns:dc", "http://purl.org/dc/elements/1.1/")
	props.CreateAttr("xmlns:dcterms", "http://purl.org/dc/terms/")
	props.CreateAttr("xmlns:xsi", "http://www.w3.org/2001/XMLSchema-instance")

	props.CreateElement("dc:title").SetText(d.Meta.Title)
	props.CreateElement("dc:creator").SetText(d.Meta.Author)
	props.CreateElement("dc:identifier").SetText(d.Meta.RefID)
	props.CreateElement("cp:lastModifiedBy").SetText(misc.GetAppName())

	stamp := time.Now().UTC().Format(time.RFC3339)
	created := props.CreateElement("dcterms:created")
	created.CreateAttr("xsi:type", "dcterms:W3CDTF")
	created.SetText(stamp)
	modified := props.CreateElement("dcterms:modified")
	modified.CreateAttr("xsi:type", "dcterms:W3CDTF")
	modified.SetText(stamp)

	return writeXMLToZip(zw, "docProps/core.xml", doc)
}

func writeAppProps(zw *zip.Writer, d *deck.Deck) error {
	doc := newXMLDoc()

	props := doc.CreateElement("Properties")
	props.CreateAttr("xmlns", "http://schemas.openxmlformats.org/officeDocument/2006/extended-properties")
	props.CreateAttr("xmlns:vt", "http://schemas.openxmlformats.org/officeDocument/2006/docPropsVTypes")

	props.CreateElement("Application").SetText(misc.GetAppName() + " " + misc.GetVersion())
	props.CreateElement("Slides").SetText(fmt.Sprintf("%d", len(d.Slides)))
	props.CreateElement("PresentationFormat").SetText(d.Meta.Layout.Name())
	props.CreateElement("Company").SetText(d.Meta.Author)

	return writeXMLToZip(zw, "docProps/app.xml", doc)
}

func writePresentation(zw *zip.Writer, d *deck.Deck) error {
	doc := newXMLDoc()

	pres := doc.CreateElement("p:presentation")
	pres.CreateAttr("xmlns:a", nsDrawing)
	pres.CreateAttr("xmlns:r", nsRel)
	pres.CreateAttr("xmlns:p", nsPresent)

	masters := pres.CreateElement("p:sldMasterIdLst")
	master := masters.CreateElement("p:sldMasterId")
	master.CreateAttr("id", "2147483648")
	master.CreateAttr("r:id", "rId1")

	notesMasters := pres.CreateElement("p:notesMasterIdLst")
	notesMasters.CreateElement("p:notesMasterId").CreateAttr("r:id", "rId2")

	slides := pres.CreateElement("p:sldIdLst")
	for i := range d.Slides {
		id := slides.CreateElement("p:sldId")
		id.CreateAttr("id", fmt.Sprintf("%d", 256+i))
		id.CreateAttr("r:id", fmt.Sprintf("rId%d", 3+i))
	}

	cx, cy := d.Meta.Layout.SlideSize()
	size := pres.CreateElement("p:sldSz")
	size.CreateAttr("cx", fmt.Sprintf("%d", cx))
	size.CreateAttr("cy", fmt.Sprintf("%d", cy))

	notesSize := pres.CreateElement("p:notesSz")
	notesSize.CreateAttr("cx", "6858000")
	notesSize.CreateAttr("cy", "9144000")

	if err := writeXMLToZip(zw, "ppt/presentation.xml", doc); err != nil {
		return err
	}

	relsDoc, rels := newRels()
	addRel(rels, "rId1", relTypeSlideMaster, "slideMasters/slideMaster1.xml")
	addRel(rels, "rId2", relTypeNotesMaster, "notesMasters/notesMaster1.xml")
	for i := range d.Slides {
		addRel(rels, fmt.Sprintf("rId%d", 3+i), relTypeSlide, fmt.Sprintf("slides/slide%d.xml", i+1))
	}
	return writeXMLToZip(zw, "ppt/_rels/presentation.xml.rels", relsDoc)
}

// createEmptyShapeTree creates the mandatory group shape skeleton every
// cSld carries.
func createEmptyShapeTree(parent *etree.Element) *etree.Element {
	tree := parent.CreateElement("p:spTree")

	nv := tree.CreateElement("p:nvGrpSpPr")
	cNvPr := nv.CreateElement("p:cNvPr")
	cNvPr.CreateAttr("id", "1")
	cNvPr.CreateAttr("name", "")
	nv.CreateElement("p:cNvGrpSpPr")
	nv.CreateElement("p:nvPr")

	grpSpPr := tree.CreateElement("p:grpSpPr")
	xfrm := grpSpPr.CreateElement("a:xfrm")
	for _, n := range []string{"a:off", "a:chOff"} {
		e := xfrm.CreateElement(n)
		e.CreateAttr("x", "0")
		e.CreateAttr("y", "0")
	}
	for _, n := range []string{"a:ext", "a:chExt"} {
		e := xfrm.CreateElement(n)
		e.CreateAttr("cx", "0")
		e.CreateAttr("cy", "0")
	}
	return tree
}

func createClrMap(parent *etree.Element, name string) {
	m := parent.CreateElement(name)
	for _, a := range []struct{ attr, val string }{
		{"bg1", "lt1"}, {"tx1", "dk1"}, {"bg2", "lt2"}, {"tx2", "dk2"},
	} {
		m.CreateAttr(a.attr, a.val)
	}
	for i := 1; i <= 6; i++ {
		m.CreateAttr(fmt.Sprintf("accent%d", i), fmt.Sprintf("accent%d", i))
	}
	m.CreateAttr("hlink", "hlink")
	m.CreateAttr("folHlink", "folHlink")
}

func writeSlideMaster(zw *zip.Writer) error {
	doc := newXMLDoc()

	master := doc.CreateElement("p:sldMaster")
	master.CreateAttr("xmlns:a", nsDrawing)
	master.CreateAttr("xmlns:r", nsRel)
	master.CreateAttr("xmlns:p", nsPresent)

	cSld := master.CreateElement("p:cSld")
	createEmptyShapeTree(cSld)
	createClrMap(master, "p:clrMap")

	layouts := master.CreateElement("p:sldLayoutIdLst")
	layout := layouts.CreateElement("p:sldLayoutId")
	layout.CreateAttr("id", "2147483649")
	layout.CreateAttr("r:id", "rId1")

	if err := writeXMLToZip(zw, "ppt/slideMasters/slideMaster1.xml", doc); err != nil {
		return err
	}

	relsDoc, rels := newRels()
	addRel(rels, "rId1", relTypeSlideLayout, "../slideLayouts/slideLayout1.xml")
	addRel(rels, "rId2", relTypeTheme, "../theme/theme1.xml")
	return writeXMLToZip(zw, "ppt/slideMasters/_rels/slideMaster1.xml.rels", relsDoc)
}

func writeSlideLayout(zw *zip.Writer) error {
	doc := newXMLDoc()

	layout := doc.CreateElement("p:sldLayout")
	layout.CreateAttr("xmlns:a", nsDrawing)
	layout.CreateAttr("xmlns:r", nsRel)
	layout.CreateAttr("xmlns:p", nsPresent)
	layout.CreateAttr("type", "blank")

	cSld := layout.CreateElement("p:cSld")
	createEmptyShapeTree(cSld)
	layout.CreateElement("p:clrMapOvr").CreateElement("a:masterClrMapping")

	if err := writeXMLToZip(zw, "ppt/slideLayouts/slideLayout1.xml", doc); err != nil {
		return err
	}

	relsDoc, rels := newRels()
	addRel(rels, "rId1", relTypeSlideMaster, "../slideMasters/slideMaster1.xml")
	return writeXMLToZip(zw, "ppt/slideLayouts/_rels/slideLayout1.xml.rels", relsDoc)
}

func writeNotesMaster(zw *zip.Writer) error {
	doc := newXMLDoc()

	master := doc.CreateElement("p:notesMaster")
	master.CreateAttr("xmlns:a", nsDrawing)
	master.CreateAttr("xmlns:r", nsRel)
	master.CreateAttr("xmlns:p", nsPresent)

	cSld := master.CreateElement("p:cSld")
	createEmptyShapeTree(cSld)
	createClrMap(master, "p:clrMap")

	if err := writeXMLToZip(zw, "ppt/notesMasters/notesMaster1.xml", doc); err != nil {
		return err
	}

	relsDoc, rels := newRels()
	addRel(rels, "rId1", relTypeTheme, "../theme/theme2.xml")
	return writeXMLToZip(zw, "ppt/notesMasters/_rels/notesMaster1.xml.rels", relsDoc)
}

// writeTheme emits a minimal but complete drawingml theme - OOXML requires
// full color, font and format schemes even when nothing references them.
func writeTheme(zw *zip.Writer, name string) error {
	doc := newXMLDoc()

	theme := doc.CreateElement("a:theme")
	theme.CreateAttr("xmlns:a", nsDrawing)
	theme.CreateAttr("name", "deckc")

	elements := theme.CreateElement("a:themeElements")

	clrScheme := elements.CreateElement("a:clrScheme")
	clrScheme.CreateAttr("name", "deckc")
	for _, c := range []struct{ name, kind, val string }{
		{"a:dk1", "sysClr", "windowText"},
		{"a:lt1", "sysClr", "window"},
		{"a:dk2", "srgbClr", "44546A"},
		{"a:lt2", "srgbClr", "E7E6E6"},
		{"a:accent1", "srgbClr", "4472C4"},
		{"a:accent2", "srgbClr", "ED7D31"},
		{"a:accent3", "srgbClr", "A5A5A5"},
		{"a:accent4", "srgbClr", "FFC000"},
		{"a:accent5", "srgbClr", "5B9BD5"},
		{"a:accent6", "srgbClr", "70AD47"},
		{"a:hlink", "srgbClr", "0563C1"},
		{"a:folHlink", "srgbClr", "954F72"},
	} {
		e := clrScheme.CreateElement(c.name).CreateElement("a:" + c.kind)
		e.CreateAttr("val", c.val)
		if c.kind == "sysClr" {
			if c.val == "windowText" {
				e.CreateAttr("lastClr", "000000")
			} else {
				e.CreateAttr("lastClr", "FFFFFF")
			}
		}
	}

	fontScheme := elements.CreateElement("a:fontScheme")
	fontScheme.CreateAttr("name", "deckc")
	for _, n := range []string{"a:majorFont", "a:minorFont"} {
		font := fontScheme.CreateElement(n)
		font.CreateElement("a:latin").CreateAttr("typeface", "Calibri")
		font.CreateElement("a:ea").CreateAttr("typeface", "")
		font.CreateElement("a:cs").CreateAttr("typeface", "")
	}

	fmtScheme := elements.CreateElement("a:fmtScheme")
	fmtScheme.CreateAttr("name", "deckc")

	fills := fmtScheme.CreateElement("a:fillStyleLst")
	for i := 0; i < 3; i++ {
		fills.CreateElement("a:solidFill").CreateElement("a:schemeClr").CreateAttr("val", "phClr")
	}

	lines := fmtScheme.CreateElement("a:lnStyleLst")
	for _, w := range []string{"6350", "12700", "19050"} {
		ln := lines.CreateElement("a:ln")
		ln.CreateAttr("w", w)
		ln.CreateElement("a:solidFill").CreateElement("a:schemeClr").CreateAttr("val", "phClr")
	}

	effects := fmtScheme.CreateElement("a:effectStyleLst")
	for i := 0; i < 3; i++ {
		effects.CreateElement("a:effectStyle").CreateElement("a:effectLst")
	}

	bgFills := fmtScheme.CreateElement("a:bgFillStyleLst")
	for i := 0; i < 3; i++ {
		bgFills.CreateElement("a:solidFill").CreateElement("a:schemeClr").CreateAttr("val", "phClr")
	}

	return writeXMLToZip(zw, name, doc)
}
