package pptx

import (
	"archive/zip"
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"deckc/common"
	"deckc/deck"
	"deckc/fragment"
)

const (
	slideMargin   common.EMU = 457200 // half an inch
	titleHeight   common.EMU = 1143000
	bulletMarStep common.EMU = 457200
	bulletIndent  common.EMU = 342900
)

func writeSlide(zw *zip.Writer, d *deck.Deck, idx int, slide *fragment.Slide, log *zap.Logger) error {
	doc := newXMLDoc()

	sld := doc.CreateElement("p:sld")
	sld.CreateAttr("xmlns:a", nsDrawing)
	sld.CreateAttr("xmlns:r", nsRel)
	sld.CreateAttr("xmlns:p", nsPresent)

	cSld := sld.CreateElement("p:cSld")
	tree := createEmptyShapeTree(cSld)

	cx, cy := d.Meta.Layout.SlideSize()
	bodyTop := slideMargin
	shapeID := 2

	if len(slide.Title) > 0 {
		createTitleShape(tree, shapeID, slide.Title, cx)
		shapeID++
		bodyTop = slideMargin + titleHeight
	}

	var textBlocks []fragment.Block
	for _, b := range slide.Blocks {
		if b.Kind != fragment.BlockImage {
			textBlocks = append(textBlocks, b)
		}
	}
	if len(textBlocks) > 0 {
		createBodyShape(tree, shapeID, textBlocks, cx, cy, bodyTop)
		shapeID++
	}

	// Image relationships start right after the layout one.
	relID := 2
	var imageRels []struct {
		id  string
		img *deck.Image
	}
	for _, ref := range slide.Images() {
		img, ok := d.Image(ref.Href)
		if !ok {
			return fmt.Errorf("slide %d references unknown image %q", idx+1, ref.Href)
		}
		id := fmt.Sprintf("rId%d", relID)
		relID++
		createPicture(tree, shapeID, id, ref.Alt, img, cx, cy, bodyTop)
		shapeID++
		imageRels = append(imageRels, struct {
			id  string
			img *deck.Image
		}{id, img})
		log.Debug("Placed image", zap.String("file", img.Filename), zap.Int("slide", idx+1))
	}

	sld.CreateElement("p:clrMapOvr").CreateElement("a:masterClrMapping")

	if err := writeXMLToZip(zw, fmt.Sprintf("ppt/slides/slide%d.xml", idx+1), doc); err != nil {
		return err
	}

	relsDoc, rels := newRels()
	addRel(rels, "rId1", relTypeSlideLayout, "../slideLayouts/slideLayout1.xml")
	for _, ir := range imageRels {
		addRel(rels, ir.id, relTypeImage, "../media/"+ir.img.Filename)
	}
	if len(slide.Notes) > 0 {
		addRel(rels, fmt.Sprintf("rId%d", relID), relTypeNotesSlide, fmt.Sprintf("../notesSlides/notesSlide%d.xml", idx+1))
	}
	if err := writeXMLToZip(zw, fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", idx+1), relsDoc); err != nil {
		return err
	}

	if len(slide.Notes) > 0 {
		return writeNotesSlide(zw, idx, slide)
	}
	return nil
}

func createShapeProps(sp *etree.Element, x, y, w, h common.EMU) {
	spPr := sp.CreateElement("p:spPr")
	xfrm := spPr.CreateElement("a:xfrm")
	off := xfrm.CreateElement("a:off")
	off.CreateAttr("x", fmt.Sprintf("%d", x))
	off.CreateAttr("y", fmt.Sprintf("%d", y))
	ext := xfrm.CreateElement("a:ext")
	ext.CreateAttr("cx", fmt.Sprintf("%d", w))
	ext.CreateAttr("cy", fmt.Sprintf("%d", h))
	geom := spPr.CreateElement("a:prstGeom")
	geom.CreateAttr("prst", "rect")
	geom.CreateElement("a:avLst")
}

func createTitleShape(tree *etree.Element, id int, title string, slideCX common.EMU) {
	sp := tree.CreateElement("p:sp")

	nv := sp.CreateElement("p:nvSpPr")
	cNvPr := nv.CreateElement("p:cNvPr")
	cNvPr.CreateAttr("id", fmt.Sprintf("%d", id))
	cNvPr.CreateAttr("name", "Title")
	nv.CreateElement("p:cNvSpPr").CreateElement("a:spLocks").CreateAttr("noGrp", "1")
	nv.CreateElement("p:nvPr").CreateElement("p:ph").CreateAttr("type", "title")

	createShapeProps(sp, slideMargin, slideMargin, slideCX-2*slideMargin, titleHeight)

	txBody := sp.CreateElement("p:txBody")
	txBody.CreateElement("a:bodyPr")
	txBody.CreateElement("a:lstStyle")
	p := txBody.CreateElement("a:p")
	r := p.CreateElement("a:r")
	rPr := r.CreateElement("a:rPr")
	rPr.CreateAttr("lang", "en-US")
	rPr.CreateAttr("sz", "3600")
	rPr.CreateAttr("b", "1")
	r.CreateElement("a:t").SetText(title)
}

func createBodyShape(tree *etree.Element, id int, blocks []fragment.Block, slideCX, slideCY, top common.EMU) {
	sp := tree.CreateElement("p:sp")

	nv := sp.CreateElement("p:nvSpPr")
	cNvPr := nv.CreateElement("p:cNvPr")
	cNvPr.CreateAttr("id", fmt.Sprintf("%d", id))
	cNvPr.CreateAttr("name", "Content")
	nv.CreateElement("p:cNvSpPr").CreateElement("a:spLocks").CreateAttr("noGrp", "1")
	ph := nv.CreateElement("p:nvPr").CreateElement("p:ph")
	ph.CreateAttr("type", "body")
	ph.CreateAttr("idx", "1")

	createShapeProps(sp, slideMargin, top, slideCX-2*slideMargin, slideCY-top-slideMargin)

	txBody := sp.CreateElement("p:txBody")
	bodyPr := txBody.CreateElement("a:bodyPr")
	bodyPr.CreateElement("a:normAutofit")
	txBody.CreateElement("a:lstStyle")

	for i := range blocks {
		createParagraph(txBody, &blocks[i])
	}
}

func createParagraph(txBody *etree.Element, b *fragment.Block) {
	p := txBody.CreateElement("a:p")
	pPr := p.CreateElement("a:pPr")
	if len(b.Align) > 0 {
		pPr.CreateAttr("algn", b.Align)
	}

	switch b.Kind {
	case fragment.BlockBullet:
		pPr.CreateAttr("lvl", fmt.Sprintf("%d", b.Level))
		pPr.CreateAttr("marL", fmt.Sprintf("%d", bulletMarStep*common.EMU(b.Level)+bulletIndent))
		pPr.CreateAttr("indent", fmt.Sprintf("%d", -bulletIndent))
		buFont := pPr.CreateElement("a:buFont")
		buFont.CreateAttr("typeface", "Arial")
		pPr.CreateElement("a:buChar").CreateAttr("char", "•")
	case fragment.BlockCode:
		pPr.CreateElement("a:buNone")
		createCodeRuns(p, b)
		return
	default:
		pPr.CreateElement("a:buNone")
	}

	for _, run := range b.Runs {
		createRun(p, run)
	}
}

// createCodeRuns renders preformatted text preserving line structure with
// explicit breaks.
func createCodeRuns(p *etree.Element, b *fragment.Block) {
	lines := strings.Split(b.Text(), "\n")
	for i, line := range lines {
		if i > 0 {
			br := p.CreateElement("a:br")
			codeRunProps(br.CreateElement("a:rPr"), fragment.Run{})
		}
		if len(line) == 0 {
			continue
		}
		r := p.CreateElement("a:r")
		codeRunProps(r.CreateElement("a:rPr"), fragment.Run{})
		r.CreateElement("a:t").SetText(line)
	}
}

func codeRunProps(rPr *etree.Element, run fragment.Run) {
	rPr.CreateAttr("lang", "en-US")
	rPr.CreateAttr("sz", "1400")
	rPr.CreateElement("a:latin").CreateAttr("typeface", "Consolas")
	if len(run.Color) > 0 {
		rPr.CreateElement("a:solidFill").CreateElement("a:srgbClr").CreateAttr("val", run.Color)
	}
}

func createRun(p *etree.Element, run fragment.Run) {
	if len(run.Text) == 0 {
		return
	}
	r := p.CreateElement("a:r")
	rPr := r.CreateElement("a:rPr")
	rPr.CreateAttr("lang", "en-US")
	if run.SizePt > 0 {
		rPr.CreateAttr("sz", fmt.Sprintf("%d", int(run.SizePt*100)))
	}
	if run.Bold {
		rPr.CreateAttr("b", "1")
	}
	if run.Italic {
		rPr.CreateAttr("i", "1")
	}
	if run.Underline {
		rPr.CreateAttr("u", "sng")
	}
	if len(run.Color) > 0 {
		rPr.CreateElement("a:solidFill").CreateElement("a:srgbClr").CreateAttr("val", run.Color)
	}
	if run.Code {
		rPr.CreateElement("a:latin").CreateAttr("typeface", "Consolas")
	}
	r.CreateElement("a:t").SetText(run.Text)
}

func createPicture(tree *etree.Element, id int, relID, alt string, img *deck.Image, slideCX, slideCY, top common.EMU) {
	pic := tree.CreateElement("p:pic")

	nv := pic.CreateElement("p:nvPicPr")
	cNvPr := nv.CreateElement("p:cNvPr")
	cNvPr.CreateAttr("id", fmt.Sprintf("%d", id))
	cNvPr.CreateAttr("name", img.Filename)
	if len(alt) > 0 {
		cNvPr.CreateAttr("descr", alt)
	}
	nv.CreateElement("p:cNvPicPr").CreateElement("a:picLocks").CreateAttr("noChangeAspect", "1")
	nv.CreateElement("p:nvPr")

	blipFill := pic.CreateElement("p:blipFill")
	blipFill.CreateElement("a:blip").CreateAttr("r:embed", relID)
	blipFill.CreateElement("a:stretch").CreateElement("a:fillRect")

	w := common.EMU(img.Width) * common.EMUPerPixel
	h := common.EMU(img.Height) * common.EMUPerPixel
	maxW := slideCX - 2*slideMargin
	maxH := slideCY - top - slideMargin
	if w > maxW {
		h = h * maxW / w
		w = maxW
	}
	if h > maxH {
		w = w * maxH / h
		h = maxH
	}

	// Center horizontally in the content area.
	x := slideMargin + (maxW-w)/2
	y := top + (maxH-h)/2

	spPr := pic.CreateElement("p:spPr")
	xfrm := spPr.CreateElement("a:xfrm")
	off := xfrm.CreateElement("a:off")
	off.CreateAttr("x", fmt.Sprintf("%d", x))
	off.CreateAttr("y", fmt.Sprintf("%d", y))
	ext := xfrm.CreateElement("a:ext")
	ext.CreateAttr("cx", fmt.Sprintf("%d", w))
	ext.CreateAttr("cy", fmt.Sprintf("%d", h))
	geom := spPr.CreateElement("a:prstGeom")
	geom.CreateAttr("prst", "rect")
	geom.CreateElement("a:avLst")
}

func writeNotesSlide(zw *zip.Writer, idx int, slide *fragment.Slide) error {
	doc := newXMLDoc()

	notes := doc.CreateElement("p:notes")
	notes.CreateAttr("xmlns:a", nsDrawing)
	notes.CreateAttr("xmlns:r", nsRel)
	notes.CreateAttr("xmlns:p", nsPresent)

	cSld := notes.CreateElement("p:cSld")
	tree := createEmptyShapeTree(cSld)

	sp := tree.CreateElement("p:sp")
	nv := sp.CreateElement("p:nvSpPr")
	cNvPr := nv.CreateElement("p:cNvPr")
	cNvPr.CreateAttr("id", "2")
	cNvPr.CreateAttr("name", "Notes Placeholder")
	nv.CreateElement("p:cNvSpPr").CreateElement("a:spLocks").CreateAttr("noGrp", "1")
	ph := nv.CreateElement("p:nvPr").CreateElement("p:ph")
	ph.CreateAttr("type", "body")
	ph.CreateAttr("idx", "1")

	sp.CreateElement("p:spPr")

	txBody := sp.CreateElement("p:txBody")
	txBody.CreateElement("a:bodyPr")
	txBody.CreateElement("a:lstStyle")
	for _, line := range slide.Notes {
		p := txBody.CreateElement("a:p")
		r := p.CreateElement("a:r")
		r.CreateElement("a:rPr").CreateAttr("lang", "en-US")
		r.CreateElement("a:t").SetText(line)
	}

	notes.CreateElement("p:clrMapOvr").CreateElement("a:masterClrMapping")

	if err := writeXMLToZip(zw, fmt.Sprintf("ppt/notesSlides/notesSlide%d.xml", idx+1), doc); err != nil {
		return err
	}

	relsDoc, rels := newRels()
	addRel(rels, "rId1", relTypeNotesMaster, "../notesMasters/notesMaster1.xml")
	addRel(rels, "rId2", relTypeSlide, fmt.Sprintf("../slides/slide%d.xml", idx+1))
	return writeXMLToZip(zw, fmt.Sprintf("ppt/notesSlides/_rels/notesSlide%d.xml.rels", idx+1), relsDoc)
}
