package pdf

import (
	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/page"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

var shade = &props.Color{Red: 240, Green: 240, Blue: 240}

// Draw renders a layout with one maroto page per layout page.
func Draw(l Layout) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(Margin).
		WithTopMargin(Margin).
		WithRightMargin(Margin).
		WithBottomMargin(InstructionsReserve / 2).
		WithMaxGridSize(GridSize).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	pages := make([]core.Page, 0, len(l.Pages))
	for _, p := range l.Pages {
		rows := make([]core.Row, 0, len(p.Rows))
		for _, r := range p.Rows {
			rows = append(rows, drawRow(r))
		}
		pages = append(pages, page.New().Add(rows...))
	}
	m.AddPages(pages...)

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return doc.GetBytes(), nil
}

func drawRow(r Row) core.Row {
	cols := make([]core.Col, 0, len(r.Cells)+1)
	used := 0
	for _, cell := range r.Cells {
		cols = append(cols, drawCell(cell))
		used += cell.Span
	}
	if used < GridSize {
		cols = append(cols, col.New(GridSize-used))
	}

	out := row.New(r.Height).Add(cols...)
	if r.Shaded {
		out = out.WithStyle(&props.Cell{BackgroundColor: shade})
	}
	return out
}

func drawCell(c Cell) core.Col {
	if c.Image != nil {
		return image.NewFromBytesCol(c.Span, c.Image.Data, imageExtension(c.Image.Extension), props.Rect{
			Percent: 100,
		})
	}
	if c.Text == "" {
		return col.New(c.Span)
	}

	style := fontstyle.Normal
	if c.Bold {
		style = fontstyle.Bold
	}
	a := align.Left
	if c.Align == AlignRight {
		a = align.Right
	}
	return text.NewCol(c.Span, c.Text, props.Text{
		Size:  c.Size,
		Style: style,
		Align: a,
	})
}

func imageExtension(ext string) extension.Type {
	if ext == "png" {
		return extension.Png
	}
	return extension.Jpg
}
