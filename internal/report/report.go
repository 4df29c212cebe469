// Package report renders the persons listing as a paginated PDF table.
package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/atinyakov/UserNotepad/internal/attribute"
	"github.com/atinyakov/UserNotepad/internal/models"
)

// Row is one rendered line of the report.
type Row struct {
	Index      int
	Title      string
	Name       string
	Surname    string
	Age        int
	BirthDate  string
	Sex        string
	Attributes string
}

func (r Row) cells() []string {
	return []string{
		strconv.Itoa(r.Index),
		r.Title,
		r.Name,
		r.Surname,
		strconv.Itoa(r.Age),
		r.BirthDate,
		r.Sex,
		r.Attributes,
	}
}

// Salutation returns the title used in front of a person's name.
func Salutation(sex models.Sex) string {
	switch sex {
	case models.SexMale:
		return "Mr."
	case models.SexFemale:
		return "Ms."
	default:
		return "Mx."
	}
}

// Age returns the number of full years between birth and today.
func Age(birth, today models.Date) int {
	age := today.Year() - birth.Year()
	if today.Month() < birth.Month() || (today.Month() == birth.Month() && today.Day() < birth.Day()) {
		age--
	}
	return age
}

// Attributes joins attrs as "key: value" pairs, or "-" when there are none.
func Attributes(attrs []models.Attribute) string {
	if len(attrs) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(attrs))
	for _, a := range attrs {
		parts = append(parts, a.Key+": "+attribute.Format(a.Value, a.ValueType))
	}
	return strings.Join(parts, ", ")
}

// Rows builds the report rows in ascending creation order.
func Rows(persons []models.Person, today models.Date) []Row {
	ordered := make([]models.Person, len(persons))
	copy(ordered, persons)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})

	rows := make([]Row, 0, len(ordered))
	for i, p := range ordered {
		rows = append(rows, Row{
			Index:      i + 1,
			Title:      Salutation(p.Sex),
			Name:       p.Name,
			Surname:    p.Surname,
			Age:        Age(p.BirthDate, today),
			BirthDate:  p.BirthDate.Format("02.01.2006"),
			Sex:        p.Sex.String(),
			Attributes: Attributes(p.Attributes),
		})
	}
	return rows
}

type column struct {
	title string
	width float64
}

var columns = []column{
	{"#", 9},
	{"Title", 11},
	{"Name", 27},
	{"Surname", 27},
	{"Age", 10},
	{"Birth Date", 20},
	{"Sex", 14},
	{"Attributes", 72},
}

const (
	margin     = 10.0
	lineHeight = 4.5
	padding    = 1.0
	footerRoom = 8.0
	fontFamily = "Go"
)

// Renderer produces the PDF document.
type Renderer struct {
	compress bool
}

// NewRenderer returns a Renderer producing compressed documents.
func NewRenderer() *Renderer {
	return &Renderer{compress: true}
}

// Render writes an A4 report of persons generated at generatedAt to w.
// Ages are computed against the UTC date of generatedAt. Rows taller than a
// page continue on the following pages.
func (r *Renderer) Render(w io.Writer, persons []models.Person, generatedAt time.Time) error {
	generatedAt = generatedAt.UTC()
	rows := Rows(persons, models.DateOf(generatedAt))

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(r.compress)
	pdf.SetMargins(margin, margin, margin)
	pdf.SetCellMargin(padding)
	pdf.SetAutoPageBreak(false, margin)
	pdf.AliasNbPages("{nb}")
	pdf.SetTitle("Users report", true)
	pdf.AddUTF8FontFromBytes(fontFamily, "", goregular.TTF)
	pdf.AddUTF8FontFromBytes(fontFamily, "B", gobold.TTF)

	tableHeader := func() {
		pdf.SetFont(fontFamily, "B", 10)
		pdf.SetFillColor(238, 238, 238)
		pdf.SetDrawColor(200, 200, 200)
		for _, c := range columns {
			pdf.CellFormat(c.width, 7, c.title, "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont(fontFamily, "", 10)
	}

	pdf.SetHeaderFunc(func() {
		pdf.SetFont(fontFamily, "B", 16)
		title := fmt.Sprintf("Users report,\ngenerated: %s UTC", generatedAt.Format("02.01.2006 15:04:05"))
		pdf.MultiCell(0, 7, title, "", "L", false)
		pdf.Ln(3)
		tableHeader()
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-margin)
		pdf.SetFont(fontFamily, "", 9)
		pdf.CellFormat(0, 5, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "R", false, 0, "")
	})

	pdf.SetFont(fontFamily, "", 10)
	pdf.AddPage()
	_, pageHeight := pdf.GetPageSize()
	top, bottom := pdf.GetY(), pageHeight-margin-footerRoom
	pageLines := linesBetween(top, bottom)

	for _, row := range rows {
		cells := wrapRow(pdf, row)
		total := 1
		for _, lines := range cells {
			total = max(total, len(lines))
		}

		for start := 0; start < total; {
			fit := linesBetween(pdf.GetY(), bottom)
			if fit < 1 || (start == 0 && fit < total && total <= pageLines) {
				pdf.AddPage()
				continue
			}
			end := min(start+fit, total)
			drawLines(pdf, cells, start, end)
			start = end
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}

func linesBetween(y, bottom float64) int {
	return int((bottom - y - 2*padding) / lineHeight)
}

// wrapRow splits every cell of row into lines fitting its column.
func wrapRow(pdf *fpdf.Fpdf, row Row) [][]string {
	cells := row.cells()
	wrapped := make([][]string, len(cells))
	for i, text := range cells {
		wrapped[i] = pdf.SplitText(printable(text), columns[i].width)
	}
	return wrapped
}

// drawLines draws lines [start, end) of every cell and closes them with a
// bottom rule.
func drawLines(pdf *fpdf.Fpdf, cells [][]string, start, end int) {
	x, y := margin, pdf.GetY()
	height := float64(end-start)*lineHeight + 2*padding
	for i, lines := range cells {
		width := columns[i].width
		for k := start; k < end && k < len(lines); k++ {
			pdf.SetXY(x, y+padding+float64(k-start)*lineHeight)
			pdf.CellFormat(width, lineHeight, lines[k], "", 0, "L", false, 0, "")
		}
		pdf.Line(x, y+height, x+width, y+height)
		x += width
	}
	pdf.SetXY(margin, y+height)
}

// printable replaces runes outside the Basic Multilingual Plane, which the
// embedded fonts cannot address.
func printable(s string) string {
	return strings.Map(func(r rune) rune {
		if r > 0xFFFF {
			return '?'
		}
		return r
	}, s)
}
