package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"medtour-itinerary-service/internal/domain/entity"
	"medtour-itinerary-service/pkg/utils"

	"github.com/jung-kurt/gofpdf"
)

// TimelinePDFRenderer renders a projected timeline as an A4 document
type TimelinePDFRenderer struct {
	now func() time.Time
}

// NewTimelinePDFRenderer creates a renderer. now may be nil.
func NewTimelinePDFRenderer(now func() time.Time) *TimelinePDFRenderer {
	if now == nil {
		now = time.Now
	}
	return &TimelinePDFRenderer{now: now}
}

// Render returns the PDF bytes
func (r *TimelinePDFRenderer) Render(timeline *entity.Timeline) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetTitle(fmt.Sprintf("Itinerary %s", timeline.OrderID), false)
	pdf.AddPage()

	// header bar
	pdf.SetFillColor(13, 24, 37)
	pdf.Rect(0, 0, 210, 28, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetXY(20, 8)
	pdf.CellFormat(170, 10, "Treatment Trip Itinerary", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(20, 18)
	pdf.CellFormat(170, 6, fmt.Sprintf("Order %s  |  generated %s", timeline.OrderID,
		r.now().UTC().Format("02 Jan 2006, 15:04 UTC")), "", 1, "L", false, 0, "")
	pdf.SetY(36)
	pdf.SetTextColor(0, 0, 0)

	if len(timeline.Items) == 0 {
		pdf.SetFont("Helvetica", "I", 11)
		pdf.CellFormat(170, 8, "No itinerary entries yet.", "", 1, "L", false, 0, "")
	}

	day := ""
	for _, item := range timeline.Items {
		if d := item.Start.Format("Mon 02 Jan 2006"); d != day {
			day = d
			sectionHeader(pdf, d)
		}
		itemRow(pdf, item)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render timeline pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func sectionHeader(pdf *gofpdf.Fpdf, title string) {
	pdf.Ln(2)
	pdf.SetFillColor(13, 24, 37)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(170, 8, "  "+title, "", 1, "L", true, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(1)
}

func itemRow(pdf *gofpdf.Fpdf, item entity.TimelineItem) {
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(100, 100, 100)
	pdf.CellFormat(20, 7, item.Start.Format("15:04"), "", 0, "L", false, 0, "")
	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(150, 7, fmt.Sprintf("%s  %s", kindLabel(item.Kind), item.Title), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, line := range detailLines(item) {
		pdf.SetX(40)
		pdf.MultiCell(150, 5, line, "", "L", false)
	}
}

func kindLabel(kind string) string {
	switch kind {
	case entity.ItemKindFlight:
		return "[Flight]"
	case entity.ItemKindHotel:
		return "[Hotel]"
	case entity.ItemKindAppointment:
		return "[Doctor]"
	default:
		return "[Activity]"
	}
}

func detailLines(item entity.TimelineItem) []string {
	var lines []string
	if item.Location != "" {
		lines = append(lines, item.Location)
	}
	if f := item.Flight; f != nil {
		for _, s := range f.Segments {
			lines = append(lines, fmt.Sprintf("%s %s  %s %s -> %s %s  (%s)",
				s.FlightNumber, s.Airline,
				s.Origin, s.DepartureTime.Format("15:04"),
				s.Destination, s.ArrivalTime.Format("02 Jan 15:04"),
				utils.FormatMinutes(s.DurationMinutes)))
		}
		switch {
		case f.IsDirect:
			lines = append(lines, "Direct")
		case f.Layover != "":
			lines = append(lines, fmt.Sprintf("Via %s, layover %s", f.ConnectionCity, f.Layover))
		case f.ConnectionCity != "":
			lines = append(lines, "Via "+f.ConnectionCity)
		}
	}
	if item.Nights > 0 {
		lines = append(lines, fmt.Sprintf("%d night(s), check-out %s", item.Nights, item.End.Format("02 Jan 15:04")))
	} else if !item.End.IsZero() && item.Flight == nil {
		lines = append(lines, "until "+item.End.Format("15:04"))
	}
	if item.Description != "" && item.Flight == nil {
		lines = append(lines, strings.TrimSpace(item.Description))
	}
	return lines
}
