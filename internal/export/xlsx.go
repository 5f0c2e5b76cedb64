// Package export renders scouted leads into a spreadsheet a sales team can
// import into their CRM.
package export

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/sitescout/sitescout-api/internal/models"
)

const (
	SheetName   = "Leads"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var header = []interface{}{
	"ID", "Name", "Industry", "Location", "Website", "Phone", "Email",
	"Rating", "Review Count", "Social Media", "Source URL",
}

// WriteLeads writes one header row followed by one row per lead.
func WriteLeads(w io.Writer, leads []models.BusinessProfile) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, lead := range leads {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := leadRow(lead)
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write lead %s: %w", lead.ID, err)
		}
	}

	if err := f.SetColWidth(SheetName, "A", "K", 22); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// Filename is the attachment name for a lead export.
func Filename(industry, location string, page int) string {
	slug := strings.NewReplacer(" ", "-", ",", "", "/", "-").Replace(strings.ToLower(industry + "-" + location))
	return fmt.Sprintf("leads-%s-p%d.xlsx", slug, page)
}

func leadRow(lead models.BusinessProfile) []interface{} {
	return []interface{}{
		lead.ID,
		lead.Name,
		lead.Industry,
		lead.Location,
		deref(lead.Website),
		lead.Phone,
		deref(lead.Email),
		ratingCell(lead.Rating),
		reviewCell(lead.ReviewCount),
		socials(lead.SocialMedia),
		lead.SourceURL,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func ratingCell(r *float64) interface{} {
	if r == nil {
		return ""
	}
	return *r
}

func reviewCell(n *int) interface{} {
	if n == nil {
		return ""
	}
	return *n
}

// socials flattens the platform map into "platform: url" lines in a stable
// order.
func socials(links map[string]string) string {
	platforms := make([]string, 0, len(links))
	for platform := range links {
		platforms = append(platforms, platform)
	}
	sort.Strings(platforms)

	lines := make([]string, 0, len(platforms))
	for _, platform := range platforms {
		lines = append(lines, platform+": "+links[platform])
	}
	return strings.Join(lines, "\n")
}
