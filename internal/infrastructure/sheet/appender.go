// Package sheet mirrors finished audits into the sales team's workbook,
// one row per audit.
package sheet

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/leadbeacon/beacon/internal/core/domain"
)

const defaultSheetName = "Inbound Digital Audit"

var headerRow = []any{
	"Timestamp",
	"Audit ID",
	"Audit Link",
	"Company Name",
	"Website URL",
	"Contact Name",
	"Email",
	"Phone",
	"Site Performance Score",
	"Search Visibility Score",
	"Local Entity Score",
	"Content Score",
	"Social Score",
	"AI Readiness Score",
	"Overall Score",
	"Organic Keywords",
	"Domain Authority",
	"Backlink Profile",
	"Performance Score",
	"Mobile Optimization",
	"Google Reviews",
	"Pending Providers",
}

type Appender struct {
	mu        sync.Mutex
	path      string
	sheetName string
	// Public report URL prefix for the Audit Link column.
	reportBaseURL string

	headerVerified bool
}

func NewAppender(path, sheetName, reportBaseURL string) *Appender {
	if sheetName == "" {
		sheetName = defaultSheetName
	}
	return &Appender{
		path:          path,
		sheetName:     sheetName,
		reportBaseURL: strings.TrimSuffix(reportBaseURL, "/"),
	}
}

// Append writes one row for the audit, creating the workbook, the tab,
// and the header on first use.
func (a *Appender) Append(ctx context.Context, doc *domain.AuditDocument) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	book, created, err := a.open()
	if err != nil {
		return err
	}
	defer book.Close()

	if err := a.ensureSheet(book, created); err != nil {
		return err
	}

	rows, err := book.GetRows(a.sheetName)
	if err != nil {
		return fmt.Errorf("count sheet rows: %w", err)
	}
	cell, err := excelize.CoordinatesToCellName(1, len(rows)+1)
	if err != nil {
		return fmt.Errorf("next row cell: %w", err)
	}
	row := a.buildRow(doc)
	if err := book.SetSheetRow(a.sheetName, cell, &row); err != nil {
		return fmt.Errorf("write audit row: %w", err)
	}

	if err := book.SaveAs(a.path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func (a *Appender) open() (*excelize.File, bool, error) {
	book, err := excelize.OpenFile(a.path)
	if err == nil {
		return book, false, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return excelize.NewFile(), true, nil
	}
	return nil, false, fmt.Errorf("open workbook: %w", err)
}

// ensureSheet makes sure the audit tab and its header exist. The check is
// remembered per appender, not per process, so two appenders never trust
// each other's state.
func (a *Appender) ensureSheet(book *excelize.File, created bool) error {
	if a.headerVerified && !created {
		return nil
	}

	idx, err := book.GetSheetIndex(a.sheetName)
	if err != nil {
		return fmt.Errorf("look up sheet: %w", err)
	}
	if idx < 0 {
		if _, err := book.NewSheet(a.sheetName); err != nil {
			return fmt.Errorf("create sheet: %w", err)
		}
	}

	rows, err := book.GetRows(a.sheetName)
	if err != nil {
		return fmt.Errorf("read sheet rows: %w", err)
	}
	if len(rows) == 0 {
		header := headerRow
		if err := book.SetSheetRow(a.sheetName, "A1", &header); err != nil {
			return fmt.Errorf("write header row: %w", err)
		}
	}
	a.headerVerified = true
	return nil
}

func (a *Appender) buildRow(doc *domain.AuditDocument) []any {
	groupScores := []*domain.MetricGroup{
		doc.SitePerformance,
		doc.SearchVisibility,
		doc.LocalEntity,
		doc.Content,
		doc.Social,
		doc.AIReadiness,
	}

	row := []any{
		doc.Meta.CreatedAt.UTC().Format(time.RFC3339),
		doc.ID,
		a.auditLink(doc.ID),
		doc.Meta.CompanyName,
		doc.Meta.URL,
		doc.Meta.ContactName,
		doc.Meta.Email,
		doc.Meta.Phone,
	}
	for _, g := range groupScores {
		row = append(row, groupScore(g))
	}
	row = append(row,
		overallScore(groupScores),
		groupMetric(doc.SearchVisibility, "Organic Keywords"),
		groupMetric(doc.SearchVisibility, "Domain Authority Score"),
		groupMetric(doc.SearchVisibility, "Backlink Profile"),
		groupMetric(doc.SitePerformance, "Performance Score"),
		groupMetric(doc.SitePerformance, "Mobile Optimization"),
		groupMetric(doc.LocalEntity, "Google Reviews"),
		pendingList(doc.PendingProviders),
	)
	return row
}

func (a *Appender) auditLink(id string) string {
	if a.reportBaseURL == "" || id == "" {
		return ""
	}
	return fmt.Sprintf("%s/results/%s", a.reportBaseURL, id)
}

func groupScore(g *domain.MetricGroup) any {
	if g == nil {
		return ""
	}
	return g.Score
}

func overallScore(groups []*domain.MetricGroup) any {
	var sum, n int
	for _, g := range groups {
		if g == nil {
			continue
		}
		sum += g.Score
		n++
	}
	if n == 0 {
		return ""
	}
	return int(math.Round(float64(sum) / float64(n)))
}

func groupMetric(g *domain.MetricGroup, label string) string {
	if g == nil {
		return ""
	}
	for _, m := range g.Metrics {
		if m.Label == label {
			return m.Value
		}
	}
	return ""
}

func pendingList(pending []domain.Provider) string {
	if len(pending) == 0 {
		return ""
	}
	names := make([]string, len(pending))
	for i, p := range pending {
		names[i] = string(p)
	}
	return strings.Join(names, ", ")
}
