package models

import (
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	guidelinesNamespace = "pedoman"
	thesisNamespacePfx  = "skripsi_mahasiswa_"
)

// Label renders "<source>[ - Hal. <page>][ - <chapter>]". A zero page counts as absent.
func (s Source) Label() string {
	var b strings.Builder
	b.WriteString(s.Source)
	if s.Page != nil && *s.Page != 0 {
		fmt.Fprintf(&b, " - Hal. %d", *s.Page)
	}
	if s.Chapter != nil && *s.Chapter != "" {
		b.WriteString(" - ")
		b.WriteString(*s.Chapter)
	}
	return b.String()
}

// Percent is the similarity score as a rounded percentage.
func (s Source) Percent() int {
	return int(math.Round(s.SimilarityScore * 100))
}

// Line is the full source line, e.g. "Pedoman.pdf - Hal. 34 (87%)".
func (s Source) Line() string {
	return fmt.Sprintf("%s (%d%%)", s.Label(), s.Percent())
}

// FormatProcessingTime renders seconds with two decimals, e.g. "1.20s".
func FormatProcessingTime(seconds float64) string {
	return fmt.Sprintf("%.2fs", seconds)
}

// DocumentTypeLabel is the display name of a document type
func DocumentTypeLabel(t DocumentType) string {
	if t == DocumentTypeGuidelines {
		return "Pedoman Skripsi"
	}
	return "Skripsi Mahasiswa"
}

// NamespaceLabel is the display name of a vector store namespace
func NamespaceLabel(namespace string) string {
	if namespace == guidelinesNamespace {
		return "Pedoman Skripsi"
	}
	return fmt.Sprintf("Skripsi Mahasiswa (%s)", strings.Replace(namespace, thesisNamespacePfx, "", 1))
}

// HealthLabel renders the overall status badge text
func HealthLabel(status string) string {
	if status == HealthStatusHealthy {
		return "Sehat"
	}
	return "Bermasalah"
}

// ServiceLabel turns a service key like "vector_store" into "vector store" (first underscore only).
func ServiceLabel(name string) string {
	return strings.Replace(name, "_", " ", 1)
}

// ServiceStatusLabel renders a single service flag
func ServiceStatusLabel(up bool) string {
	if up {
		return "Aktif"
	}
	return "Tidak Aktif"
}

// ChunksLabel renders "N chunks"
func ChunksLabel(count int) string {
	return fmt.Sprintf("%d chunks", count)
}

// FormatUptime renders "<h>h <m>m" of now minus timestamp. Negative spans render as "0h 0m".
// The timestamp is the moment of the last health check, so the value is really the age of that check.
func FormatUptime(timestamp time.Time, now time.Time) string {
	if timestamp.IsZero() {
		return "-"
	}
	diff := now.Sub(timestamp)
	if diff < 0 {
		diff = 0
	}
	hours := int(diff.Hours())
	minutes := int(diff.Minutes()) % 60
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

// BarPercent scales count against max for the namespace distribution bars.
func BarPercent(count, max int) float64 {
	if max <= 0 {
		return 0
	}
	return float64(count) / float64(max) * 100
}
