// Package generator renders stored asset records as CSV.
package generator

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/yirassssindaba-coder/asset-inventory/internal/errors"
	"github.com/yirassssindaba-coder/asset-inventory/internal/inventory"
	"github.com/yirassssindaba-coder/asset-inventory/internal/models"
)

// Header is the first row of every export.
var Header = []string{
	"asset_id",
	"hostname",
	"os",
	"cpu_model",
	"cpu_cores",
	"ram_total_mb",
	"timestamp_utc",
	"disks",
}

// Generator is responsible for generating CSV exports from asset records
type Generator struct {
	// Skipped counts the records left out of the last export because they
	// did not have the asset record shape.
	Skipped int
}

// NewGenerator creates a new Generator instance
func NewGenerator() *Generator {
	return &Generator{}
}

// GenerateCSV renders one row per asset record, in input order, below
// Header. Records that are not asset records are skipped.
func (g *Generator) GenerateCSV(records []models.Value) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(Header); err != nil {
		return "", errors.NewOutputError("failed to write CSV header", err)
	}

	g.Skipped = 0
	for _, v := range records {
		r, err := inventory.FromValue(v)
		if err != nil {
			g.Skipped++
			continue
		}
		if err := w.Write(row(r)); err != nil {
			return "", errors.NewOutputError("failed to write CSV row", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", errors.NewOutputError("failed to flush CSV", err)
	}
	return buf.String(), nil
}

// GenerateCSV is a convenience wrapper around a fresh Generator.
func GenerateCSV(records []models.Value) (string, error) {
	return NewGenerator().GenerateCSV(records)
}

func row(r inventory.Record) []string {
	return []string{
		r.AssetID,
		r.Hostname,
		r.OS,
		r.CPUModel,
		strconv.Itoa(r.CPUCores),
		strconv.FormatInt(r.RAMTotalMB, 10),
		r.TimestampUTC,
		DisksSummary(r.Disks),
	}
}

// DisksSummary renders disks as "mount:total/free" entries joined by " | ".
func DisksSummary(disks []inventory.Disk) string {
	parts := make([]string, 0, len(disks))
	for _, d := range disks {
		parts = append(parts, fmt.Sprintf("%s:%d/%d", d.Mount, d.TotalGB, d.FreeGB))
	}
	return strings.Join(parts, " | ")
}
