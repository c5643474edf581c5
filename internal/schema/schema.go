// Package schema checks documents against the asset record shape.
//
// The check is structural only: presence and kind of each field. Values
// themselves (ranges, empty strings, array length) are not inspected.
package schema

import (
	"github.com/yirassssindaba-coder/asset-inventory/internal/errors"
	"github.com/yirassssindaba-coder/asset-inventory/internal/models"
)

// Field names of an asset record.
const (
	FieldAssetID      = "asset_id"
	FieldHostname     = "hostname"
	FieldOS           = "os"
	FieldCPUModel     = "cpu_model"
	FieldCPUCores     = "cpu_cores"
	FieldRAMTotalMB   = "ram_total_mb"
	FieldDisks        = "disks"
	FieldTimestampUTC = "timestamp_utc"
	FieldAgentVersion = "agent_version"

	FieldMount   = "mount"
	FieldTotalGB = "total_gb"
	FieldFreeGB  = "free_gb"
)

// RequiredStrings lists the string fields in the order they are checked.
var RequiredStrings = []string{
	FieldAssetID,
	FieldHostname,
	FieldOS,
	FieldCPUModel,
	FieldTimestampUTC,
	FieldAgentVersion,
}

// ValidateAsset reports whether v has the asset record shape. On failure
// reason names the first missing or mistyped field; on success it is empty.
func ValidateAsset(v models.Value) (ok bool, reason string) {
	if !v.IsObject() {
		return false, "root bukan object"
	}

	for _, k := range RequiredStrings {
		if !hasKind(v, k, models.String) {
			return false, "field string wajib: " + k
		}
	}
	if !hasKind(v, FieldCPUCores, models.Number) {
		return false, "field number wajib: " + FieldCPUCores
	}
	if !hasKind(v, FieldRAMTotalMB, models.Number) {
		return false, "field number wajib: " + FieldRAMTotalMB
	}
	if !hasKind(v, FieldDisks, models.Array) {
		return false, "field array wajib: " + FieldDisks
	}

	disks, _ := v.At(FieldDisks)
	for _, d := range disks.Elems() {
		if !d.IsObject() {
			return false, "disk item bukan object"
		}
		if !hasKind(d, FieldMount, models.String) {
			return false, "disk.mount wajib string"
		}
		if !hasKind(d, FieldTotalGB, models.Number) {
			return false, "disk.total_gb wajib number"
		}
		if !hasKind(d, FieldFreeGB, models.Number) {
			return false, "disk.free_gb wajib number"
		}
	}
	return true, ""
}

func hasKind(obj models.Value, key string, k models.Kind) bool {
	m, err := obj.At(key)
	return err == nil && m.Kind() == k
}

// Violation is the error form of a failed ValidateAsset.
type Violation struct {
	Reason string
}

func (e *Violation) Error() string {
	return "schema violation: " + e.Reason
}

// Unwrap lets errors.Is match errors.ErrSchemaViolation.
func (e *Violation) Unwrap() error { return errors.ErrSchemaViolation }

// Check is ValidateAsset for callers that prefer an error value. It
// returns nil or a *Violation.
func Check(v models.Value) error {
	if ok, reason := ValidateAsset(v); !ok {
		return &Violation{Reason: reason}
	}
	return nil
}
