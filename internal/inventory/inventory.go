// Package inventory turns a platform snapshot into an asset record and back.
package inventory

import (
	"time"

	"github.com/google/uuid"

	"github.com/yirassssindaba-coder/asset-inventory/internal/models"
	"github.com/yirassssindaba-coder/asset-inventory/internal/platform"
	"github.com/yirassssindaba-coder/asset-inventory/internal/schema"
)

// Disk is one entry of Record.Disks.
type Disk struct {
	Mount   string `json:"mount"`
	TotalGB int64  `json:"total_gb"`
	FreeGB  int64  `json:"free_gb"`
}

// Record is an asset record as reported by an agent.
type Record struct {
	AssetID      string `json:"asset_id"`
	Hostname     string `json:"hostname"`
	OS           string `json:"os"`
	CPUModel     string `json:"cpu_model"`
	CPUCores     int    `json:"cpu_cores"`
	RAMTotalMB   int64  `json:"ram_total_mb"`
	Disks        []Disk `json:"disks"`
	TimestampUTC string `json:"timestamp_utc"`
	AgentVersion string `json:"agent_version"`
}

// MakeAssetID derives a stable identifier from a hostname. The same host
// always maps to the same ID across runs and machines.
func MakeAssetID(hostname string) string {
	return "asset-" + uuid.NewSHA1(uuid.NameSpaceDNS, []byte(hostname)).String()
}

// Build assembles the record for info, stamped with now.
func Build(info platform.Info, agentVersion string, now time.Time) Record {
	r := Record{
		AssetID:      MakeAssetID(info.Hostname),
		Hostname:     info.Hostname,
		OS:           info.OSName,
		CPUModel:     info.CPUModel,
		CPUCores:     info.CPUCores,
		RAMTotalMB:   info.RAMTotalMB,
		Disks:        make([]Disk, 0, len(info.Disks)),
		TimestampUTC: platform.NowISOUTC(now),
		AgentVersion: agentVersion,
	}
	for _, d := range info.Disks {
		r.Disks = append(r.Disks, Disk{Mount: d.Mount, TotalGB: d.TotalGB, FreeGB: d.FreeGB})
	}
	return r
}

// ToValue converts r to a document value.
func (r Record) ToValue() models.Value {
	disks := make([]models.Value, 0, len(r.Disks))
	for _, d := range r.Disks {
		disks = append(disks, models.ObjectValue(map[string]models.Value{
			schema.FieldMount:   models.StringValue(d.Mount),
			schema.FieldTotalGB: models.NumberValue(float64(d.TotalGB)),
			schema.FieldFreeGB:  models.NumberValue(float64(d.FreeGB)),
		}))
	}
	return models.ObjectValue(map[string]models.Value{
		schema.FieldAssetID:      models.StringValue(r.AssetID),
		schema.FieldHostname:     models.StringValue(r.Hostname),
		schema.FieldOS:           models.StringValue(r.OS),
		schema.FieldCPUModel:     models.StringValue(r.CPUModel),
		schema.FieldCPUCores:     models.NumberValue(float64(r.CPUCores)),
		schema.FieldRAMTotalMB:   models.NumberValue(float64(r.RAMTotalMB)),
		schema.FieldDisks:        models.ArrayValue(disks...),
		schema.FieldTimestampUTC: models.StringValue(r.TimestampUTC),
		schema.FieldAgentVersion: models.StringValue(r.AgentVersion),
	})
}

// FromValue reads a record out of v. v is checked against the asset schema
// first, so a wrongly shaped document yields a *schema.Violation instead of
// a panic.
func FromValue(v models.Value) (Record, error) {
	if err := schema.Check(v); err != nil {
		return Record{}, err
	}

	r := Record{
		AssetID:      member(v, schema.FieldAssetID).AsString(),
		Hostname:     member(v, schema.FieldHostname).AsString(),
		OS:           member(v, schema.FieldOS).AsString(),
		CPUModel:     member(v, schema.FieldCPUModel).AsString(),
		CPUCores:     int(member(v, schema.FieldCPUCores).AsNumber()),
		RAMTotalMB:   int64(member(v, schema.FieldRAMTotalMB).AsNumber()),
		TimestampUTC: member(v, schema.FieldTimestampUTC).AsString(),
		AgentVersion: member(v, schema.FieldAgentVersion).AsString(),
	}
	disks := member(v, schema.FieldDisks)
	r.Disks = make([]Disk, 0, disks.Len())
	for _, d := range disks.Elems() {
		r.Disks = append(r.Disks, Disk{
			Mount:   member(d, schema.FieldMount).AsString(),
			TotalGB: int64(member(d, schema.FieldTotalGB).AsNumber()),
			FreeGB:  int64(member(d, schema.FieldFreeGB).AsNumber()),
		})
	}
	return r, nil
}

// member is At for keys the schema check already guaranteed.
func member(obj models.Value, key string) models.Value {
	m, err := obj.At(key)
	if err != nil {
		panic(err)
	}
	return m
}
