package collections

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/spf13/cast"

	"fieldreports/models"
	"fieldreports/services"
)

// UpgradeSnapshot turns a stored snapshot document into the current typed
// shape. Documents written by this build (schemaVersion >= 2) decode as-is.
// Older documents are coerced field by field: a scalar extraDistance becomes
// the first extra distance, string inputs become numbers, and every result is
// recomputed from the inputs instead of trusting stored display strings.
func UpgradeSnapshot(raw map[string]any) (models.Snapshot, error) {
	if cast.ToInt(raw["schemaVersion"]) >= models.SchemaVersion {
		var snap models.Snapshot
		data, err := json.Marshal(raw)
		if err != nil {
			return models.Snapshot{}, fmt.Errorf("encode snapshot: %w", err)
		}
		if err := json.Unmarshal(data, &snap); err != nil {
			return models.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
		}
		return snap, nil
	}

	snap := models.Snapshot{SchemaVersion: models.SchemaVersion}

	readings, counter := legacyStore(raw["pipeLevelCheck"], "readings", "readingCounter")
	snap.PipeLevelCheck.ReadingCounter = counter
	for _, m := range readings {
		snap.PipeLevelCheck.Readings = append(snap.PipeLevelCheck.Readings, legacyPipeLevel(m))
	}

	readings, counter = legacyStore(raw["laser"], "readings", "readingCounter")
	snap.Laser.ReadingCounter = counter
	for _, m := range readings {
		snap.Laser.Readings = append(snap.Laser.Readings, legacyLaser(m))
	}

	readings, counter = legacyStore(raw["regrade"], "readings", "readingCounter")
	snap.Regrade.ReadingCounter = counter
	for _, m := range readings {
		snap.Regrade.Readings = append(snap.Regrade.Readings, legacyRegrade(m))
	}

	readings, counter = legacyStore(raw["gradeCheck"], "readings", "readingCounter")
	snap.GradeCheck.ReadingCounter = counter
	for _, m := range readings {
		snap.GradeCheck.Readings = append(snap.GradeCheck.Readings, legacyGradeCheck(m))
	}

	readings, counter = legacyStore(raw["chainageIL"], "readings", "readingCounter")
	snap.ChainageIL.ReadingCounter = counter
	for _, m := range readings {
		snap.ChainageIL.Readings = append(snap.ChainageIL.Readings, legacyChainageIL(m))
	}

	readings, counter = legacyStore(raw["generalNotes"], "notes", "noteCounter")
	snap.GeneralNotes.ReadingCounter = counter
	for _, m := range readings {
		snap.GeneralNotes.Readings = append(snap.GeneralNotes.Readings, models.GeneralNote{
			ID:      cast.ToInt(m["id"]),
			Content: cast.ToString(m["content"]),
		})
	}

	return snap, nil
}

// legacyStore pulls the reading maps and the counter out of one store. The
// counter is raised to the highest id seen so new ids never collide.
func legacyStore(v any, listKey, counterKey string) ([]map[string]any, int) {
	store := cast.ToStringMap(v)
	counter := cast.ToInt(store[counterKey])

	var out []map[string]any
	for _, item := range cast.ToSlice(store[listKey]) {
		m := cast.ToStringMap(item)
		if len(m) == 0 {
			continue
		}
		if id := cast.ToInt(m["id"]); id > counter {
			counter = id
		}
		out = append(out, m)
	}
	return out, counter
}

// optFloat reads a nullable number. Legacy forms stored "" for empty inputs.
func optFloat(v any) *float64 {
	if v == nil {
		return nil
	}
	if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
		return nil
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return nil
	}
	return &f
}

func gradeMode(v any) models.GradeMode {
	return models.GradeMode(cast.ToString(v)).OrDefault()
}

func legacyPipeLevel(m map[string]any) models.PipeLevelReading {
	r := models.PipeLevelReading{
		ID:                   cast.ToInt(m["id"]),
		SectionID:            cast.ToString(m["sectionId"]),
		SlopeMode:            gradeMode(m["slopeMode"]),
		SlopeValue:           optFloat(m["slopeValue"]),
		Distance:             optFloat(m["distance"]),
		StartHeight:          optFloat(m["startHeight"]),
		MeasuredHeight:       optFloat(m["measuredHeight"]),
		ExtraDistanceCounter: cast.ToInt(m["extraDistanceCounter"]),
		Notes:                cast.ToString(m["notes"]),
	}

	for _, item := range cast.ToSlice(m["extraDistances"]) {
		ed := cast.ToStringMap(item)
		d := optFloat(ed["distance"])
		if d == nil {
			continue
		}
		id := cast.ToInt(ed["id"])
		if id > r.ExtraDistanceCounter {
			r.ExtraDistanceCounter = id
		}
		r.ExtraDistances = append(r.ExtraDistances, models.ExtraDistance{ID: id, Distance: *d})
	}

	if extra := optFloat(m["extraDistance"]); extra != nil && len(r.ExtraDistances) == 0 {
		r.ExtraDistances = []models.ExtraDistance{{ID: 1, Distance: *extra}}
		r.ExtraDistanceCounter = 1
	}

	services.RecalculatePipeLevel(&r)
	return r
}

func legacyLaser(m map[string]any) models.LaserReading {
	r := models.LaserReading{
		ID:           cast.ToInt(m["id"]),
		SectionID:    cast.ToString(m["sectionId"]),
		GradeRatio:   optFloat(m["gradeRatio"]),
		LaserPercent: optFloat(m["laserPercent"]),
		Notes:        cast.ToString(m["notes"]),
	}

	// Both sides are kept in step; fill a missing side from the other.
	switch {
	case r.GradeRatio != nil && r.LaserPercent == nil:
		if err := services.ApplyLaserValue(&r, services.LaserFromRatioField, r.GradeRatio); err != nil {
			r.GradeRatio = nil
		}
	case r.LaserPercent != nil && r.GradeRatio == nil:
		if err := services.ApplyLaserValue(&r, services.LaserFromPercentField, r.LaserPercent); err != nil {
			r.LaserPercent = nil
		}
	}
	return r
}

func legacyRegrade(m map[string]any) models.RegradeReading {
	r := models.RegradeReading{
		ID:            cast.ToInt(m["id"]),
		SectionID:     cast.ToString(m["sectionId"]),
		GradeMode:     gradeMode(m["gradeMode"]),
		CurrentGrade:  optFloat(m["currentGrade"]),
		CurrentRatio:  optFloat(m["currentRatio"]),
		Distance:      optFloat(m["distance"]),
		CurrentHeight: optFloat(m["currentHeight"]),
		TargetHeight:  optFloat(m["targetHeight"]),
		Chainage:      optFloat(m["chainage"]),
		Notes:         cast.ToString(m["notes"]),
	}

	// Regrade only ever had results after an explicit calculate.
	if cast.ToBool(m["calculated"]) {
		if res, err := services.CalculateRegrade(r); err == nil {
			r.Results = res
			r.Calculated = true
		}
	}
	return r
}

func legacyGradeCheck(m map[string]any) models.GradeCheckReading {
	r := models.GradeCheckReading{
		ID:           cast.ToInt(m["id"]),
		SectionID:    cast.ToString(m["sectionId"]),
		DownstreamIL: optFloat(m["downstreamIL"]),
		UpstreamIL:   optFloat(m["upstreamIL"]),
		Length:       optFloat(m["length"]),
		DesignGrade:  optFloat(m["designGrade"]),
		GradeMode:    gradeMode(m["gradeMode"]),
		Notes:        cast.ToString(m["notes"]),
	}
	services.RecalculateGradeCheck(&r)
	return r
}

func legacyChainageIL(m map[string]any) models.ChainageILReading {
	r := models.ChainageILReading{
		ID:             cast.ToInt(m["id"]),
		SectionID:      cast.ToString(m["sectionId"]),
		StartIL:        optFloat(m["startIL"]),
		TargetChainage: optFloat(m["targetChainage"]),
		GradeMode:      gradeMode(m["gradeMode"]),
		GradeValue:     optFloat(m["gradeValue"]),
		Notes:          cast.ToString(m["notes"]),
	}
	services.RecalculateChainageIL(&r)
	return r
}

// UpgradeAllReports rewrites every report still stored in an older snapshot
// shape. It is idempotent: reports already at the current version are not
// touched. Failures on individual reports are logged and skipped.
func UpgradeAllReports(app *pocketbase.PocketBase) error {
	records, err := app.FindRecordsByFilter(
		ReportsCollection,
		"schema_version < {:version}",
		"",
		0,
		0,
		map[string]any{"version": models.SchemaVersion},
	)
	if err != nil {
		return fmt.Errorf("upgrade_reports: query reports: %w", err)
	}

	if len(records) == 0 {
		log.Println("upgrade_reports: no reports need upgrading")
		return nil
	}

	upgraded := 0
	for _, rec := range records {
		snap, err := UpgradeSnapshot(rawSnapshot(rec))
		if err != nil {
			log.Printf("upgrade_reports: could not upgrade report %s: %v", rec.Id, err)
			continue
		}
		setSnapshot(rec, snap)
		if err := app.Save(rec); err != nil {
			log.Printf("upgrade_reports: could not save report %s: %v", rec.Id, err)
			continue
		}
		upgraded++
	}

	log.Printf("upgrade_reports: upgraded %d of %d reports", upgraded, len(records))
	return nil
}
