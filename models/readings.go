// Package models holds the field tool readings, the per-tool stores and the
// report documents that are persisted for each user.
package models

// GradeMode selects which representation of a grade is authoritative on a
// reading: a percentage or a "1 in X" ratio.
type GradeMode string

const (
	GradeModePercent GradeMode = "percent"
	GradeModeRatio   GradeMode = "ratio"
)

// Valid reports whether m is one of the known modes.
func (m GradeMode) Valid() bool {
	return m == GradeModePercent || m == GradeModeRatio
}

// OrDefault returns m, or GradeModePercent when m is empty or unknown.
func (m GradeMode) OrDefault() GradeMode {
	if m.Valid() {
		return m
	}
	return GradeModePercent
}

// LevelStatus is the outcome of a pipe level check.
type LevelStatus string

const (
	StatusHigh  LevelStatus = "HIGH"
	StatusLow   LevelStatus = "LOW"
	StatusLevel LevelStatus = "LEVEL"
)

// ExtraDistance is an additional run measured past the checked distance. It
// only contributes to the reported total chainage.
type ExtraDistance struct {
	ID       int     `json:"id"`
	Distance float64 `json:"distance"`
}

type PipeLevelReading struct {
	ID                   int               `json:"id"`
	SectionID            string            `json:"sectionId"`
	SlopeMode            GradeMode         `json:"slopeMode"`
	SlopeValue           *float64          `json:"slopeValue"`
	Distance             *float64          `json:"distance"`
	StartHeight          *float64          `json:"startHeight"`
	MeasuredHeight       *float64          `json:"measuredHeight"`
	ExtraDistances       []ExtraDistance   `json:"extraDistances"`
	ExtraDistanceCounter int               `json:"extraDistanceCounter"`
	Notes                string            `json:"notes"`
	Calculated           bool              `json:"calculated"`
	Results              *PipeLevelResults `json:"results"`
}

type PipeLevelResults struct {
	RisePerMetre float64     `json:"risePerMetre"`
	DesignHeight float64     `json:"designHeight"`
	Difference   float64     `json:"difference"`
	Status       LevelStatus `json:"status"`
}

// LaserReading converts between a grade ratio and a laser percentage. Both
// values are always set or cleared together; the field edited last wins.
type LaserReading struct {
	ID           int      `json:"id"`
	SectionID    string   `json:"sectionId"`
	GradeRatio   *float64 `json:"gradeRatio"`
	LaserPercent *float64 `json:"laserPercent"`
	Notes        string   `json:"notes"`
}

// HasValue reports whether either side of the conversion is set.
func (r LaserReading) HasValue() bool {
	return r.GradeRatio != nil || r.LaserPercent != nil
}

type RegradeReading struct {
	ID            int             `json:"id"`
	SectionID     string          `json:"sectionId"`
	GradeMode     GradeMode       `json:"gradeMode"`
	CurrentGrade  *float64        `json:"currentGrade"`
	CurrentRatio  *float64        `json:"currentRatio"`
	Distance      *float64        `json:"distance"`
	CurrentHeight *float64        `json:"currentHeight"`
	TargetHeight  *float64        `json:"targetHeight"`
	Chainage      *float64        `json:"chainage"`
	Notes         string          `json:"notes"`
	Calculated    bool            `json:"calculated"`
	Results       *RegradeResults `json:"results"`
}

// CurrentGradeValue returns the current grade in the reading's active mode.
func (r RegradeReading) CurrentGradeValue() *float64 {
	if r.GradeMode.OrDefault() == GradeModeRatio {
		return r.CurrentRatio
	}
	return r.CurrentGrade
}

type RegradeResults struct {
	CurrentGradePercent float64 `json:"currentGradePercent"`
	NewGradePercent     float64 `json:"newGradePercent"`
	NewGradeRatio       float64 `json:"newGradeRatio"`
	GradeChange         float64 `json:"gradeChange"`
	HeightChange        float64 `json:"heightChange"`
	AdjustmentPer6m     float64 `json:"adjustmentPer6m"`
}

type GradeCheckReading struct {
	ID           int                `json:"id"`
	SectionID    string             `json:"sectionId"`
	DownstreamIL *float64           `json:"downstreamIL"`
	UpstreamIL   *float64           `json:"upstreamIL"`
	Length       *float64           `json:"length"`
	DesignGrade  *float64           `json:"designGrade"`
	GradeMode    GradeMode          `json:"gradeMode"`
	Notes        string             `json:"notes"`
	Calculated   bool               `json:"calculated"`
	Results      *GradeCheckResults `json:"results"`
}

type GradeCheckResults struct {
	DesignGradePercent   float64 `json:"designGradePercent"`
	DesignRise           float64 `json:"designRise"`
	DesignRisePerMetre   float64 `json:"designRisePerMetre"`
	ActualGrade          float64 `json:"actualGrade"`
	ActualRise           float64 `json:"actualRise"`
	ActualRisePerMetre   float64 `json:"actualRisePerMetre"`
	PercentageDifference float64 `json:"percentageDifference"`
	RiseFallDifference   float64 `json:"riseFallDifference"`
}

type ChainageILReading struct {
	ID             int                `json:"id"`
	SectionID      string             `json:"sectionId"`
	StartIL        *float64           `json:"startIL"`
	TargetChainage *float64           `json:"targetChainage"`
	GradeMode      GradeMode          `json:"gradeMode"`
	GradeValue     *float64           `json:"gradeValue"`
	Notes          string             `json:"notes"`
	Calculated     bool               `json:"calculated"`
	Results        *ChainageILResults `json:"results"`
}

type ChainageILResults struct {
	RisePerMetre float64 `json:"risePerMetre"`
	TotalRise    float64 `json:"totalRise"`
	ILAtChainage float64 `json:"ilAtChainage"`
}

type GeneralNote struct {
	ID      int    `json:"id"`
	Content string `json:"content"`
}

func (r PipeLevelReading) ReadingID() int  { return r.ID }
func (r LaserReading) ReadingID() int      { return r.ID }
func (r RegradeReading) ReadingID() int    { return r.ID }
func (r GradeCheckReading) ReadingID() int { return r.ID }
func (r ChainageILReading) ReadingID() int { return r.ID }
func (n GeneralNote) ReadingID() int       { return n.ID }

// Float returns a pointer to v. Convenient for building readings in code.
func Float(v float64) *float64 {
	return &v
}
