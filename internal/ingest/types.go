package ingest

// Format identifies a recognized vendor file layout
type Format string

const (
	FormatStatSports Format = "statsports"
	FormatCatapult   Format = "catapult"
	FormatGenericGPS Format = "generic_gps"
	FormatUnknown    Format = "unknown"
)

// Detection is the outcome of format sniffing on a file's leading lines
type Detection struct {
	Format     Format  `json:"format"`
	Confidence float64 `json:"confidence"`
}

// Metadata describes the athlete and session a recording came from.
// Fields a vendor format does not carry stay at their zero value.
type Metadata struct {
	FileType        string  `json:"file_type"`
	PlayerID        string  `json:"player_id,omitempty"`
	PlayerName      string  `json:"player_name"`
	Date            string  `json:"date,omitempty"`
	DeviceID        string  `json:"device_id,omitempty"`
	Period          string  `json:"period,omitempty"`
	TotalRecords    int     `json:"total_records"`
	DurationMinutes float64 `json:"duration_minutes"`
	SourceFile      string  `json:"source_file"`
}

// Recording is a parsed velocity trace plus its session metadata. The
// velocity series is unit-normalized to m/s and NaN-free, matching the
// analysis engine's upstream contract.
type Recording struct {
	Velocity []float64 `json:"-"`
	Metadata Metadata  `json:"metadata"`
}
