package cmd

import (
	"encoding/hex"

	"memdump/internal/session"
)

// JSONOutput is the --json rendering of a run.
type JSONOutput struct {
	Pid          int         `json:"pid"`
	Pattern      string      `json:"pattern"`
	Regions      int         `json:"regions"`
	Scanned      int         `json:"scanned"`
	Skipped      int         `json:"skipped"`
	BytesScanned int64       `json:"bytes_scanned"`
	Matches      []MatchInfo `json:"matches"`
	Dumps        []DumpInfo  `json:"dumps"`
	Enumeration  string      `json:"enumeration_error,omitempty"`
}

type MatchInfo struct {
	Address string `json:"address"`
	Region  string `json:"region"`
	Perms   string `json:"perms,omitempty"`
	Context string `json:"context"`
}

type DumpInfo struct {
	Index   int    `json:"index"`
	Region  string `json:"region"`
	Path    string `json:"path,omitempty"`
	Bytes   int64  `json:"bytes"`
	Skipped string `json:"skipped,omitempty"`
	Error   string `json:"error,omitempty"`
}

func newJSONSummary(sum session.Summary) JSONOutput {
	out := JSONOutput{
		Pid:          sum.Pid,
		Pattern:      sum.Pattern.String(),
		Regions:      len(sum.Regions),
		Scanned:      sum.Scanned,
		Skipped:      sum.Skipped,
		BytesScanned: sum.BytesScanned,
		Matches:      []MatchInfo{},
		Dumps:        []DumpInfo{},
	}
	if sum.Enumeration != nil {
		out.Enumeration = sum.Enumeration.Error()
	}
	for _, m := range sum.Found {
		mi := MatchInfo{
			Address: m.Address.String(),
			Region:  regionName(m.Region),
			Context: hex.EncodeToString(m.Context),
		}
		if m.Region != nil {
			mi.Perms = m.Region.Perms.String()
		}
		out.Matches = append(out.Matches, mi)
	}
	for _, d := range sum.Dumps {
		di := DumpInfo{
			Index:   d.Index,
			Region:  d.Region.String(),
			Bytes:   d.Bytes,
			Skipped: d.Skipped,
		}
		if d.Skipped == "" {
			di.Path = d.Path
		}
		if d.Err != nil {
			di.Error = d.Err.Error()
		}
		out.Dumps = append(out.Dumps, di)
	}
	return out
}
