package models

import "sort"

type ReportEntry struct {
	URL    string `json:"url" yaml:"url"`
	Title  string `json:"title" yaml:"title"`
	Path   string `json:"path" yaml:"path"`
	Status int    `json:"status,omitempty" yaml:"status,omitempty"`
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`
}

type Summary struct {
	Documents        int `json:"documents" yaml:"documents"`
	Links            int `json:"links" yaml:"links"`
	Ignored          int `json:"ignored" yaml:"ignored"`
	Alive            int `json:"alive" yaml:"alive"`
	DeadInternal     int `json:"dead_internal" yaml:"dead_internal"`
	DeadExternal     int `json:"dead_external" yaml:"dead_external"`
	ShouldBeRelative int `json:"should_be_relative" yaml:"should_be_relative"`
}

// Report is the write-once aggregate of a run.
type Report struct {
	Root             string        `json:"root" yaml:"root"`
	Visited          []string      `json:"visited" yaml:"visited"`
	DeadInternal     []ReportEntry `json:"dead_internal" yaml:"dead_internal"`
	DeadExternal     []ReportEntry `json:"dead_external" yaml:"dead_external"`
	ShouldBeRelative []ReportEntry `json:"should_be_relative" yaml:"should_be_relative"`
	Alive            []ReportEntry `json:"alive,omitempty" yaml:"alive,omitempty"`
	Summary          Summary       `json:"summary" yaml:"summary"`
}

func (r *Report) DeadCount() int {
	return len(r.DeadInternal) + len(r.DeadExternal)
}

// NewReport builds a report from the verdicts of a run. Verdicts are ordered by
// discovery sequence; visited URLs are sorted.
func NewReport(root string, documents int, verdicts []Verdict, visited []string, keepAlive bool) *Report {
	ordered := make([]Verdict, len(verdicts))
	copy(ordered, verdicts)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Seq < ordered[j].Seq })

	sortedVisited := make([]string, len(visited))
	copy(sortedVisited, visited)
	sort.Strings(sortedVisited)

	report := &Report{
		Root:             root,
		Visited:          sortedVisited,
		DeadInternal:     []ReportEntry{},
		DeadExternal:     []ReportEntry{},
		ShouldBeRelative: []ReportEntry{},
		Summary: Summary{
			Documents: documents,
			Links:     len(ordered),
		},
	}

	for _, v := range ordered {
		entry := ReportEntry{
			URL:    v.Link.URL,
			Title:  v.Link.Title,
			Path:   v.Link.SourcePath,
			Status: v.StatusCode,
			Reason: v.Reason,
		}
		switch v.Kind {
		case VerdictDeadInternal:
			report.DeadInternal = append(report.DeadInternal, entry)
			report.Summary.DeadInternal++
		case VerdictDeadExternal:
			report.DeadExternal = append(report.DeadExternal, entry)
			report.Summary.DeadExternal++
		case VerdictShouldBeRelative:
			report.ShouldBeRelative = append(report.ShouldBeRelative, entry)
			report.Summary.ShouldBeRelative++
		case VerdictAlive:
			report.Summary.Alive++
			if keepAlive {
				report.Alive = append(report.Alive, entry)
			}
		case VerdictIgnored:
			report.Summary.Ignored++
		}
	}

	return report
}
