package report

import (
	"io"

	"github.com/nsfid/nsfid/pkg/registry"
	"github.com/nsfid/nsfid/pkg/sarif"
	"github.com/nsfid/nsfid/pkg/types"
)

// SARIF collects hits into a SARIF log written on Finish. Unidentified
// files produce no results.
type SARIF struct {
	w      io.Writer
	report *sarif.Report
}

// NewSARIF creates a SARIF report writer.
func NewSARIF(w io.Writer, toolVersion string) *SARIF {
	return &SARIF{w: w, report: sarif.NewReport(toolVersion)}
}

func (s *SARIF) File(result *types.Result, view View) {
	for _, hit := range view.ReportableHits(result) {
		s.report.AddRule(hit.Driver, view.Alternatives(hit.Driver))
		s.report.AddResult(hit, result.Name)
	}
}

func (s *SARIF) Finish([]registry.DriverCount, registry.Totals) error {
	data, err := s.report.ToJSON()
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = s.w.Write(data)
	return err
}
