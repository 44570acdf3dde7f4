package service

import (
	"fmt"
	"os"
	"path/filepath"

	charmlog "github.com/charmbracelet/log"

	"github.com/medianest/docqa/domain"
)

// ComprehensiveReportFile is the name of the aggregated report file
// written under the results directory. Per-module reports are written
// alongside it as <module>_report.json.
const ComprehensiveReportFile = "comprehensive_qa_report.json"

// DashboardFile is the name of the rendered HTML dashboard
const DashboardFile = "dashboard.html"

// ReportStore persists run results to a results directory
type ReportStore struct {
	dir    string
	logger *charmlog.Logger
}

// NewReportStore creates a store writing under dir
func NewReportStore(dir string, logger *charmlog.Logger) *ReportStore {
	return &ReportStore{dir: dir, logger: logger}
}

// Save writes the comprehensive report and one JSON file per executed
// module. The results directory is created if missing.
func (s *ReportStore) Save(report *domain.QualityReport) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return domain.NewOutputError(fmt.Sprintf("failed to create results directory %s", s.dir), err)
	}

	for _, name := range report.ModulesExecuted {
		mr := report.ModuleReports[name]
		if mr == nil {
			continue
		}
		path := filepath.Join(s.dir, name+"_report.json")
		if err := s.writeFile(path, mr); err != nil {
			return err
		}
		s.logger.Info("module report saved", "module", name, "path", path)
	}

	path := filepath.Join(s.dir, ComprehensiveReportFile)
	if err := s.writeFile(path, report); err != nil {
		return err
	}
	s.logger.Info("comprehensive report saved", "path", path)
	return nil
}

// SaveDashboard renders and writes the HTML dashboard
func (s *ReportStore) SaveDashboard(report *domain.QualityReport) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", domain.NewOutputError(fmt.Sprintf("failed to create results directory %s", s.dir), err)
	}

	path := filepath.Join(s.dir, DashboardFile)
	f, err := os.Create(path)
	if err != nil {
		return "", domain.NewOutputError(fmt.Sprintf("failed to create %s", path), err)
	}
	defer f.Close()

	if err := WriteHTML(report, f); err != nil {
		return "", err
	}
	s.logger.Info("HTML dashboard saved", "path", path)
	return path, nil
}

func (s *ReportStore) writeFile(path string, data interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return domain.NewOutputError(fmt.Sprintf("failed to create %s", path), err)
	}
	defer f.Close()
	return WriteJSON(f, data)
}
