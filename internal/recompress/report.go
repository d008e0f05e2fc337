package recompress

import (
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	reportFilePermissionsConstant     = 0o644
	reportEncodeErrorTemplateConstant = "unable to encode run report: %w"
	reportWriteErrorTemplateConstant  = "unable to write run report %s: %w"
	reportWrittenLogMessageConstant   = "run report written"
	logFieldReportFileConstant        = "report_file"
)

func (service *Service) writeReport(reportFile string, summary RunSummary) error {
	if len(reportFile) == 0 {
		return nil
	}

	encodedReport, encodeError := yaml.Marshal(summary)
	if encodeError != nil {
		return fmt.Errorf(reportEncodeErrorTemplateConstant, encodeError)
	}
	if writeError := service.fileSystem.WriteFile(reportFile, encodedReport, reportFilePermissionsConstant); writeError != nil {
		return fmt.Errorf(reportWriteErrorTemplateConstant, reportFile, writeError)
	}

	service.logger.Info(reportWrittenLogMessageConstant, zap.String(logFieldReportFileConstant, reportFile))
	return nil
}
