package storage

import "positionScope/internal/model"

// ReportSink is a sink for computed position reports.
type ReportSink interface {
	PutReportBatch(reports []model.PositionReport) error
}
