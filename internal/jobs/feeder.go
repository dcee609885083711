package jobs

import (
	"context"

	"github.com/cloo-solutions/tryonadmin/internal/domain"
	"github.com/sirupsen/logrus"
)

// RecordGenerator produces synthetic log records.
type RecordGenerator interface {
	Next() domain.LogRecord
}

// LogAppender accepts one record at a time.
type LogAppender interface {
	Append(record domain.LogRecord)
}

// AppendObserver counts appended records.
type AppendObserver interface {
	ObserveStreamAppend()
}

// StreamFeeder appends one generated record per run.
type StreamFeeder struct {
	generator RecordGenerator
	table     LogAppender
	observer  AppendObserver
	logger    logrus.FieldLogger
}

// NewStreamFeeder creates a StreamFeeder. observer may be nil.
func NewStreamFeeder(generator RecordGenerator, table LogAppender, observer AppendObserver, logger logrus.FieldLogger) *StreamFeeder {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &StreamFeeder{
		generator: generator,
		table:     table,
		observer:  observer,
		logger:    logger,
	}
}

// ProcessJobs implements the JobProcessor interface
func (f *StreamFeeder) ProcessJobs(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	record := f.generator.Next()
	f.table.Append(record)
	if f.observer != nil {
		f.observer.ObserveStreamAppend()
	}

	f.logger.WithFields(logrus.Fields{
		"id":         record.ID,
		"businessId": record.BusinessID,
		"clothType":  record.ClothType,
	}).Debug("stream record appended")
	return nil
}
