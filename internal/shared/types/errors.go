package types

import "errors"

var (
	ErrMissingAuthURL        = errors.New("please source your rc file first")
	ErrNoInvoices            = errors.New("cannot find any invoice for the requested period")
	ErrPeriodNotFound        = errors.New("no invoice found for the requested billing period")
	ErrUnsupportedReportType = errors.New("unsupported report type")
	ErrMissingBucket         = errors.New("no upload bucket configured")
)
