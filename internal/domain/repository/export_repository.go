package repository

import (
	"github.com/catalystcloud/separate-billing-go/internal/domain/entity"
)

type ExportRepository interface {
	ExportCustomerCostToCSV(report entity.CustomerCostReport, filename, outputDir string) (string, error)
	ExportCustomerCostToJSON(report entity.CustomerCostReport, filename, outputDir string) (string, error)
	ExportCustomerCostToPDF(report entity.CustomerCostReport, filename, outputDir string) (string, error)
}
