package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catalystcloud/separate-billing-go/internal/domain/entity"
)

var stamp = time.Date(2021, 3, 15, 10, 30, 0, 0, time.UTC)

func sampleReport() entity.CustomerCostReport {
	return entity.CustomerCostReport{
		Prefix: "acme-",
		Period: "2021-03",
		Resources: []entity.ResourceCost{
			{ResourceName: "acme-vm1", Rate: 0.05, Quantity: 250, Unit: "hour", Cost: 12.5},
			{ResourceName: "acme-vol", Rate: 0.0005, Quantity: 26000, Unit: "gigabyte", Cost: 13},
		},
		TotalCost:   25.5,
		GeneratedAt: stamp,
	}
}

func newTestRepository() *ExportRepositoryImpl {
	return &ExportRepositoryImpl{now: func() time.Time { return stamp }}
}

func TestExportCustomerCostToCSV(t *testing.T) {
	// Given
	dir := filepath.Join(t.TempDir(), "reports")

	// When
	path, err := newTestRepository().ExportCustomerCostToCSV(sampleReport(), "acme", dir)

	// Then
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "acme_20210315_103000.csv"), path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		{"resource_name", "rate", "quantity", "unit", "cost"},
		{"acme-vm1", "0.05", "250", "hour", "12.5"},
		{"acme-vol", "0.0005", "26000", "gigabyte", "13"},
		{"TOTAL", "", "", "", "25.50"},
	}, records)
}

func TestExportCustomerCostToJSON(t *testing.T) {
	dir := t.TempDir()

	path, err := newTestRepository().ExportCustomerCostToJSON(sampleReport(), "acme", dir)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded struct {
		Prefix    string `json:"prefix"`
		Period    string `json:"period"`
		TotalCost float64 `json:"total_cost"`
		Resources []struct {
			ResourceName string `json:"resource_name"`
		} `json:"resources"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "acme-", decoded.Prefix)
	assert.Equal(t, "2021-03", decoded.Period)
	assert.InDelta(t, 25.5, decoded.TotalCost, 1e-9)
	require.Len(t, decoded.Resources, 2)
	assert.Equal(t, "acme-vm1", decoded.Resources[0].ResourceName)
}

func TestExportCustomerCostToPDF(t *testing.T) {
	report := sampleReport()
	for i := 0; i < 80; i++ {
		report.Resources = append(report.Resources, entity.ResourceCost{ResourceName: "acme-a-very-long-resource-name-that-needs-truncation", Cost: 1})
	}

	path, err := newTestRepository().ExportCustomerCostToPDF(report, "acme", t.TempDir())
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, len(data) > 4)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestExport_FailsWhenDirIsAFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	_, err := newTestRepository().ExportCustomerCostToCSV(sampleReport(), "acme", file)

	assert.Error(t, err)
}
