package sheets

import "context"

// MockExporter is a mock implementation of Exporter for testing.
type MockExporter struct {
	ExportFn func(ctx context.Context, data Export) error

	// Call tracking
	Exports []Export
}

// Export implements Exporter.Export.
func (m *MockExporter) Export(ctx context.Context, data Export) error {
	m.Exports = append(m.Exports, data)
	if m.ExportFn != nil {
		return m.ExportFn(ctx, data)
	}
	return nil
}

// Ensure MockExporter implements the Exporter interface.
var _ Exporter = (*MockExporter)(nil)
