package export

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ncruces/go-strftime"

	"github.com/pstuifzand/tui-flowchart/internal/codeview"
	"github.com/pstuifzand/tui-flowchart/internal/model"
)

// DefaultJSONName is the name of the downloaded diagram file
const DefaultJSONName = "flowchart.json"

// WriteJSON writes the diagram text as shown in the code view
func WriteJSON(filePath string, d model.FlowchartData) error {
	if err := os.WriteFile(filePath, []byte(codeview.ToText(d)), 0o644); err != nil {
		return fmt.Errorf("failed to write json file: %w", err)
	}
	return nil
}

// DefaultFilename expands a strftime pattern into a file name with the given
// extension. An empty pattern gives the plain flowchart name.
func DefaultFilename(format, ext string, now time.Time) string {
	base := strings.TrimSuffix(DefaultJSONName, ".json")
	if format != "" {
		if name := strings.TrimSpace(strftime.Format(format, now)); name != "" {
			base = name
		}
	}
	return base + "." + strings.TrimPrefix(ext, ".")
}
