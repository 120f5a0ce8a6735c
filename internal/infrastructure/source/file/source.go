// Package file implements a local JSON source used to ingest captured
// record dumps without touching the warehouse.
package file

import (
	"encoding/json"
	"os"

	"github.com/turtacn/patent-prophet/internal/application/ingest"
	appErrors "github.com/turtacn/patent-prophet/pkg/errors"
)

// ReadRecords loads a JSON array of raw patent records from path. The file
// must contain a top-level array; each element becomes one RawRecord.
func ReadRecords(path string) ([]ingest.RawRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.CodeSourceUnavailable, "read source file")
	}

	var records []ingest.RawRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, appErrors.Wrap(err, appErrors.CodeSourceParseError,
			"source file must contain a JSON array of patent records")
	}
	return records, nil
}
