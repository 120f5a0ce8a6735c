package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/turtacn/patent-prophet/pkg/errors"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "records.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestReadRecords(t *testing.T) {
	path := writeTemp(t, `[
		{"publication_number": "US001", "publication_date": 20240101},
		{"publication_number": "US002"}
	]`)

	records, err := ReadRecords(path)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "US001", records[0]["publication_number"])
	assert.Equal(t, float64(20240101), records[0]["publication_date"])
}

func TestReadRecordsMissingFile(t *testing.T) {
	_, err := ReadRecords(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.Equal(t, appErrors.CodeSourceUnavailable, appErrors.GetCode(err))
}

func TestReadRecordsRejectsNonArray(t *testing.T) {
	path := writeTemp(t, `{"publication_number": "US001"}`)
	_, err := ReadRecords(path)
	require.Error(t, err)
	assert.Equal(t, appErrors.CodeSourceParseError, appErrors.GetCode(err))
}
