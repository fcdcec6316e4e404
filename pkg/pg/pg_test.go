package pg

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type recordingWriter struct {
	lines []string
}

func (w *recordingWriter) Printf(format string, args ...interface{}) {
	w.lines = append(w.lines, fmt.Sprintf(format, args...))
}

type sampleRow struct {
	ID   int64
	Name string
}

func TestNewLogger_SilencesRecordNotFound(t *testing.T) {
	w := &recordingWriter{}
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: NewLogger(w)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&sampleRow{}))

	var row sampleRow
	err = db.First(&row, 42).Error
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	assert.Empty(t, w.lines)

	err = db.Table("missing_table").First(&row).Error
	assert.Error(t, err)
	assert.NotEmpty(t, w.lines)
}
