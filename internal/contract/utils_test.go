package contract

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBoolString(t *testing.T) {
	for _, s := range []string{"yes", "TRUE", "1"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.True(t, v, s)
	}
	for _, s := range []string{"no", "False", "0"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.False(t, v, s)
	}
	_, err := ParseBoolString("sometimes")
	assert.Error(t, err)
}

func TestSelectOutputFile(t *testing.T) {
	f, err := SelectOutputFile("")
	require.NoError(t, err)
	assert.Equal(t, os.Stdout, f)

	path := filepath.Join(t.TempDir(), "out.csv")
	f, err = SelectOutputFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	assert.FileExists(t, path)
}

func TestGetColorWastage(t *testing.T) {
	prev := color.NoColor
	color.NoColor = false
	defer func() { color.NoColor = prev }()

	alert := GetColorWastage("4.00%", true)
	ok := GetColorWastage("1.00%", false)
	assert.Contains(t, alert, "4.00%")
	assert.Contains(t, ok, "1.00%")
	assert.NotEqual(t, "4.00%", alert)
}

func TestDisplayDefaults(t *testing.T) {
	assert.Equal(t, "-", DisplayOrDash("  "))
	assert.Equal(t, "Acme", DisplayOrDash("Acme"))
	assert.Equal(t, "0", DisplayOrZero(""))
	assert.Equal(t, "12", DisplayOrZero("12"))
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{Missing: []string{"section", "date"}, Invalid: []string{"shiftStart"}}
	assert.True(t, err.HasProblems())
	assert.Equal(t, "missing required fields: section, date; invalid fields: shiftStart", err.Error())

	var target *ValidationError
	wrapped := errors.Join(errors.New("submit failed"), err)
	assert.True(t, errors.As(wrapped, &target))
	assert.False(t, (&ValidationError{}).HasProblems())
}

func TestGetDBFilePath(t *testing.T) {
	assert.Equal(t, ".shiftlog.db", filepath.Base(GetDBFilePath()))
}
