package lang

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageDefaultsToEnglish(t *testing.T) {
	tr := NewTranslator("fr")
	assert.Equal(t, "One or more of the selected tables are already combined.", tr.Message(KeyTableAlreadyCombined))
	assert.Equal(t, "(copy)", tr.Message(KeyCopySuffix))
}

func TestMessageIndonesian(t *testing.T) {
	tr := NewTranslator("id")
	assert.Equal(t, "Meja dari section yang berbeda tidak dapat digabung.", tr.Message(KeyTableComboSectionMismatch))
}

func TestMessageUnknownKeyFallsBackToKey(t *testing.T) {
	tr := NewTranslator("en")
	assert.Equal(t, "NoSuchMessage", tr.Message("NoSuchMessage"))
}

func TestLoadDirOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	content := []byte("TableAlreadyCombined: \"Table is taken by another combo\"\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "en.yaml"), content, 0o644))

	tr := NewTranslator("en")
	require.NoError(t, tr.LoadDir(dir))

	assert.Equal(t, "Table is taken by another combo", tr.Message(KeyTableAlreadyCombined))
	assert.Equal(t, "Dining area not found.", tr.Message(KeyAreaNotFound))
}
