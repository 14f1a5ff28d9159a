package storagepath

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		valid   bool
		segment string
		index   int
	}{
		{"simple three segment path", "a/b/c", true, "", 0},
		{"uuid segments", "group-1/3f6c1a52-9a7e-4d7b-8e55-0c2f8a1b2c3d/file.pdf", true, "", 0},
		{"empty path", "", false, "", -1},
		{"empty middle segment", "a//c", false, "", 1},
		{"over length limit", strings.Repeat("x", 1025), false, "", -1},
		{"exactly at length limit", strings.Repeat("x", 1024), true, "", 0},
		{"non ascii segment", "a/ü/c", false, "ü", 1},
		{"space in segment", "a/b c/d", false, "b c", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.path)
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.index, vErr.Index)
			if tt.segment != "" {
				assert.Equal(t, tt.segment, vErr.Segment)
			}
		})
	}
}

func TestNeedsFix(t *testing.T) {
	assert.False(t, NeedsFix("a/b/c.pdf"))
	assert.True(t, NeedsFix("a/é/c.pdf"))
	assert.True(t, NeedsFix(""))
}

func TestFixPath(t *testing.T) {
	t.Run("repairs each segment independently", func(t *testing.T) {
		fixed, err := FixPath("math group/usér 1/Résumé (final).pdf")
		require.NoError(t, err)
		assert.Equal(t, "math-group/user-1/Resume_final.pdf", fixed)
		assert.NoError(t, Validate(fixed))
	})

	t.Run("rejects wrong segment count", func(t *testing.T) {
		_, err := FixPath("only/two")
		assert.Error(t, err)
		_, err = FixPath("a/b/c/d")
		assert.Error(t, err)
	})

	t.Run("fails loudly when repair is insufficient", func(t *testing.T) {
		// Tilde survives filename sanitization but is not a legal key
		// character, so the repaired path must be rejected, not returned.
		_, err := FixPath("g/u/still~bad.txt")
		assert.Error(t, err)
	})
}

func TestOwnerSegment(t *testing.T) {
	tests := []struct {
		path  string
		owner string
		ok    bool
	}{
		{"group1/user42/file.pdf", "user42", true},
		{"user42/file.pdf", "user42", true},
		{"user42/folder/sub/file.pdf", "user42", true},
		{"justafile.pdf", "", false},
		{"groupA/usér1/file.pdf", "usér1", true}, // original segment, pre-sanitization
	}
	for _, tt := range tests {
		owner, ok := OwnerSegment(tt.path)
		assert.Equal(t, tt.ok, ok, tt.path)
		assert.Equal(t, tt.owner, owner, tt.path)
	}
}
