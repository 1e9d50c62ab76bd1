package sanitize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClean(t *testing.T) {
	t.Run("strips script tag and body", func(t *testing.T) {
		out := Clean("<script>alert(1)</script>hello", 1000)
		assert.Equal(t, "hello", out)
		assert.NotContains(t, out, "<script>")
	})

	t.Run("strips style body and markup", func(t *testing.T) {
		out := Clean("<style>body{color:red}</style><b>bold</b> text", 1000)
		assert.Equal(t, "bold text", out)
	})

	t.Run("collapses whitespace", func(t *testing.T) {
		out := Clean("  what \n\t documents  do I need  ", 1000)
		assert.Equal(t, "what documents do I need", out)
	})

	t.Run("caps length", func(t *testing.T) {
		out := Clean(strings.Repeat("a", 2000), 1000)
		assert.Len(t, out, 1000)
	})

	t.Run("markup only cleans to empty", func(t *testing.T) {
		out := Clean("<script>alert(1)</script><style>x</style>", 1000)
		assert.Empty(t, out)
	})
}
