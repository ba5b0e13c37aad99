package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"already ascii lowercase", "paris", "paris"},
		{"uppercase folds", "PARIS", "paris"},
		{"diacritics fold", "Łódź", "lodz"},
		{"umlaut folds", "München", "munchen"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, Normalize(c.in))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"New York JFK", "GB-LON", "Münich", "pariss"}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		assert.Equal(t, once, twice, "Normalize should be idempotent for %q", in)
	}
}

func TestWords(t *testing.T) {
	assert.Equal(t, []string{"new", "york", "jfk"}, Words(Normalize("New York, JFK!")))
	assert.Empty(t, Words(""))
}

func TestWhitespaceWords(t *testing.T) {
	assert.Equal(t, []string{"new-york,", "jfk"}, WhitespaceWords("new-york, jfk"))
}
