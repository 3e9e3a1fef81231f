package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatch_WholeWord(t *testing.T) {
	m := New([]string{"O Goshi"})

	assert.Equal(t, []string{"O Goshi"}, m.Match("did a great O Goshi today"))
	assert.Empty(t, m.Match("xO Goshiy"))
	assert.Empty(t, m.Match("FooGoshiBar"))
}

func TestMatch_CaseInsensitive(t *testing.T) {
	m := New([]string{"Uchi Mata"})

	assert.Equal(t, []string{"Uchi Mata"}, m.Match("hit an UCHI MATA in randori"))
	assert.Equal(t, []string{"Uchi Mata"}, m.Match("uchi mata all day"))
}

func TestMatch_EmptyText(t *testing.T) {
	m := New([]string{"O Goshi", "Uchi Mata"})

	assert.Empty(t, m.Match(""))
}

func TestMatch_EmptyCatalog(t *testing.T) {
	m := New(nil)

	assert.Equal(t, 0, m.Size())
	assert.Empty(t, m.Match("Uchi Mata everywhere"))
}

func TestMatch_DuplicateCatalogEntries(t *testing.T) {
	m := New([]string{"O Goshi", "O Goshi", "O Goshi"})

	assert.Equal(t, 1, m.Size())
	assert.Equal(t, []string{"O Goshi"}, m.Match("one O Goshi here"))
}

func TestMatch_OverlappingNamesBothReported(t *testing.T) {
	m := New([]string{"O Soto Gari", "O Soto Gari Gaeshi"})

	found := m.Match("countered with O Soto Gari Gaeshi")
	assert.Equal(t, []string{"O Soto Gari", "O Soto Gari Gaeshi"}, found)
}

func TestMatch_RegexMetacharactersEscaped(t *testing.T) {
	m := New([]string{"O-Goshi vol. 2"})

	assert.Equal(t, []string{"O-Goshi vol. 2"}, m.Match("watched O-Goshi vol. 2 twice"))
	// The dot must not act as a wildcard.
	assert.Empty(t, m.Match("watched O-Goshi volX 2 twice"))
}

func TestMatch_CatalogOrderPreserved(t *testing.T) {
	m := New([]string{"Tai Otoshi", "O Goshi", "Hiza Guruma"})

	found := m.Match("O Goshi then Hiza Guruma then Tai Otoshi")
	assert.Equal(t, []string{"Tai Otoshi", "O Goshi", "Hiza Guruma"}, found)
}

func TestMatch_SingleOccurrenceReportedOnce(t *testing.T) {
	m := New([]string{"Tomoe Nage"})

	found := m.Match("Tomoe Nage, Tomoe Nage, Tomoe Nage")
	assert.Equal(t, []string{"Tomoe Nage"}, found)
}
