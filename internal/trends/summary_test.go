package trends

import (
	"testing"

	"github.com/ShakerZed/bjjfanaticsdb/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotalCount_CountsMalformedRowsToo(t *testing.T) {
	events := []domain.MentionEvent{
		event("2025-01-10 08:00:00", "O Goshi"),
		event("garbage", "O Goshi"),
	}

	assert.Equal(t, 2, TotalCount(events))
}

func TestTally_RanksDescending(t *testing.T) {
	events := []domain.MentionEvent{
		event("2025-01-01 10:00:00", "Tai Otoshi"),
		event("2025-01-02 10:00:00", "Uchi Mata"),
		event("2025-01-03 10:00:00", "Uchi Mata"),
		event("2025-01-04 10:00:00", "Uchi Mata"),
		event("2025-01-05 10:00:00", "O Goshi"),
		event("2025-01-06 10:00:00", "O Goshi"),
	}

	tally := Tally(events)

	require.Len(t, tally, 3)
	assert.Equal(t, TallyEntry{Name: "Uchi Mata", Count: 3}, tally[0])
	assert.Equal(t, TallyEntry{Name: "O Goshi", Count: 2}, tally[1])
	assert.Equal(t, TallyEntry{Name: "Tai Otoshi", Count: 1}, tally[2])
}

func TestTally_TiesKeepFirstAppearanceOrder(t *testing.T) {
	events := []domain.MentionEvent{
		event("2025-01-01 10:00:00", "Tomoe Nage"),
		event("2025-01-02 10:00:00", "Hiza Guruma"),
		event("2025-01-03 10:00:00", "Tomoe Nage"),
		event("2025-01-04 10:00:00", "Hiza Guruma"),
	}

	tally := Tally(events)

	require.Len(t, tally, 2)
	assert.Equal(t, "Tomoe Nage", tally[0].Name)
	assert.Equal(t, "Hiza Guruma", tally[1].Name)
}

func TestTally_Empty(t *testing.T) {
	assert.Empty(t, Tally(nil))
}

func TestTimestampBounds(t *testing.T) {
	events := []domain.MentionEvent{
		event("2025-02-10 08:00:00", "O Goshi"),
		event("2025-01-03 09:30:00", "O Goshi"),
		event("2025-03-21 17:45:00", "Uchi Mata"),
	}

	bounds := TimestampBounds(events)

	require.NotNil(t, bounds)
	assert.Equal(t, "2025-01-03 09:30:00", bounds.Earliest)
	assert.Equal(t, "2025-03-21 17:45:00", bounds.Latest)
}

func TestTimestampBounds_Empty(t *testing.T) {
	assert.Nil(t, TimestampBounds(nil))
}

func TestTimestampBounds_SingleEvent(t *testing.T) {
	events := []domain.MentionEvent{event("2025-01-01 00:00:00", "O Goshi")}

	bounds := TimestampBounds(events)

	require.NotNil(t, bounds)
	assert.Equal(t, bounds.Earliest, bounds.Latest)
}
