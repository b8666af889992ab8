package search

import (
	"testing"

	"github.com/pharaohs/pitchside/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(results []Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Title
	}
	return out
}

func TestRankWordOrderAndTypos(t *testing.T) {
	list := []string{"Mohamed Salah", "Sadio Mane", "Mo Salah"}

	m := Rank("salah mo", list)
	require.Len(t, m, 2)
	assert.Equal(t, 2, m[0].Index)
	assert.Equal(t, 0, m[1].Index)

	m = Rank("salsh", list)
	require.Len(t, m, 2)
	assert.Equal(t, 2, m[0].Index, "shorter name wins the tie")

	assert.Empty(t, Rank("xyz", list))
	assert.Nil(t, Rank("  ", list))
}

func TestRankPrefersExactWords(t *testing.T) {
	m := Rank("mane", []string{"Manel Costa", "Sadio Mane"})
	require.Len(t, m, 2)
	assert.Equal(t, 1, m[0].Index)
	assert.Equal(t, []int{6, 7, 8, 9}, m[0].MatchedIndexes)
}

func TestFilterPlayers(t *testing.T) {
	idx := Players([]domain.PlayerProfile{
		{ID: "1", Name: "Omar Marmoush", Club: "Frankfurt", Position: "Forward"},
		{ID: "2", Name: "Mostafa Mohamed", Club: "Nantes", Position: "Striker"},
		{ID: "3", Name: "Trezeguet", Club: "Trabzonspor", Position: "Winger"},
	})

	assert.Len(t, idx.Filter(""), 3)

	got := idx.Filter("omr")
	require.NotEmpty(t, got)
	assert.Equal(t, "Omar Marmoush", got[0].Title)
	assert.NotEmpty(t, got[0].MatchedIndexes)

	got = idx.Filter("nantes")
	assert.Equal(t, []string{"Mostafa Mohamed"}, names(got))
	assert.Empty(t, got[0].MatchedIndexes)
}

func TestIndexRank(t *testing.T) {
	idx := Notifications([]domain.Notification{
		{ID: "1", Message: "You were invited to the Cairo tryout"},
		{ID: "2", Message: "Your post received a new comment"},
	})
	got := idx.Rank("comment")
	require.Len(t, got, 1)
	assert.Equal(t, domain.ID("2"), got[0].ID)
	assert.Equal(t, KindNotification, got[0].Kind)
}

func TestInvitationTitles(t *testing.T) {
	idx := Invitations([]domain.Invitation{
		{ID: "1", TryoutID: "4", ScoutName: "Hany", Status: domain.InvitationPending},
		{ID: "2", TryoutName: "U19 Open Day", Location: "Giza"},
	})
	entries := idx.Entries()
	assert.Equal(t, "Tryout 4", entries[0].Title)
	assert.Equal(t, "Hany pending", entries[0].Detail)
	assert.Equal(t, "U19 Open Day", entries[1].Title)
}

func TestSuggest(t *testing.T) {
	clubs := []string{"Al Ahly", "Zamalek", "Pyramids", "Al Masry"}

	got := Suggest("al", clubs, 0)
	assert.ElementsMatch(t, []string{"Al Ahly", "Zamalek", "Al Masry"}, got)
	assert.Equal(t, "Al Masry", got[2])
	assert.Equal(t, []string{"Zamalek"}, Suggest("zml", clubs, 5))
	assert.Len(t, Suggest("a", clubs, 1), 1)
	assert.Nil(t, Suggest("", clubs, 3))
}

func TestFilterFallsBackToRank(t *testing.T) {
	idx := Players([]domain.PlayerProfile{
		{ID: "1", Name: "Omar Marmoush"},
		{ID: "2", Name: "Mostafa Mohamed"},
	})

	// "mostfa" has no in-order match in "omar marmoush" and matches
	// "mostafa" in order, so the subsequence pass finds it
	assert.Equal(t, []string{"Mostafa Mohamed"}, names(idx.Filter("mostfa")))

	// transposed letters break the subsequence, the typo pass recovers
	got := idx.Filter("marmuosh")
	require.Len(t, got, 1)
	assert.Equal(t, domain.ID("1"), got[0].ID)

	assert.Empty(t, idx.Filter("zzz"))
}
