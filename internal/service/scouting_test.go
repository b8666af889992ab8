package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/pharaohs/pitchside/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubScoutRepo struct {
	domain.ScoutRepository

	mu        sync.Mutex
	shortlist []domain.PlayerProfile
	listErr   error
	addErr    error
	removeErr error
	adds      int

	sent      []domain.Invitation
	sentErr   error
	invite    func(slot domain.InvitationSlot) (*domain.Invitation, error)
	cancelErr error
	cancelled []domain.ID

	searchResult *domain.SearchResult
	searched     int
}

func (r *stubScoutRepo) GetShortlist(ctx context.Context) ([]domain.PlayerProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.PlayerProfile(nil), r.shortlist...), r.listErr
}

func (r *stubScoutRepo) AddToShortlist(ctx context.Context, id domain.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adds++
	if r.addErr != nil {
		return r.addErr
	}
	r.shortlist = append(r.shortlist, domain.PlayerProfile{ID: id, Name: "Server " + string(id)})
	return nil
}

func (r *stubScoutRepo) RemoveFromShortlist(ctx context.Context, id domain.ID) error {
	return r.removeErr
}

func (r *stubScoutRepo) GetSentInvitations(ctx context.Context) ([]domain.Invitation, error) {
	return r.sent, r.sentErr
}

func (r *stubScoutRepo) Invite(ctx context.Context, slot domain.InvitationSlot) (*domain.Invitation, error) {
	return r.invite(slot)
}

func (r *stubScoutRepo) CancelInvitation(ctx context.Context, id domain.ID) error {
	r.cancelled = append(r.cancelled, id)
	return r.cancelErr
}

func (r *stubScoutRepo) Search(ctx context.Context, f domain.SearchFilters) (*domain.SearchResult, error) {
	r.searched++
	return r.searchResult, nil
}

type memScoutCache struct {
	shortlist   []domain.PlayerProfile
	invitations map[string][]domain.Invitation
}

func (c *memScoutCache) GetShortlist() ([]domain.PlayerProfile, bool) {
	return c.shortlist, c.shortlist != nil
}

func (c *memScoutCache) SaveShortlist(players []domain.PlayerProfile) error {
	c.shortlist = players
	return nil
}

func (c *memScoutCache) GetInvitations(key string) ([]domain.Invitation, bool) {
	inv, ok := c.invitations[key]
	return inv, ok
}

func (c *memScoutCache) SaveInvitations(key string, inv []domain.Invitation) error {
	if c.invitations == nil {
		c.invitations = map[string][]domain.Invitation{}
	}
	c.invitations[key] = inv
	return nil
}

func TestAddToShortlistAdoptsServerEntry(t *testing.T) {
	repo := &stubScoutRepo{}
	notices := &noticeRecorder{}
	svc := NewScoutingService(repo, sessionAs(domain.RoleScout), nil, notices, nil)

	require.NoError(t, svc.AddToShortlist(context.Background(), domain.PlayerProfile{ID: "7", Name: "Local"}))
	assert.True(t, svc.IsShortlisted("7"))
	players := svc.ShortlistedPlayers()
	require.Len(t, players, 1)
	assert.Equal(t, "Server 7", players[0].Name)
	assert.True(t, players[0].IsShortlisted)
	assert.Equal(t, []string{"Player added to shortlist"}, notices.messages())

	require.NoError(t, svc.AddToShortlist(context.Background(), domain.PlayerProfile{ID: "7"}))
	assert.Equal(t, 1, repo.adds)
	assert.Contains(t, notices.messages(), "Player is already in your shortlist.")
}

func TestAddToShortlistRollsBack(t *testing.T) {
	boom := errors.New("boom")
	repo := &stubScoutRepo{addErr: boom}
	notices := &noticeRecorder{}
	svc := NewScoutingService(repo, sessionAs(domain.RoleScout), nil, notices, nil)

	err := svc.AddToShortlist(context.Background(), domain.PlayerProfile{ID: "7"})
	require.ErrorIs(t, err, boom)
	assert.False(t, svc.IsShortlisted("7"))
	assert.Empty(t, notices.messages())
}

func TestRemoveFromShortlistRollsBack(t *testing.T) {
	boom := errors.New("boom")
	repo := &stubScoutRepo{removeErr: boom}
	svc := NewScoutingService(repo, sessionAs(domain.RoleScout), nil, nil, nil)
	svc.Shortlist().Set("7", domain.PlayerProfile{ID: "7", Name: "Kept"})

	require.ErrorIs(t, svc.RemoveFromShortlist(context.Background(), "7"), boom)
	p, ok := svc.Shortlist().Value("7")
	require.True(t, ok)
	assert.Equal(t, "Kept", p.Name)

	repo.removeErr = nil
	require.NoError(t, svc.ToggleShortlist(context.Background(), domain.PlayerProfile{ID: "7"}))
	assert.False(t, svc.IsShortlisted("7"))
}

func TestShortlistRefusesPlayers(t *testing.T) {
	repo := &stubScoutRepo{}
	notices := &noticeRecorder{}
	svc := NewScoutingService(repo, sessionAs(domain.RolePlayer), nil, notices, nil)

	err := svc.AddToShortlist(context.Background(), domain.PlayerProfile{ID: "7"})
	require.ErrorIs(t, err, domain.ErrRoleNotPermitted)
	assert.Equal(t, 0, repo.adds)
	assert.Equal(t, []string{"Only scouts can add players to shortlist."}, notices.messages())
}

func TestLoadShortlistFallsBackToCacheOffline(t *testing.T) {
	repo := &stubScoutRepo{shortlist: []domain.PlayerProfile{{ID: "2", Name: "B"}, {ID: "1", Name: "A"}}}
	cache := &memScoutCache{}
	svc := NewScoutingService(repo, sessionAs(domain.RoleScout), cache, nil, nil)

	players, err := svc.LoadShortlist(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "A", players[0].Name)
	assert.Len(t, cache.shortlist, 2)

	repo.listErr = domain.ErrServerOffline
	repo.shortlist = nil
	players, err = svc.LoadShortlist(context.Background())
	require.NoError(t, err)
	assert.Len(t, players, 2)

	repo.listErr = domain.ErrForbidden
	_, err = svc.LoadShortlist(context.Background())
	require.ErrorIs(t, err, domain.ErrForbidden)
}

func TestSearchMarksShortlisted(t *testing.T) {
	repo := &stubScoutRepo{searchResult: &domain.SearchResult{Players: []domain.PlayerProfile{{ID: "1"}, {ID: "2"}}}}
	svc := NewScoutingService(repo, sessionAs(domain.RoleScout), nil, nil, nil)
	svc.Shortlist().Set("2", domain.PlayerProfile{ID: "2"})

	res, err := svc.Search(context.Background(), domain.SearchFilters{Position: "Forward"})
	require.NoError(t, err)
	assert.False(t, res.Players[0].IsShortlisted)
	assert.True(t, res.Players[1].IsShortlisted)

	_, err = svc.Search(context.Background(), domain.SearchFilters{MinRating: 9})
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, 1, repo.searched)
}

func TestSendInvitationAdoptsServerInvitation(t *testing.T) {
	repo := &stubScoutRepo{invite: func(slot domain.InvitationSlot) (*domain.Invitation, error) {
		return &domain.Invitation{ID: "99", TryoutID: slot.TryoutID, PlayerID: slot.PlayerID, Status: domain.InvitationPending}, nil
	}}
	notices := &noticeRecorder{}
	svc := NewScoutingService(repo, sessionAs(domain.RoleScout), nil, notices, nil)
	slot := domain.InvitationSlot{TryoutID: "t1", PlayerID: "p1"}

	inv, err := svc.SendInvitation(context.Background(), slot)
	require.NoError(t, err)
	assert.Equal(t, domain.ID("99"), inv.ID)
	stored, ok := svc.Invitation(slot)
	require.True(t, ok)
	assert.Equal(t, domain.ID("99"), stored.ID)
	assert.Equal(t, []string{"Player invited successfully"}, notices.messages())

	require.NoError(t, svc.CancelInvitation(context.Background(), slot))
	_, ok = svc.Invitation(slot)
	assert.False(t, ok)
	assert.Equal(t, []domain.ID{"99"}, repo.cancelled)
}

func TestSendInvitationRollsBack(t *testing.T) {
	boom := errors.New("boom")
	repo := &stubScoutRepo{invite: func(domain.InvitationSlot) (*domain.Invitation, error) { return nil, boom }}
	svc := NewScoutingService(repo, sessionAs(domain.RoleScout), nil, nil, nil)
	slot := domain.InvitationSlot{TryoutID: "t1", PlayerID: "p1"}

	_, err := svc.SendInvitation(context.Background(), slot)
	require.ErrorIs(t, err, boom)
	_, ok := svc.Invitation(slot)
	assert.False(t, ok)
}

func TestSendInvitationNeedsTryout(t *testing.T) {
	notices := &noticeRecorder{}
	svc := NewScoutingService(&stubScoutRepo{}, sessionAs(domain.RoleScout), nil, notices, nil)

	_, err := svc.SendInvitation(context.Background(), domain.InvitationSlot{PlayerID: "p1"})
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, []string{"Please select a tryout first"}, notices.messages())
}

func TestCancelInvitationRestoresOnFailure(t *testing.T) {
	boom := errors.New("boom")
	repo := &stubScoutRepo{
		sent:      []domain.Invitation{{ID: "5", TryoutID: "t1", PlayerID: "p1", Status: domain.InvitationPending}},
		cancelErr: boom,
	}
	svc := NewScoutingService(repo, sessionAs(domain.RoleScout), nil, nil, nil)
	_, err := svc.LoadSentInvitations(context.Background())
	require.NoError(t, err)

	slot := domain.InvitationSlot{TryoutID: "t1", PlayerID: "p1"}
	require.ErrorIs(t, svc.CancelInvitation(context.Background(), slot), boom)
	inv, ok := svc.Invitation(slot)
	require.True(t, ok)
	assert.Equal(t, domain.ID("5"), inv.ID)
}

func TestCreateTryoutValidates(t *testing.T) {
	svc := NewScoutingService(&stubScoutRepo{}, sessionAs(domain.RoleScout), nil, nil, nil)

	_, err := svc.CreateTryout(context.Background(), domain.Tryout{Name: "U18", Date: "tomorrow"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "location")
	assert.Contains(t, verr.Fields, "date")
}
