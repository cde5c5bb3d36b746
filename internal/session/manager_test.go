package session

import (
	"testing"
	"time"

	"github.com/rockfordlhotka/mordecai-mud-sub000/internal/events"
	"github.com/rockfordlhotka/mordecai-mud-sub000/internal/game"
)

type memStore struct {
	sessions []*game.CombatSession
	creates  int
	updates  int
}

func (m *memStore) ActiveSessionForCombatant(key string) (*game.CombatSession, error) {
	for _, s := range m.sessions {
		if !s.Active {
			continue
		}
		if p := s.ParticipantFor(key); p != nil && p.Active {
			return s, nil
		}
	}
	return nil, nil
}

func (m *memStore) CreateSession(s *game.CombatSession) error {
	m.creates++
	m.sessions = append(m.sessions, s)
	return nil
}

func (m *memStore) UpdateSession(*game.CombatSession) error {
	m.updates++
	return nil
}

type fakeBus struct {
	started, actions, ended int
	usages                  []events.SkillUsage
}

func (b *fakeBus) CombatStarted(*game.CombatSession)                       { b.started++ }
func (b *fakeBus) CombatAction(*game.CombatSession, *game.CombatActionLog) { b.actions++ }
func (b *fakeBus) CombatEnded(*game.CombatSession)                         { b.ended++ }
func (b *fakeBus) SkillUsed(u events.SkillUsage)                           { b.usages = append(b.usages, u) }

func fighter(uuid string, room uint) *game.PlayerCharacter {
	return &game.PlayerCharacter{
		CharacterUUID: uuid, Name: uuid, Room: room,
		Pool: game.Pools{Fatigue: 10, MaxFatigue: 10, Vitality: 12, MaxVitality: 12},
	}
}

func TestEngage_CreatesSessionWithBothParticipants(t *testing.T) {
	store := &memStore{}
	bus := &fakeBus{}
	m := NewManager(store, bus)

	a, d := fighter("alice", 7), fighter("bram", 7)
	s, res, err := m.Engage(a, d)
	if err != nil || !res.Success {
		t.Fatalf("engage: %v %+v", err, res)
	}
	if store.creates != 1 || bus.started != 1 {
		t.Fatalf("expected one create and one start event")
	}
	if s.Room != 7 || !s.Active || len(s.Participants) != 2 {
		t.Fatalf("session: %+v", s)
	}
	if s.ParticipantFor(a.Key()) == nil || s.ParticipantFor(d.Key()) == nil {
		t.Fatalf("missing participant records")
	}
}

func TestEngage_ReusesAttackerSession(t *testing.T) {
	store := &memStore{}
	m := NewManager(store, &fakeBus{})

	a, d := fighter("alice", 7), fighter("bram", 7)
	s1, _, err := m.Engage(a, d)
	if err != nil {
		t.Fatal(err)
	}
	// Attacking a third combatant in the room pulls them into the
	// existing session instead of opening a second one.
	c := fighter("cora", 7)
	s2, res, err := m.Engage(a, c)
	if err != nil || !res.Success {
		t.Fatalf("engage: %v %+v", err, res)
	}
	if s2.SessionUUID != s1.SessionUUID {
		t.Fatalf("expected session reuse")
	}
	if store.creates != 1 || len(s2.Participants) != 3 {
		t.Fatalf("creates=%d participants=%d", store.creates, len(s2.Participants))
	}
}

func TestEngage_AttackerJoinsDefendersSession(t *testing.T) {
	store := &memStore{}
	m := NewManager(store, &fakeBus{})

	a, d := fighter("alice", 7), fighter("bram", 7)
	s1, _, err := m.Engage(a, d)
	if err != nil {
		t.Fatal(err)
	}
	c := fighter("cora", 7)
	s2, res, err := m.Engage(c, d)
	if err != nil || !res.Success {
		t.Fatalf("engage: %v %+v", err, res)
	}
	if s2.SessionUUID != s1.SessionUUID {
		t.Fatalf("attacker should join the defender's session")
	}
	if s2.ParticipantFor(c.Key()) == nil {
		t.Fatalf("joining attacker missing from participants")
	}
}

func TestEngage_RoomMismatchBlocks(t *testing.T) {
	store := &memStore{}
	m := NewManager(store, &fakeBus{})

	s, res, err := m.Engage(fighter("alice", 7), fighter("bram", 8))
	if err != nil {
		t.Fatal(err)
	}
	if s != nil || res.Success || res.Message != MsgTargetElsewhere {
		t.Fatalf("expected room-mismatch refusal, got %+v", res)
	}
	if store.creates != 0 {
		t.Fatalf("refusal must not create a session")
	}
}

func TestEngage_CrossSessionRefused(t *testing.T) {
	store := &memStore{}
	m := NewManager(store, &fakeBus{})

	a, b := fighter("alice", 7), fighter("bram", 7)
	c, d := fighter("cora", 7), fighter("dane", 7)
	if _, _, err := m.Engage(a, b); err != nil {
		t.Fatal(err)
	}
	if _, _, err := m.Engage(c, d); err != nil {
		t.Fatal(err)
	}
	s, res, err := m.Engage(a, c)
	if err != nil {
		t.Fatal(err)
	}
	if s != nil || res.Success || res.Message != MsgTargetEngaged {
		t.Fatalf("expected cross-session refusal, got %+v", res)
	}
}

func TestFlee_EndsSessionWhenOneRemains(t *testing.T) {
	store := &memStore{}
	bus := &fakeBus{}
	m := NewManager(store, bus)

	a, d := fighter("alice", 7), fighter("bram", 7)
	s, _, err := m.Engage(a, d)
	if err != nil {
		t.Fatal(err)
	}
	res, err := m.Flee(a)
	if err != nil || !res.Success {
		t.Fatalf("flee: %v %+v", err, res)
	}
	if s.Active {
		t.Fatalf("session should end when one participant remains")
	}
	if s.EndReason != game.EndReasonOneFled {
		t.Fatalf("end reason: %q", s.EndReason)
	}
	p := s.ParticipantFor(a.Key())
	if p.Active || p.LeaveReason != game.LeaveReasonFled || p.LeftAt == nil {
		t.Fatalf("fled participant: %+v", p)
	}
	if bus.ended != 1 {
		t.Fatalf("expected end event")
	}
}

func TestFlee_SessionContinuesWithTwoLeft(t *testing.T) {
	store := &memStore{}
	m := NewManager(store, &fakeBus{})

	a, d := fighter("alice", 7), fighter("bram", 7)
	s, _, err := m.Engage(a, d)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := m.Engage(a, fighter("cora", 7)); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Flee(a); err != nil {
		t.Fatal(err)
	}
	if !s.Active || s.ActiveParticipants() != 2 {
		t.Fatalf("session should continue: active=%v n=%d", s.Active, s.ActiveParticipants())
	}
}

func TestFlee_NotInCombat(t *testing.T) {
	m := NewManager(&memStore{}, &fakeBus{})
	if _, err := m.Flee(fighter("alice", 7)); err != ErrNotInCombat {
		t.Fatalf("expected ErrNotInCombat, got %v", err)
	}
}

func TestMarkDead_EndsSession(t *testing.T) {
	store := &memStore{}
	bus := &fakeBus{}
	m := NewManager(store, bus)

	a, d := fighter("alice", 7), fighter("bram", 7)
	s, _, err := m.Engage(a, d)
	if err != nil {
		t.Fatal(err)
	}
	if err := m.MarkDead(s, d.Key()); err != nil {
		t.Fatal(err)
	}
	if s.Active || s.EndReason != game.EndReasonDeath {
		t.Fatalf("session: active=%v reason=%q", s.Active, s.EndReason)
	}
	if p := s.ParticipantFor(d.Key()); p.LeaveReason != game.LeaveReasonDied {
		t.Fatalf("dead participant: %+v", p)
	}
	if bus.ended != 1 {
		t.Fatalf("expected end event")
	}
}

func TestSetParryMode(t *testing.T) {
	store := &memStore{}
	m := NewManager(store, &fakeBus{})

	a, d := fighter("alice", 7), fighter("bram", 7)
	s, _, err := m.Engage(a, d)
	if err != nil {
		t.Fatal(err)
	}
	if err := m.SetParryMode(d, true); err != nil {
		t.Fatal(err)
	}
	if !s.ParticipantFor(d.Key()).ParryMode {
		t.Fatalf("parry mode not set")
	}
	if err := m.SetParryMode(fighter("cora", 7), true); err != ErrNotInCombat {
		t.Fatalf("expected ErrNotInCombat, got %v", err)
	}
}

func TestPenalties_SumAndExpire(t *testing.T) {
	store := &memStore{}
	base := time.Now()
	now := base
	m := NewManager(store, &fakeBus{}).WithClock(func() time.Time { return now })

	a, d := fighter("alice", 7), fighter("bram", 7)
	s, _, err := m.Engage(a, d)
	if err != nil {
		t.Fatal(err)
	}
	if err := m.AddPenalty(s, a.Key(), -2, base.Add(6*time.Second)); err != nil {
		t.Fatal(err)
	}
	if err := m.AddPenalty(s, a.Key(), -1, base.Add(3*time.Second)); err != nil {
		t.Fatal(err)
	}
	if got := m.PenaltySum(s, a.Key()); got != -3 {
		t.Fatalf("sum = %d, want -3", got)
	}
	updatesBefore := store.updates
	now = base.Add(4 * time.Second)
	if got := m.PenaltySum(s, a.Key()); got != -2 {
		t.Fatalf("after expiry sum = %d, want -2", got)
	}
	if n := len(s.ParticipantFor(a.Key()).Penalties); n != 1 {
		t.Fatalf("expired penalty not pruned, %d rows", n)
	}
	// Pruning must reach the store, or the dropped rows come back on
	// the next session load.
	if store.updates != updatesBefore+1 {
		t.Fatalf("prune not persisted: updates %d -> %d", updatesBefore, store.updates)
	}
	if got := m.PenaltySum(s, a.Key()); got != -2 || store.updates != updatesBefore+1 {
		t.Fatalf("repeat sum must not re-persist: sum=%d updates=%d", got, store.updates)
	}
}
