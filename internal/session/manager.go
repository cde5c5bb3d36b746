// Package session manages combat session lifecycle: creating and
// reusing sessions, joining participants, flee and death bookkeeping,
// parry mode and timed attack penalties.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rockfordlhotka/mordecai-mud-sub000/internal/events"
	"github.com/rockfordlhotka/mordecai-mud-sub000/internal/game"
	"github.com/rockfordlhotka/mordecai-mud-sub000/internal/logging"
)

var (
	ErrNotInCombat = errors.New("combatant has no active combat session")
	ErrSessionOver = errors.New("combat session already ended")
)

// Engagement-refusal messages sent back to the acting combatant.
const (
	MsgTargetElsewhere = "Your target is not here."
	MsgTargetEngaged   = "They are already embroiled in another fight."
)

// Store is the persistence surface the manager needs. A nil session with
// a nil error means "no active session".
type Store interface {
	ActiveSessionForCombatant(key string) (*game.CombatSession, error)
	CreateSession(s *game.CombatSession) error
	UpdateSession(s *game.CombatSession) error
}

// Manager owns session lifecycle transitions. Resolution code asks it
// for an engagement, then reports outcomes (death, flee) back to it.
type Manager struct {
	store Store
	bus   events.Bus
	now   func() time.Time
}

func NewManager(store Store, bus events.Bus) *Manager {
	return &Manager{store: store, bus: bus, now: time.Now}
}

// WithClock overrides the manager clock (tests).
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

// Engage returns the session an attack between attacker and defender
// runs in, creating or joining as needed:
//   - attacker already engaged: that session is reused, and the
//     defender joins it if unengaged
//   - defender engaged in the attacker's room: the attacker joins
//   - neither engaged: a fresh session starts in the attacker's room
//
// A defender engaged in a different session than an engaged attacker,
// or a room mismatch, refuses the engagement without touching state.
func (m *Manager) Engage(attacker, defender game.Combatant) (*game.CombatSession, game.ActionResult, error) {
	if attacker.RoomID() != defender.RoomID() {
		return nil, game.Failure(MsgTargetElsewhere), nil
	}

	as, err := m.store.ActiveSessionForCombatant(attacker.Key())
	if err != nil {
		return nil, game.ActionResult{}, fmt.Errorf("load attacker session: %w", err)
	}
	ds, err := m.store.ActiveSessionForCombatant(defender.Key())
	if err != nil {
		return nil, game.ActionResult{}, fmt.Errorf("load defender session: %w", err)
	}

	switch {
	case as != nil && ds != nil:
		if as.SessionUUID != ds.SessionUUID {
			return nil, game.Failure(MsgTargetEngaged), nil
		}
		return as, game.OK(""), nil
	case as != nil:
		if err := m.join(as, defender); err != nil {
			return nil, game.ActionResult{}, err
		}
		return as, game.OK(""), nil
	case ds != nil:
		if ds.Room != attacker.RoomID() {
			return nil, game.Failure(MsgTargetElsewhere), nil
		}
		if err := m.join(ds, attacker); err != nil {
			return nil, game.ActionResult{}, err
		}
		return ds, game.OK(""), nil
	}

	s := &game.CombatSession{
		SessionUUID: uuid.NewString(),
		Room:        attacker.RoomID(),
		Active:      true,
		StartedAt:   m.now(),
		Participants: []game.CombatParticipant{
			m.participantFor(attacker),
			m.participantFor(defender),
		},
	}
	if err := m.store.CreateSession(s); err != nil {
		return nil, game.ActionResult{}, fmt.Errorf("create session: %w", err)
	}
	m.bus.CombatStarted(s)
	return s, game.OK(""), nil
}

func (m *Manager) participantFor(c game.Combatant) game.CombatParticipant {
	p := game.CombatParticipant{
		CombatantKey: c.Key(),
		Active:       true,
		JoinedAt:     m.now(),
	}
	id := combatantRowID(c)
	if c.IsNPC() {
		p.NPCInstanceID = &id
	} else {
		p.PlayerID = &id
	}
	return p
}

func combatantRowID(c game.Combatant) uint {
	switch v := c.(type) {
	case *game.PlayerCharacter:
		return v.ID
	case *game.NPCInstance:
		return v.ID
	}
	return 0
}

func (m *Manager) join(s *game.CombatSession, c game.Combatant) error {
	if p := s.ParticipantFor(c.Key()); p != nil {
		if !p.Active {
			// Rejoining after a flee within the same session.
			p.Active = true
			p.LeftAt = nil
			p.LeaveReason = ""
			return m.store.UpdateSession(s)
		}
		return nil
	}
	s.Participants = append(s.Participants, m.participantFor(c))
	return m.store.UpdateSession(s)
}

// Flee marks the combatant's participant record inactive. When one or
// fewer active participants remain the session ends.
func (m *Manager) Flee(c game.Combatant) (game.ActionResult, error) {
	s, err := m.store.ActiveSessionForCombatant(c.Key())
	if err != nil {
		return game.ActionResult{}, fmt.Errorf("load session: %w", err)
	}
	if s == nil {
		return game.ActionResult{}, ErrNotInCombat
	}
	if err := m.leave(s, c.Key(), game.LeaveReasonFled, game.EndReasonOneFled); err != nil {
		return game.ActionResult{}, err
	}
	return game.OK(fmt.Sprintf("%s flees from combat!", c.DisplayName())), nil
}

// MarkDead records a combat death and ends the session.
func (m *Manager) MarkDead(s *game.CombatSession, key string) error {
	if !s.Active {
		return ErrSessionOver
	}
	if p := s.ParticipantFor(key); p != nil && p.Active {
		now := m.now()
		p.Active = false
		p.LeftAt = &now
		p.LeaveReason = game.LeaveReasonDied
	}
	return m.end(s, game.EndReasonDeath)
}

func (m *Manager) leave(s *game.CombatSession, key, leaveReason, endReason string) error {
	p := s.ParticipantFor(key)
	if p == nil || !p.Active {
		return ErrNotInCombat
	}
	now := m.now()
	p.Active = false
	p.LeftAt = &now
	p.LeaveReason = leaveReason
	if s.ActiveParticipants() <= 1 {
		return m.end(s, endReason)
	}
	return m.store.UpdateSession(s)
}

func (m *Manager) end(s *game.CombatSession, reason string) error {
	now := m.now()
	s.Active = false
	s.EndedAt = &now
	s.EndReason = reason
	for i := range s.Participants {
		if s.Participants[i].Active {
			s.Participants[i].Active = false
			s.Participants[i].LeftAt = &now
		}
	}
	if err := m.store.UpdateSession(s); err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	m.bus.CombatEnded(s)
	return nil
}

// SetParryMode switches the combatant's defense mode for its active
// session. Parry defends with the main-hand weapon skill instead of
// dodge and costs the defender no fatigue.
func (m *Manager) SetParryMode(c game.Combatant, parry bool) error {
	s, err := m.store.ActiveSessionForCombatant(c.Key())
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if s == nil {
		return ErrNotInCombat
	}
	p := s.ParticipantFor(c.Key())
	if p == nil || !p.Active {
		return ErrNotInCombat
	}
	if p.ParryMode == parry {
		return nil
	}
	p.ParryMode = parry
	return m.store.UpdateSession(s)
}

// AddPenalty attaches a timed attack-value penalty to a participant.
func (m *Manager) AddPenalty(s *game.CombatSession, key string, amount int, expires time.Time) error {
	p := s.ParticipantFor(key)
	if p == nil {
		return ErrNotInCombat
	}
	p.Penalties = append(p.Penalties, game.TimedPenalty{Amount: amount, ExpiresAt: expires})
	return m.store.UpdateSession(s)
}

// PenaltySum returns the participant's unexpired penalty total. Expired
// rows are pruned and the session persisted so they stay gone across
// reloads.
func (m *Manager) PenaltySum(s *game.CombatSession, key string) int {
	p := s.ParticipantFor(key)
	if p == nil {
		return 0
	}
	before := len(p.Penalties)
	sum := p.ActivePenaltySum(m.now())
	if len(p.Penalties) != before {
		if err := m.store.UpdateSession(s); err != nil {
			logging.Error("failed to persist pruned penalties", err, logging.Fields{"session_uuid": s.SessionUUID})
		}
	}
	return sum
}
