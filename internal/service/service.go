// Package service orchestrates combat: it loads combatants, applies the
// availability gate, drives session bookkeeping and attack resolution,
// persists the outcome and publishes events. All combatant mutation runs
// under per-combatant locks acquired in sorted order.
package service

import (
	"errors"
	"time"

	"github.com/rockfordlhotka/mordecai-mud-sub000/internal/dice"
	"github.com/rockfordlhotka/mordecai-mud-sub000/internal/effects"
	"github.com/rockfordlhotka/mordecai-mud-sub000/internal/engine"
	"github.com/rockfordlhotka/mordecai-mud-sub000/internal/events"
	"github.com/rockfordlhotka/mordecai-mud-sub000/internal/game"
	"github.com/rockfordlhotka/mordecai-mud-sub000/internal/session"
)

var (
	ErrCombatantNotFound = errors.New("combatant not found")
)

// CombatRepo is the repository surface the combat service needs.
// storage.Repository satisfies it; tests use in-memory fakes.
type CombatRepo interface {
	GetCombatantByKey(key string) (game.Combatant, error)
	SaveCombatant(c game.Combatant) error
	GetDamagedCombatantKeys() ([]string, error)

	ActiveSessionForCombatant(key string) (*game.CombatSession, error)
	CreateSession(s *game.CombatSession) error
	UpdateSession(s *game.CombatSession) error
	AppendActionLog(l *game.CombatActionLog) error

	ActiveEffectInstances(combatantKey string) ([]game.StatusEffectInstance, error)
	SaveEffectInstance(i *game.StatusEffectInstance) error
	GetTickableInstanceKeys() ([]string, error)

	GetNPCTemplateByName(name string) (*game.NPCTemplate, error)
	CreateNPCInstance(n *game.NPCInstance) error
	GetLiveNPCInstances() ([]game.NPCInstance, error)
}

// Service wires the combat core together.
type Service struct {
	repo     CombatRepo
	sessions *session.Manager
	attacks  *engine.Engine
	effects  *effects.Engine
	roller   *dice.Roller
	bus      events.Bus
	locks    *keyedLocks
	now      func() time.Time
}

func New(repo CombatRepo, sessions *session.Manager, attacks *engine.Engine, fx *effects.Engine, roller *dice.Roller, bus events.Bus) *Service {
	return &Service{
		repo:     repo,
		sessions: sessions,
		attacks:  attacks,
		effects:  fx,
		roller:   roller,
		bus:      bus,
		locks:    newKeyedLocks(),
		now:      time.Now,
	}
}

// WithClock overrides the service clock (tests).
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) loadCombatant(key string) (game.Combatant, error) {
	c, err := s.repo.GetCombatantByKey(key)
	if err != nil {
		return nil, ErrCombatantNotFound
	}
	return c, nil
}
