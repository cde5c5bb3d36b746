// Package api exposes the read-only inspection surface: combat sessions,
// action logs, combatant vitals and the effect catalog. Commands (attack,
// flee, parry) arrive through the MUD command loop, not HTTP; these
// endpoints exist for spectator and debugging tools.
package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rockfordlhotka/mordecai-mud-sub000/internal/constants"
	"github.com/rockfordlhotka/mordecai-mud-sub000/internal/effects"
	"github.com/rockfordlhotka/mordecai-mud-sub000/internal/storage"
	"github.com/rockfordlhotka/mordecai-mud-sub000/internal/vitality"
)

type CombatHandler struct {
	repo     storage.Repository
	registry *effects.Registry
	fx       *effects.Engine
}

func NewCombatHandler(repo storage.Repository, registry *effects.Registry, fx *effects.Engine) *CombatHandler {
	return &CombatHandler{repo: repo, registry: registry, fx: fx}
}

// Healthz reports liveness.
func (h *CombatHandler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{constants.JSONKeyStatus: "ok"})
}

// ListSessions returns active sessions, or recent ones with ?recent=N.
func (h *CombatHandler) ListSessions(c *gin.Context) {
	if s := c.Query("recent"); s != "" {
		limit, err := strconv.Atoi(s)
		if err != nil || limit <= 0 || limit > 100 {
			limit = 20
		}
		sessions, err := h.repo.GetRecentSessions(limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchSessions})
			return
		}
		c.JSON(http.StatusOK, sessions)
		return
	}
	sessions, err := h.repo.GetActiveSessions()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchSessions})
		return
	}
	c.JSON(http.StatusOK, sessions)
}

// GetSession returns one session with participants and penalties.
func (h *CombatHandler) GetSession(c *gin.Context) {
	s, err := h.repo.GetSessionByUUID(c.Param("sessionUUID"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrSessionNotFound})
		return
	}
	c.JSON(http.StatusOK, s)
}

// GetSessionLog returns the append-only action log for a session.
func (h *CombatHandler) GetSessionLog(c *gin.Context) {
	s, err := h.repo.GetSessionByUUID(c.Param("sessionUUID"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrSessionNotFound})
		return
	}
	logs, err := h.repo.GetActionLogs(s.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchSessionLog})
		return
	}
	c.JSON(http.StatusOK, logs)
}

// GetCombatantVitals returns a combatant's pools, derived availability
// and active effect summary.
func (h *CombatHandler) GetCombatantVitals(c *gin.Context) {
	key := c.Param("key")
	cb, err := h.repo.GetCombatantByKey(key)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrCombatantNotFound})
		return
	}
	pools := cb.Pools()
	sum, err := h.fx.Summary(key)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchCombatant})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"key":                key,
		"name":               cb.DisplayName(),
		"room_id":            cb.RoomID(),
		"pools":              pools,
		"available_fatigue":  vitality.Available(pools.Fatigue, pools.PendingFatigue),
		"available_vitality": vitality.Available(pools.Vitality, pools.PendingVitality),
		"wound_stacks":       sum.WoundStacks,
		"wounds_by_location": sum.WoundsByLocation,
		"attack_value_mod":   sum.AttackValue,
		"defense_value_mod":  sum.DefenseValue,
		"can_act":            sum.CanAct,
		"can_move":           sum.CanMove,
	})
}

// ListEffects returns the registered effect definition keys.
func (h *CombatHandler) ListEffects(c *gin.Context) {
	keys := h.registry.Keys()
	defs := make([]interface{}, 0, len(keys))
	for _, k := range keys {
		if d, ok := h.registry.Get(k); ok {
			defs = append(defs, d)
		}
	}
	c.JSON(http.StatusOK, defs)
}
