package combat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/pixil98/go-aeternus/internal/game"
	"github.com/pixil98/go-aeternus/internal/tuning"
	"github.com/pixil98/go-aeternus/internal/vnum"
)

var (
	ErrUnknownCombatant = errors.New("no such combatant")
	ErrNotTogether      = errors.New("combatants are not in the same room")
	ErrSelfTarget       = errors.New("cannot fight yourself")
	ErrAlreadyDead      = errors.New("combatant is already dead")
)

// Broadcaster delivers text to everyone in a room.
type Broadcaster interface {
	Broadcast(ctx context.Context, room vnum.VNum, text string)
}

// LogBroadcaster writes room messages to the log only.
type LogBroadcaster struct{}

func (LogBroadcaster) Broadcast(ctx context.Context, room vnum.VNum, text string) {
	slog.InfoContext(ctx, "room message", "room", room, "text", text)
}

// Session is the fight in one room.
type Session struct {
	room         vnum.VNum
	participants []string
	targets      map[string]string
	log          []string
}

func newSession(room vnum.VNum) *Session {
	return &Session{
		room:    room,
		targets: make(map[string]string),
	}
}

// engage adds both sides. The attacker always targets the defender; the
// defender keeps any target it already has.
func (s *Session) engage(attacker, defender string) {
	for _, id := range []string{attacker, defender} {
		if !slices.Contains(s.participants, id) {
			s.participants = append(s.participants, id)
		}
	}
	s.targets[attacker] = defender
	if _, ok := s.targets[defender]; !ok {
		s.targets[defender] = attacker
	}
}

func (s *Session) remove(id string) {
	s.participants = slices.DeleteFunc(s.participants, func(p string) bool { return p == id })
	delete(s.targets, id)
}

func (s *Session) active() bool {
	return len(s.participants) >= 2
}

// Manager owns every combat session and resolves one round per session on
// each Tick.
type Manager struct {
	mu        sync.Mutex
	world     *game.World
	rng       Rand
	pub       Broadcaster
	observers []Observer
	cfg       tuning.Combat
	sessions  map[vnum.VNum]*Session
}

type ManagerOpt func(*Manager)

func WithRand(r Rand) ManagerOpt {
	return func(m *Manager) {
		m.rng = r
	}
}

func WithBroadcaster(b Broadcaster) ManagerOpt {
	return func(m *Manager) {
		m.pub = b
	}
}

func WithObserver(o Observer) ManagerOpt {
	return func(m *Manager) {
		m.observers = append(m.observers, o)
	}
}

func WithTuning(cfg tuning.Combat) ManagerOpt {
	return func(m *Manager) {
		m.cfg = cfg
	}
}

func NewManager(world *game.World, opts ...ManagerOpt) *Manager {
	m := &Manager{
		world:    world,
		rng:      DefaultRand,
		pub:      LogBroadcaster{},
		cfg:      tuning.Default().Combat,
		sessions: make(map[vnum.VNum]*Session),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Start opens or joins the fight in the attacker's room.
func (m *Manager) Start(ctx context.Context, attackerID, defenderID string) error {
	if attackerID == defenderID {
		return ErrSelfTarget
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	attacker := lookup(m.world, attackerID)
	defender := lookup(m.world, defenderID)
	if attacker == nil || defender == nil {
		return ErrUnknownCombatant
	}
	if !attacker.IsAlive() || !defender.IsAlive() {
		return ErrAlreadyDead
	}

	room := attacker.Location()
	if defender.Location() != room {
		return ErrNotTogether
	}

	s, ok := m.sessions[room]
	if !ok {
		s = newSession(room)
		m.sessions[room] = s
	}
	s.engage(attackerID, defenderID)

	m.pub.Broadcast(ctx, room, fmt.Sprintf("%s attacks %s!", attacker.Name(), defender.Name()))
	return nil
}

// Remove takes id out of whatever fight it is in. A session left with fewer
// than two participants is closed.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for room, s := range m.sessions {
		s.remove(id)
		if !s.active() {
			delete(m.sessions, room)
		}
	}
}

// InCombat reports whether id is part of any session.
func (m *Manager) InCombat(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range m.sessions {
		if slices.Contains(s.participants, id) {
			return true
		}
	}
	return false
}

// Participants lists the combat ids fighting in room.
func (m *Manager) Participants(room vnum.VNum) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[room]
	if !ok {
		return nil
	}
	return slices.Clone(s.participants)
}

// Target returns who id is attacking.
func (m *Manager) Target(room vnum.VNum, id string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[room]
	if !ok {
		return "", false
	}
	t, ok := s.targets[id]
	return t, ok
}

// RoundLog returns the lines of the last round fought in room.
func (m *Manager) RoundLog(room vnum.VNum) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[room]
	if !ok {
		return nil
	}
	return slices.Clone(s.log)
}

// Sessions returns the rooms with an active fight.
func (m *Manager) Sessions() []vnum.VNum {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Sorted(maps.Keys(m.sessions))
}

// Tick resolves one round in every session.
func (m *Manager) Tick(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, room := range slices.Sorted(maps.Keys(m.sessions)) {
		s := m.sessions[room]
		m.resolveRound(ctx, s)
		if !s.active() {
			delete(m.sessions, room)
		}
	}
	return nil
}

type death struct {
	victim Combatant
	killer Combatant
	method game.DamageType
}

func (m *Manager) resolveRound(ctx context.Context, s *Session) {
	s.log = s.log[:0]
	fallen := make(map[string]bool)
	var deaths []death

	for _, id := range slices.Clone(s.participants) {
		if fallen[id] {
			continue
		}

		attacker := lookup(m.world, id)
		defender := lookup(m.world, s.targets[id])
		if attacker == nil || defender == nil ||
			attacker.Location() != s.room || defender.Location() != s.room {
			s.remove(id)
			continue
		}
		if !attacker.IsAlive() || !defender.IsAlive() {
			continue
		}

		st := m.strike(attacker, defender)
		s.log = append(s.log, st.Text)

		if !defender.IsAlive() {
			fallen[defender.CombatID()] = true
			deaths = append(deaths, death{victim: defender, killer: attacker, method: st.Attack.Type})
		}
	}

	if len(s.log) > 0 {
		m.pub.Broadcast(ctx, s.room, strings.Join(s.log, "\n"))
	}

	for _, d := range deaths {
		m.handleDeath(ctx, s, d)
	}
}

// Outcome is how a single attack ended.
type Outcome int

const (
	OutcomeMiss Outcome = iota
	OutcomeFumble
	OutcomeHit
	OutcomeFatality
)

// Strike is the result of one attack.
type Strike struct {
	Outcome  Outcome
	Attack   Attack
	Roll     float64
	Part     string
	Damage   int
	Critical bool
	Severed  bool
	Text     string
}

func (m *Manager) strike(attacker, defender Combatant) Strike {
	atk := attacker.Attack(m.rng)
	chance := HitChance(attacker, defender)
	st := Strike{Attack: atk, Roll: m.rng.Float64()}

	switch {
	case st.Roll >= m.cfg.FumbleRoll:
		st.Outcome = OutcomeFumble
		st.Text = FumbleLine(m.rng, attacker.Name())
		return st
	case st.Roll > chance:
		st.Outcome = OutcomeMiss
		st.Text = fmt.Sprintf("%s tries to attack with %s, but %s dodges!", attacker.Name(), atk.Name, defender.Name())
		return st
	}

	st.Outcome = OutcomeHit
	st.Critical = st.Roll <= m.cfg.CritRoll

	part := SelectPart(m.rng, defender.BodyParts())
	partName := "body"
	if part != nil {
		st.Part = part.ID
		partName = part.Name
	}

	raw := RollDamage(m.rng, atk, attacker.Attribute(game.Strength), st.Critical, m.cfg.CritMultiplier)
	st.Damage = Mitigate(raw, atk.Type, part)

	if st.Critical {
		hp, maxHP := defender.Health()
		if IsFatality(hp, maxHP, st.Damage) {
			st.Outcome = OutcomeFatality
			st.Damage = hp
		}
	}

	after := defender.ApplyDamage(st.Part, st.Damage)
	if part != nil && CanSever(st.Damage, after, atk.Flags) {
		defender.SeverPart(part.ID)
		st.Severed = true
	}

	attacker.AwardXP(game.XPDamage, st.Damage, defender.Level())
	if defender.IsAlive() {
		defender.AwardXP(game.XPTank, st.Damage, attacker.Level())
	}

	severed := ""
	if st.Severed {
		severed = fmt.Sprintf(", SEVERING THE %s", strings.ToUpper(partName))
	}

	if st.Outcome == OutcomeFatality {
		st.Text = fmt.Sprintf("FATALITY! %s (%d damage)%s!",
			FatalityLine(m.rng, attacker.Name(), defender.Name(), atk.Type), st.Damage, severed)
		return st
	}

	verb := atk.Verb
	if verb == "" {
		verb = DamageVerb(st.Damage)
	}
	crit := ""
	if st.Critical {
		crit = " critically"
	}
	st.Text = fmt.Sprintf("%s %s the %s of %s%s (%d damage)%s.",
		attacker.Name(), verb, partName, defender.Name(), crit, st.Damage, severed)
	return st
}
