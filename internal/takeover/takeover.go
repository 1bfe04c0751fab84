// Package takeover runs timed ownership transfers. A task is plain state
// advanced once per simulated tick; nothing here blocks or spawns goroutines.
package takeover

import (
	"errors"
	"math"

	"go-hex-conquest/internal/config"
	"go-hex-conquest/internal/event"
	"go-hex-conquest/internal/utils"
	"go-hex-conquest/pkg/hexmap"
)

// completionEpsilon absorbs rounding when progress is summed from
// frame-sized steps.
const completionEpsilon = 1e-9

// Rejection reasons. They describe refused player actions, not faults.
var (
	ErrUnknownTile       = errors.New("tile does not exist")
	ErrAlreadyOwned      = errors.New("tile already owned by player")
	ErrNoTroops          = errors.New("no troops available")
	ErrInsufficientFunds = errors.New("not enough resources")
)

// Territory is the slice of the world model the scheduler needs.
type Territory interface {
	OwnerOf(addr hexmap.Address) (owner int, exists bool)
	SetOwner(addr hexmap.Address, player int)
}

// Garrison reports how many units a player has in total.
type Garrison interface {
	TotalUnits(player int) int
}

// Treasury charges for a takeover.
type Treasury interface {
	Debit(player int, amount float64) bool
}

// Task is one in-flight takeover. It is Active from construction until the
// tick its progress reaches 1, when it is resolved and dropped.
type Task struct {
	ID        int            `json:"id"`
	Target    hexmap.Address `json:"target"`
	Player    int            `json:"player"`
	Attackers int            `json:"attackers"`
	Progress  float64        `json:"progress"`
	Rate      float64        `json:"rate"`
}

// Remaining returns the simulated time left until the task resolves.
func (t Task) Remaining() float64 {
	if t.Rate <= 0 {
		return math.Inf(1)
	}
	return (1 - t.Progress) / t.Rate
}

// Outcome is the payload of TakeoverResolved and TakeoverConsumed.
type Outcome struct {
	Task        Task `json:"task"`
	Transferred bool `json:"transferred"`
}

// Scheduler owns the set of active takeover tasks.
type Scheduler struct {
	territory Territory
	garrison  Garrison
	treasury  Treasury
	sink      event.Sink

	baseDuration float64
	percent      int
	claimCost    float64

	tasks  []*Task // creation order
	nextID int
}

// New builds a scheduler from the takeover settings and the claim cost.
func New(cfg config.TakeoverConfig, claimCost float64, territory Territory, garrison Garrison, treasury Treasury, sink event.Sink) *Scheduler {
	if sink == nil {
		sink = event.Discard
	}
	if cfg.BaseDuration <= 0 {
		panic("takeover: base duration must be positive")
	}
	s := &Scheduler{
		territory:    territory,
		garrison:     garrison,
		treasury:     treasury,
		sink:         sink,
		baseDuration: cfg.BaseDuration,
		claimCost:    claimCost,
		nextID:       1,
	}
	s.SetPercent(cfg.Percent)
	return s
}

// SetPercent sets the share of a player's units committed per takeover,
// clamped to 1..100.
func (s *Scheduler) SetPercent(p int) {
	s.percent = utils.Clamp(p, 1, 100)
}

// Percent returns the current takeover percentage.
func (s *Scheduler) Percent() int { return s.percent }

// Committed sums the attackers of the player's active tasks.
func (s *Scheduler) Committed(player int) int {
	n := 0
	for _, t := range s.tasks {
		if t.Player == player {
			n += t.Attackers
		}
	}
	return n
}

// Plan computes the attacker count a new takeover by player would commit.
func (s *Scheduler) Plan(player int, target hexmap.Address) (int, error) {
	owner, exists := s.territory.OwnerOf(target)
	if !exists {
		return 0, ErrUnknownTile
	}
	if owner == player {
		return 0, ErrAlreadyOwned
	}
	total := s.garrison.TotalUnits(player)
	available := total - s.Committed(player)
	if available <= 0 {
		return 0, ErrNoTroops
	}
	commit := int(math.Round(float64(s.percent) / 100 * float64(total)))
	if commit < 1 {
		commit = 1
	}
	attackers := min(commit, available)
	if attackers <= 0 {
		return 0, ErrNoTroops
	}
	return attackers, nil
}

// Initiate starts a takeover of target by player. The claim cost is charged
// last, so a refused takeover never costs anything.
func (s *Scheduler) Initiate(player int, target hexmap.Address) (*Task, error) {
	attackers, err := s.Plan(player, target)
	if err != nil {
		return nil, err
	}
	if s.treasury != nil && !s.treasury.Debit(player, s.claimCost) {
		return nil, ErrInsufficientFunds
	}
	task := &Task{
		ID:        s.nextID,
		Target:    target,
		Player:    player,
		Attackers: attackers,
		Rate:      float64(attackers) / s.baseDuration,
	}
	s.nextID++
	s.tasks = append(s.tasks, task)
	s.sink.Dispatch(event.Event{Type: event.TakeoverStarted, Data: *task})
	return task, nil
}

// Tick advances every task by dt. Tasks that reach full progress resolve in
// creation order; the first one against a tile transfers it and later ones
// against the same tile in the same tick are consumed without a transfer.
// A single oversized dt resolves whatever it completes.
func (s *Scheduler) Tick(dt float64) {
	if dt <= 0 || len(s.tasks) == 0 {
		return
	}
	transferred := make(map[hexmap.Address]bool)
	kept := s.tasks[:0]
	for _, t := range s.tasks {
		t.Progress += t.Rate * dt
		if t.Progress < 1-completionEpsilon {
			kept = append(kept, t)
			s.sink.Dispatch(event.Event{Type: event.TakeoverProgress, Data: *t})
			continue
		}
		t.Progress = 1
		if transferred[t.Target] {
			s.sink.Dispatch(event.Event{Type: event.TakeoverConsumed, Data: Outcome{Task: *t}})
			continue
		}
		transferred[t.Target] = true
		s.territory.SetOwner(t.Target, t.Player)
		s.sink.Dispatch(event.Event{Type: event.TakeoverResolved, Data: Outcome{Task: *t, Transferred: true}})
	}
	for i := len(kept); i < len(s.tasks); i++ {
		s.tasks[i] = nil
	}
	s.tasks = kept
}

// Active returns copies of the active tasks in creation order.
func (s *Scheduler) Active() []Task {
	out := make([]Task, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = *t
	}
	return out
}

// Progress returns the progress of task id, if it is still active.
func (s *Scheduler) Progress(id int) (float64, bool) {
	for _, t := range s.tasks {
		if t.ID == id {
			return t.Progress, true
		}
	}
	return 0, false
}

// Reset drops every task without resolving it. Only a world rebuild does this.
func (s *Scheduler) Reset() {
	s.tasks = nil
}

// Restore reinstates tasks from a save, keeping their ids and order.
func (s *Scheduler) Restore(tasks []Task) {
	s.tasks = make([]*Task, 0, len(tasks))
	for i := range tasks {
		t := tasks[i]
		if t.Attackers <= 0 || t.Progress >= 1 {
			continue
		}
		t.Rate = float64(t.Attackers) / s.baseDuration
		s.tasks = append(s.tasks, &t)
		if t.ID >= s.nextID {
			s.nextID = t.ID + 1
		}
	}
}
