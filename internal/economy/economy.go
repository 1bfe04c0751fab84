// Package economy keeps one resource balance and one income rate per player.
// It knows nothing about tiles; income contributions are pushed in from
// outside.
package economy

import (
	"sync"

	"go-hex-conquest/internal/event"
)

// BalanceChange is the payload of event.BalanceChanged.
type BalanceChange struct {
	Player  int     `json:"player"`
	Delta   float64 `json:"delta"`
	Balance float64 `json:"balance"`
}

type account struct {
	balance float64
	income  float64
}

// Economy is safe for concurrent use; the game drives it from a single
// goroutine, but Debit stays one check-and-subtract step either way.
type Economy struct {
	mu       sync.Mutex
	accounts []account
	sink     event.Sink
}

// New creates accounts for players 0..players-1 holding startingBalance.
func New(players int, startingBalance float64, sink event.Sink) *Economy {
	if sink == nil {
		sink = event.Discard
	}
	if startingBalance < 0 {
		startingBalance = 0
	}
	e := &Economy{
		accounts: make([]account, players),
		sink:     sink,
	}
	for i := range e.accounts {
		e.accounts[i].balance = startingBalance
	}
	return e
}

// Players returns the number of accounts.
func (e *Economy) Players() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.accounts)
}

func (e *Economy) valid(player int) bool {
	return player >= 0 && player < len(e.accounts)
}

// Credit adds amount to the balance. Negative amounts are ignored so that
// crediting can never drive a balance below zero.
func (e *Economy) Credit(player int, amount float64) {
	if amount <= 0 {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.valid(player) {
		return
	}
	e.accounts[player].balance += amount
}

// Debit subtracts amount if the balance covers it. A false return means the
// paid action did not happen.
func (e *Economy) Debit(player int, amount float64) bool {
	if amount < 0 {
		return false
	}
	e.mu.Lock()
	if !e.valid(player) || e.accounts[player].balance < amount {
		e.mu.Unlock()
		return false
	}
	e.accounts[player].balance -= amount
	change := BalanceChange{Player: player, Delta: -amount, Balance: e.accounts[player].balance}
	e.mu.Unlock()

	e.sink.Dispatch(event.Event{Type: event.BalanceChanged, Data: change})
	return true
}

// Tick accrues income*dt for every player. Negative dt is ignored.
func (e *Economy) Tick(dt float64) {
	if dt <= 0 {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.accounts {
		if inc := e.accounts[i].income; inc > 0 {
			e.accounts[i].balance += inc * dt
		}
	}
}

// AddIncome raises the income rate by amount.
func (e *Economy) AddIncome(player int, amount float64) {
	if amount <= 0 {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.valid(player) {
		e.accounts[player].income += amount
	}
}

// RemoveIncome lowers the income rate, never below zero.
func (e *Economy) RemoveIncome(player int, amount float64) {
	if amount <= 0 {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.valid(player) {
		return
	}
	inc := e.accounts[player].income - amount
	if inc < 0 {
		inc = 0
	}
	e.accounts[player].income = inc
}

// ResetIncome zeroes every income rate; used when the world is rebuilt.
func (e *Economy) ResetIncome() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.accounts {
		e.accounts[i].income = 0
	}
}

// Balance returns the current balance, zero for unknown players.
func (e *Economy) Balance(player int) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.valid(player) {
		return 0
	}
	return e.accounts[player].balance
}

// Income returns the current income rate, zero for unknown players.
func (e *Economy) Income(player int) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.valid(player) {
		return 0
	}
	return e.accounts[player].income
}

// Restore overwrites one account; used when loading a save.
func (e *Economy) Restore(player int, balance, income float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.valid(player) {
		return
	}
	if balance < 0 {
		balance = 0
	}
	if income < 0 {
		income = 0
	}
	e.accounts[player] = account{balance: balance, income: income}
}
