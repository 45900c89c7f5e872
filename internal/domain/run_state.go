package domain

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// SweepSummary — итог одного прохода по всем кошелькам.
type SweepSummary struct {
	ID         uuid.UUID  `json:"id"`
	Number     int        `json:"number"`
	Wallets    int        `json:"wallets"`
	Succeeded  int        `json:"succeeded"`
	Failed     int        `json:"failed"`
	BonusRound bool       `json:"bonus_round"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt time.Time  `json:"finished_at"`
	NextRunAt  *time.Time `json:"next_run_at,omitempty"`
}

// Duration возвращает продолжительность sweep.
func (s SweepSummary) Duration() time.Duration {
	return s.FinishedAt.Sub(s.StartedAt)
}

// RunState — состояние процесса, общее для всех sweep.
//
// Флаг бонуса выставляется после первого завершённого sweep
// и больше не сбрасывается: follow-бонус выполняется максимум
// в одном sweep за время жизни процесса.
//
// Scheduler меняет состояние из одного потока, но status API читает его
// из горутины HTTP-сервера, поэтому доступ защищён mutex.
type RunState struct {
	mu           sync.RWMutex
	bonusClaimed bool
	sweeps       int
	wallets      int
	lastSweep    *SweepSummary
	startedAt    time.Time
}

// NewRunState создаёт состояние с неустановленным флагом бонуса.
func NewRunState() *RunState {
	return &RunState{startedAt: time.Now()}
}

// BonusClaimed возвращает true, если бонусный sweep уже был.
func (s *RunState) BonusClaimed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bonusClaimed
}

// MarkBonusClaimed выставляет флаг бонуса (идемпотентно).
func (s *RunState) MarkBonusClaimed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bonusClaimed = true
}

// SetWallets фиксирует число загруженных кошельков.
func (s *RunState) SetWallets(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wallets = n
}

// NextSweepNumber возвращает порядковый номер следующего sweep (с 1).
func (s *RunState) NextSweepNumber() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sweeps + 1
}

// RecordSweep сохраняет итог завершённого sweep.
func (s *RunState) RecordSweep(summary SweepSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweeps++
	s.lastSweep = &summary
}

// Snapshot — копия состояния для чтения снаружи (status API).
type Snapshot struct {
	BonusClaimed bool          `json:"bonus_claimed"`
	Sweeps       int           `json:"sweeps"`
	Wallets      int           `json:"wallets"`
	LastSweep    *SweepSummary `json:"last_sweep,omitempty"`
	StartedAt    time.Time     `json:"started_at"`
}

// Snapshot возвращает согласованную копию состояния.
func (s *RunState) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		BonusClaimed: s.bonusClaimed,
		Sweeps:       s.sweeps,
		Wallets:      s.wallets,
		StartedAt:    s.startedAt,
	}
	if s.lastSweep != nil {
		last := *s.lastSweep
		snap.LastSweep = &last
	}
	return snap
}
