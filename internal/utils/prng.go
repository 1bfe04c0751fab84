package utils

import (
	"math/rand"
	"time"
)

// PRNGService — это обертка над стандартным генератором случайных чисел Go,
// которая позволяет использовать предсказуемый (seeded) рандом во всей игре.
type PRNGService struct {
	seed int64
	rng  *rand.Rand
}

// NewPRNGService создает новый экземпляр сервиса с указанным сидом.
// Если сид равен 0, используется текущее время.
func NewPRNGService(seed int64) *PRNGService {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &PRNGService{
		seed: seed,
		rng:  rand.New(rand.NewSource(seed)),
	}
}

// Seed returns the effective seed, so a time-seeded session can be replayed.
func (s *PRNGService) Seed() int64 { return s.seed }

// Intn возвращает случайное целое число в диапазоне [0, n).
func (s *PRNGService) Intn(n int) int {
	return s.rng.Intn(n)
}

// Float64 возвращает случайное число с плавающей точкой в диапазоне [0.0, 1.0).
func (s *PRNGService) Float64() float64 {
	return s.rng.Float64()
}

// WeightedEntry is one outcome of a weighted draw.
type WeightedEntry[T any] struct {
	Value  T
	Weight int
}

// ChooseWeighted picks one entry with probability proportional to its weight.
// Entries with non-positive weight are never chosen. The cumulative ranges
// partition [0, total) so every draw lands in exactly one entry.
func ChooseWeighted[T any](s *PRNGService, entries []WeightedEntry[T]) (T, bool) {
	var zero T
	total := 0
	for _, e := range entries {
		if e.Weight > 0 {
			total += e.Weight
		}
	}
	if total <= 0 {
		return zero, false
	}

	r := s.Intn(total)
	upto := 0
	for _, e := range entries {
		if e.Weight <= 0 {
			continue
		}
		if upto+e.Weight > r {
			return e.Value, true
		}
		upto += e.Weight
	}
	return zero, false
}
