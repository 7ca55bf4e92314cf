package service

import (
	"context"
	"log"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/limbo/cadence/internal/repository"
	"github.com/limbo/cadence/pkg/clock"
)

const (
	// Most recent words remembered per session, oldest evicted first
	sessionWordLimit = 15
	// How long a word stays excluded across the user's sessions
	wordCooldownTTL = 24 * time.Hour
	// Warm-up window: sessions and exercises consulted by LoadRecentWords
	recentSessionsLimit = 3
	recentWordsLimit    = 30
)

// WordTrackerService keeps short-term repetition-avoidance state for
// exercise generation: a per-session ring of used words, a per-user
// cooldown map with wall-clock expiry, and a warm-up path reading recent
// target words from stored sessions. All state except the warm-up source is
// process-local and lost on restart by design. Absent state is never an
// error: an unknown session or user simply contributes no constraint.
type WordTrackerService struct {
	sessionsRepo repository.SessionsRepositoryI
	clk          clock.Clock

	mu        sync.Mutex
	sessions  map[uuid.UUID][]string
	cooldowns map[uuid.UUID]map[string]time.Time
}

func NewWordTrackerService(sessionsRepo repository.SessionsRepositoryI, clk clock.Clock) *WordTrackerService {
	if sessionsRepo == nil {
		log.Fatal("on word tracker service provided nil sessionsRepo")
	}
	if clk == nil {
		clk = clock.New()
	}
	return &WordTrackerService{
		sessionsRepo: sessionsRepo,
		clk:          clk,
		sessions:     make(map[uuid.UUID][]string),
		cooldowns:    make(map[uuid.UUID]map[string]time.Time),
	}
}

func (wt *WordTrackerService) AddWordToSession(sessionID uuid.UUID, word string) {
	word = normalizeWord(word)
	if word == "" {
		return
	}
	wt.mu.Lock()
	defer wt.mu.Unlock()
	words := wt.sessions[sessionID]
	for _, w := range words {
		if w == word {
			return
		}
	}
	words = append(words, word)
	if len(words) > sessionWordLimit {
		words = words[len(words)-sessionWordLimit:]
	}
	wt.sessions[sessionID] = words
}

func (wt *WordTrackerService) IsWordUsedInSession(sessionID uuid.UUID, word string) bool {
	word = normalizeWord(word)
	wt.mu.Lock()
	defer wt.mu.Unlock()
	for _, w := range wt.sessions[sessionID] {
		if w == word {
			return true
		}
	}
	return false
}

func (wt *WordTrackerService) SetCooldown(uid uuid.UUID, word string) {
	word = normalizeWord(word)
	if word == "" {
		return
	}
	wt.mu.Lock()
	defer wt.mu.Unlock()
	userCooldowns := wt.cooldowns[uid]
	if userCooldowns == nil {
		userCooldowns = make(map[string]time.Time)
		wt.cooldowns[uid] = userCooldowns
	}
	// Latest trigger wins, windows don't stack
	userCooldowns[word] = wt.clk.Now().Add(wordCooldownTTL)
}

func (wt *WordTrackerService) IsWordInCooldown(uid uuid.UUID, word string) bool {
	word = normalizeWord(word)
	wt.mu.Lock()
	defer wt.mu.Unlock()
	wt.pruneExpired(uid)
	_, ok := wt.cooldowns[uid][word]
	return ok
}

func (wt *WordTrackerService) LoadRecentWords(ctx context.Context, uid uuid.UUID, category string) []string {
	sessionIDs, err := wt.sessionsRepo.GetRecentSessionIDs(ctx, uid, category, recentSessionsLimit)
	if err != nil {
		slog.Warn("loading recent sessions failed, skipping warm-up",
			slog.String("uid", uid.String()),
			slog.String("error", err.Error()),
		)
		return []string{}
	}
	if len(sessionIDs) == 0 {
		return []string{}
	}
	words, err := wt.sessionsRepo.GetTargetWords(ctx, sessionIDs, recentWordsLimit)
	if err != nil {
		slog.Warn("loading recent target words failed, skipping warm-up",
			slog.String("uid", uid.String()),
			slog.String("error", err.Error()),
		)
		return []string{}
	}
	seen := make(map[string]struct{}, len(words))
	result := make([]string, 0, len(words))
	for _, w := range words {
		w = normalizeWord(w)
		if w == "" {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		result = append(result, w)
	}
	return result
}

func (wt *WordTrackerService) GetAvoidanceList(sessionID, uid uuid.UUID, recentWords []string) []string {
	wt.mu.Lock()
	defer wt.mu.Unlock()
	wt.pruneExpired(uid)
	seen := make(map[string]struct{})
	result := make([]string, 0, len(wt.sessions[sessionID])+len(wt.cooldowns[uid])+len(recentWords))
	add := func(w string) {
		if w == "" {
			return
		}
		if _, ok := seen[w]; ok {
			return
		}
		seen[w] = struct{}{}
		result = append(result, w)
	}
	for _, w := range wt.sessions[sessionID] {
		add(w)
	}
	for w := range wt.cooldowns[uid] {
		add(w)
	}
	for _, w := range recentWords {
		add(normalizeWord(w))
	}
	return result
}

func (wt *WordTrackerService) ClearSession(sessionID uuid.UUID) {
	wt.mu.Lock()
	defer wt.mu.Unlock()
	delete(wt.sessions, sessionID)
}

// pruneExpired drops the user's expired cooldown entries. Every read path
// calls it under the lock; there is no background sweep.
func (wt *WordTrackerService) pruneExpired(uid uuid.UUID) {
	userCooldowns := wt.cooldowns[uid]
	if len(userCooldowns) == 0 {
		return
	}
	now := wt.clk.Now()
	for word, expiry := range userCooldowns {
		if !now.Before(expiry) {
			delete(userCooldowns, word)
		}
	}
	if len(userCooldowns) == 0 {
		delete(wt.cooldowns, uid)
	}
}

func normalizeWord(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}
