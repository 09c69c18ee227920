package words

import (
	"bufio"
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/drawhive/drawhive/internal/dependencies/random"
	"github.com/drawhive/drawhive/internal/model"
	"github.com/drawhive/drawhive/internal/storage"
)

// Service is the read-only word source the round lifecycle samples drawer
// candidates from. Words are loaded once at startup; Sample never repeats a
// word within one call.
type Service struct {
	storage storage.Storage
	random  random.Random
	logger  *slog.Logger

	mu     sync.RWMutex
	words  []string
	loaded bool
}

// New creates a new word source
func New(storage storage.Storage, random random.Random, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		random:  random,
		logger:  logger,
	}
}

// LoadFromStorage loads the word list from storage
func (s *Service) LoadFromStorage(ctx context.Context) error {
	words, err := s.storage.GetWordList(ctx)
	if err != nil {
		return err
	}
	s.loadWords(words)
	return nil
}

// LoadFromFile loads words from a file (one word per line) and persists them
// to storage for future use
func (s *Service) LoadFromFile(ctx context.Context, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var words []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		word := strings.TrimSpace(scanner.Text())
		if word != "" {
			words = append(words, word)
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	if err := s.storage.SaveWordList(ctx, words); err != nil {
		return err
	}

	s.loadWords(words)
	s.logger.Info("word list loaded",
		slog.String("path", path),
		slog.Int("count", len(words)),
	)
	return nil
}

// LoadWords directly loads a slice of words (useful for testing)
func (s *Service) LoadWords(words []string) {
	s.loadWords(words)
}

func (s *Service) loadWords(words []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.words = make([]string, len(words))
	copy(s.words, words)
	s.loaded = true
}

// IsLoaded returns whether a word list has been loaded
func (s *Service) IsLoaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// WordCount returns the number of loaded words
func (s *Service) WordCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.words)
}

// Sample returns n distinct random words. If fewer than n words are loaded
// it returns as many as exist.
func (s *Service) Sample(n int) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return nil, model.ErrWordsNotLoaded
	}

	pool := make([]string, len(s.words))
	copy(pool, s.words)

	if n > len(pool) {
		n = len(pool)
	}

	sampled := make([]string, 0, n)
	for i := 0; i < n; i++ {
		idx := s.random.Intn(len(pool))
		sampled = append(sampled, pool[idx])
		pool = append(pool[:idx], pool[idx+1:]...)
	}
	return sampled, nil
}

// Interface for dependency injection
type ServiceInterface interface {
	LoadFromStorage(ctx context.Context) error
	LoadFromFile(ctx context.Context, path string) error
	LoadWords(words []string)
	IsLoaded() bool
	WordCount() int
	Sample(n int) ([]string, error)
}

var _ ServiceInterface = (*Service)(nil)
