package services

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// Synthesizer turns a step description into MP3 bytes. The concrete engine
// is injected at startup; the cache below works with any of them.
type Synthesizer interface {
	Synthesize(text string, premiumVoice bool) ([]byte, error)
}

var ErrTTSUnavailable = fmt.Errorf("tts engine not configured")

// CommandSynthesizer shells out to an external TTS binary: the step text
// goes to stdin, MP3 comes back on stdout. The premium flag is exposed to
// the command through TTS_PREMIUM_VOICE so one binary can serve both tiers.
type CommandSynthesizer struct {
	Command string
	Args    []string
}

func (s CommandSynthesizer) Synthesize(text string, premiumVoice bool) ([]byte, error) {
	cmd := exec.Command(s.Command, s.Args...)
	cmd.Stdin = strings.NewReader(text)
	cmd.Env = append(os.Environ(), fmt.Sprintf("TTS_PREMIUM_VOICE=%t", premiumVoice))

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("tts command: %w", err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("tts command produced no audio")
	}
	return out, nil
}

// TTSCache stores generated step audio on disk, one file per recipe step,
// and keeps the directory under a byte budget and a max age.
type TTSCache struct {
	dir    string
	maxAge time.Duration
	engine Synthesizer
	mu     sync.Mutex
}

func NewTTSCache(dir string, maxAge time.Duration, engine Synthesizer) (*TTSCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &TTSCache{dir: dir, maxAge: maxAge, engine: engine}, nil
}

func (c *TTSCache) Path(recipeID string, position int) string {
	return filepath.Join(c.dir, fmt.Sprintf("recipe_%s_step_%d.mp3", recipeID, position))
}

func (c *TTSCache) IsCached(recipeID string, position int) bool {
	_, err := os.Stat(c.Path(recipeID, position))
	return err == nil
}

// Ensure returns the path to the audio for one step, synthesizing and
// storing it if not cached yet. sizeBudget is the caller's tier cache
// limit; the sweep evicts oldest files first when it is exceeded.
func (c *TTSCache) Ensure(recipeID string, position int, text string, premiumVoice bool, sizeBudget int64) (string, error) {
	path := c.Path(recipeID, position)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	if c.engine == nil {
		return "", ErrTTSUnavailable
	}

	audio, err := c.engine.Synthesize(text, premiumVoice)
	if err != nil {
		return "", fmt.Errorf("synthesize step %d: %w", position, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.WriteFile(path, audio, 0o644); err != nil {
		return "", err
	}
	c.evictOverBudget(sizeBudget, path)
	return path, nil
}

// DeleteRecipe removes every cached step file for a recipe. Returns the
// number of files removed.
func (c *TTSCache) DeleteRecipe(recipeID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	pattern := filepath.Join(c.dir, fmt.Sprintf("recipe_%s_step_*.mp3", recipeID))
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return 0
	}

	deleted := 0
	for _, p := range paths {
		if os.Remove(p) == nil {
			deleted++
		}
	}
	return deleted
}

// Sweep removes cache files older than maxAge. Called from the background
// ticker in main.
func (c *TTSCache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	paths, err := filepath.Glob(filepath.Join(c.dir, "*.mp3"))
	if err != nil {
		return 0
	}

	deleted := 0
	cutoff := time.Now().Add(-c.maxAge)
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if os.Remove(p) == nil {
				deleted++
			}
		}
	}
	return deleted
}

// evictOverBudget drops oldest files until total size fits the budget.
// The just-written file is never evicted. Caller holds c.mu.
func (c *TTSCache) evictOverBudget(budget int64, keep string) {
	if budget <= 0 {
		return
	}

	paths, err := filepath.Glob(filepath.Join(c.dir, "*.mp3"))
	if err != nil {
		return
	}

	type entry struct {
		path string
		size int64
		mod  time.Time
	}
	var entries []entry
	var total int64
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			continue
		}
		entries = append(entries, entry{p, info.Size(), info.ModTime()})
		total += info.Size()
	}
	if total <= budget {
		return
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].mod.Before(entries[j].mod) })
	for _, e := range entries {
		if total <= budget {
			break
		}
		if e.path == keep {
			continue
		}
		if os.Remove(e.path) == nil {
			total -= e.size
		}
	}
}
