// Package synonyms maintains the synonym thesaurus loaded from a group file.
// The store answers term-to-group lookups for query-time expansion and
// exposes multiword-term metadata used by tokenizers for phrase lookahead.
package synonyms

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/kensaku/pkg/utils"
)

// fileIdentity is the change-detection cache for the loaded group file.
type fileIdentity struct {
	mtime time.Time
	size  int64
}

// state is the externally visible store content. A reload builds a fresh
// state and publishes it whole, so concurrent lookups never observe a
// partially rebuilt store.
type state struct {
	ok bool
	// term -> group index. A term appearing in several groups maps only to
	// the group parsed last; it remains a member of every group listing it.
	terms  map[string]int
	groups [][]string
	// Members containing internal whitespace, for multiword phrase
	// recognition while indexing.
	multiwords       map[string]struct{}
	multiwordsMaxLen int
	path             string
	id               fileIdentity
}

func emptyState() *state {
	return &state{
		terms:      make(map[string]int),
		multiwords: make(map[string]struct{}),
	}
}

// Store owns the synonym dictionary. Reloads follow copy-then-publish: the
// new state is built privately and swapped in under the lock, so Lookup can
// run concurrently with Load.
type Store struct {
	logger *zap.Logger

	mu    sync.RWMutex
	state *state
}

// NewStore creates an empty, not-ok store.
func NewStore(logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{logger: logger, state: emptyState()}
}

// OK reports whether a group file is currently loaded.
func (s *Store) OK() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.ok
}

// Path returns the canonical path of the loaded group file, empty if none.
func (s *Store) Path() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.path
}

// Load reads the synonym group file at path. An empty path clears the store
// and succeeds (no thesaurus active). When path matches the currently loaded
// file and its modification time and size are unchanged, Load returns
// without reparsing. On an unreadable file the store is left cleared; the
// caller must treat synonyms as disabled until a successful load.
func (s *Store) Load(path string) error {
	s.logger.Debug("synonyms: load", zap.String("path", path))
	if path == "" {
		s.publish(emptyState())
		return nil
	}

	canon := canonicalPath(path)
	if s.sameFile(canon) {
		s.logger.Debug("synonyms: unchanged, not reparsing", zap.String("path", canon))
		return nil
	}

	s.publish(emptyState())

	f, err := os.Open(canon)
	if err != nil {
		return fmt.Errorf("synonyms: open %s: %w", canon, err)
	}
	defer f.Close()

	st, err := s.parse(f, canon)
	if err != nil {
		return err
	}

	st.ok = true
	st.path = canon
	if fi, err := os.Stat(canon); err == nil {
		st.id = fileIdentity{mtime: fi.ModTime(), size: fi.Size()}
	}
	s.publish(st)
	s.logger.Debug("synonyms: loaded",
		zap.String("path", canon),
		zap.Int("groups", len(st.groups)),
		zap.Int("multiwords", len(st.multiwords)))
	return nil
}

// parse reads logical lines from r and builds a fresh state.
func (s *Store) parse(f *os.File, path string) (*state, error) {
	st := emptyState()
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var line string
	appending := false
	lnum := 0
	process := func(line string, lnum int) {
		tokens, err := tokenize(line)
		if err != nil {
			s.logger.Warn("synonyms: bad line, skipping",
				zap.String("path", path), zap.Int("line", lnum), zap.Error(err))
			return
		}
		if len(tokens) == 0 {
			return
		}
		if len(tokens) == 1 {
			s.logger.Warn("synonyms: single term group, skipping",
				zap.String("path", path), zap.Int("line", lnum))
			return
		}
		for i, tok := range tokens {
			// Canonical multiword form: internal whitespace runs
			// collapsed to single spaces.
			if strings.ContainsAny(tok, " \t") {
				tokens[i] = utils.CollapseSpace(tok)
			}
			st.terms[tokens[i]] = len(st.groups)
		}
		st.groups = append(st.groups, tokens)
	}

	for scanner.Scan() {
		cline := strings.TrimRight(scanner.Text(), "\r\n")
		lnum++
		if appending {
			line += cline
		} else {
			line = cline
		}
		// Trim whitespace before the backslash-eol test, to avoid
		// invisible trailing whitespace defeating continuation.
		line = strings.TrimSpace(line)
		if line == "" || line[0] == '#' {
			appending = false
			continue
		}
		if line[len(line)-1] == '\\' {
			line = line[:len(line)-1]
			appending = true
			continue
		}
		appending = false
		process(line, lnum)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("synonyms: read %s: %w", path, err)
	}
	// A final line ending in backslash (or missing its newline) leaves an
	// unprocessed remainder.
	if appending {
		line = strings.TrimSpace(line)
		if line != "" && line[0] != '#' {
			process(line, lnum)
		}
	}

	for _, group := range st.groups {
		for _, term := range group {
			// Whitespace was already normalized to single 0x20.
			if strings.Contains(term, " ") {
				st.multiwords[term] = struct{}{}
				if cnt := strings.Count(term, " ") + 1; cnt > st.multiwordsMaxLen {
					st.multiwordsMaxLen = cnt
				}
			}
		}
	}
	return st, nil
}

// Lookup returns the members, in file order, of the group that term maps to.
// Returns nil when no file is loaded or the term is absent.
func (s *Store) Lookup(term string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.state.ok {
		return nil
	}
	idx, found := s.state.terms[term]
	if !found {
		return nil
	}
	if idx >= len(s.state.groups) {
		s.logger.Error("synonyms: term index beyond group table", zap.Int("index", idx))
		return nil
	}
	return append([]string(nil), s.state.groups[idx]...)
}

// Multiwords returns the sorted set of group members containing whitespace.
func (s *Store) Multiwords() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.state.multiwords))
	for w := range s.state.multiwords {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// MultiwordsMaxLength returns the word count of the longest multiword
// member, zero when none exist. Tokenizers use it to bound phrase lookahead.
func (s *Store) MultiwordsMaxLength() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.multiwordsMaxLen
}

func (s *Store) publish(st *state) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// sameFile reports whether canon is the loaded path with unchanged
// modification time and size.
func (s *Store) sameFile(canon string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.state.ok || s.state.path != canon {
		return false
	}
	fi, err := os.Stat(canon)
	if err != nil {
		return false
	}
	return fi.ModTime().Equal(s.state.id.mtime) && fi.Size() == s.state.id.size
}

// canonicalPath returns an absolute, symlink-resolved form of path when
// possible, falling back to a cleaned absolute path.
func canonicalPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}
