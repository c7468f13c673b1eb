package service

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/yourusername/nfl-bets/internal/matcher"
)

// PopularPlayers is the allow list of tracked player names
type PopularPlayers struct {
	names []string
	index map[string]struct{}
}

// LoadPopularPlayers reads the allow list from path
func LoadPopularPlayers(path string) (*PopularPlayers, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open popular players file: %w", err)
	}
	defer f.Close()
	return ParsePopularPlayers(f)
}

// ParsePopularPlayers reads one name per line, skipping blanks and # comments
func ParsePopularPlayers(r io.Reader) (*PopularPlayers, error) {
	p := &PopularPlayers{index: make(map[string]struct{})}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key := strings.ToLower(line)
		if _, dup := p.index[key]; dup {
			continue
		}
		p.index[key] = struct{}{}
		p.names = append(p.names, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read popular players: %w", err)
	}
	return p, nil
}

// Contains reports whether name is on the list, ignoring case
func (p *PopularPlayers) Contains(name string) bool {
	_, ok := p.index[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// Len returns the number of names
func (p *PopularPlayers) Len() int {
	return len(p.names)
}

// Names returns the names in file order
func (p *PopularPlayers) Names() []string {
	out := make([]string, len(p.names))
	copy(out, p.names)
	return out
}

// Candidates returns the names as match candidates
func (p *PopularPlayers) Candidates() []matcher.Candidate {
	out := make([]matcher.Candidate, len(p.names))
	for i, n := range p.names {
		out[i] = matcher.Candidate{ID: int64(i + 1), Name: n}
	}
	return out
}
