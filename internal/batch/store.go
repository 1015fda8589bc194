// Package batch persists the roster of channel/playlist pairs that batch sync
// iterates over.
package batch

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Entry pairs one source channel with its target playlist.
type Entry struct {
	ChannelID    string `yaml:"channel_id"`
	ChannelTitle string `yaml:"channel_title,omitempty"`
	PlaylistID   string `yaml:"playlist_id"`
}

// Store is a YAML-file-backed roster. It is not safe for concurrent use.
type Store struct {
	path    string
	entries []Entry
}

// Open loads the roster at path. A missing file yields an empty roster.
func Open(path string) (*Store, error) {
	s := &Store{path: path}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	if err := yaml.Unmarshal(data, &s.entries); err != nil {
		return nil, fmt.Errorf("failed to parse batch file: %w", err)
	}
	return s, nil
}

// Entries returns the roster sorted by channel ID.
func (s *Store) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	sort.Slice(out, func(i, j int) bool { return out[i].ChannelID < out[j].ChannelID })
	return out
}

// Add appends an entry and saves. A channel already on the roster is rejected.
func (s *Store) Add(e Entry) error {
	if e.ChannelID == "" || e.PlaylistID == "" {
		return fmt.Errorf("batch entry needs both a channel ID and a playlist ID")
	}
	for _, existing := range s.entries {
		if existing.ChannelID == e.ChannelID {
			return fmt.Errorf("channel %s is already on the batch roster", e.ChannelID)
		}
	}
	s.entries = append(s.entries, e)
	return s.save()
}

// Remove drops the entry for channelID and saves. Removing an absent channel
// is an error.
func (s *Store) Remove(channelID string) error {
	for i, e := range s.entries {
		if e.ChannelID == channelID {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return s.save()
		}
	}
	return fmt.Errorf("channel %s is not on the batch roster", channelID)
}

// Len returns the roster size.
func (s *Store) Len() int {
	return len(s.entries)
}

func (s *Store) save() error {
	data, err := yaml.Marshal(s.entries)
	if err != nil {
		return fmt.Errorf("failed to encode batch file: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write batch file: %w", err)
	}
	return nil
}
