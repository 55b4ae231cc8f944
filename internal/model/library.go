package model

import (
	"time"

	"github.com/google/uuid"
)

// TileSet is a reusable, named collection of tiles and the settings they
// were packed with. Placement results are not kept.
type TileSet struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
	Tiles       []Tile   `json:"tiles"`
	Settings    Settings `json:"settings"`
}

// NewTileSet captures tiles and settings. Free tiles lose their search
// anchors; preplaced tiles keep the anchor they were given.
func NewTileSet(name, description string, tiles []Tile, settings Settings) TileSet {
	now := time.Now().UTC().Format(time.RFC3339)
	cp := make([]Tile, len(tiles))
	for i, t := range tiles {
		cp[i] = t.Clone()
		cp[i].Placed = false
		if cp[i].Class == ClassFree {
			cp[i].Anchor = 0
		}
	}
	return TileSet{
		ID:          uuid.New().String()[:8],
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
		Tiles:       cp,
		Settings:    settings,
	}
}

// Instantiate returns copies of the set's tiles with fresh IDs so they
// are independent of the library entry.
func (s TileSet) Instantiate() []Tile {
	out := make([]Tile, len(s.Tiles))
	for i, t := range s.Tiles {
		nt := NewTile(t.Parts...)
		nt.Label = t.Label
		nt.Class = t.Class
		nt.Region = t.Region
		nt.Anchor = t.Anchor
		out[i] = nt
	}
	return out
}

// Library holds a collection of tile sets.
type Library struct {
	Sets []TileSet `json:"sets"`
}

func NewLibrary() Library {
	return Library{Sets: []TileSet{}}
}

// Add stores a set, replacing an existing set with the same name.
func (l *Library) Add(s TileSet) {
	for i := range l.Sets {
		if l.Sets[i].Name == s.Name {
			s.CreatedAt = l.Sets[i].CreatedAt
			l.Sets[i] = s
			return
		}
	}
	l.Sets = append(l.Sets, s)
}

// Remove removes a set by ID. Returns true if found and removed.
func (l *Library) Remove(id string) bool {
	for i, s := range l.Sets {
		if s.ID == id {
			l.Sets = append(l.Sets[:i], l.Sets[i+1:]...)
			return true
		}
	}
	return false
}

// FindByID returns a pointer to the set with the given ID, or nil.
func (l *Library) FindByID(id string) *TileSet {
	for i := range l.Sets {
		if l.Sets[i].ID == id {
			return &l.Sets[i]
		}
	}
	return nil
}

// FindByName returns a pointer to the first set with the given name, or nil.
func (l *Library) FindByName(name string) *TileSet {
	for i := range l.Sets {
		if l.Sets[i].Name == name {
			return &l.Sets[i]
		}
	}
	return nil
}

func (l *Library) Names() []string {
	names := make([]string, len(l.Sets))
	for i, s := range l.Sets {
		names[i] = s.Name
	}
	return names
}
