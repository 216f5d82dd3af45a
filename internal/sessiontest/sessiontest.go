// Package sessiontest provides in-memory session store doubles for
// passage tests.
package sessiontest

import (
	"context"

	"go.inout.gg/passage/passagesession"
)

var (
	_ passagesession.Store   = (*Store)(nil)
	_ passagesession.Flasher = (*FlashStore)(nil)
	_ passagesession.Saver   = (*SaveStore)(nil)
)

// Store is a map-backed passagesession.Store with no optional
// capabilities.
type Store struct {
	Data map[string]any
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{Data: make(map[string]any)}
}

func (s *Store) Get(key string) any        { return s.Data[key] }
func (s *Store) Set(key string, value any) { s.Data[key] = value }
func (s *Store) Delete(key string)         { delete(s.Data, key) }

// FlashRecord is one recorded flash message.
type FlashRecord struct {
	Type    string
	Message string
}

// FlashStore is a Store that accepts flash messages.
type FlashStore struct {
	*Store
	Flashes []FlashRecord
}

// NewFlashStore creates an empty FlashStore.
func NewFlashStore() *FlashStore {
	return &FlashStore{Store: NewStore()}
}

func (s *FlashStore) Flash(typ, message string) {
	s.Flashes = append(s.Flashes, FlashRecord{Type: typ, Message: message})
}

// SaveStore is a Store with buffered-write semantics: it counts Save
// calls and can inject a save error.
type SaveStore struct {
	*Store
	Saves   int
	SaveErr error
}

// NewSaveStore creates an empty SaveStore.
func NewSaveStore() *SaveStore {
	return &SaveStore{Store: NewStore()}
}

func (s *SaveStore) Save(context.Context) error {
	s.Saves++
	return s.SaveErr
}
