package cache

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ppiankov/privdiag/internal/model"
	"github.com/ppiankov/privdiag/internal/nfc"
)

// ErrNoReport is returned when nothing has been stored yet
var ErrNoReport = errors.New("no report stored; run a scan first")

const (
	kindDevice = "device"
	kindTag    = "tag"
	lastName   = "last"
)

// StoredTag is a tag report together with its rendered text
type StoredTag struct {
	Report *nfc.TagReport `json:"report"`
	Text   string         `json:"text"`
}

// Store keeps the most recent device and tag reports so export and
// last work across invocations
type Store struct {
	cache Cache
}

// NewStore wraps a cache
func NewStore(c Cache) *Store {
	return &Store{cache: c}
}

// SaveDevice stores report as the last device report and under its id
func (s *Store) SaveDevice(report *model.DeviceReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal device report: %w", err)
	}
	if err := s.cache.Set(CacheKey(kindDevice, lastName), data, 0); err != nil {
		return fmt.Errorf("store device report: %w", err)
	}
	if err := s.cache.Set(CacheKey(kindDevice, report.ID.String()), data, 0); err != nil {
		return fmt.Errorf("store device report: %w", err)
	}
	return nil
}

// LastDevice returns the most recent device report
func (s *Store) LastDevice() (*model.DeviceReport, error) {
	return s.loadDevice(CacheKey(kindDevice, lastName))
}

// Device returns a stored device report by id
func (s *Store) Device(id uuid.UUID) (*model.DeviceReport, error) {
	return s.loadDevice(CacheKey(kindDevice, id.String()))
}

func (s *Store) loadDevice(key string) (*model.DeviceReport, error) {
	data, ok := s.cache.Get(key)
	if !ok {
		return nil, ErrNoReport
	}
	var report model.DeviceReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("decode device report: %w", err)
	}
	return &report, nil
}

// SaveTag stores the last tag report. Only the rendered report is kept,
// never the raw tag descriptor.
func (s *Store) SaveTag(report *nfc.TagReport) error {
	data, err := json.Marshal(StoredTag{Report: report, Text: report.Text()})
	if err != nil {
		return fmt.Errorf("marshal tag report: %w", err)
	}
	if err := s.cache.Set(CacheKey(kindTag, lastName), data, 0); err != nil {
		return fmt.Errorf("store tag report: %w", err)
	}
	return nil
}

// LastTag returns the most recent tag report
func (s *Store) LastTag() (*StoredTag, error) {
	data, ok := s.cache.Get(CacheKey(kindTag, lastName))
	if !ok {
		return nil, ErrNoReport
	}
	var stored StoredTag
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("decode tag report: %w", err)
	}
	return &stored, nil
}

// Clear forgets every stored report
func (s *Store) Clear() error {
	return s.cache.Clear()
}
