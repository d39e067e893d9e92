package session

import (
	"errors"
	"time"
)

var ErrRecordNotFound = errors.New("token record not found")

// Record is the durable copy of a device's token.
type Record struct {
	Token     string    `json:"token"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Repo stores one Record per device id.
type Repo interface {
	Get(deviceID string) (Record, error)
	Upsert(deviceID string, rec Record) error
	Delete(deviceID string) error
}

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// DeviceStore is the durable Store for one device id.
type DeviceStore struct {
	repo     Repo
	deviceID string
}

var _ Store = (*DeviceStore)(nil)

func NewDeviceStore(repo Repo, deviceID string) *DeviceStore {
	return &DeviceStore{repo: repo, deviceID: deviceID}
}

func (d *DeviceStore) Get() (string, bool) {
	rec, err := d.repo.Get(d.deviceID)
	if err != nil || rec.Token == "" {
		return "", false
	}
	return rec.Token, true
}

func (d *DeviceStore) Set(token string) error {
	return d.repo.Upsert(d.deviceID, Record{Token: token, UpdatedAt: NowTimeFunc()})
}

func (d *DeviceStore) Clear() error {
	return d.repo.Delete(d.deviceID)
}
