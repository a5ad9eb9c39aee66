package uuidutil

import "github.com/gofrs/uuid"

// UUIDGenerator produces request identifiers.
type UUIDGenerator interface {
	Generate() (string, error)
}

// UUIDRandomGenerator generates random (version 4) UUIDs.
type UUIDRandomGenerator struct{}

func (UUIDRandomGenerator) Generate() (string, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// FakeUUIDGenerator returns a fixed id, or a fixed error.
type FakeUUIDGenerator struct {
	ID  string
	Err error
}

func (f FakeUUIDGenerator) Generate() (string, error) {
	return f.ID, f.Err
}
