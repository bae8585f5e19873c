package utils

import "github.com/google/uuid"

// UUIDGenerator issues person identifiers. Version 7 UUIDs sort by creation
// time, which keeps the persisted order stable and readable.
type UUIDGenerator struct {
}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) Generate() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}
