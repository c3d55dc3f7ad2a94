package commands

import "github.com/rios0rios0/git-import-commit/internal/domain/entities"

// NewPresenceIndex exports newPresenceIndex for testing.
var NewPresenceIndex = newPresenceIndex //nolint:gochecknoglobals // test export

// PresenceIndexContains exports presenceIndex.contains for testing.
func PresenceIndexContains(p *presenceIndex, hash entities.Hash, kind entities.ObjectKind) bool {
	return p.contains(hash, kind)
}

// PresenceIndexAdd exports presenceIndex.add for testing.
func PresenceIndexAdd(p *presenceIndex, hash entities.Hash, kind entities.ObjectKind) {
	p.add(hash, kind)
}
