package keygen

import (
	"strings"

	"github.com/google/uuid"

	"github.com/conduit-lang/tablemeta/internal/orm/metadata"
	"github.com/conduit-lang/tablemeta/internal/orm/schema"
)

// NewUUIDKey returns a random 32 character hex key
func NewUUIDKey() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// AssignUUID fills the key of a uuid keyed table when the caller left it empty.
// It reports whether a key was assigned. Tables using any other strategy are left alone.
func AssignUUID(info *metadata.TableInfo, param any) (bool, error) {
	if info == nil || info.KeyType != schema.IDUUID || !info.HasKey() || param == nil {
		return false, nil
	}

	current, err := getProperty(param, info.KeyProperty)
	if err != nil {
		return false, err
	}
	if !isZeroKey(current) {
		return false, nil
	}

	if err := setProperty(param, info.KeyProperty, NewUUIDKey()); err != nil {
		return false, err
	}
	return true, nil
}
