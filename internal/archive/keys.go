package archive

import (
	"encoding/binary"
	"errors"
	"strings"
)

var (
	arcPrefix  = []byte("arc/")
	metaSuffix = []byte("/m")
	entrySeg   = []byte("/e/")
)

// ErrInvalidName is returned for archive names that are empty or contain '/'.
var ErrInvalidName = errors.New("archive: invalid name")

func validName(name string) error {
	if name == "" || strings.ContainsRune(name, '/') {
		return ErrInvalidName
	}
	return nil
}

func appendBE8(dst []byte, v uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return append(dst, b[:]...)
}

// keyMeta builds arc/{name}/m.
func keyMeta(name string) []byte {
	k := make([]byte, 0, len(arcPrefix)+len(name)+len(metaSuffix))
	k = append(k, arcPrefix...)
	k = append(k, name...)
	return append(k, metaSuffix...)
}

// keyEntryPrefix builds arc/{name}/e/.
func keyEntryPrefix(name string) []byte {
	k := make([]byte, 0, len(arcPrefix)+len(name)+len(entrySeg)+8)
	k = append(k, arcPrefix...)
	k = append(k, name...)
	return append(k, entrySeg...)
}

// keyEntry builds arc/{name}/e/{seq_be8}.
func keyEntry(name string, seq uint64) []byte {
	return appendBE8(keyEntryPrefix(name), seq)
}

// nameFromMetaKey extracts {name} from arc/{name}/m.
func nameFromMetaKey(k []byte) (string, bool) {
	s := string(k)
	if !strings.HasPrefix(s, string(arcPrefix)) || !strings.HasSuffix(s, string(metaSuffix)) {
		return "", false
	}
	name := s[len(arcPrefix) : len(s)-len(metaSuffix)]
	if validName(name) != nil {
		return "", false
	}
	return name, true
}
