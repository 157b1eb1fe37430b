package badgerdb

import (
	"errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/kailas-cloud/tastebud/internal/db"
)

// Value kind markers.
const (
	kindString byte = 's'
	kindHash   byte = 'h'
)

func encodeString(v []byte) []byte {
	out := make([]byte, 0, len(v)+1)
	out = append(out, kindString)
	return append(out, v...)
}

func encodeHash(m map[string]string) ([]byte, error) {
	body, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(body)+1)
	out = append(out, kindHash)
	return append(out, body...), nil
}

func decode(raw []byte, want byte) ([]byte, error) {
	if len(raw) == 0 || raw[0] != want {
		return nil, db.ErrWrongType
	}
	return raw[1:], nil
}

func decodeHash(raw []byte) (map[string]string, error) {
	body, err := decode(raw, kindHash)
	if err != nil {
		return nil, err
	}
	m := make(map[string]string)
	if err := json.Unmarshal(body, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// readHash loads the hash at key inside txn. A missing key yields an empty map.
func readHash(txn *badger.Txn, key string) (map[string]string, error) {
	item, err := txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, err
	}
	raw, err := item.ValueCopy(nil)
	if err != nil {
		return nil, err
	}
	return decodeHash(raw)
}
