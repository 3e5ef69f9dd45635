package persistence

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/markusressel/pid2go/internal/ui"
	bolt "go.etcd.io/bbolt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const (
	BucketOutputs = "outputs"
)

// OutputRecord is a single journal entry of an emitted output pair
type OutputRecord struct {
	Time    time.Time `json:"time"`
	Mode    string    `json:"mode"`
	Forward float64   `json:"forward"`
	Reverse float64   `json:"reverse"`
}

type Persistence interface {
	Init() error

	// SaveOutputRecords appends the given records to the journal of a controller,
	// keeping at most maxRecords entries. maxRecords <= 0 disables pruning.
	SaveOutputRecords(controllerId string, records []OutputRecord, maxRecords int) (err error)
	// LoadOutputRecords returns the newest limit records in chronological order.
	// limit <= 0 returns all of them.
	LoadOutputRecords(controllerId string, limit int) ([]OutputRecord, error)
	DeleteOutputRecords(controllerId string) (err error)
	// LoadControllerIds returns the ids of all controllers with a journal
	LoadControllerIds() ([]string, error)
}

type persistence struct {
	dbPath string
	// the database file is locked exclusively while open
	mu *sync.Mutex
}

func NewPersistence(dbPath string) Persistence {
	p := &persistence{
		dbPath: dbPath,
		mu:     &sync.Mutex{},
	}
	return p
}

func (p persistence) Init() (err error) {
	// get parent path of dbPath
	parentDir := filepath.Dir(p.dbPath)
	_, err = os.Stat(parentDir)
	if errors.Is(err, os.ErrNotExist) {
		// create directory
		ui.Info("Creating directory for db: %s", parentDir)
		err = os.MkdirAll(parentDir, 0755)
		if err != nil {
			return err
		}
	}
	return nil
}

func (p persistence) openPersistence(readOnly bool) (db *bolt.DB, err error) {
	if readOnly {
		_, err = os.Stat(p.dbPath)
		if err != nil {
			return nil, err
		}
	}
	db, err = bolt.Open(p.dbPath, 0600, &bolt.Options{Timeout: 1 * time.Minute, ReadOnly: readOnly})
	if err != nil {
		return nil, err
	}
	return db, nil
}

func (p persistence) SaveOutputRecords(controllerId string, records []OutputRecord, maxRecords int) (err error) {
	if len(records) <= 0 {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	db, err := p.openPersistence(false)
	if err != nil {
		return err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	return db.Update(func(tx *bolt.Tx) error {
		root, err := tx.CreateBucketIfNotExists([]byte(BucketOutputs))
		if err != nil {
			return fmt.Errorf("create bucket: %s", err)
		}
		b, err := root.CreateBucketIfNotExists([]byte(controllerId))
		if err != nil {
			return fmt.Errorf("create bucket: %s", err)
		}

		for _, record := range records {
			data, err := json.Marshal(record)
			if err != nil {
				return err
			}
			seq, err := b.NextSequence()
			if err != nil {
				return err
			}
			err = b.Put(sequenceKey(seq), data)
			if err != nil {
				return err
			}
		}

		if maxRecords > 0 {
			return prune(b, maxRecords)
		}
		return nil
	})
}

// prune removes the oldest records of the given bucket until at most maxRecords are left
func prune(b *bolt.Bucket, maxRecords int) error {
	var keys [][]byte
	c := b.Cursor()
	for k, _ := c.First(); k != nil; k, _ = c.Next() {
		keys = append(keys, k)
	}

	if len(keys) <= maxRecords {
		return nil
	}
	for _, k := range keys[:len(keys)-maxRecords] {
		err := b.Delete(k)
		if err != nil {
			return err
		}
	}
	return nil
}

func (p persistence) LoadOutputRecords(controllerId string, limit int) ([]OutputRecord, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	db, err := p.openPersistence(true)
	if err != nil {
		return nil, err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	var result []OutputRecord
	err = db.View(func(tx *bolt.Tx) error {
		root := tx.Bucket([]byte(BucketOutputs))
		if root == nil {
			return os.ErrNotExist
		}
		b := root.Bucket([]byte(controllerId))
		if b == nil {
			return os.ErrNotExist
		}

		c := b.Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if limit > 0 && len(result) >= limit {
				break
			}
			var record OutputRecord
			err := json.Unmarshal(v, &record)
			if err != nil {
				ui.Warning("Unable to unmarshal journal record %d of %s: %v", binary.BigEndian.Uint64(k), controllerId, err)
				continue
			}
			result = append(result, record)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// records were collected newest first
	for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
		result[i], result[j] = result[j], result[i]
	}
	return result, nil
}

func (p persistence) DeleteOutputRecords(controllerId string) (err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	db, err := p.openPersistence(false)
	if err != nil {
		return err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	return db.Update(func(tx *bolt.Tx) error {
		root := tx.Bucket([]byte(BucketOutputs))
		if root == nil {
			return nil
		}
		err := root.DeleteBucket([]byte(controllerId))
		if errors.Is(err, bolt.ErrBucketNotFound) {
			return nil
		}
		return err
	})
}

func (p persistence) LoadControllerIds() ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	db, err := p.openPersistence(true)
	if err != nil {
		return nil, err
	}
	defer func(db *bolt.DB) {
		_ = db.Close()
	}(db)

	var result []string
	err = db.View(func(tx *bolt.Tx) error {
		root := tx.Bucket([]byte(BucketOutputs))
		if root == nil {
			return nil
		}
		return root.ForEach(func(k, v []byte) error {
			// nested buckets have no value
			if v == nil {
				result = append(result, string(k))
			}
			return nil
		})
	})
	return result, err
}

func sequenceKey(seq uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return key
}
