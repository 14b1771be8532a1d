package cache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"sync"
	"time"
)

var (
	ErrCacheMiss    = errors.New("not found in cache")
	ErrCacheExpired = errors.New("cached record is expired")
	mutex           sync.Mutex
)

func InitializeCache(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
    CREATE TABLE IF NOT EXISTS results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		processedAt DATETIME,
		key TEXT,
		result TEXT
	)
`)
	if err != nil {
		return nil, err
	}

	return db, nil
}

// ResultKey derives the cache key for a document processed with a model.
func ResultKey(model string, doc []byte) string {
	sum := sha256.Sum256(doc)
	return model + "_" + hex.EncodeToString(sum[:])
}

// CheckCache returns the cached extraction result for the key, if present
// and still valid. A cacheDuration of 0 disables caching; -1 caches forever;
// any other value is the record lifetime in hours.
func CheckCache(client *sql.DB, key string, cacheDuration int) ([]byte, error) {
	if cacheDuration == 0 {
		return nil, nil
	}

	var result []byte
	var processedAt time.Time
	row := client.QueryRow("SELECT processedAt, result FROM results WHERE key = ? ORDER BY processedAt DESC LIMIT 1", key)
	err := row.Scan(&processedAt, &result)
	if err == sql.ErrNoRows {
		return nil, ErrCacheMiss
	} else if err != nil {
		return nil, err
	}

	if cacheDuration == -1 {
		return result, nil
	}

	if time.Since(processedAt) > time.Duration(cacheDuration)*time.Hour {
		return nil, ErrCacheExpired
	}

	return result, err
}

func StoreResult(client *sql.DB, key string, result []byte) error {
	mutex.Lock()
	defer mutex.Unlock()

	currentTime := time.Now()
	_, err := client.Exec("INSERT OR REPLACE INTO results (processedAt, key, result) VALUES (?, ?, ?)", currentTime, key, result)
	if err != nil {
		return err
	}

	return nil
}
