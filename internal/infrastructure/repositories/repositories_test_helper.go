package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createChainTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE chains (
		id TEXT PRIMARY KEY,
		network TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		chain_type TEXT NOT NULL,
		rpc_url TEXT NOT NULL,
		explorer_url TEXT,
		is_active BOOLEAN,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createTokenTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE tokens (
		id TEXT PRIMARY KEY,
		address TEXT NOT NULL,
		network TEXT NOT NULL,
		name TEXT NOT NULL,
		symbol TEXT NOT NULL,
		decimals INTEGER NOT NULL,
		standard TEXT NOT NULL,
		created_at DATETIME,
		updated_at DATETIME,
		UNIQUE(network, address)
	);`)
}

func createMetadataTables(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE token_metadata (
		id TEXT PRIMARY KEY,
		token_address TEXT NOT NULL,
		network TEXT NOT NULL,
		name TEXT NOT NULL,
		symbol TEXT NOT NULL,
		description TEXT,
		logo_url TEXT,
		website TEXT,
		twitter TEXT,
		telegram TEXT,
		discord TEXT,
		whitepaper TEXT,
		github TEXT,
		tags TEXT,
		verified BOOLEAN,
		last_updated_by TEXT,
		update_count INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME,
		updated_at DATETIME,
		UNIQUE(network, token_address)
	);`)
	mustExec(t, db, `CREATE TABLE token_metadata_history (
		id TEXT PRIMARY KEY,
		token_address TEXT NOT NULL,
		network TEXT NOT NULL,
		updated_by TEXT NOT NULL,
		previous_data TEXT NOT NULL,
		created_at DATETIME
	);`)
}

func createSessionTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE temporary_metadata (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL UNIQUE,
		creator_address TEXT NOT NULL,
		name TEXT NOT NULL,
		symbol TEXT NOT NULL,
		description TEXT,
		logo_data TEXT,
		website TEXT,
		twitter TEXT,
		telegram TEXT,
		discord TEXT,
		whitepaper TEXT,
		github TEXT,
		tags TEXT,
		expires_at DATETIME NOT NULL,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func seedChain(t *testing.T, db *gorm.DB, id, network, name, chainType, rpcURL string) {
	t.Helper()
	now := time.Now()
	mustExec(t, db, `INSERT INTO chains(id,network,name,chain_type,rpc_url,explorer_url,is_active,created_at,updated_at)
	VALUES (?,?,?,?,?,?,?,?,?)`, id, network, name, chainType, rpcURL, "", true, now, now)
}

func seedToken(t *testing.T, db *gorm.DB, id, address, network, name, symbol string) {
	t.Helper()
	now := time.Now()
	mustExec(t, db, `INSERT INTO tokens(id,address,network,name,symbol,decimals,standard,created_at,updated_at)
	VALUES (?,?,?,?,?,?,?,?,?)`, id, address, network, name, symbol, 18, "ERC20", now, now)
}
