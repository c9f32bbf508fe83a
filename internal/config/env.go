package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// EnvFile is the optional dotenv file at the workspace root.
const EnvFile = ".env"

// ApplyEnv overlays GASTOS_* variables onto cfg. Values come from the process
// environment or, failing that, from <root>/.env. A missing .env is fine.
func ApplyEnv(cfg *Config, root string) error {
	dotenv, err := godotenv.Read(filepath.Join(root, EnvFile))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("reading %s: %w", EnvFile, err)
	}
	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}

	strs := map[string]*string{
		"GASTOS_LEDGER_PATH":      &cfg.Ledger.Path,
		"GASTOS_RECEIPTS_DIR":     &cfg.Storage.ReceiptsDir,
		"GASTOS_RULES_PATH":       &cfg.Rules.Path,
		"GASTOS_LOG_LEVEL":        &cfg.Logging.Level,
		"GASTOS_INGEST_LOG":       &cfg.Logging.IngestLog,
		"GASTOS_ADDR":             &cfg.Server.Addr,
		"GASTOS_GIT_AUTHOR_NAME":  &cfg.Git.AuthorName,
		"GASTOS_GIT_AUTHOR_EMAIL": &cfg.Git.AuthorEmail,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}

	bools := map[string]*bool{
		"GASTOS_ARCHIVE":         &cfg.Storage.Archive,
		"GASTOS_GIT_AUTO_COMMIT": &cfg.Git.AutoCommit,
	}
	for key, dst := range bools {
		v, ok := lookup(key)
		if !ok {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = b
	}
	return nil
}
