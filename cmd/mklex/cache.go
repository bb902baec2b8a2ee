package main

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"

	"github.com/dekarrin/lexgen/internal/lexdef"
	"github.com/dekarrin/rezi"
)

// cacheKey is the content hash of a rule file's source text, used to name
// its cached compiled table so an unchanged rule file skips recompilation.
func cacheKey(source string) string {
	sum := sha256.Sum256([]byte(source))
	return hex.EncodeToString(sum[:])
}

func cachePath(dir, key string) string {
	return filepath.Join(dir, key+".rezi")
}

func loadCachedTable(dir, source string) (*lexdef.LexerDef, bool) {
	if dir == "" {
		return nil, false
	}
	data, err := os.ReadFile(cachePath(dir, cacheKey(source)))
	if err != nil {
		return nil, false
	}

	def := &lexdef.LexerDef{}
	n, err := rezi.DecBinary(data, def)
	if err != nil || n != len(data) {
		return nil, false
	}
	return def, true
}

func storeCachedTable(dir, source string, def *lexdef.LexerDef) error {
	if dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	data := rezi.EncBinary(def)
	return os.WriteFile(cachePath(dir, cacheKey(source)), data, 0o644)
}
