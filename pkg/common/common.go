package common

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/labstack/gommon/random"
)

const (
	ENABLED  = "enabled"
	DISABLED = "disabled"
)

var snowflakeNode *snowflake.Node

func init() {
	var err error
	snowflakeNode, err = snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
}

// UUIDint64 returns a snowflake-based int64 identifier.
func UUIDint64() int64 {
	return snowflakeNode.Generate().Int64()
}

// SaleRef returns a short uppercase reference code used as the
// human-facing sale identifier, e.g. "A3F9ZK".
func SaleRef() string {
	return strings.ToUpper(random.String(6, random.Alphanumeric))
}

func GetSecretSalt() string {
	if v := os.Getenv("SMARTPOS_SECRET_SALT"); v != "" {
		return v
	}
	return "smartpos"
}

func Sha256HashWithSalt(src string, salt string) string {
	h := sha256.New()
	h.Write([]byte(src + salt))
	return hex.EncodeToString(h.Sum(nil))
}

// IsEmptyOrNA reports whether a string carries no useful value.
func IsEmptyOrNA(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.EqualFold(v, "n/a")
}
