package storage

import (
	"strconv"

	"github.com/godruoyi/go-snowflake"
)

func newID() string {
	return strconv.FormatUint(snowflake.ID(), 16)
}
