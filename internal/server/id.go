package server

import "strconv"

func idN2S(id uint64) string {
	return strconv.FormatUint(id, 16)
}
