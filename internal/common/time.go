package common

import "time"

// TimestampSecs returns the current unix time in seconds, as IPC headers carry it.
func TimestampSecs() uint32 {
	return uint32(time.Now().Unix())
}

// TimestampMsecs returns the current unix time in milliseconds, as packet headers carry it.
func TimestampMsecs() uint64 {
	return uint64(time.Now().UnixMilli())
}
