package compound

import (
	"errors"
	"time"
)

var (
	genesis int64 = 0
	// SecondsPerBlock seconds per block
	SecondsPerBlock int64 = 15
)

// SetupGenesis set the unix time of block 0
func SetupGenesis(_genesis int64) {
	genesis = _genesis
}

// BlockByTime get block by time
func BlockByTime(t time.Time) (int64, error) {
	if SecondsPerBlock <= 0 {
		return 0, errors.New("secondsPerBlock should not be less than or equal zero")
	}

	seconds := t.UTC().Unix() - genesis
	if seconds < 0 {
		return 0, errors.New("invalid blocks")
	}

	return seconds / SecondsPerBlock, nil
}
