package clock

import (
	"fmt"
	"time"

	"github.com/beevik/ntp"
)

// NTPSync returns a SyncFunc that queries the given NTP server for the
// local clock's offset.
func NTPSync(server string) SyncFunc {
	return func() (time.Duration, error) {
		resp, err := ntp.Query(server)
		if err != nil {
			return 0, fmt.Errorf("query %s: %w", server, err)
		}
		if err := resp.Validate(); err != nil {
			return 0, fmt.Errorf("response from %s: %w", server, err)
		}
		return resp.ClockOffset, nil
	}
}
