package wizard_test

import "time"

const (
	timeoutShort = time.Second
	tick         = 5 * time.Millisecond
)
