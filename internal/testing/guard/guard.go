// Package guard forces test mode when imported from test binaries, so main
// packages skip runtime side effects under go test.
package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("LEDGER_TEST_MODE") == "" {
			_ = os.Setenv("LEDGER_TEST_MODE", "1")
		}
	})
}
