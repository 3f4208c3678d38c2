//go:build release

package log

import (
	"log"
	"os"
	"path/filepath"

	"github.com/cgddrd/samsung-frame-art/config"
)

// Release builds run unattended from a scheduler, so everything also lands in a
// rotating file under the user's home directory.
func init() {
	log.SetFlags(log.Ldate | log.Ltime)

	userHomeDir, err := os.UserHomeDir()
	if err != nil {
		log.Printf("Failed to get user home directory, file logging disabled: %v", err)
		return
	}
	logDir := filepath.Join(userHomeDir, config.LogSubDir)
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.Printf("Failed to create log directory, file logging disabled: %v", err)
		return
	}
	AddFile(filepath.Join(logDir, "frameart"+config.LogExt))
}
